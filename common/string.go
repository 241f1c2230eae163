package common

import "strings"

// WrapString breaks s into lines of at most width bytes, splitting at spaces where possible.
func WrapString(s string, width int) string {
	if width <= 0 {
		return s
	}
	var lines []string
	for len(s) > width {
		splitAt := width
		// Try to split at the last space before the specified width
		for i := width; i > 0; i-- {
			if s[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, s[:splitAt])
		s = strings.TrimLeft(s[splitAt:], " ")
	}
	if len(s) > 0 {
		lines = append(lines, s)
	}
	return strings.Join(lines, "\n")
}

// IndentLines prefixes every line after the first with prefix.
func IndentLines(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}

// CleanList trims every entry and drops the empty ones, as left behind by "a, b,".
func CleanList(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	return cleaned
}
