// Package reformat turns a markdown flavoured LLM answer back into source code.
package reformat

import "strings"

const fence = "```"

type state int

const (
	outsideCode state = iota
	insideCode
)

// Reformatter keeps fenced code verbatim and drops, or comments out, everything else.
type Reformatter struct {
	openMarker    string
	commentPrefix string
	fullOutput    bool
}

// New returns a Reformatter that opens code blocks on "```" + label.
// With fullOutput, text outside code blocks is kept as commentPrefix comments.
func New(label, commentPrefix string, fullOutput bool) *Reformatter {
	return &Reformatter{
		openMarker:    fence + label,
		commentPrefix: commentPrefix,
		fullOutput:    fullOutput,
	}
}

// OpenMarker is the exact line that starts a code block.
func (r *Reformatter) OpenMarker() string {
	return r.openMarker
}

// Reformat processes every line of response exactly once.
func (r *Reformatter) Reformat(response string) string {
	current := outsideCode
	var out []string

	for _, line := range strings.Split(response, "\n") {
		// A closing fence leaves the block before its own output decision.
		if line == fence {
			current = outsideCode
		}

		switch current {
		case insideCode:
			out = append(out, line)
		case outsideCode:
			if r.fullOutput {
				out = append(out, r.commentPrefix+" "+line)
			}
		}

		// The opening marker is itself treated as outside text.
		if line == r.openMarker {
			current = insideCode
		}
	}

	return strings.Join(out, "\n")
}
