// Package filetype decides which source files qualify for a run and how the
// generated output is named and commented.
package filetype

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/request"
)

// Options carries the language name and the explicit --force-* overrides.
type Options struct {
	Language string
	// SourcePatterns and CommentString switch to the catch-all policy when set.
	SourcePatterns []string
	CommentString  *string
	// DestinationExtension is appended to generated files, without the dot.
	DestinationExtension string
	// DestinationLabel replaces the language name in prompts and code fences.
	DestinationLabel string
}

// Policy is immutable once built.
type Policy struct {
	label              string
	patterns           []string
	matchers           []*regexp.Regexp
	comment            string
	generatedExtension string

	forcedComment   bool
	forcedExtension bool
}

// New builds the policy for opts. Explicit patterns or comment string take
// priority over the language lookup.
func New(opts Options) (*Policy, error) {
	name := strings.ToLower(strings.TrimSpace(opts.Language))
	label := opts.DestinationLabel
	if label == "" {
		label = name
	}

	p := &Policy{
		label:           label,
		forcedComment:   opts.CommentString != nil,
		forcedExtension: opts.DestinationExtension != "",
	}
	if p.forcedExtension {
		p.generatedExtension = "." + strings.TrimPrefix(opts.DestinationExtension, ".")
	}

	switch {
	case len(opts.SourcePatterns) > 0 || opts.CommentString != nil:
		p.catchAll(opts.SourcePatterns)
		if opts.CommentString != nil {
			p.comment = *opts.CommentString
		}
	case name == LanguageAll:
		p.catchAll(nil)
	case name == LanguagePlantUML:
		for _, source := range plantUMLSources {
			p.patterns = append(p.patterns, languages[source].patterns...)
		}
		p.comment = "'"
		p.generatedExtension = plantUMLExtension
	case name == "":
		return nil, errors.New("a language name or source file type patterns are required")
	default:
		lang, ok := languages[name]
		if !ok {
			return nil, fmt.Errorf("unsupported language: %s (supported: %s)", opts.Language, strings.Join(Languages(), ", "))
		}
		p.patterns = append(p.patterns, lang.patterns...)
		p.comment = lang.comment
	}

	if p.label == "" {
		p.label = LanguageAll
	}

	for _, pattern := range p.patterns {
		// Anchored right after the dot; alternations stay inside the extension body.
		re, err := regexp.Compile(`^\.(?:` + pattern + `)`)
		if err != nil {
			return nil, fmt.Errorf("invalid source file type pattern %q: %w", pattern, err)
		}
		p.matchers = append(p.matchers, re)
	}
	return p, nil
}

func (p *Policy) catchAll(patterns []string) {
	p.patterns = patterns
	if len(p.patterns) == 0 {
		p.patterns = []string{CatchAllPattern}
	}
	if !p.forcedExtension {
		p.generatedExtension = allExtension
	}
}

// WithRequestOverrides applies the output overrides a request carries, unless
// the same setting was forced explicitly.
func (p *Policy) WithRequestOverrides(req request.Request) *Policy {
	updated := *p
	if req.CommentString != nil && !p.forcedComment {
		updated.comment = *req.CommentString
	}
	if req.OutputExtension != nil && !p.forcedExtension {
		updated.generatedExtension = "." + strings.TrimPrefix(*req.OutputExtension, ".")
	}
	return &updated
}

// Extension returns the final extension of name including its dot, or "".
// Leading dots belong to the name, so ".bashrc" has no extension.
func Extension(name string) string {
	base := strings.TrimLeft(filepath.Base(name), ".")
	i := strings.LastIndex(base, ".")
	if i < 0 {
		return ""
	}
	return base[i:]
}

// MatchesSource reports whether the extension of name matches any pattern.
func (p *Policy) MatchesSource(name string) bool {
	ext := Extension(name)
	if ext == "" {
		return false
	}
	for _, re := range p.matchers {
		if re.MatchString(ext) {
			return true
		}
	}
	return false
}

// DestinationPath mirrors rel, a path relative to the source root, under root.
func (p *Policy) DestinationPath(root, rel string) string {
	return filepath.Join(root, rel) + p.generatedExtension
}

// CommentPrefix returns the line comment marker, empty when none applies.
func (p *Policy) CommentPrefix() string {
	return p.comment
}

// DestinationLabel names the output language in prompts and code fences.
func (p *Policy) DestinationLabel() string {
	return p.label
}

// GeneratedExtension is appended to destination paths; "" keeps the source name.
func (p *Policy) GeneratedExtension() string {
	return p.generatedExtension
}

// SourcePatterns returns the extension patterns in evaluation order.
func (p *Policy) SourcePatterns() []string {
	return append([]string(nil), p.patterns...)
}
