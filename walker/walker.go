// Package walker mirrors a source tree into a destination tree, one LLM
// exchange per qualifying file.
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bitrise-io/bitrise-plugins-gpt2code/filetype"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/llm"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/logger"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/output"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/reformat"
	"github.com/bitrise-io/bitrise-plugins-gpt2code/request"
)

// DefaultExcludeDirectories are never walked.
var DefaultExcludeDirectories = []string{".git"}

// Checker sends one file to the LLM.
type Checker interface {
	Check(ctx context.Context, handler request.Handler, fileContent, label string) ([]llm.LLMResponse, error)
}

// Config is resolved and validated before the walk starts.
type Config struct {
	SourceDirectory      string
	DestinationDirectory string
	// SkipFiles are paths relative to SourceDirectory.
	SkipFiles []string
	// ExcludeDirectories are relative directory paths compared segment by segment.
	ExcludeDirectories []string
	RequestID          int
	FullOutput         bool
	// ContinueOnOverflow skips a file whose request exceeds the context window
	// instead of ending the run.
	ContinueOnOverflow bool
}

// Summary counts what a run did.
type Summary struct {
	Processed int
	Skipped   int
	Oversized int
}

type Orchestrator struct {
	cfg         Config
	catalog     *request.Catalog
	policy      *filetype.Policy
	checker     Checker
	sink        output.ContentSink
	reformatter *reformat.Reformatter

	skip     map[string]bool
	excludes [][]string
}

func New(cfg Config, catalog *request.Catalog, policy *filetype.Policy, checker Checker, sink output.ContentSink) *Orchestrator {
	cfg.SourceDirectory = filepath.Clean(cfg.SourceDirectory)
	cfg.DestinationDirectory = filepath.Clean(cfg.DestinationDirectory)
	cfg.ExcludeDirectories = withDefaultExcludes(cfg.ExcludeDirectories)

	o := &Orchestrator{
		cfg:         cfg,
		catalog:     catalog,
		policy:      policy,
		checker:     checker,
		sink:        sink,
		reformatter: reformat.New(policy.DestinationLabel(), policy.CommentPrefix(), cfg.FullOutput),
		skip:        map[string]bool{},
	}
	for _, file := range cfg.SkipFiles {
		o.skip[filepath.Clean(file)] = true
	}
	for _, dir := range cfg.ExcludeDirectories {
		o.excludes = append(o.excludes, segments(filepath.Clean(dir)))
	}
	return o
}

// withDefaultExcludes adds DefaultExcludeDirectories to dirs when missing.
func withDefaultExcludes(dirs []string) []string {
	merged := append([]string(nil), dirs...)
	for _, dir := range DefaultExcludeDirectories {
		if !slices.Contains(merged, dir) {
			merged = append(merged, dir)
		}
	}
	return merged
}

func segments(rel string) []string {
	return strings.Split(filepath.ToSlash(rel), "/")
}

// excluded reports whether rel equals or lies under an excluded directory.
func (o *Orchestrator) excluded(rel string) bool {
	parts := segments(rel)
	for _, exclude := range o.excludes {
		if len(parts) < len(exclude) {
			continue
		}
		match := true
		for i := range exclude {
			if parts[i] != exclude[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Process runs the walk and logs, rather than returns, any error that ends it.
// Files written before the error stay in place.
func (o *Orchestrator) Process(ctx context.Context) Summary {
	summary, err := o.Run(ctx)
	if err != nil {
		logger.WarnWithStack("Caught error, leaving application.", err)
	}
	return summary
}

// Run walks the source tree and stops at the first error.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	var summary Summary
	destination, _ := filepath.Abs(o.cfg.DestinationDirectory)

	err := filepath.WalkDir(o.cfg.SourceDirectory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(o.cfg.SourceDirectory, path)
		if err != nil {
			return err
		}

		if d.IsDir() {
			if rel == "." {
				logger.Infof("Analyzing directory %s", path)
				return nil
			}
			if o.excluded(rel) {
				logger.Debugf("Skipping directory %s", rel)
				return filepath.SkipDir
			}
			if abs, _ := filepath.Abs(path); abs == destination {
				logger.Debugf("Skipping destination directory %s", rel)
				return filepath.SkipDir
			}
			logger.Infof("Analyzing directory %s", path)
			return nil
		}

		if o.skip[rel] {
			logger.Infof("Skipping file %s as per request", rel)
			summary.Skipped++
			return nil
		}
		if !d.Type().IsRegular() {
			logger.Debugf("Skipping %s: not a regular file", rel)
			summary.Skipped++
			return nil
		}
		if !o.policy.MatchesSource(d.Name()) {
			logger.Debugf("Skipping file %s with extension %s.", rel, filetype.Extension(d.Name()))
			summary.Skipped++
			return nil
		}

		if o.inPlace(path, rel) {
			logger.Warnf("Skipping file %s: destination is the source file itself", rel)
			summary.Skipped++
			return nil
		}

		if err := o.processFile(ctx, path, rel); err != nil {
			if o.cfg.ContinueOnOverflow && llm.IsContextWindowExceeded(err) {
				logger.Warnf("Skipping %s: %v", rel, err)
				summary.Oversized++
				return nil
			}
			return err
		}
		summary.Processed++
		return nil
	})

	logger.Infof("Processed %d files, skipped %d, oversized %d", summary.Processed, summary.Skipped, summary.Oversized)
	return summary, err
}

// inPlace reports whether the destination of rel resolves to the source file.
func (o *Orchestrator) inPlace(from, rel string) bool {
	source, err := filepath.Abs(from)
	if err != nil {
		return false
	}
	destination, err := filepath.Abs(o.policy.DestinationPath(o.cfg.DestinationDirectory, rel))
	if err != nil {
		return false
	}
	return source == destination
}

func (o *Orchestrator) processFile(ctx context.Context, from, rel string) error {
	// The source is read before the destination is truncated.
	content, err := os.ReadFile(from)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", from, err)
	}

	to := o.policy.DestinationPath(o.cfg.DestinationDirectory, rel)
	if err := os.MkdirAll(filepath.Dir(to), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", to, err)
	}

	logger.Infof("Processing %s into %s.", from, to)
	if err := o.sink.ConfigureOutputFile(to); err != nil {
		return err
	}

	handler := request.NewCodeHandler(o.catalog, o.cfg.RequestID, fmt.Sprintf(" (%s)", filepath.Base(from)))
	responses, err := o.checker.Check(ctx, handler, string(content), o.policy.DestinationLabel())
	if err != nil {
		return fmt.Errorf("failed to process %s: %w", rel, err)
	}

	for _, response := range responses {
		if err := o.sink.WriteContentToFile(o.reformatter.Reformat(response.Content)); err != nil {
			return err
		}
	}
	return nil
}
