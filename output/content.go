package output

import (
	"errors"
	"fmt"
	"os"
)

// ContentSink receives the reformatted responses for one destination at a time.
type ContentSink interface {
	// ConfigureOutputFile creates or truncates path and makes it the current file.
	ConfigureOutputFile(path string) error
	// WriteContentToFile appends content and a newline to the current file.
	WriteContentToFile(content string) error
}

// Ensure FileSink implements ContentSink interface
var _ ContentSink = (*FileSink)(nil)

// FileSink writes to the local filesystem.
type FileSink struct {
	path string
}

func NewFileSink() *FileSink {
	return &FileSink{}
}

func (s *FileSink) ConfigureOutputFile(path string) error {
	if path == "" {
		return errors.New("output file name cannot be empty")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error initializing output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error initializing output file: %w", err)
	}

	s.path = path
	return nil
}

func (s *FileSink) WriteContentToFile(content string) error {
	if s.path == "" {
		return errors.New("output file name is not set")
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error opening output file %s: %w", s.path, err)
	}
	if _, err := f.WriteString(content + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("error writing output file %s: %w", s.path, err)
	}
	return f.Close()
}

// Path returns the current output file.
func (s *FileSink) Path() string {
	return s.path
}
