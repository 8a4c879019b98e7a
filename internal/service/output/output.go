// Package output is the destination side of rendering: where output goes,
// in which format, and whether it is colored.
package output

import (
	"bytes"
	"io"
	"os"

	"github.com/panbanda/reaper/internal/output"
)

// Format is an output encoding.
type Format = output.Format

const (
	FormatText     = output.FormatText
	FormatJSON     = output.FormatJSON
	FormatMarkdown = output.FormatMarkdown
	FormatTOON     = output.FormatTOON
	FormatSARIF    = output.FormatSARIF
)

// Service writes rendered results to stdout, a writer or a file.
type Service struct {
	format    Format
	formatSet bool
	writer    io.Writer
	colored   bool
	filePath  string
	file      *os.File
}

// Option configures a Service.
type Option func(*Service)

// WithFormat sets the output format. Without it, a file destination picks
// the format from its extension, and everything else gets text.
func WithFormat(f Format) Option {
	return func(s *Service) {
		s.format = f
		s.formatSet = true
	}
}

// WithWriter sets the destination writer.
func WithWriter(w io.Writer) Option {
	return func(s *Service) {
		s.writer = w
	}
}

// WithColor enables or disables ANSI color in text output.
func WithColor(enabled bool) Option {
	return func(s *Service) {
		s.colored = enabled
	}
}

// WithFile sends output to path, truncating it. Empty means no file.
func WithFile(path string) Option {
	return func(s *Service) {
		s.filePath = path
	}
}

// New creates the service, creating the output file if one was named.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		format:  FormatText,
		writer:  os.Stdout,
		colored: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.filePath != "" {
		if f, ok := output.FormatForPath(s.filePath); ok && !s.formatSet {
			s.format = f
		}
		f, err := os.Create(s.filePath)
		if err != nil {
			return nil, err
		}
		s.file = f
		s.writer = f
		s.colored = false
	}
	return s, nil
}

// Close closes the output file, if any.
func (s *Service) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

func (s *Service) Format() Format    { return s.format }
func (s *Service) Writer() io.Writer { return s.writer }
func (s *Service) Colored() bool     { return s.colored }

// Output writes data to the destination in the configured format.
func (s *Service) Output(data any) error {
	return output.Write(s.writer, s.format, s.colored, data)
}

// Sprint renders data to a string in the configured format, uncolored.
func (s *Service) Sprint(data any) (string, error) {
	var buf bytes.Buffer
	if err := output.Write(&buf, s.format, false, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ParseFormat resolves a format name; see output.ParseFormat.
func ParseFormat(name string) (Format, error) {
	return output.ParseFormat(name)
}
