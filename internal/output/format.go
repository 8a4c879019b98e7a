// Package output renders analysis results as text tables, markdown, JSON,
// TOON or SARIF.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	toon "github.com/toon-format/toon-go"
)

// Format is an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTOON     Format = "toon"
	FormatSARIF    Format = "sarif"
)

// ErrUnknownFormat is returned by ParseFormat for names it does not know.
var ErrUnknownFormat = errors.New("unknown output format")

// ErrNoSARIF is returned when SARIF output is requested for data that has no
// SARIF rendering.
var ErrNoSARIF = errors.New("output has no SARIF rendering")

// Formats lists the supported formats in help order.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatMarkdown, FormatTOON, FormatSARIF}
}

// ParseFormat resolves a format name, case-insensitively. "md" is accepted
// for markdown and the empty string means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "toon":
		return FormatTOON, nil
	case "sarif":
		return FormatSARIF, nil
	}
	return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, s, formatList())
}

// FormatForPath guesses a format from a file extension. ok is false for
// extensions with no associated format.
func FormatForPath(path string) (f Format, ok bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".md", ".markdown":
		return FormatMarkdown, true
	case ".toon":
		return FormatTOON, true
	case ".sarif":
		return FormatSARIF, true
	case ".txt":
		return FormatText, true
	}
	return "", false
}

func formatList() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// Renderable is data that lays itself out for humans and exposes its
// underlying value for the machine formats.
type Renderable interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
	RenderData() any
}

// SARIFRenderable is implemented by data that can describe itself as a SARIF
// log.
type SARIFRenderable interface {
	RenderSARIF() (*SARIFLog, bool)
}

// Write encodes data to w. Renderable values use their own layout for text
// and markdown. Other values are written as JSON, fenced in markdown.
func Write(w io.Writer, f Format, colored bool, data any) error {
	if f == FormatSARIF {
		if s, ok := data.(SARIFRenderable); ok {
			if log, ok := s.RenderSARIF(); ok {
				return writeJSON(w, log)
			}
		}
		return ErrNoSARIF
	}

	r, renderable := data.(Renderable)
	if renderable && f != FormatJSON && f != FormatTOON {
		if f == FormatMarkdown {
			return r.RenderMarkdown(w)
		}
		return r.RenderText(w, colored)
	}
	if renderable {
		data = r.RenderData()
	}

	switch f {
	case FormatTOON:
		return writeTOON(w, data)
	case FormatMarkdown:
		if _, err := fmt.Fprintln(w, "```json"); err != nil {
			return err
		}
		if err := writeJSON(w, data); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, "```")
		return err
	default:
		return writeJSON(w, data)
	}
}

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// writeTOON writes data as TOON, a compact encoding for LLM context.
func writeTOON(w io.Writer, data any) error {
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
