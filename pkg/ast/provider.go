package ast

import "fmt"

// Location is a source span. Lines are 1-based, columns are 0-based byte offsets.
type Location struct {
	File        string `json:"file" toon:"file"`
	StartLine   int    `json:"start_line" toon:"start_line"`
	StartColumn int    `json:"start_column" toon:"start_column"`
	EndLine     int    `json:"end_line" toon:"end_line"`
	EndColumn   int    `json:"end_column" toon:"end_column"`
}

// String formats the location as file:line:col-line:col.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d-%d:%d", l.File, l.StartLine, l.StartColumn, l.EndLine, l.EndColumn)
}

// Span returns a location running from the start of from to the end of to.
func Span(from, to Location) Location {
	return Location{
		File:        from.File,
		StartLine:   from.StartLine,
		StartColumn: from.StartColumn,
		EndLine:     to.EndLine,
		EndColumn:   to.EndColumn,
	}
}

// Node is a syntax tree node.
type Node interface {
	// Kind returns the engine-level classification of the node.
	Kind() Kind

	// Type returns the raw grammar type name.
	Type() string

	// Text returns the node's source text.
	Text() string

	// Location returns the node's source span.
	Location() Location

	// Field returns the child stored under a grammar field name, or nil.
	Field(name string) Node

	// NamedChildren returns the node's named children in source order.
	NamedChildren() []Node

	// Parent returns the enclosing node, or nil for the root.
	Parent() Node
}

// File is a parsed source file.
type File interface {
	// Path returns the file path.
	Path() string

	// Root returns the top-level node.
	Root() Node

	// Close releases the underlying tree.
	Close()
}

// Provider abstracts the parser producing syntax trees.
type Provider interface {
	// Parse reads and parses a file from disk.
	Parse(path string) (File, error)

	// ParseSource parses in-memory source, using path to pick the language.
	ParseSource(source []byte, path string) (File, error)

	// Close releases provider resources.
	Close()
}
