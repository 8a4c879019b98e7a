package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"
)

// Language represents a supported source language.
type Language string

const (
	LangRuby    Language = "ruby"
	LangERB     Language = "erb"
	LangUnknown Language = "unknown"
)

var (
	// ErrUnsupportedLanguage is returned when a file's language cannot be parsed.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrSyntax is returned when the parsed tree contains error or missing nodes.
	ErrSyntax = errors.New("syntax error")
)

// Parser wraps tree-sitter for Ruby and ERB parsing.
// A Parser is not safe for concurrent use; create one per goroutine.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed AST and metadata.
type ParseResult struct {
	Tree     *sitter.Tree
	Language Language
	// Source is the Ruby source the tree was built from. For ERB templates this
	// is the converted source, byte-aligned with the original template.
	Source []byte
	Path   string
}

// New creates a new parser instance.
func New() *Parser {
	return &Parser{
		parser: sitter.NewParser(),
	}
}

// ParseFile parses a source file and returns the AST.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	lang := DetectLanguage(path)
	if lang == LangUnknown {
		return nil, fmt.Errorf("%w for file: %s", ErrUnsupportedLanguage, path)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return p.Parse(source, lang, path)
}

// Parse parses source code with a specified language.
// Trees containing syntax errors are rejected with an error wrapping ErrSyntax.
func (p *Parser) Parse(source []byte, lang Language, path string) (*ParseResult, error) {
	tsLang, err := GetTreeSitterLanguage(lang)
	if err != nil {
		return nil, err
	}

	if lang == LangERB {
		source = ConvertERB(source)
	}

	p.parser.SetLanguage(tsLang)
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	root := tree.RootNode()
	if root.HasError() {
		bad := firstErrorNode(root)
		tree.Close()
		if bad == nil {
			return nil, fmt.Errorf("%w in %s", ErrSyntax, path)
		}
		return nil, fmt.Errorf("%w in %s at line %d, column %d",
			ErrSyntax, path, bad.StartPoint().Row+1, bad.StartPoint().Column)
	}

	return &ParseResult{
		Tree:     tree,
		Language: lang,
		Source:   source,
		Path:     path,
	}, nil
}

// firstErrorNode returns the first ERROR or MISSING node in document order.
func firstErrorNode(root *sitter.Node) *sitter.Node {
	var found *sitter.Node
	Walk(root, nil, func(node *sitter.Node, _ []byte) bool {
		if found != nil {
			return false
		}
		if node.Type() == "ERROR" || node.IsMissing() {
			found = node
			return false
		}
		return node.HasError()
	})
	return found
}

// GetTreeSitterLanguage returns the tree-sitter grammar for a Language.
// ERB templates are parsed with the Ruby grammar after conversion.
func GetTreeSitterLanguage(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangRuby, LangERB:
		return ruby.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
}

// rubyFilenames are extensionless files conventionally containing Ruby.
var rubyFilenames = map[string]bool{
	"rakefile":    true,
	"gemfile":     true,
	"guardfile":   true,
	"capfile":     true,
	"podfile":     true,
	"vagrantfile": true,
}

// DetectLanguage determines the language from a file path.
func DetectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	base := strings.ToLower(filepath.Base(path))

	if rubyFilenames[base] {
		return LangRuby
	}

	switch ext {
	case ".rb", ".rake", ".gemspec", ".ru", ".rbi":
		return LangRuby
	case ".erb":
		return LangERB
	default:
		return LangUnknown
	}
}

// HasRubyShebang reports whether source starts with a shebang invoking ruby.
func HasRubyShebang(source []byte) bool {
	if !bytes.HasPrefix(source, []byte("#!")) {
		return false
	}
	line := source
	if i := bytes.IndexByte(source, '\n'); i >= 0 {
		line = source[:i]
	}
	return bytes.Contains(line, []byte("ruby"))
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// NodeVisitor is a function that visits AST nodes.
type NodeVisitor func(node *sitter.Node, source []byte) bool

// Walk traverses the AST calling visitor for each node.
// Returning false from the visitor skips the node's children.
func Walk(node *sitter.Node, source []byte, visitor NodeVisitor) {
	if node == nil {
		return
	}

	if !visitor(node, source) {
		return
	}

	for i := range int(node.ChildCount()) {
		Walk(node.Child(i), source, visitor)
	}
}

// GetNodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}
