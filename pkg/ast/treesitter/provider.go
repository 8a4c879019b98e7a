package treesitter

import (
	"fmt"

	"github.com/panbanda/reaper/pkg/ast"
	"github.com/panbanda/reaper/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Provider implements ast.Provider using tree-sitter.
// Like the underlying parser, a Provider must not be shared between goroutines.
type Provider struct {
	parser *parser.Parser
}

// New creates a new tree-sitter based provider.
func New() *Provider {
	return &Provider{
		parser: parser.New(),
	}
}

// Wrap adapts a result produced directly by a parser.Parser. The returned
// file owns the tree and releases it on Close.
func Wrap(result *parser.ParseResult) ast.File {
	return newFile(result)
}

// Parse reads and parses a Ruby or ERB file.
func (p *Provider) Parse(path string) (ast.File, error) {
	result, err := p.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return newFile(result), nil
}

// ParseSource parses in-memory source. The language is detected from path.
func (p *Provider) ParseSource(source []byte, path string) (ast.File, error) {
	lang := parser.DetectLanguage(path)
	if lang == parser.LangUnknown {
		return nil, fmt.Errorf("%w: %s", parser.ErrUnsupportedLanguage, path)
	}
	result, err := p.parser.Parse(source, lang, path)
	if err != nil {
		return nil, err
	}
	return newFile(result), nil
}

// Close releases parser resources.
func (p *Provider) Close() {
	p.parser.Close()
}

// file wraps a parser.ParseResult to implement ast.File.
type file struct {
	result *parser.ParseResult
}

func newFile(result *parser.ParseResult) *file {
	return &file{result: result}
}

func (f *file) Path() string {
	return f.result.Path
}

func (f *file) Root() ast.Node {
	return f.wrap(f.result.Tree.RootNode())
}

func (f *file) Close() {
	f.result.Tree.Close()
}

// wrap returns nil for a nil tree-sitter node so callers can compare against nil.
func (f *file) wrap(n *sitter.Node) ast.Node {
	if n == nil || n.IsNull() {
		return nil
	}
	return &node{n: n, f: f}
}

// node adapts *sitter.Node to ast.Node.
type node struct {
	n *sitter.Node
	f *file
}

func (n *node) Kind() ast.Kind {
	if n.n.IsMissing() {
		return ast.KindError
	}
	return ast.KindOf(n.n.Type())
}

func (n *node) Type() string {
	return n.n.Type()
}

func (n *node) Text() string {
	return parser.GetNodeText(n.n, n.f.result.Source)
}

func (n *node) Location() ast.Location {
	start := n.n.StartPoint()
	end := n.n.EndPoint()
	return ast.Location{
		File:        n.f.result.Path,
		StartLine:   int(start.Row) + 1,
		StartColumn: int(start.Column),
		EndLine:     int(end.Row) + 1,
		EndColumn:   int(end.Column),
	}
}

func (n *node) Field(name string) ast.Node {
	return n.f.wrap(n.n.ChildByFieldName(name))
}

func (n *node) NamedChildren() []ast.Node {
	count := int(n.n.NamedChildCount())
	if count == 0 {
		return nil
	}
	children := make([]ast.Node, 0, count)
	for i := range count {
		if child := n.f.wrap(n.n.NamedChild(i)); child != nil {
			children = append(children, child)
		}
	}
	return children
}

func (n *node) Parent() ast.Node {
	return n.f.wrap(n.n.Parent())
}
