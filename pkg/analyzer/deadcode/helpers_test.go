package deadcode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/reaper/pkg/ast"
	"github.com/panbanda/reaper/pkg/ast/treesitter"
	"github.com/stretchr/testify/require"
)

func parseRuby(t *testing.T, src string) ast.File {
	t.Helper()
	p := treesitter.New()
	t.Cleanup(p.Close)
	f, err := p.ParseSource([]byte(src), "test.rb")
	require.NoError(t, err)
	t.Cleanup(f.Close)
	return f
}

func collectDefs(t *testing.T, src string) []*Definition {
	t.Helper()
	defs, err := CollectDefinitions(parseRuby(t, src))
	require.NoError(t, err)
	return defs
}

func collectRefs(t *testing.T, src string, listeners ...SendListener) []Reference {
	t.Helper()
	refs, err := CollectReferences(parseRuby(t, src), NewRegistry(listeners...))
	require.NoError(t, err)
	return refs
}

func refNames(refs []Reference) []string {
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, r.Name)
	}
	return names
}

func findDef(defs []*Definition, qualified string) *Definition {
	for _, d := range defs {
		if d.QualifiedName == qualified {
			return d
		}
	}
	return nil
}

func writeFiles(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths = append(paths, path)
	}
	return dir, paths
}

// fakeNode is a hand-built syntax node for exercising collectors without a
// parser.
type fakeNode struct {
	kind     ast.Kind
	typ      string
	text     string
	children []ast.Node
	fields   map[string]ast.Node
	parent   ast.Node
}

func (n *fakeNode) Kind() ast.Kind { return n.kind }
func (n *fakeNode) Type() string   { return n.typ }
func (n *fakeNode) Text() string   { return n.text }
func (n *fakeNode) Location() ast.Location {
	return ast.Location{File: "fake.rb", StartLine: 3, StartColumn: 4, EndLine: 3, EndColumn: 9}
}
func (n *fakeNode) Field(name string) ast.Node {
	if f, ok := n.fields[name]; ok {
		return f
	}
	return nil
}
func (n *fakeNode) NamedChildren() []ast.Node { return n.children }
func (n *fakeNode) Parent() ast.Node          { return n.parent }

type fakeFile struct {
	root ast.Node
}

func (f *fakeFile) Path() string   { return "fake.rb" }
func (f *fakeFile) Root() ast.Node { return f.root }
func (f *fakeFile) Close()         {}

// recordingListener captures the sends it receives and references every
// literal argument.
type recordingListener struct {
	name     string
	triggers []string
	sends    []*Send
	rules    []IgnoreRule
}

func (l *recordingListener) Name() string       { return l.name }
func (l *recordingListener) Triggers() []string { return l.triggers }
func (l *recordingListener) OnSend(send *Send, emit Emitter) {
	l.sends = append(l.sends, send)
	for _, lit := range send.LiteralArgs() {
		emit.ReferenceMethod(lit.Value, lit.Node.Location())
	}
}
func (l *recordingListener) IgnoreRules() []IgnoreRule { return l.rules }
