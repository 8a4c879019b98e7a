package plugins

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/reaper/pkg/analyzer/deadcode"
	"github.com/panbanda/reaper/pkg/ast/treesitter"
	"github.com/stretchr/testify/require"
)

// emitted returns the names referenced by the given listener for src.
func emitted(t *testing.T, l deadcode.SendListener, src string) []string {
	t.Helper()
	p := treesitter.New()
	t.Cleanup(p.Close)
	f, err := p.ParseSource([]byte(src), "test.rb")
	require.NoError(t, err)
	t.Cleanup(f.Close)

	refs, err := deadcode.CollectReferences(f, deadcode.NewRegistry(l))
	require.NoError(t, err)

	names := []string{}
	for _, r := range refs {
		if r.Source == l.Name() {
			names = append(names, r.Name)
		}
	}
	return names
}

// ignoredBy returns the reason def is ignored by l's rules.
func ignoredBy(l deadcode.SendListener, def *deadcode.Definition) (string, bool) {
	p, ok := l.(deadcode.IgnoreProvider)
	if !ok {
		return "", false
	}
	for _, rule := range p.IgnoreRules() {
		if reason, ok := rule.Match(def); ok {
			return reason, true
		}
	}
	return "", false
}

// analyze runs a full analysis over files written to a temp dir and returns
// the qualified names of the dead definitions.
func analyze(t *testing.T, files map[string]string, listeners ...deadcode.SendListener) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths = append(paths, path)
	}

	result, err := deadcode.New(deadcode.WithListeners(listeners...)).Analyze(context.Background(), paths)
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	dead := []string{}
	for _, d := range result.Index.DeadDefinitions() {
		dead = append(dead, d.QualifiedName)
	}
	return dead
}

func method(name, owner, superclass string) *deadcode.Definition {
	d := &deadcode.Definition{Name: name, QualifiedName: name, Kind: deadcode.KindMethod, Visibility: deadcode.VisibilityPublic}
	if owner != "" {
		d.QualifiedName = owner + "::" + name
		d.Owner = &deadcode.Owner{Name: owner, QualifiedName: owner, Kind: deadcode.KindClass, Superclass: superclass}
	}
	return d
}

func class(name, superclass string) *deadcode.Definition {
	return &deadcode.Definition{Name: name, QualifiedName: name, Kind: deadcode.KindClass, Superclass: superclass}
}
