package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/reaper/internal/vcs"
	"github.com/panbanda/reaper/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func relative(t *testing.T, root string, files []string) []string {
	t.Helper()
	root, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestNewScanner(t *testing.T) {
	s := NewScanner(nil)
	require.NotNil(t, s)
	assert.NotNil(t, s.config)

	cfg := config.DefaultConfig()
	assert.Same(t, cfg, NewScanner(cfg).config)
}

func TestScanDir(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"app/models/user.rb":          "class User; end\n",
		"app/views/users/show.erb":    "<%= 1 %>\n",
		"lib/tasks/db.rake":           "task :x\n",
		"reaper.gemspec":              "Gem::Specification.new\n",
		"config.ru":                   "run App\n",
		"Gemfile":                     "source 'https://rubygems.org'\n",
		"bin/setup":                   "#!/usr/bin/env ruby\nputs 1\n",
		"bin/deploy":                  "#!/bin/sh\necho 1\n",
		"app/assets/app.js":           "1;\n",
		"README.md":                   "# readme\n",
		"vendor/bundle/gems/x/x.rb":   "class X; end\n",
		"tmp/cache/y.rb":              "class Y; end\n",
		"node_modules/pkg/install.rb": "1\n",
	})

	files, err := NewScanner(nil).ScanDir(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Gemfile",
		"app/models/user.rb",
		"app/views/users/show.erb",
		"bin/setup",
		"config.ru",
		"lib/tasks/db.rake",
		"reaper.gemspec",
	}, relative(t, dir, files))
}

func TestScanDir_CustomConfig(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"app/models/user.rb": "class User; end\n",
		"db/schema.rb":       "ActiveRecord::Schema.define {}\n",
		"sorbet/rbi/x.rbi":   "class X; end\n",
		"lib/types.rbi":      "class T; end\n",
	})

	cfg := config.DefaultConfig()
	cfg.Files.Extensions = []string{".rb", ".rbi"}
	cfg.Exclude.Patterns = append(cfg.Exclude.Patterns, "db/*.rb")
	require.NoError(t, cfg.Validate())

	files, err := NewScanner(cfg).ScanDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"app/models/user.rb", "lib/types.rbi"}, relative(t, dir, files))
}

func TestScanDir_Gitignore(t *testing.T) {
	dir := writeTree(t, map[string]string{
		".gitignore":         "generated/\n*.tmp.rb\n",
		"app/user.rb":        "class User; end\n",
		"app/scratch.tmp.rb": "x\n",
		"generated/api.rb":   "class Api; end\n",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	files, err := NewScanner(nil).ScanDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"app/user.rb"}, relative(t, dir, files))

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false
	files, err = NewScanner(cfg).ScanDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"app/scratch.tmp.rb", "app/user.rb", "generated/api.rb"}, relative(t, dir, files))
}

func TestScanDir_SubdirectoryOfRepo(t *testing.T) {
	dir := writeTree(t, map[string]string{
		".gitignore":        "legacy/\n",
		"app/user.rb":       "class User; end\n",
		"app/legacy/old.rb": "class Old; end\n",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	files, err := NewScanner(nil).ScanDir(filepath.Join(dir, "app"))
	require.NoError(t, err)
	assert.Equal(t, []string{"app/user.rb"}, relative(t, dir, files))
}

func TestScanDir_SingleFile(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.rb": "1\n", "b.txt": "1\n"})

	files, err := NewScanner(nil).ScanDir(filepath.Join(dir, "a.rb"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.rb"}, relative(t, dir, files))

	files, err = NewScanner(nil).ScanDir(filepath.Join(dir, "b.txt"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanDir_Missing(t *testing.T) {
	_, err := NewScanner(nil).ScanDir(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScanDir_SymlinkOutsideRoot(t *testing.T) {
	outside := writeTree(t, map[string]string{"secret.rb": "class Secret; end\n"})
	dir := writeTree(t, map[string]string{"app/user.rb": "class User; end\n"})
	if err := os.Symlink(filepath.Join(outside, "secret.rb"), filepath.Join(dir, "app", "secret.rb")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := NewScanner(nil).ScanDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"app/user.rb"}, relative(t, dir, files))
}

func TestIsWithinRoot(t *testing.T) {
	tests := []struct {
		path, root string
		want       bool
	}{
		{"/repo/app/a.rb", "/repo", true},
		{"/repo", "/repo", true},
		{"/repo2/a.rb", "/repo", false},
		{"/repo/../etc/passwd", "/repo", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isWithinRoot(tt.path, tt.root), tt.path)
	}
}

type fakeTree struct {
	entries []vcs.TreeEntry
	err     error
}

func (f *fakeTree) Entries() ([]vcs.TreeEntry, error) { return f.entries, f.err }
func (f *fakeTree) File(string) ([]byte, error)       { return nil, errors.New("not implemented") }

func TestScanTree(t *testing.T) {
	tree := &fakeTree{entries: []vcs.TreeEntry{
		{Path: "app/models/user.rb"},
		{Path: "app/views/show.html.erb"},
		{Path: "Gemfile"},
		{Path: "bin/setup"},
		{Path: "vendor/bundle/x.rb"},
		{Path: "engines/billing/app/invoice.rb"},
		{Path: "engines/billing/vendor/y.rb"},
		{Path: "README.md"},
	}}
	s := NewScanner(nil)

	files, err := s.ScanTree(tree, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Gemfile",
		"app/models/user.rb",
		"app/views/show.html.erb",
		"engines/billing/app/invoice.rb",
		"engines/billing/vendor/y.rb",
	}, files)

	files, err = s.ScanTree(tree, "engines/billing")
	require.NoError(t, err)
	assert.Equal(t, []string{"engines/billing/app/invoice.rb"}, files)

	_, err = s.ScanTree(&fakeTree{err: errors.New("corrupt")}, "")
	assert.EqualError(t, err, "corrupt")
}
