package plugins

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/reaper/pkg/analyzer/deadcode"
	"github.com/panbanda/reaper/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(listeners []deadcode.SendListener) []string {
	out := make([]string, 0, len(listeners))
	for _, l := range listeners {
		out = append(out, l.Name())
	}
	return out
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		manifest map[string]string
		want     []string
	}{
		{"no manifest", nil, []string{"ruby"}},
		{"unrelated gems", map[string]string{"nokogiri": "1.16.0"}, []string{"ruby"}},
		{
			"catalog order",
			map[string]string{"rspec-core": "3.13.0", "railties": "7.1.3", "actionpack": "7.1.3"},
			[]string{"actionpack", "rails", "rspec", "ruby"},
		},
		{
			"plugin selected once",
			map[string]string{"sorbet": "0.5", "sorbet-runtime": "0.5"},
			[]string{"sorbet", "ruby"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Select(tt.manifest)))
		})
	}
}

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, len(Catalog)+1)
	assert.Equal(t, "ruby", all[len(all)-1].Name())

	seen := make(map[string]bool)
	for i, l := range all[:len(Catalog)] {
		assert.Equal(t, Catalog[i].Name, l.Name())
		assert.False(t, seen[l.Name()], "duplicate plugin %s", l.Name())
		seen[l.Name()] = true
	}
}

func TestSelectFromLockfile(t *testing.T) {
	dir := t.TempDir()
	lock := filepath.Join(dir, "Gemfile.lock")
	require.NoError(t, os.WriteFile(lock, []byte(`GEM
  remote: https://rubygems.org/
  specs:
    activejob (7.1.3)
      activesupport (= 7.1.3)
    activesupport (7.1.3)
    thor (1.3.0)

DEPENDENCIES
  activejob
`), 0o644))

	fsys := source.NewFilesystem(0)

	t.Run("lockfile", func(t *testing.T) {
		got, err := SelectFromLockfile(fsys, lock, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"activejob", "activesupport", "thor", "ruby"}, names(got))
	})

	t.Run("extra plugins", func(t *testing.T) {
		got, err := SelectFromLockfile(fsys, lock, []string{"rspec", "thor", "ruby"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"activejob", "activesupport", "rspec", "thor", "ruby"}, names(got))
	})

	t.Run("unknown plugin", func(t *testing.T) {
		_, err := SelectFromLockfile(fsys, lock, []string{"hanami"}, nil)
		assert.ErrorIs(t, err, ErrUnknownPlugin)
	})

	t.Run("missing", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

		got, err := SelectFromLockfile(fsys, filepath.Join(dir, "nope.lock"), nil, logger)
		require.NoError(t, err)
		assert.Equal(t, []string{"ruby"}, names(got))
		assert.Contains(t, logs.String(), "no lockfile")
		assert.NotContains(t, logs.String(), "level=WARN")
	})

	t.Run("unreadable", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))

		got, err := SelectFromLockfile(fsys, dir, nil, logger)
		require.NoError(t, err)
		assert.Equal(t, []string{"ruby"}, names(got))
		assert.Contains(t, logs.String(), "level=WARN")
	})
}

func TestSelectWith(t *testing.T) {
	got, err := SelectWith(nil, []string{"sorbet", "rails"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rails", "sorbet", "ruby"}, names(got))

	got, err = SelectWith(map[string]string{"rails": "7.1.0"}, []string{"rails"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rails", "ruby"}, names(got))
}

func TestNames(t *testing.T) {
	all := Names()
	assert.Len(t, all, len(Catalog)+1)
	assert.Equal(t, "actionmailer", all[0])
	assert.Equal(t, "ruby", all[len(all)-1])
	assert.Equal(t, all, names(All()))
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		listeners []deadcode.SendListener
		want      []string
	}{
		{
			name:  "unreferenced method",
			files: map[string]string{"foo.rb": "class Foo; def bar; end; end\n"},
			want:  []string{"Foo::bar"},
		},
		{
			name: "controller callback keeps method alive",
			files: map[string]string{
				"foo.rb":            "class Foo; def bar; end; end\n",
				"foo_controller.rb": "class FooController < ApplicationController\n  before_action :bar\nend\n",
			},
			listeners: []deadcode.SendListener{ActionPack(), Ruby()},
			want:      []string{},
		},
		{
			name: "callback without the plugin",
			files: map[string]string{
				"foo.rb":            "class Foo; def bar; end; end\n",
				"foo_controller.rb": "class FooController < ApplicationController\n  before_action :bar\nend\n",
			},
			want: []string{"Foo::bar", "FooController"},
		},
		{
			name:      "reflective send",
			files:     map[string]string{"foo.rb": "class Foo\n  def baz; end\nend\nFoo.new.send(:baz)\n"},
			listeners: []deadcode.SendListener{Ruby()},
			want:      []string{},
		},
		{
			name:  "reflective send without the plugin",
			files: map[string]string{"foo.rb": "class Foo\n  def baz; end\nend\nFoo.new.send(:baz)\n"},
			want:  []string{"Foo::baz"},
		},
		{
			name: "minitest methods",
			files: map[string]string{
				"foo_test.rb": "class FooTest < Minitest::Test\n  def setup; end\n  def test_something; end\n  def unused_helper; end\nend\n",
			},
			listeners: []deadcode.SendListener{Minitest(), Ruby()},
			want:      []string{"FooTest::unused_helper"},
		},
		{
			name: "model writers",
			files: map[string]string{
				"user.rb":   "class User < ApplicationRecord\n  attr_accessor :nickname\n  def legacy; end\nend\n",
				"script.rb": "User.create(nickname: \"x\")\n",
			},
			listeners: []deadcode.SendListener{ActiveRecord(), Ruby()},
			want:      []string{"User::legacy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analyze(t, tt.files, tt.listeners...))
		})
	}
}
