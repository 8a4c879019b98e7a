package deadcode

import (
	"testing"

	"github.com/panbanda/reaper/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Dispatch(t *testing.T) {
	l := &recordingListener{name: "rec", triggers: []string{"validate"}}
	refs := collectRefs(t, "class User\n  validate :check_email, \"check_name\"\nend\n", l)

	require.Len(t, l.sends, 1)
	send := l.sends[0]
	assert.Equal(t, "validate", send.Name)
	assert.False(t, send.HasReceiver())
	assert.False(t, send.InMethod)
	require.NotNil(t, send.Owner)
	assert.Equal(t, "User", send.Owner.QualifiedName)

	var synthesized []string
	for _, r := range refs {
		if r.Source == "rec" {
			synthesized = append(synthesized, r.Name)
		}
	}
	assert.Equal(t, []string{"check_email", "check_name"}, synthesized)
}

func TestRegistry_DispatchOnlyTriggers(t *testing.T) {
	l := &recordingListener{name: "rec", triggers: []string{"before_action"}}
	collectRefs(t, "validate :a\nbefore_action :b\n", l)
	require.Len(t, l.sends, 1)
	assert.Equal(t, "before_action", l.sends[0].Name)
}

func TestRegistry_MultipleListenersShareTrigger(t *testing.T) {
	first := &recordingListener{name: "first", triggers: []string{"run"}}
	second := &recordingListener{name: "second", triggers: []string{"run"}}
	refs := collectRefs(t, "run :job\n", first, second)

	assert.Len(t, first.sends, 1)
	assert.Len(t, second.sends, 1)

	sources := map[string]bool{}
	for _, r := range refs {
		if r.Name == "job" {
			sources[r.Source] = true
		}
	}
	assert.Equal(t, map[string]bool{"first": true, "second": true}, sources)
}

func TestRegistry_NilSafe(t *testing.T) {
	var r *Registry
	assert.False(t, r.Handles("anything"))
	assert.Empty(t, r.Listeners())
	assert.Empty(t, r.IgnoreRules())
	assert.Equal(t, "", r.Fingerprint())
	r.Dispatch(&Send{Name: "x"}, nil)
}

func TestRegistry_IgnoreRulesAndFingerprint(t *testing.T) {
	rule := IgnoreMethodsNamed("framework hook", "perform")
	withRules := &recordingListener{name: "zeta", rules: []IgnoreRule{rule}}
	plain := &recordingListener{name: "alpha"}

	r := NewRegistry(withRules, plain)
	assert.Equal(t, []string{"zeta", "alpha"}, r.Names())
	assert.Equal(t, "alpha,zeta", r.Fingerprint())
	require.Len(t, r.IgnoreRules(), 1)
	assert.Same(t, rule, r.IgnoreRules()[0])
}

func TestSend_Helpers(t *testing.T) {
	l := &recordingListener{name: "rec", triggers: []string{"has_many", "find", "map", "helper"}}
	collectRefs(t, `has_many :posts, "tags", *extra, dependent: :destroy, :through => :memberships
Admin::User.find(1)
list.map(&:upcase)
self.helper
helper({ on: :ready? })
`, l)
	require.Len(t, l.sends, 5)

	t.Run("literal and keyword arguments", func(t *testing.T) {
		s := l.sends[0]
		var values []string
		for _, lit := range s.LiteralArgs() {
			values = append(values, lit.Value)
		}
		assert.Equal(t, []string{"posts", "tags"}, values)
		assert.Len(t, s.Positional(), 2)

		var keys []string
		for _, kw := range s.Keywords() {
			keys = append(keys, kw.Key)
		}
		assert.Equal(t, []string{"dependent", "through"}, keys)

		v, ok := s.Keyword("through")
		require.True(t, ok)
		name, _ := ast.LiteralName(v)
		assert.Equal(t, "memberships", name)

		_, ok = s.Keyword("missing")
		assert.False(t, ok)
	})

	t.Run("constant receiver", func(t *testing.T) {
		s := l.sends[1]
		assert.True(t, s.HasReceiver())
		recv, ok := s.ReceiverConstant()
		require.True(t, ok)
		assert.Equal(t, "Admin::User", recv)
	})

	t.Run("block argument symbol", func(t *testing.T) {
		s := l.sends[2]
		_, ok := s.ReceiverConstant()
		assert.False(t, ok)
		name, node, ok := s.BlockArgumentSymbol()
		require.True(t, ok)
		assert.Equal(t, "upcase", name)
		assert.NotNil(t, node)
	})

	t.Run("self receiver is implicit", func(t *testing.T) {
		assert.False(t, l.sends[3].HasReceiver())
		_, _, ok := l.sends[3].BlockArgumentSymbol()
		assert.False(t, ok)
	})

	t.Run("braced trailing hash", func(t *testing.T) {
		v, ok := l.sends[4].Keyword("on")
		require.True(t, ok)
		name, _ := ast.LiteralName(v)
		assert.Equal(t, "ready?", name)
	})
}

func TestSend_InMethodAndSingleton(t *testing.T) {
	l := &recordingListener{name: "rec", triggers: []string{"track"}}
	collectRefs(t, "class Foo\n  class << self\n    track :a\n  end\n  def run\n    track :b\n  end\nend\n", l)

	require.Len(t, l.sends, 2)
	assert.True(t, l.sends[0].InSingleton)
	assert.False(t, l.sends[0].InMethod)
	assert.False(t, l.sends[1].InSingleton)
	assert.True(t, l.sends[1].InMethod)
}

func TestEmitter_SkipsEmptyNames(t *testing.T) {
	c := &referenceCollector{}
	e := &emitter{c: c, source: "x"}
	e.ReferenceMethod("", ast.Location{})
	e.ReferenceConstant("", ast.Location{})
	e.ReferenceConstant("Foo", ast.Location{})

	require.Len(t, c.refs, 1)
	assert.Equal(t, Reference{Name: "Foo", Kind: RefConstant, Source: "x"}, c.refs[0])
}
