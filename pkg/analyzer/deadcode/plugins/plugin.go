// Package plugins holds the framework-aware send listeners used by dead code
// analysis and selects the ones that apply to a project from its Gemfile.lock.
//
// Each plugin models the conventions of one gem: macro calls that name methods
// with symbols (`before_action :authenticate`), entry points the framework
// calls by convention (`perform`, `test_*`), and base classes whose
// subclasses are instantiated reflectively.
package plugins

import (
	"strings"
	"unicode"

	"github.com/panbanda/reaper/pkg/analyzer/deadcode"
	"github.com/panbanda/reaper/pkg/ast"
)

// plugin is the common SendListener implementation. The handler is optional;
// some plugins only contribute ignore rules.
type plugin struct {
	name     string
	triggers []string
	handler  func(send *deadcode.Send, emit deadcode.Emitter)
	rules    []deadcode.IgnoreRule
}

var (
	_ deadcode.SendListener   = (*plugin)(nil)
	_ deadcode.IgnoreProvider = (*plugin)(nil)
)

func (p *plugin) Name() string       { return p.name }
func (p *plugin) Triggers() []string { return p.triggers }

func (p *plugin) OnSend(send *deadcode.Send, emit deadcode.Emitter) {
	if p.handler != nil {
		p.handler(send, emit)
	}
}

func (p *plugin) IgnoreRules() []deadcode.IgnoreRule { return p.rules }

// union merges trigger lists, keeping the first occurrence of each name.
func union(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, name := range list {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// referenceArgs references every positional symbol or string argument as a method.
func referenceArgs(send *deadcode.Send, emit deadcode.Emitter) {
	for _, lit := range send.LiteralArgs() {
		emit.ReferenceMethod(lit.Value, lit.Node.Location())
	}
}

// referenceFirstArg references only the first positional literal.
func referenceFirstArg(send *deadcode.Send, emit deadcode.Emitter) {
	pos := send.Positional()
	if len(pos) == 0 {
		return
	}
	if name, ok := ast.LiteralName(pos[0]); ok {
		emit.ReferenceMethod(name, pos[0].Location())
	}
}

// referenceMethodValue references a symbol, a string, or every literal of an
// array (`if: :ready?`, `only: [:a, :b]`). Lambdas and other expressions are
// visited by the reference collector itself.
func referenceMethodValue(value ast.Node, emit deadcode.Emitter) {
	if value == nil {
		return
	}
	if name, ok := ast.LiteralName(value); ok {
		emit.ReferenceMethod(name, value.Location())
		return
	}
	if value.Kind() == ast.KindArray {
		for _, el := range value.NamedChildren() {
			if name, ok := ast.LiteralName(el); ok {
				emit.ReferenceMethod(name, el.Location())
			}
		}
	}
}

// referenceKeywords references the method names passed under the given keys.
func referenceKeywords(send *deadcode.Send, emit deadcode.Emitter, keys ...string) {
	for _, kw := range send.Keywords() {
		for _, key := range keys {
			if kw.Key == key {
				referenceMethodValue(kw.Value, emit)
			}
		}
	}
}

// referenceConditions handles the if:/unless: options shared by callbacks
// and validations.
func referenceConditions(send *deadcode.Send, emit deadcode.Emitter) {
	referenceKeywords(send, emit, "if", "unless")
}

// referenceWriters references `key=` for every literal hash key passed to a
// call that assigns attributes, including hashes inside an array argument
// (insert_all, upsert_all).
func referenceWriters(send *deadcode.Send, emit deadcode.Emitter) {
	for _, kw := range send.Keywords() {
		emit.ReferenceMethod(kw.Key+"=", kw.Node.Location())
	}
	for _, arg := range send.Positional() {
		if arg.Kind() != ast.KindArray {
			continue
		}
		for _, el := range arg.NamedChildren() {
			if el.Kind() == ast.KindHash {
				writersInHash(el, emit)
			}
		}
	}
}

func writersInHash(hash ast.Node, emit deadcode.Emitter) {
	for _, pair := range hash.NamedChildren() {
		if key, ok := ast.PairKey(pair); ok {
			emit.ReferenceMethod(key+"=", pair.Location())
		}
	}
}

// referenceConstantPath references each segment of "A::B::C" as a constant.
func referenceConstantPath(path string, loc ast.Location, emit deadcode.Emitter) {
	for _, segment := range strings.Split(path, "::") {
		emit.ReferenceConstant(segment, loc)
	}
}

// implicitSelf reports whether a macro was called without an explicit receiver.
func implicitSelf(send *deadcode.Send) bool {
	return !send.HasReceiver()
}

// camelize turns snake_case into CamelCase (presence -> Presence).
func camelize(s string) string {
	var sb strings.Builder
	upper := true
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
