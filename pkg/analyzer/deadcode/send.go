package deadcode

import (
	"sort"
	"strings"

	"github.com/panbanda/reaper/pkg/ast"
)

// Send is a method call observed in the source, as handed to listeners.
type Send struct {
	Name     string
	Receiver ast.Node // nil for implicit-self calls
	Args     []ast.Node
	Block    ast.Node // block literal or &block argument, nil when absent
	Location ast.Location
	// Owner is the enclosing namespace at the call site, nil at the top level.
	Owner       *Owner
	InSingleton bool
	InMethod    bool
}

// HasReceiver reports whether the call names an explicit receiver other than self.
func (s *Send) HasReceiver() bool {
	return s.Receiver != nil && s.Receiver.Kind() != ast.KindSelf
}

// ReceiverConstant returns the receiver as a constant path string (User,
// ActiveRecord::Base), or false when the receiver is not a literal constant.
func (s *Send) ReceiverConstant() (string, bool) {
	segments, _, ok := ast.ConstantPath(s.Receiver)
	if !ok {
		return "", false
	}
	return strings.Join(segments, "::"), true
}

// Positional returns the arguments that are neither keyword pairs, splats nor
// block arguments.
func (s *Send) Positional() []ast.Node {
	var out []ast.Node
	for _, arg := range s.Args {
		switch arg.Kind() {
		case ast.KindPair, ast.KindBlockArgument:
			continue
		}
		if strings.HasPrefix(arg.Type(), "splat") || strings.HasPrefix(arg.Type(), "hash_splat") {
			continue
		}
		out = append(out, arg)
	}
	return out
}

// LiteralArgs returns the values of positional symbol and string arguments,
// keeping their nodes for locations. Non-literal arguments are skipped.
func (s *Send) LiteralArgs() []Literal {
	var out []Literal
	for _, arg := range s.Positional() {
		if name, ok := ast.LiteralName(arg); ok {
			out = append(out, Literal{Value: name, Node: arg})
		}
	}
	return out
}

// Keywords returns the literal-keyed pairs passed to the call, including pairs
// inside a trailing braced hash.
func (s *Send) Keywords() []Keyword {
	var out []Keyword
	collect := func(pairs []ast.Node) {
		for _, pair := range pairs {
			if key, ok := ast.PairKey(pair); ok {
				out = append(out, Keyword{Key: key, Value: pair.Field("value"), Node: pair})
			}
		}
	}
	collect(s.Args)
	if n := len(s.Args); n > 0 && s.Args[n-1].Kind() == ast.KindHash {
		collect(s.Args[n-1].NamedChildren())
	}
	return out
}

// Keyword returns the value of the named keyword argument.
func (s *Send) Keyword(key string) (ast.Node, bool) {
	for _, kw := range s.Keywords() {
		if kw.Key == key {
			return kw.Value, kw.Value != nil
		}
	}
	return nil, false
}

// BlockArgumentSymbol returns the name in a `&:name` argument.
func (s *Send) BlockArgumentSymbol() (string, ast.Node, bool) {
	if s.Block == nil || s.Block.Kind() != ast.KindBlockArgument {
		return "", nil, false
	}
	for _, child := range s.Block.NamedChildren() {
		if name, ok := ast.SymbolValue(child); ok {
			return name, child, true
		}
	}
	return "", nil, false
}

// Literal is a symbol or string argument value.
type Literal struct {
	Value string
	Node  ast.Node
}

// Keyword is a literal-keyed hash pair argument.
type Keyword struct {
	Key   string
	Value ast.Node
	Node  ast.Node
}

// Emitter lets a listener contribute synthetic references.
type Emitter interface {
	ReferenceMethod(name string, loc ast.Location)
	ReferenceConstant(name string, loc ast.Location)
}

// SendListener recognizes a framework convention at call sites and turns it
// into references. Listeners must be stateless across files and must not
// fail; malformed or non-literal arguments are silently skipped.
type SendListener interface {
	// Name identifies the listener (usually the gem it models).
	Name() string
	// Triggers lists the method names the listener reacts to.
	Triggers() []string
	// OnSend is invoked for each matching call.
	OnSend(send *Send, emit Emitter)
}

// IgnoreProvider is implemented by listeners that also contribute ignore rules.
type IgnoreProvider interface {
	IgnoreRules() []IgnoreRule
}

// Registry dispatches sends to listeners by method name.
type Registry struct {
	listeners []SendListener
	byTrigger map[string][]SendListener
}

// NewRegistry indexes listeners by their trigger names. Listener order is
// preserved within each trigger.
func NewRegistry(listeners ...SendListener) *Registry {
	r := &Registry{
		listeners: listeners,
		byTrigger: make(map[string][]SendListener),
	}
	for _, l := range listeners {
		for _, name := range l.Triggers() {
			r.byTrigger[name] = append(r.byTrigger[name], l)
		}
	}
	return r
}

// Listeners returns the registered listeners in registration order.
func (r *Registry) Listeners() []SendListener {
	if r == nil {
		return nil
	}
	return r.listeners
}

// Names returns the registered listener names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Listeners()))
	for _, l := range r.Listeners() {
		names = append(names, l.Name())
	}
	return names
}

// Handles reports whether any listener is interested in name.
func (r *Registry) Handles(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.byTrigger[name]
	return ok
}

// Dispatch invokes every listener registered for send.Name. emitterFor builds
// the emitter handed to each listener so references can be tagged with it.
func (r *Registry) Dispatch(send *Send, emitterFor func(SendListener) Emitter) {
	if r == nil {
		return
	}
	for _, l := range r.byTrigger[send.Name] {
		l.OnSend(send, emitterFor(l))
	}
}

// IgnoreRules gathers the rules of listeners implementing IgnoreProvider.
func (r *Registry) IgnoreRules() []IgnoreRule {
	var rules []IgnoreRule
	for _, l := range r.Listeners() {
		if p, ok := l.(IgnoreProvider); ok {
			rules = append(rules, p.IgnoreRules()...)
		}
	}
	return rules
}

// Fingerprint identifies the listener set; results collected under one set
// are not valid under another.
func (r *Registry) Fingerprint() string {
	names := r.Names()
	sort.Strings(names)
	return strings.Join(names, ",")
}
