package deadcode

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// IgnoreRule exempts definitions from being reported dead.
type IgnoreRule interface {
	// Match reports whether def is ignored, with a short human-readable reason.
	Match(def *Definition) (reason string, ok bool)
}

// Target selects which attribute of a definition a PatternRule matches.
type Target uint8

const (
	// TargetName matches the definition's own short name.
	TargetName Target = iota
	// TargetSuperclass matches the superclass of a class definition.
	TargetSuperclass
	// TargetOwnerName matches the short name of the enclosing namespace.
	TargetOwnerName
	// TargetOwnerSuperclass matches the superclass of the enclosing class.
	TargetOwnerSuperclass
)

// matcher is an exact name or a compiled glob.
type matcher struct {
	pattern string
	g       glob.Glob
}

func (m matcher) match(s string) bool {
	if m.g != nil {
		return m.g.Match(s)
	}
	return m.pattern == s
}

// compilePattern treats a pattern containing '*' or '{' as a glob; anything
// else is matched literally so operator names like [] and == need no escaping.
func compilePattern(pattern string) (matcher, error) {
	if !strings.ContainsAny(pattern, "*{") {
		return matcher{pattern: pattern}, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return matcher{}, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
	}
	return matcher{pattern: pattern, g: g}, nil
}

// PatternRule ignores definitions of the given kinds whose target attribute
// matches one of its patterns.
type PatternRule struct {
	Reason   string
	target   Target
	kinds    map[Kind]bool
	matchers []matcher
}

// NewPatternRule compiles a pattern rule. A nil kinds slice matches every kind.
func NewPatternRule(reason string, target Target, kinds []Kind, patterns ...string) (*PatternRule, error) {
	r := &PatternRule{Reason: reason, target: target}
	if len(kinds) > 0 {
		r.kinds = make(map[Kind]bool, len(kinds))
		for _, k := range kinds {
			r.kinds[k] = true
		}
	}
	for _, p := range patterns {
		m, err := compilePattern(p)
		if err != nil {
			return nil, err
		}
		r.matchers = append(r.matchers, m)
	}
	return r, nil
}

// MustPatternRule is like NewPatternRule but panics on an invalid pattern.
// It is meant for static rule tables.
func MustPatternRule(reason string, target Target, kinds []Kind, patterns ...string) *PatternRule {
	r, err := NewPatternRule(reason, target, kinds, patterns...)
	if err != nil {
		panic(err)
	}
	return r
}

// MethodKinds lists the kinds invoked through message sends.
var MethodKinds = []Kind{KindMethod, KindSingletonMethod, KindAttrReader, KindAttrWriter, KindAttrAccessor}

// IgnoreMethodsNamed ignores methods and accessors by name.
func IgnoreMethodsNamed(reason string, patterns ...string) *PatternRule {
	return MustPatternRule(reason, TargetName, MethodKinds, patterns...)
}

// IgnoreClassesNamed ignores classes by name.
func IgnoreClassesNamed(reason string, patterns ...string) *PatternRule {
	return MustPatternRule(reason, TargetName, []Kind{KindClass}, patterns...)
}

// IgnoreModulesNamed ignores modules by name.
func IgnoreModulesNamed(reason string, patterns ...string) *PatternRule {
	return MustPatternRule(reason, TargetName, []Kind{KindModule}, patterns...)
}

// IgnoreConstantsNamed ignores constants by name.
func IgnoreConstantsNamed(reason string, patterns ...string) *PatternRule {
	return MustPatternRule(reason, TargetName, []Kind{KindConstant}, patterns...)
}

// IgnoreClassesInheritingFrom ignores classes whose superclass matches.
func IgnoreClassesInheritingFrom(reason string, patterns ...string) *PatternRule {
	return MustPatternRule(reason, TargetSuperclass, []Kind{KindClass}, patterns...)
}

// IgnoreMethodsInClassesInheritingFrom ignores methods defined in classes
// whose superclass matches.
func IgnoreMethodsInClassesInheritingFrom(reason string, patterns ...string) *PatternRule {
	return MustPatternRule(reason, TargetOwnerSuperclass, MethodKinds, patterns...)
}

// IgnoreMethodsInClassesNamed ignores methods defined in matching namespaces.
func IgnoreMethodsInClassesNamed(reason string, patterns ...string) *PatternRule {
	return MustPatternRule(reason, TargetOwnerName, MethodKinds, patterns...)
}

// IgnoreConstantsInClassesInheritingFrom ignores constants defined directly
// in classes whose superclass matches.
func IgnoreConstantsInClassesInheritingFrom(reason string, patterns ...string) *PatternRule {
	return MustPatternRule(reason, TargetOwnerSuperclass, []Kind{KindConstant}, patterns...)
}

// Match implements IgnoreRule.
func (r *PatternRule) Match(def *Definition) (string, bool) {
	if r.kinds != nil && !r.kinds[def.Kind] {
		return "", false
	}
	value, ok := r.value(def)
	if !ok {
		return "", false
	}
	for _, m := range r.matchers {
		if m.match(value) {
			return fmt.Sprintf("%s (%s)", r.Reason, m.pattern), true
		}
	}
	return "", false
}

func (r *PatternRule) value(def *Definition) (string, bool) {
	switch r.target {
	case TargetName:
		return def.Name, true
	case TargetSuperclass:
		return def.Superclass, def.Superclass != ""
	case TargetOwnerName:
		if def.Owner == nil {
			return "", false
		}
		return def.Owner.Name, true
	case TargetOwnerSuperclass:
		if def.Owner == nil || def.Owner.Superclass == "" {
			return "", false
		}
		return def.Owner.Superclass, true
	}
	return "", false
}

// PredicateRule ignores definitions accepted by an arbitrary function.
type PredicateRule struct {
	Reason string
	Fn     func(*Definition) bool
}

// Match implements IgnoreRule.
func (r PredicateRule) Match(def *Definition) (string, bool) {
	if r.Fn(def) {
		return r.Reason, true
	}
	return "", false
}

// OverrideRule ignores methods annotated as overriding or overridable, which
// are reached through dispatch from code that is not analyzed.
type OverrideRule struct{}

// Match implements IgnoreRule.
func (OverrideRule) Match(def *Definition) (string, bool) {
	if def.Override {
		return "override", true
	}
	return "", false
}

// namespaceRule ignores classes and modules that own other definitions; a
// namespace is kept alive by whatever lives inside it.
type namespaceRule struct {
	owners map[string]bool
}

func newNamespaceRule(defs []*Definition) namespaceRule {
	owners := make(map[string]bool)
	for _, def := range defs {
		if def.Owner != nil && !def.Owner.Opaque {
			owners[def.Owner.QualifiedName] = true
		}
	}
	return namespaceRule{owners: owners}
}

// Match implements IgnoreRule.
func (r namespaceRule) Match(def *Definition) (string, bool) {
	if !def.Kind.IsNamespace() || def.Opaque {
		return "", false
	}
	if r.owners[def.QualifiedName] {
		return "namespace", true
	}
	return "", false
}

// matchRules returns the first matching rule's reason.
func matchRules(rules []IgnoreRule, def *Definition) (string, bool) {
	for _, rule := range rules {
		if reason, ok := rule.Match(def); ok {
			return reason, true
		}
	}
	return "", false
}
