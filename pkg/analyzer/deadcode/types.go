package deadcode

import (
	"sort"

	"github.com/panbanda/reaper/pkg/ast"
)

// OpaqueName stands in for a namespace segment that is not a literal constant
// path, such as `class self.class::Foo` or `class << obj`.
const OpaqueName = "<dynamic>"

// Kind classifies a definition.
type Kind string

const (
	KindClass           Kind = "class"
	KindModule          Kind = "module"
	KindMethod          Kind = "method"
	KindSingletonMethod Kind = "singleton_method"
	KindAttrReader      Kind = "attr_reader"
	KindAttrWriter      Kind = "attr_writer"
	KindAttrAccessor    Kind = "attr_accessor"
	KindConstant        Kind = "constant"
)

// AllKinds lists every definition kind in report order.
var AllKinds = []Kind{
	KindClass,
	KindModule,
	KindConstant,
	KindMethod,
	KindSingletonMethod,
	KindAttrReader,
	KindAttrWriter,
	KindAttrAccessor,
}

// String returns the string representation.
func (k Kind) String() string {
	return string(k)
}

// IsMethodLike reports whether the kind is invoked through message sends.
func (k Kind) IsMethodLike() bool {
	switch k {
	case KindMethod, KindSingletonMethod, KindAttrReader, KindAttrWriter, KindAttrAccessor:
		return true
	}
	return false
}

// IsNamespace reports whether the kind opens a class or module body.
func (k Kind) IsNamespace() bool {
	return k == KindClass || k == KindModule
}

// Status is the reachability classification assigned during finalization.
type Status string

const (
	StatusUnknown Status = "unknown"
	StatusAlive   Status = "alive"
	StatusDead    Status = "dead"
	StatusIgnored Status = "ignored"
)

// String returns the string representation.
func (s Status) String() string {
	return string(s)
}

// Visibility is the Ruby method visibility in effect at the definition site.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
)

// Owner describes the class or module enclosing a definition.
type Owner struct {
	Name          string `json:"name" toon:"name"`
	QualifiedName string `json:"qualified_name" toon:"qualified_name"`
	Kind          Kind   `json:"kind" toon:"kind"`
	// Superclass is the literal superclass path as written, OpaqueName when it
	// is an arbitrary expression, or empty when the class declares none.
	Superclass string `json:"superclass,omitempty" toon:"superclass,omitempty"`
	Opaque     bool   `json:"opaque,omitempty" toon:"opaque,omitempty"`
}

// Definition is a named program entity that may or may not be used.
// Status and IgnoreReason are assigned once by Index.Finalize.
type Definition struct {
	Name          string       `json:"name" toon:"name"`
	QualifiedName string       `json:"qualified_name" toon:"qualified_name"`
	Kind          Kind         `json:"kind" toon:"kind"`
	Location      ast.Location `json:"location" toon:"location"`
	Owner         *Owner       `json:"owner,omitempty" toon:"owner,omitempty"`
	// Superclass is set on class definitions only, with the same encoding as
	// Owner.Superclass.
	Superclass   string     `json:"superclass,omitempty" toon:"superclass,omitempty"`
	Opaque       bool       `json:"opaque,omitempty" toon:"opaque,omitempty"`
	Visibility   Visibility `json:"visibility,omitempty" toon:"visibility,omitempty"`
	Override     bool       `json:"override,omitempty" toon:"override,omitempty"`
	Status       Status     `json:"status" toon:"status"`
	IgnoreReason string     `json:"ignore_reason,omitempty" toon:"ignore_reason,omitempty"`
}

// Names returns the names under which the definition can be referenced.
// An attr_accessor answers to both its reader and its writer.
func (d *Definition) Names() []string {
	if d.Kind == KindAttrAccessor {
		return []string{d.Name, d.Name + "="}
	}
	return []string{d.Name}
}

// OwnerName returns the qualified name of the enclosing namespace, or "".
func (d *Definition) OwnerName() string {
	if d.Owner == nil {
		return ""
	}
	return d.Owner.QualifiedName
}

// RefKind distinguishes method sends from constant reads.
type RefKind string

const (
	RefMethod   RefKind = "method"
	RefConstant RefKind = "constant"
)

// Reference is a use of a name somewhere in the source.
type Reference struct {
	Name     string       `json:"name" toon:"name"`
	Kind     RefKind      `json:"kind" toon:"kind"`
	Location ast.Location `json:"location" toon:"location"`
	// Source names the send listener that synthesized the reference; empty
	// for references read directly off the syntax tree.
	Source string `json:"source,omitempty" toon:"source,omitempty"`
}

// FileResult holds everything collected from a single file.
type FileResult struct {
	Path        string        `json:"path" toon:"path"`
	Definitions []*Definition `json:"definitions" toon:"definitions"`
	References  []Reference   `json:"references" toon:"references"`
}

// SortDefinitions orders definitions by file, then position.
func SortDefinitions(defs []*Definition) {
	sort.SliceStable(defs, func(i, j int) bool {
		a, b := defs[i].Location, defs[j].Location
		if a.File != b.File {
			return a.File < b.File
		}
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		return a.StartColumn < b.StartColumn
	})
}
