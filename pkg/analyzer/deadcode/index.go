package deadcode

import (
	"errors"

	"github.com/RoaringBitmap/roaring/v2"
)

// ErrNotFinalized is the panic value raised when an aliveness query runs
// before Finalize.
var ErrNotFinalized = errors.New("deadcode: index is not finalized")

// ErrFinalized is the panic value raised when the index is mutated after Finalize.
var ErrFinalized = errors.New("deadcode: index is already finalized")

// Index accumulates definitions and references from every file and resolves
// aliveness once everything has been added. It is not safe for concurrent
// mutation; collect per file in parallel and add the results serially.
type Index struct {
	defs      []*Definition
	byName    map[string][]uint32
	refs      map[string][]Reference
	refCount  int
	rules     []IgnoreRule
	alive     *roaring.Bitmap
	ignored   *roaring.Bitmap
	finalized bool
}

// NewIndex creates an empty index. The rules are evaluated in order during
// Finalize, ahead of the built-in override and namespace rules.
func NewIndex(rules ...IgnoreRule) *Index {
	return &Index{
		byName:  make(map[string][]uint32),
		refs:    make(map[string][]Reference),
		rules:   rules,
		alive:   roaring.New(),
		ignored: roaring.New(),
	}
}

// AddDefinitions registers definitions under each of their names.
func (ix *Index) AddDefinitions(defs []*Definition) {
	ix.mustBeOpen()
	for _, def := range defs {
		id := uint32(len(ix.defs))
		ix.defs = append(ix.defs, def)
		for _, name := range def.Names() {
			ix.byName[name] = append(ix.byName[name], id)
		}
	}
}

// AddReferences registers references by name.
func (ix *Index) AddReferences(refs []Reference) {
	ix.mustBeOpen()
	for _, ref := range refs {
		ix.refs[ref.Name] = append(ix.refs[ref.Name], ref)
	}
	ix.refCount += len(refs)
}

// AddFile registers everything collected from one file.
func (ix *Index) AddFile(r *FileResult) {
	ix.AddDefinitions(r.Definitions)
	ix.AddReferences(r.References)
}

// Finalize resolves every definition to alive, ignored or dead. A definition
// is alive when any reference shares one of its names, regardless of kind or
// namespace. Calling Finalize again is a no-op.
func (ix *Index) Finalize() {
	if ix.finalized {
		return
	}

	for name := range ix.refs {
		for _, id := range ix.byName[name] {
			ix.alive.Add(id)
		}
	}

	rules := make([]IgnoreRule, 0, len(ix.rules)+2)
	rules = append(rules, ix.rules...)
	rules = append(rules, OverrideRule{}, newNamespaceRule(ix.defs))

	for i, def := range ix.defs {
		id := uint32(i)
		if ix.alive.Contains(id) {
			def.Status = StatusAlive
			continue
		}
		if reason, ok := matchRules(rules, def); ok {
			ix.ignored.Add(id)
			def.Status = StatusIgnored
			def.IgnoreReason = reason
			continue
		}
		def.Status = StatusDead
	}
	ix.finalized = true
}

// Finalized reports whether Finalize has run.
func (ix *Index) Finalized() bool {
	return ix.finalized
}

func (ix *Index) mustBeOpen() {
	if ix.finalized {
		panic(ErrFinalized)
	}
}

func (ix *Index) mustBeFinalized() {
	if !ix.finalized {
		panic(ErrNotFinalized)
	}
}

// Definitions returns every definition in insertion order.
func (ix *Index) Definitions() []*Definition {
	return ix.defs
}

// ReferencesTo returns the references recorded for name.
func (ix *Index) ReferencesTo(name string) []Reference {
	return ix.refs[name]
}

// DefinitionsForName returns the definitions answering to name.
func (ix *Index) DefinitionsForName(name string) []*Definition {
	ix.mustBeFinalized()
	ids := ix.byName[name]
	out := make([]*Definition, 0, len(ids))
	for _, id := range ids {
		out = append(out, ix.defs[id])
	}
	return out
}

// DeadDefinitions returns the dead definitions ordered by location.
func (ix *Index) DeadDefinitions() []*Definition {
	return ix.withStatus(StatusDead)
}

// AliveDefinitions returns the definitions kept alive by a reference.
func (ix *Index) AliveDefinitions() []*Definition {
	return ix.withStatus(StatusAlive)
}

// IgnoredDefinitions returns the unreferenced definitions exempted by a rule.
func (ix *Index) IgnoredDefinitions() []*Definition {
	return ix.withStatus(StatusIgnored)
}

func (ix *Index) withStatus(status Status) []*Definition {
	ix.mustBeFinalized()
	var out []*Definition
	for _, def := range ix.defs {
		if def.Status == status {
			out = append(out, def)
		}
	}
	SortDefinitions(out)
	return out
}

// Stats summarizes a finalized index.
type Stats struct {
	Definitions int `json:"definitions" toon:"definitions"`
	References  int `json:"references" toon:"references"`
	Alive       int `json:"alive" toon:"alive"`
	Ignored     int `json:"ignored" toon:"ignored"`
	Dead        int `json:"dead" toon:"dead"`
}

// Stats returns definition and reference counts.
func (ix *Index) Stats() Stats {
	ix.mustBeFinalized()
	alive := int(ix.alive.GetCardinality())
	ignored := int(ix.ignored.GetCardinality())
	return Stats{
		Definitions: len(ix.defs),
		References:  ix.refCount,
		Alive:       alive,
		Ignored:     ignored,
		Dead:        len(ix.defs) - alive - ignored,
	}
}
