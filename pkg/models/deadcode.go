package models

import "sort"

// Location is a source span. Lines are 1-based, columns are 0-based.
type Location struct {
	File        string `json:"file" toon:"file"`
	StartLine   int    `json:"start_line" toon:"start_line"`
	StartColumn int    `json:"start_column" toon:"start_column"`
	EndLine     int    `json:"end_line" toon:"end_line"`
	EndColumn   int    `json:"end_column" toon:"end_column"`
}

// DeadDefinition is a definition no reference reaches.
type DeadDefinition struct {
	Kind          DefinitionKind `json:"kind" toon:"kind"`
	QualifiedName string         `json:"qualified_name" toon:"qualified_name"`
	Location      Location       `json:"location" toon:"location"`
}

// IgnoredDefinition is an unreferenced definition kept out of the dead set by
// an ignore rule.
type IgnoredDefinition struct {
	Kind          DefinitionKind `json:"kind" toon:"kind"`
	QualifiedName string         `json:"qualified_name" toon:"qualified_name"`
	Location      Location       `json:"location" toon:"location"`
	Reason        string         `json:"reason" toon:"reason"`
}

// DefinitionKind mirrors the analyzer's definition kinds in report output.
type DefinitionKind string

// FileDeadCode groups the dead definitions of one file.
type FileDeadCode struct {
	File        string           `json:"file" toon:"file"`
	Definitions []DeadDefinition `json:"definitions" toon:"definitions"`
}

// CollectionError records a file that could not be collected.
type CollectionError struct {
	File  string `json:"file" toon:"file"`
	Error string `json:"error" toon:"error"`
}

// DeadCodeSummary provides aggregate statistics.
type DeadCodeSummary struct {
	TotalFilesAnalyzed int            `json:"total_files_analyzed" toon:"total_files_analyzed"`
	TotalFilesFailed   int            `json:"total_files_failed" toon:"total_files_failed"`
	TotalDefinitions   int            `json:"total_definitions" toon:"total_definitions"`
	TotalReferences    int            `json:"total_references" toon:"total_references"`
	TotalAlive         int            `json:"total_alive" toon:"total_alive"`
	TotalIgnored       int            `json:"total_ignored" toon:"total_ignored"`
	TotalDead          int            `json:"total_dead" toon:"total_dead"`
	DeadPercentage     float64        `json:"dead_percentage" toon:"dead_percentage"`
	ByKind             map[string]int `json:"by_kind" toon:"by_kind"`
	ByFile             map[string]int `json:"by_file" toon:"by_file"`
}

// NewDeadCodeSummary creates an initialized summary.
func NewDeadCodeSummary() DeadCodeSummary {
	return DeadCodeSummary{
		ByKind: make(map[string]int),
		ByFile: make(map[string]int),
	}
}

// AddDead updates the summary with a dead definition.
func (s *DeadCodeSummary) AddDead(d DeadDefinition) {
	s.TotalDead++
	s.ByKind[string(d.Kind)]++
	s.ByFile[d.Location.File]++
}

// CalculatePercentage computes the share of definitions that are dead.
func (s *DeadCodeSummary) CalculatePercentage() {
	if s.TotalDefinitions > 0 {
		s.DeadPercentage = float64(s.TotalDead) / float64(s.TotalDefinitions) * 100
	}
}

// DeadCodeReport is the full result of a dead code run.
type DeadCodeReport struct {
	Root      string              `json:"root,omitempty" toon:"root,omitempty"`
	Ref       string              `json:"ref,omitempty" toon:"ref,omitempty"`
	Listeners []string            `json:"listeners" toon:"listeners"`
	Dead      []DeadDefinition    `json:"dead" toon:"dead"`
	Ignored   []IgnoredDefinition `json:"ignored,omitempty" toon:"ignored,omitempty"`
	Errors    []CollectionError   `json:"errors,omitempty" toon:"errors,omitempty"`
	Summary   DeadCodeSummary     `json:"summary" toon:"summary"`
}

// ByFile groups the dead definitions by file, in file order. Definitions keep
// their report order within a file.
func (r *DeadCodeReport) ByFile() []FileDeadCode {
	index := make(map[string]int)
	var groups []FileDeadCode
	for _, d := range r.Dead {
		i, ok := index[d.Location.File]
		if !ok {
			i = len(groups)
			index[d.Location.File] = i
			groups = append(groups, FileDeadCode{File: d.Location.File})
		}
		groups[i].Definitions = append(groups[i].Definitions, d)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].File < groups[j].File })
	return groups
}

// KindCounts returns the dead count per kind in the given order, skipping
// kinds with no dead definitions.
func (s *DeadCodeSummary) KindCounts(order []DefinitionKind) []KindCount {
	var out []KindCount
	for _, k := range order {
		if n := s.ByKind[string(k)]; n > 0 {
			out = append(out, KindCount{Kind: k, Count: n})
		}
	}
	return out
}

// KindCount pairs a kind with a count.
type KindCount struct {
	Kind  DefinitionKind `json:"kind" toon:"kind"`
	Count int            `json:"count" toon:"count"`
}

// NameLookup answers which definitions a name resolves to and where it is
// used.
type NameLookup struct {
	Name        string           `json:"name" toon:"name"`
	Definitions []NameDefinition `json:"definitions" toon:"definitions"`
	References  []NameReference  `json:"references" toon:"references"`
}

// NameDefinition is a definition answering to a looked-up name, with its
// reachability status.
type NameDefinition struct {
	Kind          DefinitionKind `json:"kind" toon:"kind"`
	QualifiedName string         `json:"qualified_name" toon:"qualified_name"`
	Location      Location       `json:"location" toon:"location"`
	Status        string         `json:"status" toon:"status"`
	Reason        string         `json:"reason,omitempty" toon:"reason,omitempty"`
}

// NameReference is a use of a looked-up name. Source names the plugin that
// synthesized it.
type NameReference struct {
	Kind     string   `json:"kind" toon:"kind"`
	Location Location `json:"location" toon:"location"`
	Source   string   `json:"source,omitempty" toon:"source,omitempty"`
}

// PluginInfo describes one framework plugin and the gems that activate it.
type PluginInfo struct {
	Name     string   `json:"name" toon:"name"`
	Gems     []string `json:"gems" toon:"gems"`
	Selected bool     `json:"selected" toon:"selected"`
}

// PluginReport lists the known plugins and the listeners a project selects.
type PluginReport struct {
	Lockfile string       `json:"lockfile" toon:"lockfile"`
	Plugins  []PluginInfo `json:"plugins" toon:"plugins"`
	Selected []string     `json:"selected" toon:"selected"`
}
