package deadcode

import (
	"path/filepath"
	"sort"

	"github.com/panbanda/reaper/pkg/ast"
	"github.com/panbanda/reaper/pkg/models"
)

// ReportOptions controls how an Analysis is turned into a report.
type ReportOptions struct {
	// Root, when set, makes absolute file paths relative to it.
	Root string
	// Ref is recorded on the report when the files came from a git revision.
	Ref string
	// ShowIgnored includes ignored definitions and their reasons.
	ShowIgnored bool
}

// ReportKinds lists the definition kinds in report order.
func ReportKinds() []models.DefinitionKind {
	kinds := make([]models.DefinitionKind, len(AllKinds))
	for i, k := range AllKinds {
		kinds[i] = models.DefinitionKind(k)
	}
	return kinds
}

// NewReport builds the output report for a finalized analysis. Dead
// definitions are ordered by file, then position.
func NewReport(a *Analysis, opts ReportOptions) *models.DeadCodeReport {
	stats := a.Index.Stats()

	report := &models.DeadCodeReport{
		Root:      opts.Root,
		Ref:       opts.Ref,
		Listeners: a.Listeners,
		Dead:      []models.DeadDefinition{},
		Summary:   models.NewDeadCodeSummary(),
	}
	report.Summary.TotalFilesAnalyzed = a.Files
	report.Summary.TotalFilesFailed = len(a.Errors)
	report.Summary.TotalDefinitions = stats.Definitions
	report.Summary.TotalReferences = stats.References
	report.Summary.TotalAlive = stats.Alive
	report.Summary.TotalIgnored = stats.Ignored

	for _, def := range a.Index.DeadDefinitions() {
		d := models.DeadDefinition{
			Kind:          models.DefinitionKind(def.Kind),
			QualifiedName: def.QualifiedName,
			Location:      reportLocation(def.Location, opts.Root),
		}
		report.Dead = append(report.Dead, d)
		report.Summary.AddDead(d)
	}
	report.Summary.CalculatePercentage()

	if opts.ShowIgnored {
		for _, def := range a.Index.IgnoredDefinitions() {
			report.Ignored = append(report.Ignored, models.IgnoredDefinition{
				Kind:          models.DefinitionKind(def.Kind),
				QualifiedName: def.QualifiedName,
				Location:      reportLocation(def.Location, opts.Root),
				Reason:        def.IgnoreReason,
			})
		}
	}

	for _, e := range a.Errors {
		report.Errors = append(report.Errors, models.CollectionError{
			File:  relativeTo(e.Path, opts.Root),
			Error: e.Err.Error(),
		})
	}
	return report
}

// LookupName lists the definitions answering to name with their status, and
// every reference to it. Positions are ordered by file, then line.
func LookupName(a *Analysis, name, root string) *models.NameLookup {
	lookup := &models.NameLookup{
		Name:        name,
		Definitions: []models.NameDefinition{},
		References:  []models.NameReference{},
	}

	defs := a.Index.DefinitionsForName(name)
	SortDefinitions(defs)
	for _, def := range defs {
		lookup.Definitions = append(lookup.Definitions, models.NameDefinition{
			Kind:          models.DefinitionKind(def.Kind),
			QualifiedName: def.QualifiedName,
			Location:      reportLocation(def.Location, root),
			Status:        def.Status.String(),
			Reason:        def.IgnoreReason,
		})
	}

	for _, ref := range a.Index.ReferencesTo(name) {
		lookup.References = append(lookup.References, models.NameReference{
			Kind:     string(ref.Kind),
			Location: reportLocation(ref.Location, root),
			Source:   ref.Source,
		})
	}
	sort.SliceStable(lookup.References, func(i, j int) bool {
		a, b := lookup.References[i].Location, lookup.References[j].Location
		if a.File != b.File {
			return a.File < b.File
		}
		return a.StartLine < b.StartLine
	})
	return lookup
}

func reportLocation(loc ast.Location, root string) models.Location {
	return models.Location{
		File:        relativeTo(loc.File, root),
		StartLine:   loc.StartLine,
		StartColumn: loc.StartColumn,
		EndLine:     loc.EndLine,
		EndColumn:   loc.EndColumn,
	}
}

func relativeTo(path, root string) string {
	if root == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
