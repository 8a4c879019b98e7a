// Package deadcode finds Ruby classes, modules, methods, accessors and
// constants that are never referenced anywhere in a codebase.
//
// Each file is parsed and walked twice: once to collect definitions and once
// to collect references, with framework-aware send listeners turning macro
// calls such as `before_action :authenticate` into synthetic references.
// Results from every file are merged into an Index, which resolves aliveness
// by short-name matching once all files have been added.
package deadcode

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/panbanda/reaper/internal/cache"
	"github.com/panbanda/reaper/internal/fileproc"
	"github.com/panbanda/reaper/pkg/analyzer"
	"github.com/panbanda/reaper/pkg/ast/treesitter"
	"github.com/panbanda/reaper/pkg/parser"
	"github.com/panbanda/reaper/pkg/source"
)

// Analyzer runs dead code detection over a set of files.
type Analyzer struct {
	registry    *Registry
	rules       []IgnoreRule
	source      source.ContentSource
	cache       *cache.Cache
	logger      *slog.Logger
	maxFileSize int64
	workers     int
}

// Compile-time check that Analyzer implements analyzer.FileAnalyzer[*Analysis]
var _ analyzer.FileAnalyzer[*Analysis] = (*Analyzer)(nil)

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithListeners sets the send listeners, in dispatch order.
func WithListeners(listeners ...SendListener) Option {
	return func(a *Analyzer) {
		a.registry = NewRegistry(listeners...)
	}
}

// WithIgnoreRules adds ignore rules on top of those contributed by listeners.
func WithIgnoreRules(rules ...IgnoreRule) Option {
	return func(a *Analyzer) {
		a.rules = append(a.rules, rules...)
	}
}

// WithSource reads file contents from src instead of the filesystem.
func WithSource(src source.ContentSource) Option {
	return func(a *Analyzer) {
		a.source = src
	}
}

// WithCache reuses per-file results across runs.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMaxFileSize sets the maximum file size to analyze (0 = no limit).
// It only applies to the default filesystem source.
func WithMaxFileSize(maxSize int64) Option {
	return func(a *Analyzer) {
		a.maxFileSize = maxSize
	}
}

// WithWorkers sets the number of files collected concurrently (0 = 2x NumCPU).
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// New creates a new dead code analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		registry: NewRegistry(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.source == nil {
		a.source = source.NewFilesystem(a.maxFileSize)
	}
	return a
}

// Registry returns the listener registry in use.
func (a *Analyzer) Registry() *Registry {
	return a.registry
}

// Analysis is the outcome of a run: a finalized index plus the files that
// could not be collected.
type Analysis struct {
	Index     *Index
	Files     int
	Errors    []fileproc.ProcessingError
	Listeners []string
}

// Analyze collects every file concurrently, merges the results into an index
// and finalizes it. Files that fail to read or parse are skipped and reported
// in Analysis.Errors; they never abort the run. The only error returned is
// the context's, when it is cancelled before collection completes.
func (a *Analyzer) Analyze(ctx context.Context, files []string) (*Analysis, error) {
	tracker := analyzer.TrackerFromContext(ctx)
	if tracker != nil {
		tracker.SetTotal(len(files))
	}

	store := a.cache
	if store.Enabled() {
		store = store.WithSalt(a.registry.Fingerprint())
	}

	results, errs := fileproc.MapFilesN(ctx, files, a.workers, func(psr *parser.Parser, path string) (*FileResult, error) {
		result, err := a.collect(psr, store, path)
		if tracker != nil {
			tracker.Tick(path)
		}
		return result, err
	}, nil)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	rules := append(append([]IgnoreRule(nil), a.rules...), a.registry.IgnoreRules()...)
	ix := NewIndex(rules...)
	for _, r := range results {
		ix.AddFile(r)
	}
	ix.Finalize()

	analysis := &Analysis{
		Index:     ix,
		Files:     len(results),
		Errors:    errs.Sorted(),
		Listeners: a.registry.Names(),
	}
	for _, e := range analysis.Errors {
		a.logger.Warn("skipping file", "file", e.Path, "error", e.Err)
	}

	stats := ix.Stats()
	a.logger.Debug("deadcode analysis complete",
		"files", analysis.Files,
		"failed", len(analysis.Errors),
		"definitions", stats.Definitions,
		"references", stats.References,
		"dead", stats.Dead)
	return analysis, nil
}

// AnalyzeFile collects a single file without touching the cache.
func (a *Analyzer) AnalyzeFile(path string) (*FileResult, error) {
	psr := parser.New()
	defer psr.Close()
	return a.collect(psr, nil, path)
}

func (a *Analyzer) collect(psr *parser.Parser, store *cache.Cache, path string) (*FileResult, error) {
	content, err := a.source.Read(path)
	if err != nil {
		return nil, err
	}

	var cached FileResult
	if store.Load(path, content, &cached) {
		a.logger.Debug("cache hit", "file", path)
		return &cached, nil
	}

	lang := parser.DetectLanguage(path)
	if lang == parser.LangUnknown && parser.HasRubyShebang(content) {
		lang = parser.LangRuby
	}
	if lang == parser.LangUnknown {
		return nil, fmt.Errorf("%w: %s", parser.ErrUnsupportedLanguage, path)
	}

	parsed, err := psr.Parse(content, lang, path)
	if err != nil {
		return nil, err
	}
	file := treesitter.Wrap(parsed)
	defer file.Close()

	result, err := CollectFile(file, a.registry)
	if err != nil {
		return nil, err
	}

	if err := store.Store(path, content, result); err != nil {
		a.logger.Debug("cache write failed", "file", path, "error", err)
	}
	return result, nil
}

// Close releases any resources held by the analyzer.
func (a *Analyzer) Close() {}
