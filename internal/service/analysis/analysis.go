package analysis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/panbanda/reaper/internal/cache"
	"github.com/panbanda/reaper/internal/lockfile"
	scannerSvc "github.com/panbanda/reaper/internal/service/scanner"
	"github.com/panbanda/reaper/pkg/analyzer"
	"github.com/panbanda/reaper/pkg/analyzer/deadcode"
	"github.com/panbanda/reaper/pkg/analyzer/deadcode/plugins"
	"github.com/panbanda/reaper/pkg/config"
	"github.com/panbanda/reaper/pkg/models"
	"github.com/panbanda/reaper/pkg/source"
)

// Service orchestrates a dead code run: plugin selection, ignore rules,
// caching and the analyzer itself.
type Service struct {
	config *config.Config
	cache  *cache.Cache
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithCache sets the per-file result cache. Without it the service opens the
// cache described by the configuration.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DeadCodeOptions configures dead code detection.
type DeadCodeOptions struct {
	ShowIgnored bool
	NoCache     bool
	OnProgress  analyzer.ProgressFunc
}

// DeadCodeResult holds the raw analysis and the report built from it.
type DeadCodeResult struct {
	Analysis *deadcode.Analysis
	Report   *models.DeadCodeReport
}

// AnalyzeDeadCode runs dead code detection over the scanned files. Files
// that fail to collect are listed in the report, never returned as errors.
func (s *Service) AnalyzeDeadCode(ctx context.Context, scan *scannerSvc.ScanResult, opts DeadCodeOptions) (*DeadCodeResult, error) {
	listeners, err := s.Listeners(scan)
	if err != nil {
		return nil, err
	}
	rules, err := s.IgnoreRules()
	if err != nil {
		return nil, err
	}

	store := s.cache
	if opts.NoCache {
		store = nil
	} else if store == nil {
		store, err = s.openCache()
		if err != nil {
			s.logger.Warn("cache unavailable", "dir", s.config.Cache.Dir, "error", err)
			store = nil
		}
	}

	analyzerOpts := []deadcode.Option{
		deadcode.WithListeners(listeners...),
		deadcode.WithIgnoreRules(rules...),
		deadcode.WithCache(store),
		deadcode.WithLogger(s.logger),
		deadcode.WithMaxFileSize(s.config.Files.MaxFileSize),
		deadcode.WithWorkers(s.config.DeadCode.Workers),
	}
	if scan.Source != nil {
		analyzerOpts = append(analyzerOpts, deadcode.WithSource(scan.Source))
	}

	dc := deadcode.New(analyzerOpts...)
	defer dc.Close()

	if opts.OnProgress != nil {
		ctx = analyzer.WithTracker(ctx, analyzer.NewTracker(opts.OnProgress))
	}
	result, err := dc.Analyze(ctx, scan.Files)
	if err != nil {
		return nil, err
	}

	reportOpts := deadcode.ReportOptions{Ref: scan.Ref, ShowIgnored: opts.ShowIgnored}
	if scan.Source == nil {
		reportOpts.Root = scan.Root
	}
	return &DeadCodeResult{
		Analysis: result,
		Report:   deadcode.NewReport(result, reportOpts),
	}, nil
}

// Listeners selects the send listeners for the scanned project from its
// lockfile and the configured plugin list.
func (s *Service) Listeners(scan *scannerSvc.ScanResult) ([]deadcode.SendListener, error) {
	var src source.ContentSource = source.NewFilesystem(0)
	if scan.Source != nil {
		src = scan.Source
	}
	listeners, err := plugins.SelectFromLockfile(src, s.lockfilePath(scan), s.config.DeadCode.Plugins, s.logger)
	if err != nil {
		return nil, fmt.Errorf("deadcode.plugins: %w", err)
	}
	return listeners, nil
}

// Plugins reports the plugin catalog and which listeners the scanned project
// selects.
func (s *Service) Plugins(scan *scannerSvc.ScanResult) (*models.PluginReport, error) {
	listeners, err := s.Listeners(scan)
	if err != nil {
		return nil, err
	}
	selected := make(map[string]bool, len(listeners))
	report := &models.PluginReport{Lockfile: s.lockfilePath(scan)}
	for _, l := range listeners {
		selected[l.Name()] = true
		report.Selected = append(report.Selected, l.Name())
	}
	for _, e := range plugins.Catalog {
		report.Plugins = append(report.Plugins, models.PluginInfo{
			Name:     e.Name,
			Gems:     e.Gems,
			Selected: selected[e.Name],
		})
	}
	return report, nil
}

// lockfilePath resolves the configured lockfile against the scan root. Git
// trees are addressed with slash-separated repository-relative paths.
func (s *Service) lockfilePath(scan *scannerSvc.ScanResult) string {
	name := s.config.DeadCode.Lockfile
	if name == "" {
		name = lockfile.DefaultName
	}
	if scan.Source != nil {
		return path.Join(scan.Root, filepath.ToSlash(name))
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(scan.Root, name)
}

// IgnoreRules compiles the configured ignore patterns.
func (s *Service) IgnoreRules() ([]deadcode.IgnoreRule, error) {
	dc := s.config.DeadCode
	specs := []struct {
		key      string
		kinds    []deadcode.Kind
		patterns []string
	}{
		{"ignore_methods", deadcode.MethodKinds, dc.IgnoreMethods},
		{"ignore_classes", []deadcode.Kind{deadcode.KindClass}, dc.IgnoreClasses},
		{"ignore_modules", []deadcode.Kind{deadcode.KindModule}, dc.IgnoreModules},
		{"ignore_constants", []deadcode.Kind{deadcode.KindConstant}, dc.IgnoreConstants},
	}

	var rules []deadcode.IgnoreRule
	for _, spec := range specs {
		if len(spec.patterns) == 0 {
			continue
		}
		rule, err := deadcode.NewPatternRule("config "+spec.key, deadcode.TargetName, spec.kinds, spec.patterns...)
		if err != nil {
			return nil, fmt.Errorf("deadcode.%s: %w", spec.key, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (s *Service) openCache() (*cache.Cache, error) {
	return cache.New(s.config.Cache.Dir, s.config.Cache.TTL, s.config.Cache.Enabled)
}

// Cache returns the configured cache, for maintenance commands.
func (s *Service) Cache() (*cache.Cache, error) {
	if s.cache != nil {
		return s.cache, nil
	}
	return s.openCache()
}
