package scanner

import (
	"os"
	"path/filepath"

	"github.com/panbanda/reaper/internal/scanner"
	"github.com/panbanda/reaper/internal/vcs"
	"github.com/panbanda/reaper/pkg/config"
	"github.com/panbanda/reaper/pkg/source"
)

// ScanResult contains the result of a file scan.
type ScanResult struct {
	Files []string
	// Root is the directory the first path names. Its Gemfile.lock drives
	// plugin selection.
	Root string
	// RepoRoot is set when scanning a git revision.
	RepoRoot string
	// Ref is the revision the files were listed from, empty for the working tree.
	Ref string
	// Source reads the listed files. Nil means the filesystem.
	Source source.ContentSource
}

// Service provides file scanning functionality.
type Service struct {
	config *config.Config
	opener vcs.Opener
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithOpener sets the VCS opener (for testing).
func WithOpener(opener vcs.Opener) Option {
	return func(s *Service) {
		s.opener = opener
	}
}

// New creates a new scanner service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.DefaultConfig(),
		opener: vcs.NewGitOpener(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanPaths scans multiple paths in the working tree and returns all found
// source files.
func (s *Service) ScanPaths(paths []string) (*ScanResult, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	scan := scanner.NewScanner(s.config)
	result := &ScanResult{}

	for i, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, &PathError{Path: path, Err: err}
		}
		if i == 0 {
			result.Root = rootDir(absPath)
		}
		found, err := scan.ScanDir(absPath)
		if err != nil {
			return nil, &ScanError{Path: path, Err: err}
		}
		result.Files = append(result.Files, found...)
	}

	return result, nil
}

// ScanRef lists the sources under path as committed at ref. File paths in
// the result are relative to the repository root and must be read through
// result.Source.
func (s *Service) ScanRef(path, ref string) (*ScanResult, error) {
	if path == "" {
		path = "."
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, &PathError{Path: path, Err: err}
	}

	repo, err := s.opener.PlainOpenWithDetect(absPath)
	if err != nil {
		return nil, &GitError{Err: err}
	}
	tree, err := repo.ResolveTree(ref)
	if err != nil {
		return nil, &GitError{Err: err}
	}

	repoRoot := repo.RepoPath()
	prefix, err := filepath.Rel(repoRoot, absPath)
	if err != nil {
		return nil, &PathError{Path: path, Err: err}
	}

	files, err := scanner.NewScanner(s.config).ScanTree(tree, prefix)
	if err != nil {
		return nil, &ScanError{Path: path, Err: err}
	}

	return &ScanResult{
		Files:    files,
		Root:     filepath.ToSlash(prefix),
		RepoRoot: repoRoot,
		Ref:      ref,
		Source:   source.NewTree(tree, s.config.Files.MaxFileSize),
	}, nil
}

// rootDir returns absPath, or its directory when it names a file.
func rootDir(absPath string) string {
	if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
		return filepath.Dir(absPath)
	}
	return absPath
}

// PathError indicates an invalid path.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return "invalid path " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ScanError indicates a scanning failure.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return "failed to scan " + e.Path + ": " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// GitError indicates the path is not a git repository or the revision
// cannot be resolved.
type GitError struct {
	Err error
}

func (e *GitError) Error() string {
	return "git: " + e.Err.Error()
}

func (e *GitError) Unwrap() error {
	return e.Err
}
