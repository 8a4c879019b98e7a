package scanner

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/reaper/internal/vcs"
	"github.com/panbanda/reaper/pkg/config"
	"github.com/panbanda/reaper/pkg/parser"
)

// shebangProbe is how much of an extensionless file is read to look for a
// ruby shebang.
const shebangProbe = 256

// Scanner finds Ruby sources in a directory or a git tree.
type Scanner struct {
	config  *config.Config
	ignore  gitignore.Matcher
	gitRoot string
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// findGitRoot finds the root of the git repository by looking for .git.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadGitignore reads every .gitignore below the enclosing repository root.
func (s *Scanner) loadGitignore(root string) {
	s.ignore, s.gitRoot = nil, ""
	if !s.config.Exclude.Gitignore {
		return
	}
	gitRoot := findGitRoot(root)
	if gitRoot == "" {
		return
	}
	patterns, err := gitignore.ReadPatterns(osfs.New(gitRoot), nil)
	if err != nil || len(patterns) == 0 {
		return
	}
	s.ignore = gitignore.NewMatcher(patterns)
	s.gitRoot = gitRoot
}

// gitignored checks an absolute path against the loaded .gitignore files.
func (s *Scanner) gitignored(path string, isDir bool) bool {
	if s.ignore == nil {
		return false
	}
	rel, err := filepath.Rel(s.gitRoot, path)
	if err != nil || rel == "." {
		return false
	}
	return s.ignore.Match(strings.Split(filepath.ToSlash(rel), "/"), isDir)
}

// excluded checks a root-relative path against the config exclude globs.
func (s *Scanner) excluded(rel string, isDir bool) bool {
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	return s.config.ShouldExclude(rel)
}

// ScanDir recursively scans a directory for Ruby sources: files with a
// configured extension, conventional Ruby filenames such as Gemfile, and
// extensionless scripts with a ruby shebang. The result is sorted.
// Validates that all paths stay within the root directory to prevent traversal attacks.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if s.accept(absRoot) {
			return []string{absRoot}, nil
		}
		return nil, nil
	}

	s.loadGitignore(absRoot)

	files := make([]string, 0, 1024)
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == absRoot {
			return nil
		}
		relPath, _ := filepath.Rel(absRoot, path)

		// Security: validate path stays within root (prevent symlink traversal)
		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				return nil
			}
		}

		if d.IsDir() {
			if s.excluded(relPath, true) || s.gitignored(path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.excluded(relPath, false) || s.gitignored(path, false) {
			return nil
		}
		if s.accept(path) {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	return files, walkErr
}

// isWithinRoot checks if a path is contained within the root directory.
// Returns false if the path escapes via symlinks or relative paths.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	// Add separator to prevent "/root2" matching "/root"
	return strings.HasPrefix(absPath, root+string(filepath.Separator)) || absPath == root
}

// accept reports whether the file at path should be analyzed.
func (s *Scanner) accept(path string) bool {
	if s.acceptName(path) {
		return true
	}
	return filepath.Ext(path) == "" && hasRubyShebang(path)
}

// acceptName decides from the file name alone.
func (s *Scanner) acceptName(path string) bool {
	if s.config.HasExtension(path) {
		return true
	}
	return filepath.Ext(path) == "" && parser.DetectLanguage(path) == parser.LangRuby
}

func hasRubyShebang(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, shebangProbe)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return false
	}
	return parser.HasRubyShebang(head[:n])
}

// ScanTree lists the Ruby sources committed in a git tree. Paths are
// slash-separated and relative to the repository root, so only the subtree
// under prefix is kept when prefix is non-empty. Shebang detection is not
// available here; extensionless files are kept only under their
// conventional names.
func (s *Scanner) ScanTree(tree vcs.Tree, prefix string) ([]string, error) {
	entries, err := tree.Entries()
	if err != nil {
		return nil, err
	}

	prefix = strings.Trim(filepath.ToSlash(prefix), "/")
	var files []string
	for _, e := range entries {
		rel := e.Path
		if prefix != "" && prefix != "." {
			if !strings.HasPrefix(rel, prefix+"/") {
				continue
			}
			rel = strings.TrimPrefix(rel, prefix+"/")
		}
		if s.excludedInTree(rel) {
			continue
		}
		if s.acceptName(e.Path) {
			files = append(files, e.Path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// excludedInTree applies the exclude globs to a file and each of its parent
// directories, the way ScanDir prunes while walking.
func (s *Scanner) excludedInTree(rel string) bool {
	parts := strings.Split(rel, "/")
	for i := 1; i < len(parts); i++ {
		if s.config.ShouldExclude(strings.Join(parts[:i], "/") + "/") {
			return true
		}
	}
	return s.config.ShouldExclude(rel)
}
