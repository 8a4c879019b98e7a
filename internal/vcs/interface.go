// Package vcs provides read access to files at a git revision.
package vcs

// Opener opens git repositories.
type Opener interface {
	// PlainOpenWithDetect opens a git repository, detecting .git in parent directories.
	PlainOpenWithDetect(path string) (Repository, error)
}

// Repository provides access to git repository contents.
type Repository interface {
	// ResolveTree returns the tree of the commit named by rev
	// (a branch, tag, sha or expression such as HEAD~2).
	ResolveTree(rev string) (Tree, error)
	// RepoPath returns the root path of the working tree.
	RepoPath() string
}

// TreeEntry represents a file in a git tree.
type TreeEntry struct {
	Path string
	Size int64
}

// Tree represents a git tree object.
type Tree interface {
	// Entries returns all files in the tree (recursively).
	Entries() ([]TreeEntry, error)
	// File returns the contents of the file at path.
	File(path string) ([]byte, error)
}
