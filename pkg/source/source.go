// Package source abstracts where file contents are read from: the working
// tree or a committed git revision.
package source

import (
	"fmt"
	"os"
	"sync"

	"github.com/panbanda/reaper/internal/vcs"
)

// ContentSource provides file content from a specific source.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// TooLargeError is returned when a file exceeds the source's size limit.
type TooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("file too large: %s is %d bytes (limit: %d)", e.Path, e.Size, e.Limit)
}

// FilesystemSource reads files from the local filesystem.
type FilesystemSource struct {
	maxSize int64
}

// NewFilesystem creates a source that reads from the filesystem.
// A maxSize of zero disables the size limit.
func NewFilesystem(maxSize int64) *FilesystemSource {
	return &FilesystemSource{maxSize: maxSize}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	if f.maxSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.Size() > f.maxSize {
			return nil, &TooLargeError{Path: path, Size: info.Size(), Limit: f.maxSize}
		}
	}
	return os.ReadFile(path)
}

// TreeSource reads files from a git tree.
// It is safe for concurrent use by multiple goroutines.
type TreeSource struct {
	tree    vcs.Tree
	maxSize int64
	mu      sync.Mutex
}

// NewTree creates a source that reads from a git tree.
func NewTree(tree vcs.Tree, maxSize int64) *TreeSource {
	return &TreeSource{tree: tree, maxSize: maxSize}
}

// Read implements ContentSource.
func (t *TreeSource) Read(path string) ([]byte, error) {
	t.mu.Lock()
	content, err := t.tree.File(path)
	t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if t.maxSize > 0 && int64(len(content)) > t.maxSize {
		return nil, &TooLargeError{Path: path, Size: int64(len(content)), Limit: t.maxSize}
	}
	return content, nil
}
