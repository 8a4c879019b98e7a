package fileproc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/panbanda/reaper/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMapFiles(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		createTestFile(t, tmpDir, "user.rb", "class User; end\n"),
		createTestFile(t, tmpDir, "post.rb", "class Post; end\n"),
		createTestFile(t, tmpDir, "tag.rb", "class Tag; end\n"),
	}

	results, errs := MapFiles(context.Background(), files, func(p *parser.Parser, path string) (string, error) {
		return filepath.Base(path), nil
	})

	assert.Nil(t, errs)
	sort.Strings(results)
	assert.Equal(t, []string{"post.rb", "tag.rb", "user.rb"}, results)
}

func TestMapFiles_EmptyFileList(t *testing.T) {
	results, errs := MapFiles(context.Background(), nil, func(p *parser.Parser, path string) (string, error) {
		return path, nil
	})

	assert.Nil(t, results)
	assert.Nil(t, errs)
}

func TestMapFiles_UsesParser(t *testing.T) {
	tmpDir := t.TempDir()
	file := createTestFile(t, tmpDir, "a.rb", "def foo; end\n")

	results, errs := MapFiles(context.Background(), []string{file}, func(p *parser.Parser, path string) (string, error) {
		result, err := p.ParseFile(path)
		if err != nil {
			return "", err
		}
		defer result.Tree.Close()
		return result.Tree.RootNode().Type(), nil
	})

	assert.Nil(t, errs)
	assert.Equal(t, []string{"program"}, results)
}

func TestMapFilesN_CollectsErrors(t *testing.T) {
	tmpDir := t.TempDir()
	good := createTestFile(t, tmpDir, "good.rb", "x = 1\n")
	bad := createTestFile(t, tmpDir, "bad.rb", "x = 1\n")
	boom := errors.New("boom")

	results, errs := MapFilesN(context.Background(), []string{good, bad}, 2, func(p *parser.Parser, path string) (string, error) {
		if path == bad {
			return "", boom
		}
		return path, nil
	}, nil)

	assert.Equal(t, []string{good}, results)
	require.NotNil(t, errs)
	assert.True(t, errs.HasErrors())
	require.Len(t, errs.Errors, 1)
	assert.Equal(t, bad, errs.Errors[0].Path)
	assert.ErrorIs(t, errs.Errors[0], boom)
	assert.Contains(t, errs.Error(), "boom")
}

func TestMapFilesN_RecoversPanics(t *testing.T) {
	tmpDir := t.TempDir()
	files := []string{
		createTestFile(t, tmpDir, "a.rb", ""),
		createTestFile(t, tmpDir, "b.rb", ""),
	}

	results, errs := MapFilesN(context.Background(), files, 1, func(p *parser.Parser, path string) (int, error) {
		if filepath.Base(path) == "a.rb" {
			panic("listener exploded")
		}
		return 1, nil
	}, nil)

	assert.Equal(t, []int{1}, results)
	require.NotNil(t, errs)
	assert.Contains(t, errs.Error(), "listener exploded")
}

func TestMapFilesN_Progress(t *testing.T) {
	tmpDir := t.TempDir()
	var files []string
	for _, name := range []string{"a.rb", "b.rb", "c.rb", "d.rb"} {
		files = append(files, createTestFile(t, tmpDir, name, ""))
	}

	var ticks atomic.Int32
	_, _ = MapFilesN(context.Background(), files, 2, func(p *parser.Parser, path string) (string, error) {
		if filepath.Base(path) == "b.rb" {
			return "", errors.New("fail")
		}
		return path, nil
	}, func() { ticks.Add(1) })

	assert.Equal(t, int32(len(files)), ticks.Load())
}

func TestMapFilesN_CancelledContext(t *testing.T) {
	tmpDir := t.TempDir()
	files := []string{createTestFile(t, tmpDir, "a.rb", "")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	results, errs := MapFilesN(ctx, files, 1, func(p *parser.Parser, path string) (string, error) {
		calls.Add(1)
		return path, nil
	}, nil)

	assert.Empty(t, results)
	assert.Nil(t, errs)
	assert.Equal(t, int32(0), calls.Load())
}

func TestProcessingErrors_Sorted(t *testing.T) {
	errs := &ProcessingErrors{}
	errs.Add("z.rb", errors.New("z"))
	errs.Add("a.rb", errors.New("a"))

	sorted := errs.Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, "a.rb", sorted[0].Path)
	assert.Equal(t, "z.rb", sorted[1].Path)
	assert.Equal(t, "2 files failed to process (first: z.rb: z)", errs.Error())

	var nilErrs *ProcessingErrors
	assert.False(t, nilErrs.HasErrors())
	assert.Nil(t, nilErrs.Sorted())
}
