package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Names []string `json:"names"`
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()

	c, err := New(filepath.Join(tmpDir, "cache"), 24, true)
	require.NoError(t, err)
	assert.True(t, c.Enabled())

	c, err = New("", 0, false)
	require.NoError(t, err)
	assert.False(t, c.Enabled())
}

func TestNewCreatesDirectory(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "nested", "cache", "dir")

	_, err := New(cacheDir, 24, true)
	require.NoError(t, err)

	_, err = os.Stat(cacheDir)
	assert.NoError(t, err)
}

func TestStoreAndLoad(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), 24, true)
	require.NoError(t, err)

	content := []byte("class User; end\n")
	require.NoError(t, c.Store("app/models/user.rb", content, payload{Names: []string{"User"}}))

	var got payload
	require.True(t, c.Load("app/models/user.rb", content, &got))
	assert.Equal(t, []string{"User"}, got.Names)

	// changed content invalidates the entry
	assert.False(t, c.Load("app/models/user.rb", []byte("class Admin; end\n"), &got))
	assert.False(t, c.Load("missing.rb", content, &got))
}

func TestWithSalt(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), 24, true)
	require.NoError(t, err)

	content := []byte("x = 1\n")
	rails := c.WithSalt("rails", "ruby")
	require.NoError(t, rails.Store("a.rb", content, payload{Names: []string{"x"}}))

	var got payload
	assert.True(t, rails.Load("a.rb", content, &got))
	assert.True(t, c.WithSalt("rails", "ruby").Load("a.rb", content, &got))
	assert.False(t, c.WithSalt("ruby").Load("a.rb", content, &got))
	assert.False(t, c.Load("a.rb", content, &got))
}

func TestSalt(t *testing.T) {
	assert.Equal(t, Salt("a", "b"), Salt("a", "b"))
	assert.NotEqual(t, Salt("ab"), Salt("a", "b"))
}

func TestDisabledCache(t *testing.T) {
	c, err := New("", 0, false)
	require.NoError(t, err)

	require.NoError(t, c.Store("a.rb", nil, payload{}))
	var got payload
	assert.False(t, c.Load("a.rb", nil, &got))
	assert.NoError(t, c.Invalidate("a.rb"))
	assert.NoError(t, c.Clear())

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}

func TestInvalidateAndClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := New(dir, 24, true)
	require.NoError(t, err)

	require.NoError(t, c.Store("a.rb", []byte("a"), payload{}))
	require.NoError(t, c.Store("b.rb", []byte("b"), payload{}))

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, dir, stats.Dir)
	assert.Positive(t, stats.TotalSize)

	require.NoError(t, c.Invalidate("a.rb"))
	var got payload
	assert.False(t, c.Load("a.rb", []byte("a"), &got))

	require.NoError(t, c.Clear())
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestHashBytes(t *testing.T) {
	h := HashBytes([]byte("hello"))
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashBytes([]byte("hello")))
	assert.NotEqual(t, h, HashBytes([]byte("world")))
}
