// Package cache stores per-file collection results on disk, keyed by path and
// validated against a content hash.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// DefaultTTLHours is how long an entry stays valid when unchanged.
const DefaultTTLHours = 24 * 7

// Cache provides file-based caching for collection results.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
	salt    string
}

// Entry represents a cached result.
type Entry struct {
	Hash      string          `json:"hash"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// New creates a new cache instance. A disabled cache accepts every call and
// never hits.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	if ttlHours <= 0 {
		ttlHours = DefaultTTLHours
	}

	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
	}, nil
}

// WithSalt returns a view of the cache whose entries are only valid for the
// same salt parts, e.g. the set of active send listeners.
func (c *Cache) WithSalt(parts ...string) *Cache {
	cp := *c
	cp.salt = Salt(parts...)
	return &cp
}

// Enabled reports whether the cache reads and writes entries.
func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// HashBytes computes a BLAKE3 hash of bytes and returns it as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Salt folds parts into a short xxhash digest.
func Salt(parts ...string) string {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

func (c *Cache) hash(content []byte) string {
	h := HashBytes(content)
	if c.salt != "" {
		h += "-" + c.salt
	}
	return h
}

// Load decodes the entry for key into v when it was stored for the same
// content and salt and has not expired.
func (c *Cache) Load(key string, content []byte, v any) bool {
	if !c.Enabled() {
		return false
	}

	path := c.keyPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return false
	}

	if entry.Hash != c.hash(content) {
		return false
	}

	if time.Since(entry.Timestamp) > c.ttl {
		_ = os.Remove(path)
		return false
	}

	return json.Unmarshal(entry.Data, v) == nil
}

// Store encodes v as the entry for key, tagged with the content hash.
func (c *Cache) Store(key string, content []byte, v any) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	entryData, err := json.Marshal(Entry{
		Hash:      c.hash(content),
		Timestamp: time.Now(),
		Data:      data,
	})
	if err != nil {
		return err
	}

	return os.WriteFile(c.keyPath(key), entryData, 0o600)
}

// Invalidate removes a cache entry.
func (c *Cache) Invalidate(key string) error {
	if !c.Enabled() {
		return nil
	}
	return os.Remove(c.keyPath(key))
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.Enabled() {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// keyPath maps a key to a flat file name inside the cache directory.
func (c *Cache) keyPath(key string) string {
	hash := blake3.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:])+".json")
}

// Stats returns cache statistics.
type Stats struct {
	Dir       string        `json:"dir" toon:"dir"`
	Entries   int           `json:"entries" toon:"entries"`
	TotalSize int64         `json:"total_size" toon:"total_size"`
	OldestAge time.Duration `json:"oldest_age" toon:"oldest_age"`
	NewestAge time.Duration `json:"newest_age" toon:"newest_age"`
}

// GetStats returns statistics about the cache.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.Enabled() {
		return &Stats{}, nil
	}

	stats := &Stats{Dir: c.dir}
	var oldest, newest time.Time

	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		stats.Entries++
		stats.TotalSize += info.Size()

		modTime := info.ModTime()
		if oldest.IsZero() || modTime.Before(oldest) {
			oldest = modTime
		}
		if newest.IsZero() || modTime.After(newest) {
			newest = modTime
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !oldest.IsZero() {
		stats.OldestAge = time.Since(oldest)
	}
	if !newest.IsZero() {
		stats.NewestAge = time.Since(newest)
	}

	return stats, nil
}
