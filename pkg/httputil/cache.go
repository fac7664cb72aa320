package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] when a cached entry exists but
// has exceeded its TTL. The stale data stays on disk; callers should
// refetch and [Cache.Set] the fresh value.
var ErrExpired = errors.New("cache entry expired")

// Cache is a file-based cache of JSON-marshalable values. Entries live
// as one file per key under the cache directory, named by the SHA-256
// of the (prefixed) key. Expiry is judged from file modification time;
// a TTL of 0 means entries never expire.
//
// A Cache value is not goroutine-safe, but separate instances (even in
// separate processes) can share a directory: writes are whole-file.
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// NewCache creates a cache rooted at dir with the given TTL. An empty
// dir selects ~/.cache/shippai/. The directory is created if missing.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "shippai")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the entry time-to-live; 0 means no expiry.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get unmarshals the cached value for key into v.
// Returns (true, nil) on a fresh hit, (false, nil) on a miss, and
// (false, ErrExpired) when the entry exists but is stale.
func (c *Cache) Get(key string, v any) (bool, error) {
	path := c.keyPath(c.prefix + key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return false, ErrExpired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

// Set stores v under key, overwriting any previous entry and resetting
// its TTL.
func (c *Cache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(c.prefix+key), data, 0o644)
}

// Namespace returns a view of the cache that prefixes every key,
// keeping page families (case pages, scenario pages, images) apart.
// Calls can be chained; the underlying directory and TTL are shared.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{dir: c.dir, ttl: c.ttl, prefix: c.prefix + prefix}
}

// Clear removes every entry in the cache directory.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
