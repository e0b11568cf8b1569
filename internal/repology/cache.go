package repology

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// ErrCacheCorrupted is returned when the cache file cannot be parsed
var ErrCacheCorrupted = errors.New("cache file is corrupted")

// DefaultCacheTTL is the default time-to-live for cache entries (1 hour)
const DefaultCacheTTL = time.Hour

// CacheFileName is the file NewCache reads and writes inside its directory
const CacheFileName = "repology.json"

// CacheEntry is one cached project lookup
type CacheEntry struct {
	Repos     []Repo    `json:"repos"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

type cacheFile struct {
	Entries map[string]CacheEntry `json:"entries"`
}

// Cache stores repology project lookups on disk with TTL-based expiration.
// It is safe for concurrent use.
type Cache struct {
	entries map[string]CacheEntry
	ttl     time.Duration
	path    string
	mu      sync.RWMutex
	nowFunc func() time.Time
}

// CacheOption is a functional option for configuring Cache
type CacheOption func(*Cache)

// WithTTL sets a custom TTL for the cache
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithNowFunc sets a custom time function for testing
func WithNowFunc(fn func() time.Time) CacheOption {
	return func(c *Cache) {
		c.nowFunc = fn
	}
}

// NewCache creates or loads the cache stored in dir.
// A missing or corrupted file yields an empty cache; a corrupted file is
// overwritten on the next write.
func NewCache(dir string, opts ...CacheOption) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		entries: make(map[string]CacheEntry),
		ttl:     DefaultCacheTTL,
		path:    filepath.Join(dir, CacheFileName),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(cache)
	}

	if err := cache.load(); err != nil && !os.IsNotExist(err) {
		cache.entries = make(map[string]CacheEntry)
	}

	return cache, nil
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return err
	}

	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheCorrupted, err)
	}
	if cf.Entries != nil {
		c.entries = cf.Entries
	}
	return nil
}

// Path returns the cache file location
func (c *Cache) Path() string {
	return c.path
}

// Get returns the cached repos for project if present and not expired
func (c *Cache) Get(project string) ([]Repo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[project]
	if !ok || c.isExpired(entry) {
		return nil, false
	}
	return entry.Repos, true
}

func (c *Cache) isExpired(entry CacheEntry) bool {
	return c.nowFunc().Sub(entry.Timestamp) >= c.ttl
}

// Set stores repos for project and persists the cache
func (c *Cache) Set(project string, repos []Repo, source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[project] = CacheEntry{
		Repos:     repos,
		Timestamp: c.nowFunc(),
		Source:    source,
	}
	return c.saveLocked()
}

// Clear removes all entries and persists the empty cache
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]CacheEntry)
	return c.saveLocked()
}

// Cleanup drops expired entries and returns how many were removed.
// The file is only rewritten when something was dropped.
func (c *Cache) Cleanup() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for project, entry := range c.entries {
		if c.isExpired(entry) {
			delete(c.entries, project)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, c.saveLocked()
}

// Len returns the number of entries, expired ones included
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// saveLocked writes the cache atomically. Caller must hold the write lock.
func (c *Cache) saveLocked() error {
	data, err := json.MarshalIndent(cacheFile{Entries: c.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}
	return nil
}
