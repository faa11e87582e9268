// Package cache memoizes extraction results by file path and content.
package cache

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/extractinator/pkg/extractor"
)

// DefaultSize is the number of files kept when Config.Size is 0.
const DefaultSize = 1000

// Config controls the cache.
type Config struct {
	// Size bounds the number of cached files
	Size int

	// Debug logs evictions
	Debug bool
}

// Cache holds the most recently extracted files. An entry is only
// returned while the source it was extracted from is unchanged.
//
// Results are shared between callers and must be treated as read-only.
//
// **Thread Safety:** all methods are safe for concurrent use.
type Cache struct {
	entries *lru.Cache[string, entry]
	logger  *slog.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	stale     atomic.Int64
	evictions atomic.Int64
}

type entry struct {
	sum    [sha256.Size]byte
	result extractor.Result
}

// New creates a cache.
func New(config Config, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Size == 0 {
		config.Size = DefaultSize
	}

	c := &Cache{logger: logger}
	entries, err := lru.NewWithEvict(config.Size, func(path string, _ entry) {
		c.evictions.Add(1)
		if config.Debug {
			logger.Debug("LRU evicting file", "path", path)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	c.entries = entries
	return c, nil
}

// Get returns the cached result for path if it was extracted from
// identical source.
func (c *Cache) Get(path string, source []byte) (extractor.Result, bool) {
	e, ok := c.entries.Get(path)
	if !ok {
		c.misses.Add(1)
		return extractor.Result{}, false
	}
	if e.sum != sha256.Sum256(source) {
		c.stale.Add(1)
		c.misses.Add(1)
		return extractor.Result{}, false
	}
	c.hits.Add(1)
	return e.result, true
}

// Put stores the result of extracting source at path.
func (c *Cache) Put(path string, source []byte, result extractor.Result) {
	c.entries.Add(path, entry{sum: sha256.Sum256(source), result: result})
}

// Extract returns the cached result or extracts and stores it.
func (c *Cache) Extract(x *extractor.Extractor, path string, source []byte) extractor.Result {
	if r, ok := c.Get(path, source); ok {
		return r
	}
	r := x.Extract(path, source)
	c.Put(path, source, r)
	return r
}

// Invalidate drops the entry for path.
func (c *Cache) Invalidate(path string) {
	c.entries.Remove(path)
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Stats contains cache counters.
type Stats struct {
	Entries   int
	Hits      int64
	Misses    int64
	Stale     int64 // misses caused by changed source
	Evictions int64
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Entries:   c.entries.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Stale:     c.stale.Load(),
		Evictions: c.evictions.Load(),
	}
}
