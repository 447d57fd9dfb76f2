package cache

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"plexbrowse/internal/metrics"
)

// Cache is a process-wide result cache keyed by call signature. Entries are
// checked for staleness at read time only; nothing expires in the background.
type Cache struct {
	name string
	now  func() time.Time

	mu         sync.RWMutex
	entries    map[string]*cacheEntry
	generation uint64

	group singleflight.Group

	statsMu sync.Mutex
	hits    int64
	misses  int64
	clears  int64
}

type cacheEntry struct {
	value    any
	storedAt time.Time
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Name    string `json:"name"`
	Entries int    `json:"entries"`
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	Clears  int64  `json:"clears"`
}

type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates an empty cache. name labels its metrics.
func New(name string, opts ...Option) *Cache {
	c := &Cache{
		name:    name,
		now:     time.Now,
		entries: make(map[string]*cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	metrics.CacheEntries.WithLabelValues(name).Set(0)
	return c
}

// GetOrCompute returns the value stored under key if it is younger than ttl.
// Otherwise it runs compute, stores a successful result and returns it.
// Errors are never cached. Concurrent misses on the same key share a single
// compute call.
func (c *Cache) GetOrCompute(key string, ttl time.Duration, compute func() (any, error)) (any, error) {
	if value, ok := c.lookup(key, ttl); ok {
		c.recordHit()
		return value, nil
	}
	c.recordMiss()

	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	value, err, _ := c.group.Do(flightKey(gen, key), func() (any, error) {
		value, err := compute()
		if err != nil {
			return nil, err
		}
		c.store(key, value, gen)
		return value, nil
	})
	return value, err
}

// Clear drops every entry. Computations already in flight will not store
// their results.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.generation++
	c.mu.Unlock()

	c.statsMu.Lock()
	c.clears++
	c.statsMu.Unlock()

	metrics.CacheClears.WithLabelValues(c.name).Inc()
	metrics.CacheEntries.WithLabelValues(c.name).Set(0)
}

// Len returns the number of stored entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) Stats() Stats {
	entries := c.Len()

	c.statsMu.Lock()
	defer c.statsMu.Unlock()

	return Stats{
		Name:    c.name,
		Entries: entries,
		Hits:    c.hits,
		Misses:  c.misses,
		Clears:  c.clears,
	}
}

func (c *Cache) lookup(key string, ttl time.Duration) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= ttl {
		return nil, false
	}
	return entry.value, true
}

func (c *Cache) store(key string, value any, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	c.entries[key] = &cacheEntry{value: value, storedAt: c.now()}
	metrics.CacheEntries.WithLabelValues(c.name).Set(float64(len(c.entries)))
}

func (c *Cache) recordHit() {
	c.statsMu.Lock()
	c.hits++
	c.statsMu.Unlock()
	metrics.CacheHits.WithLabelValues(c.name).Inc()
}

func (c *Cache) recordMiss() {
	c.statsMu.Lock()
	c.misses++
	c.statsMu.Unlock()
	metrics.CacheMisses.WithLabelValues(c.name).Inc()
}

func flightKey(gen uint64, key string) string {
	return strconv.FormatUint(gen, 10) + "|" + key
}
