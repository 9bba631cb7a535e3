package cache

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often expired TTL entries are swept when the
// caller does not choose an interval.
const DefaultCleanupInterval = 10 * time.Minute

// TTL is a thread-safe cache whose entries expire after a fixed duration.
// It wraps patrickmn/go-cache with a typed API matching Store.
type TTL[V any] struct {
	backend *gocache.Cache

	// Metrics (lock-free using atomics)
	hits   atomic.Uint64
	misses atomic.Uint64
	sets   atomic.Uint64
}

// NewTTL creates a TTL cache. Entries live for ttl; expired entries are
// swept every cleanup. A non-positive ttl keeps entries forever.
func NewTTL[V any](ttl, cleanup time.Duration) *TTL[V] {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	if cleanup <= 0 {
		cleanup = DefaultCleanupInterval
	}
	return &TTL[V]{
		backend: gocache.New(ttl, cleanup),
	}
}

// Get retrieves a value, reporting whether it was present and unexpired.
func (c *TTL[V]) Get(key string) (V, bool) {
	var zero V

	value, found := c.backend.Get(key)
	if !found {
		c.misses.Add(1)
		return zero, false
	}

	// A value of a foreign type under this key counts as a miss.
	v, ok := value.(V)
	if !ok {
		c.misses.Add(1)
		return zero, false
	}

	c.hits.Add(1)
	return v, true
}

// Set adds or updates a value with the default expiration.
func (c *TTL[V]) Set(key string, value V) {
	c.sets.Add(1)
	c.backend.SetDefault(key, value)
}

// Delete removes an item from the cache.
func (c *TTL[V]) Delete(key string) {
	c.backend.Delete(key)
}

// Len returns the current number of entries, including any not yet swept.
func (c *TTL[V]) Len() int {
	return c.backend.ItemCount()
}

// Clear removes all entries.
func (c *TTL[V]) Clear() {
	c.backend.Flush()
}

// Stats returns cache statistics. Capacity is zero: TTL caches are bounded
// by time, not size.
func (c *TTL[V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Size:    c.backend.ItemCount(),
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		HitRate: hitRate,
	}
}
