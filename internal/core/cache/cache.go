// Package cache provides a bounded, expiring in-memory key-value store used
// to memoize expensive resolution lookups within a process lifetime. It has
// no persistence and is discarded with the hosting process.
package cache

import (
	"sync"
	"time"
)

// DefaultMaxItems bounds the store when no capacity is configured.
const DefaultMaxItems = 500

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a TTL + capacity bounded store. Expired entries are evicted
// lazily on read; when the store is full, inserting a new key evicts the
// oldest key by insertion order (FIFO, not LRU: reads do not reorder).
// All methods are safe for concurrent use.
type Cache[V any] struct {
	mu       sync.Mutex
	maxItems int
	now      func() time.Time
	entries  map[string]entry[V]
	order    []string
}

// New creates an empty cache holding at most maxItems entries. Non-positive
// capacities fall back to DefaultMaxItems.
func New[V any](maxItems int) *Cache[V] {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	return &Cache[V]{
		maxItems: maxItems,
		now:      time.Now,
		entries:  make(map[string]entry[V], maxItems),
	}
}

// Get returns the stored value if present and not expired. An expired entry
// is evicted and treated as absent.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)

		return zero, false
	}

	return e.value, true
}

// Set stores value under key with absolute expiry now+ttl. Overwriting an
// existing key keeps its insertion position; inserting a new key at capacity
// evicts exactly one entry, the oldest by insertion order.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		// The key may linger in order from a lazily expired entry.
		c.dropFromOrder(key)

		for len(c.entries) >= c.maxItems {
			c.evictOldest()
		}

		c.order = append(c.order, key)
	}

	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
}

// Len reports the number of stored entries, including not-yet-collected
// expired ones.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// evictOldest pops insertion-order keys until one actual removal happens.
// Keys already evicted lazily by Get are skipped. Callers hold the lock.
func (c *Cache[V]) evictOldest() {
	for len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]

		if _, ok := c.entries[oldest]; ok {
			delete(c.entries, oldest)

			return
		}
	}
}

func (c *Cache[V]) dropFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)

			return
		}
	}
}
