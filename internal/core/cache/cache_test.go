package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxItems = 5

func newTestCache(t *testing.T) (*Cache[string], *time.Time) {
	t.Helper()

	now := time.Now()
	c := New[string](testMaxItems)
	c.now = func() time.Time { return now }

	return c, &now
}

func TestCacheGetSet(t *testing.T) {
	c, _ := newTestCache(t)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", "v", time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestCacheExpiry(t *testing.T) {
	c, now := newTestCache(t)

	c.Set("k", "v", time.Minute)
	*now = now.Add(time.Minute + time.Second)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Len(), "expired entry evicted on read")
}

func TestCacheZeroTTLExpiresImmediately(t *testing.T) {
	c, now := newTestCache(t)

	c.Set("k", "v", 0)
	*now = now.Add(time.Nanosecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCacheCapacityFIFO(t *testing.T) {
	c, _ := newTestCache(t)

	for i := 0; i < testMaxItems+1; i++ {
		c.Set(fmt.Sprintf("k%d", i), "v", time.Minute)
	}

	assert.Equal(t, testMaxItems, c.Len())

	// The very first key was evicted, the second survives.
	_, ok := c.Get("k0")
	assert.False(t, ok)

	_, ok = c.Get("k1")
	assert.True(t, ok)
}

func TestCacheFIFONotLRU(t *testing.T) {
	c, _ := newTestCache(t)

	for i := 0; i < testMaxItems; i++ {
		c.Set(fmt.Sprintf("k%d", i), "v", time.Minute)
	}

	// Reading the oldest key must not protect it from eviction.
	_, ok := c.Get("k0")
	require.True(t, ok)

	c.Set("extra", "v", time.Minute)

	_, ok = c.Get("k0")
	assert.False(t, ok)

	_, ok = c.Get("k1")
	assert.True(t, ok)
}

func TestCacheOverwriteKeepsPosition(t *testing.T) {
	c, _ := newTestCache(t)

	for i := 0; i < testMaxItems; i++ {
		c.Set(fmt.Sprintf("k%d", i), "v", time.Minute)
	}

	// Overwriting must not evict and must not move the key to the back.
	c.Set("k0", "v2", time.Minute)
	assert.Equal(t, testMaxItems, c.Len())

	c.Set("extra", "v", time.Minute)

	_, ok := c.Get("k0")
	assert.False(t, ok, "k0 still oldest after overwrite")
}

func TestCacheReinsertAfterLazyExpiry(t *testing.T) {
	c, now := newTestCache(t)

	c.Set("k0", "v", time.Minute)
	*now = now.Add(2 * time.Minute)

	_, ok := c.Get("k0")
	require.False(t, ok)

	// Re-inserting the same key must not leave a stale duplicate in the
	// eviction order.
	c.Set("k0", "v2", time.Minute)

	for i := 0; i < testMaxItems; i++ {
		c.Set(fmt.Sprintf("fill%d", i), "v", time.Minute)
	}

	assert.Equal(t, testMaxItems, c.Len())

	_, ok = c.Get("fill1")
	assert.True(t, ok)
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New[int](100)

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", j%20)
				c.Set(key, n, time.Minute)
				c.Get(key)
			}
		}(i)
	}

	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 100)
}

func TestCacheDefaultCapacity(t *testing.T) {
	c := New[string](0)
	assert.Equal(t, DefaultMaxItems, c.maxItems)
}
