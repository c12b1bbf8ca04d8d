package cache_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/memocache/pkg/cache"
)

func TestCache_Basic(t *testing.T) {
	t.Run("set and get", func(t *testing.T) {
		c, err := cache.New[string, int](3)
		require.NoError(t, err)

		require.NoError(t, c.Set("a", 1))
		require.NoError(t, c.Set("b", 2))

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, val)

		val, ok = c.Get("b")
		assert.True(t, ok)
		assert.Equal(t, 2, val)

		assert.Equal(t, 2, c.Len())
	})

	t.Run("get non-existent", func(t *testing.T) {
		c, err := cache.New[string, int](3)
		require.NoError(t, err)

		val, ok := c.Get("missing")
		assert.False(t, ok)
		assert.Equal(t, 0, val)
	})

	t.Run("overwrite existing", func(t *testing.T) {
		c, err := cache.New[string, int](3)
		require.NoError(t, err)

		require.NoError(t, c.Set("a", 1))
		require.NoError(t, c.Set("a", 2))

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 2, val)

		assert.Equal(t, 1, c.Len())
	})

	t.Run("invalid capacity", func(t *testing.T) {
		_, err := cache.New[string, int](0)
		assert.ErrorIs(t, err, cache.ErrInvalidCapacity)

		_, err = cache.New[string, int](-1)
		assert.ErrorIs(t, err, cache.ErrInvalidCapacity)
	})

	t.Run("negative ttl rejected", func(t *testing.T) {
		c, err := cache.New[string, int](3)
		require.NoError(t, err)

		err = c.SetWithTTL("a", 1, -time.Second)
		assert.ErrorIs(t, err, cache.ErrNegativeTTL)
		assert.Equal(t, 0, c.Len(), "rejected set must not touch the cache")
	})

	t.Run("negative default ttl rejected at construction", func(t *testing.T) {
		_, err := cache.New[string, int](3, cache.WithDefaultTTL(-time.Second))
		assert.ErrorIs(t, err, cache.ErrNegativeTTL)
	})
}

func TestCache_CapacityInvariant(t *testing.T) {
	const capacity = 5

	c, err := cache.New[int, int](capacity)
	require.NoError(t, err)

	for i := range 100 {
		require.NoError(t, c.Set(i, i))
		assert.LessOrEqual(t, c.Len(), capacity)
	}
}

func TestCache_LRUEviction(t *testing.T) {
	t.Run("oldest insertion evicted without intervening reads", func(t *testing.T) {
		const capacity = 4

		c, err := cache.New[string, int](capacity)
		require.NoError(t, err)

		// Insert capacity+1 distinct keys: the first one must go.
		for i := range capacity + 1 {
			require.NoError(t, c.Set(fmt.Sprintf("k%d", i), i))
		}

		_, ok := c.Get("k0")
		assert.False(t, ok, "k0 should have been evicted")

		for i := 1; i <= capacity; i++ {
			val, ok := c.Get(fmt.Sprintf("k%d", i))
			assert.True(t, ok)
			assert.Equal(t, i, val)
		}
	})

	t.Run("get refreshes recency", func(t *testing.T) {
		c, err := cache.New[string, int](2)
		require.NoError(t, err)

		require.NoError(t, c.Set("a", 1))
		require.NoError(t, c.Set("b", 2))

		// Touch "a" so "b" becomes the LRU entry.
		c.Get("a")

		require.NoError(t, c.Set("c", 3))

		_, ok := c.Get("b")
		assert.False(t, ok, "b should have been evicted")

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, val)
	})

	t.Run("set refreshes recency", func(t *testing.T) {
		c, err := cache.New[string, int](2)
		require.NoError(t, err)

		require.NoError(t, c.Set("a", 1))
		require.NoError(t, c.Set("b", 2))
		require.NoError(t, c.Set("a", 10))
		require.NoError(t, c.Set("c", 3))

		_, ok := c.Get("b")
		assert.False(t, ok, "b should have been evicted")

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 10, val)
	})

	t.Run("peek does not refresh recency", func(t *testing.T) {
		c, err := cache.New[string, int](2)
		require.NoError(t, err)

		require.NoError(t, c.Set("a", 1))
		require.NoError(t, c.Set("b", 2))

		val, ok := c.Peek("a")
		assert.True(t, ok)
		assert.Equal(t, 1, val)

		require.NoError(t, c.Set("c", 3))

		_, ok = c.Get("a")
		assert.False(t, ok, "a should have been evicted despite the peek")
	})

	t.Run("keys are ordered MRU to LRU", func(t *testing.T) {
		c, err := cache.New[string, int](3)
		require.NoError(t, err)

		require.NoError(t, c.Set("a", 1))
		require.NoError(t, c.Set("b", 2))
		require.NoError(t, c.Set("c", 3))
		c.Get("a")

		assert.Equal(t, []string{"a", "c", "b"}, c.Keys())
	})
}

func TestCache_TTL(t *testing.T) {
	t.Run("expired entry is a miss", func(t *testing.T) {
		c, err := cache.New[string, int](10)
		require.NoError(t, err)

		require.NoError(t, c.SetWithTTL("k", 1, 20*time.Millisecond))
		time.Sleep(60 * time.Millisecond)

		_, ok := c.Get("k")
		assert.False(t, ok, "entry should have expired")
		assert.Equal(t, 0, c.Len(), "expired entry should be removed on lookup")
	})

	t.Run("entry without ttl never expires", func(t *testing.T) {
		c, err := cache.New[string, int](10)
		require.NoError(t, err)

		require.NoError(t, c.Set("k", 1))
		time.Sleep(30 * time.Millisecond)

		val, ok := c.Get("k")
		assert.True(t, ok)
		assert.Equal(t, 1, val)
	})

	t.Run("default ttl applies to plain set", func(t *testing.T) {
		c, err := cache.New[string, int](10, cache.WithDefaultTTL(20*time.Millisecond))
		require.NoError(t, err)

		require.NoError(t, c.Set("k", 1))
		time.Sleep(60 * time.Millisecond)

		_, ok := c.Get("k")
		assert.False(t, ok)
	})

	t.Run("per-entry ttl overrides default", func(t *testing.T) {
		c, err := cache.New[string, int](10, cache.WithDefaultTTL(20*time.Millisecond))
		require.NoError(t, err)

		require.NoError(t, c.SetWithTTL("k", 1, time.Minute))
		time.Sleep(60 * time.Millisecond)

		val, ok := c.Get("k")
		assert.True(t, ok)
		assert.Equal(t, 1, val)
	})

	t.Run("overwrite refreshes expiry", func(t *testing.T) {
		c, err := cache.New[string, int](10)
		require.NoError(t, err)

		require.NoError(t, c.SetWithTTL("k", 1, 20*time.Millisecond))
		require.NoError(t, c.SetWithTTL("k", 2, time.Minute))
		time.Sleep(60 * time.Millisecond)

		val, ok := c.Get("k")
		assert.True(t, ok)
		assert.Equal(t, 2, val)
	})
}

func TestCache_Sweep(t *testing.T) {
	t.Run("removes only expired entries", func(t *testing.T) {
		c, err := cache.New[string, int](10)
		require.NoError(t, err)

		require.NoError(t, c.SetWithTTL("stale1", 1, 10*time.Millisecond))
		require.NoError(t, c.SetWithTTL("stale2", 2, 10*time.Millisecond))
		require.NoError(t, c.Set("live", 3))

		time.Sleep(40 * time.Millisecond)

		assert.Equal(t, 2, c.Sweep())
		assert.Equal(t, 1, c.Len())

		val, ok := c.Get("live")
		assert.True(t, ok)
		assert.Equal(t, 3, val)
	})

	t.Run("preserves recency of live entries", func(t *testing.T) {
		c, err := cache.New[string, int](2)
		require.NoError(t, err)

		require.NoError(t, c.Set("a", 1))
		require.NoError(t, c.Set("b", 2))
		c.Get("a")

		assert.Equal(t, 0, c.Sweep())

		// "b" must still be the eviction candidate after the sweep.
		require.NoError(t, c.Set("c", 3))
		_, ok := c.Get("b")
		assert.False(t, ok)
		_, ok = c.Get("a")
		assert.True(t, ok)
	})

	t.Run("no-op on empty cache", func(t *testing.T) {
		c, err := cache.New[string, int](2)
		require.NoError(t, err)

		assert.Equal(t, 0, c.Sweep())
	})
}

func TestCache_Janitor(t *testing.T) {
	c, err := cache.New[string, int](10,
		cache.WithCleanupInterval(10*time.Millisecond),
	)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.SetWithTTL("k", 1, 5*time.Millisecond))

	// The janitor should remove the entry without any Get touching it.
	assert.Eventually(t, func() bool {
		return c.Len() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestCache_Close(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		c, err := cache.New[string, int](10,
			cache.WithCleanupInterval(10*time.Millisecond),
		)
		require.NoError(t, err)

		assert.NoError(t, c.Close())
		assert.NoError(t, c.Close())
	})

	t.Run("without janitor", func(t *testing.T) {
		c, err := cache.New[string, int](10)
		require.NoError(t, err)

		assert.NoError(t, c.Close())
	})
}

func TestCache_Delete(t *testing.T) {
	c, err := cache.New[string, int](3)
	require.NoError(t, err)

	require.NoError(t, c.Set("a", 1))
	require.NoError(t, c.Set("b", 2))

	assert.True(t, c.Delete("a"))
	assert.Equal(t, 1, c.Len())

	_, ok := c.Get("a")
	assert.False(t, ok)

	assert.False(t, c.Delete("missing"))
}

func TestCache_Clear(t *testing.T) {
	c, err := cache.New[string, int](3)
	require.NoError(t, err)

	require.NoError(t, c.Set("a", 1))
	require.NoError(t, c.Set("b", 2))
	require.NoError(t, c.Set("c", 3))

	c.Clear()
	assert.Equal(t, 0, c.Len())

	_, ok := c.Get("a")
	assert.False(t, ok)

	// Clear again: still empty, still no error.
	c.Clear()
	assert.Equal(t, 0, c.Len())

	// The cache remains usable after clearing.
	require.NoError(t, c.Set("d", 4))
	val, ok := c.Get("d")
	assert.True(t, ok)
	assert.Equal(t, 4, val)
}

func TestCache_EvictCallback(t *testing.T) {
	t.Run("fires on lru eviction", func(t *testing.T) {
		c, err := cache.New[string, int](2)
		require.NoError(t, err)

		evicted := make(map[string]int)
		c.SetEvictCallback(func(key string, value int) {
			evicted[key] = value
		})

		require.NoError(t, c.Set("a", 1))
		require.NoError(t, c.Set("b", 2))
		require.NoError(t, c.Set("c", 3))

		assert.Equal(t, map[string]int{"a": 1}, evicted)
	})

	t.Run("fires on expiry", func(t *testing.T) {
		c, err := cache.New[string, int](2)
		require.NoError(t, err)

		evicted := make(map[string]int)
		c.SetEvictCallback(func(key string, value int) {
			evicted[key] = value
		})

		require.NoError(t, c.SetWithTTL("a", 1, 10*time.Millisecond))
		time.Sleep(40 * time.Millisecond)

		_, ok := c.Get("a")
		assert.False(t, ok)
		assert.Equal(t, map[string]int{"a": 1}, evicted)
	})

	t.Run("fires on delete and clear", func(t *testing.T) {
		c, err := cache.New[string, int](3)
		require.NoError(t, err)

		evicted := make(map[string]int)
		c.SetEvictCallback(func(key string, value int) {
			evicted[key] = value
		})

		require.NoError(t, c.Set("a", 1))
		require.NoError(t, c.Set("b", 2))

		c.Delete("a")
		assert.Equal(t, map[string]int{"a": 1}, evicted)

		c.Clear()
		assert.Equal(t, map[string]int{"a": 1, "b": 2}, evicted)
	})
}

func TestCache_Concurrent(t *testing.T) {
	c, err := cache.New[int, int](100)
	require.NoError(t, err)

	done := make(chan struct{})
	for i := range 100 {
		go func(val int) {
			defer func() { done <- struct{}{} }()
			_ = c.Set(val, val*2)
			c.Get(val)
			if val%5 == 0 {
				c.Delete(val)
			}
		}(i)
	}
	for range 100 {
		<-done
	}

	assert.LessOrEqual(t, c.Len(), 100)
	close(done)
}

func BenchmarkCache_Set(b *testing.B) {
	c, _ := cache.New[int, int](1000)

	b.ResetTimer()
	for i := range b.N {
		_ = c.Set(i%2000, i)
	}
}

func BenchmarkCache_Get(b *testing.B) {
	c, _ := cache.New[int, int](1000)
	for i := range 1000 {
		_ = c.Set(i, i)
	}

	b.ResetTimer()
	for i := range b.N {
		c.Get(i % 1000)
	}
}

func BenchmarkCache_Mixed(b *testing.B) {
	c, _ := cache.New[int, int](1000)

	b.ResetTimer()
	for i := range b.N {
		if i%2 == 0 {
			_ = c.Set(i%2000, i)
		} else {
			c.Get(i % 2000)
		}
	}
}
