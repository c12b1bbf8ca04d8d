// Package cache provides a generic, thread-safe bounded cache combining LRU
// (Least Recently Used) eviction with optional per-entry TTL expiry.
//
// The cache never holds more than its configured capacity: when a new key
// would exceed it, the entry that has gone longest without a Get or Set is
// evicted. Entries written with a TTL are treated as absent once the TTL
// elapses, regardless of capacity pressure.
//
// # Usage
//
// Create a cache with a fixed capacity:
//
//	c, err := cache.New[string, User](100)
//	if err != nil {
//		// non-positive capacity
//	}
//
// Basic operations:
//
//	// Add entries (most recently used position)
//	c.Set("user:123", userData)
//	c.SetWithTTL("session:abc", sessionData, 5*time.Minute)
//
//	// Retrieve entries (marks as recently used)
//	data, found := c.Get("user:123")
//
//	// Read without disturbing recency
//	data, found = c.Peek("user:123")
//
//	// Remove entries
//	removed := c.Delete("user:123")
//	c.Clear()
//
// # TTL Semantics
//
// SetWithTTL interprets its duration as follows:
//
//   - positive: the entry expires after this duration
//   - zero: use the cache's default TTL (set via WithDefaultTTL; no expiry
//     if none is configured)
//   - negative: rejected with ErrNegativeTTL
//
// Expiry is lazy: an expired entry is detected and removed when it is next
// read. To bound memory growth when stale keys are never read again, call
// Sweep explicitly or configure a background janitor:
//
//	c, err := cache.New[string, []byte](10_000,
//		cache.WithDefaultTTL(time.Minute),
//		cache.WithCleanupInterval(30*time.Second),
//	)
//	defer c.Close()
//
// # Resource Cleanup
//
// For values that need cleanup when removed (file handles, connections),
// use an eviction callback. It fires on LRU eviction, expiry, Delete, and
// Clear:
//
//	c.SetEvictCallback(func(key string, conn *Connection) {
//		conn.Close()
//	})
//
// # Environment Configuration
//
// Defaults can come from the environment instead of code:
//
//	cfg, err := cache.LoadConfig() // MEMOCACHE_CAPACITY, MEMOCACHE_DEFAULT_TTL, ...
//	c, err := cache.NewFromConfig[string, User](cfg)
//
// # Thread Safety
//
// All operations are safe for concurrent use. Every mutating operation,
// including the promotion performed by Get, runs as one critical section, so
// promotion-then-eviction is atomic relative to other mutations.
//
// # Performance Characteristics
//
// Get, Set, and Delete are O(1) average case: a hash map provides direct
// lookup while a doubly-linked list maintains recency order, so promotion and
// eviction never scan. Sweep is O(n) by nature.
package cache
