package cache

import (
	"container/list"
	"log/slog"
	"sync"
	"time"
)

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time // zero means no expiry
}

func (e *entry[K, V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Cache is a thread-safe, fixed-capacity cache with LRU eviction and optional
// per-entry TTL expiry. When the cache reaches its capacity, the least
// recently used entry is evicted. Expired entries are treated as absent by
// Get and are physically removed on that lookup or by Sweep.
type Cache[K comparable, V any] struct {
	capacity   int
	defaultTTL time.Duration
	items      map[K]*list.Element
	eviction   *list.List // Front = most recently used, Back = least recently used
	mu         sync.Mutex
	onEvict    func(key K, value V) // Callback for cleanup when entries are removed
	log        *slog.Logger

	// Janitor goroutine ownership; nil channels when no cleanup interval is set.
	cleanupEvery time.Duration
	stop         chan struct{}
	done         chan struct{}
	closed       bool
}

// settings collects option values before the generic cache is built, so
// options stay free of type parameters and callers never spell them out.
type settings struct {
	defaultTTL   time.Duration
	cleanupEvery time.Duration
	logger       *slog.Logger
}

// Option configures cache construction.
type Option func(*settings)

// WithDefaultTTL sets the TTL applied to entries written without an explicit
// one. Zero (the default) means entries never expire.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *settings) { s.defaultTTL = ttl }
}

// WithCleanupInterval starts a background janitor that sweeps expired entries
// every interval. Without it, expired entries are only removed lazily on
// access or by an explicit Sweep. The janitor is stopped by Close.
func WithCleanupInterval(interval time.Duration) Option {
	return func(s *settings) { s.cleanupEvery = interval }
}

// WithLogger sets a logger for debug-level eviction and sweep events.
// Nil loggers are ignored for safety.
func WithLogger(log *slog.Logger) Option {
	return func(s *settings) {
		if log != nil {
			s.logger = log
		}
	}
}

// New creates a cache with the specified capacity.
// Returns ErrInvalidCapacity if capacity is not positive and ErrNegativeTTL
// if a negative default TTL or cleanup interval is configured.
func New[K comparable, V any](capacity int, opts ...Option) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	s := settings{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&s)
	}
	if s.defaultTTL < 0 || s.cleanupEvery < 0 {
		return nil, ErrNegativeTTL
	}

	c := &Cache[K, V]{
		capacity:     capacity,
		defaultTTL:   s.defaultTTL,
		items:        make(map[K]*list.Element),
		eviction:     list.New(),
		log:          s.logger,
		cleanupEvery: s.cleanupEvery,
	}

	if c.cleanupEvery > 0 {
		c.stop = make(chan struct{})
		c.done = make(chan struct{})
		go c.janitor()
	}

	return c, nil
}

// SetEvictCallback sets a callback function that is called when entries are
// removed: LRU eviction, expiry (lazy or swept), Delete, and Clear.
// This is useful for cleanup operations like closing resources.
func (c *Cache[K, V]) SetEvictCallback(fn func(key K, value V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get retrieves a value from the cache and marks it as most recently used.
// An expired entry is removed, not promoted, and reported as a miss.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	e := elem.Value.(*entry[K, V])
	if e.expired(time.Now()) {
		c.removeElement(elem)
		return zero, false
	}

	c.eviction.MoveToFront(elem)
	return e.value, true
}

// Peek retrieves a value without refreshing its recency. Expired entries are
// still removed and reported as misses.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	e := elem.Value.(*entry[K, V])
	if e.expired(time.Now()) {
		c.removeElement(elem)
		return zero, false
	}

	return e.value, true
}

// Set inserts or overwrites a value using the cache's default TTL (no expiry
// if none is configured). The entry becomes most recently used.
func (c *Cache[K, V]) Set(key K, value V) error {
	return c.SetWithTTL(key, value, 0)
}

// SetWithTTL inserts or overwrites a value with a per-entry TTL.
//
// TTL semantics:
//   - positive: the entry expires after this duration
//   - zero: fall back to the cache's default TTL (no expiry if none is set)
//   - negative: rejected with ErrNegativeTTL, cache is not touched
//
// If inserting a new key exceeds capacity, the least recently used entry is
// evicted first.
func (c *Cache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) error {
	if ttl < 0 {
		return ErrNegativeTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl == 0 {
		ttl = c.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if elem, ok := c.items[key]; ok {
		// Overwriting counts as use: refresh both recency and expiry.
		c.eviction.MoveToFront(elem)
		e := elem.Value.(*entry[K, V])
		e.value = value
		e.expiresAt = expiresAt
		return nil
	}

	elem := c.eviction.PushFront(&entry[K, V]{key: key, value: value, expiresAt: expiresAt})
	c.items[key] = elem

	if c.eviction.Len() > c.capacity {
		c.evictOldest()
	}
	return nil
}

// Delete removes an entry from the cache.
// Returns true if the entry was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(elem)
	return true
}

// Clear removes all entries and resets the recency ordering.
// If an evict callback is set, it's called for each entry.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.onEvict != nil {
		for _, elem := range c.items {
			e := elem.Value.(*entry[K, V])
			c.onEvict(e.key, e.value)
		}
	}

	c.items = make(map[K]*list.Element)
	c.eviction.Init()
}

// Len returns the number of stored entries, never exceeding capacity.
// Entries that have expired but were not yet removed are included.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eviction.Len()
}

// Keys returns the keys in most-recently-used to least-recently-used order.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.eviction.Len())
	for elem := c.eviction.Front(); elem != nil; elem = elem.Next() {
		keys = append(keys, elem.Value.(*entry[K, V]).key)
	}
	return keys
}

// Sweep removes all currently-expired entries and returns how many were
// removed. Live entries keep their recency. Sweep bounds memory growth when
// stale keys are never read again.
func (c *Cache[K, V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for _, elem := range c.items {
		if elem.Value.(*entry[K, V]).expired(now) {
			c.removeElement(elem)
			removed++
		}
	}
	if removed > 0 {
		c.log.Debug("swept expired cache entries", "removed", removed, "remaining", c.eviction.Len())
	}
	return removed
}

// Must be called with lock held.
func (c *Cache[K, V]) evictOldest() {
	elem := c.eviction.Back()
	if elem == nil {
		return
	}
	e := elem.Value.(*entry[K, V])
	c.log.Debug("evicted least recently used entry", "key", e.key)
	c.removeElement(elem)
}

// Must be called with lock held.
func (c *Cache[K, V]) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	e := elem.Value.(*entry[K, V])
	delete(c.items, e.key)

	if c.onEvict != nil {
		c.onEvict(e.key, e.value)
	}
}
