package memoize

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/memocache/pkg/cache"
	"github.com/dmitrymomot/memocache/pkg/cachekey"
)

// DefaultCapacity is the cache capacity used when WithCapacity is not given.
const DefaultCapacity = 100

// Func is the shape of a memoizable function: deterministic in its arguments,
// reporting failure through the error return.
type Func[V any] func(ctx context.Context, args ...any) (V, error)

// Memo wraps a deterministic function with a bounded result cache.
// Repeated calls with equivalent arguments reuse the cached result instead of
// recomputing; concurrent calls for a not-yet-cached key share one in-flight
// invocation.
type Memo[V any] struct {
	fn    Func[V]
	store *cache.Cache[string, V]
	group singleflight.Group
	ttl   time.Duration
}

type settings struct {
	capacity int
	ttl      time.Duration
}

// Option configures memoization.
type Option func(*settings)

// WithCapacity bounds the number of cached results (default DefaultCapacity).
// The least recently used result is evicted when the bound is exceeded.
func WithCapacity(n int) Option {
	return func(s *settings) { s.capacity = n }
}

// WithTTL expires cached results after the given duration.
// Zero (the default) caches results until evicted.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) { s.ttl = ttl }
}

// New wraps fn with a bounded memoizing cache.
// Configuration errors surface the cache package's sentinel errors:
// ErrInvalidCapacity for a non-positive capacity, ErrNegativeTTL for a
// negative TTL.
func New[V any](fn Func[V], opts ...Option) (*Memo[V], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}

	s := settings{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&s)
	}
	if s.ttl < 0 {
		return nil, cache.ErrNegativeTTL
	}

	store, err := cache.New[string, V](s.capacity)
	if err != nil {
		return nil, err
	}

	return &Memo[V]{fn: fn, store: store, ttl: s.ttl}, nil
}

// Wrap returns a drop-in replacement for fn that caches its results.
// It is a convenience over New for callers that don't need the Memo handle.
func Wrap[V any](fn Func[V], opts ...Option) (Func[V], error) {
	m, err := New(fn, opts...)
	if err != nil {
		return nil, err
	}
	return m.Do, nil
}

// Do calls the wrapped function with the given arguments, reusing a cached
// result when one exists for an equivalent argument list.
//
// A key is derived from the arguments first; if derivation fails, the error
// is returned and the wrapped function is not invoked, since caching could
// not be honored for that call. On a miss, concurrent callers with the same
// key share a single invocation; the context of the call that starts the
// computation is the one the wrapped function observes.
//
// Failures of the wrapped function propagate unchanged and are never cached:
// the next call with the same arguments invokes the function again.
func (m *Memo[V]) Do(ctx context.Context, args ...any) (V, error) {
	var zero V

	key, err := cachekey.Derive(args...)
	if err != nil {
		return zero, err
	}

	if v, ok := m.store.Get(key); ok {
		return v, nil
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		// A concurrent flight may have stored the result between our miss
		// and acquiring the flight.
		if v, ok := m.store.Get(key); ok {
			return v, nil
		}

		res, err := m.fn(ctx, args...)
		if err != nil {
			return nil, err
		}

		// TTL was validated at construction, so this cannot fail.
		_ = m.store.SetWithTTL(key, res, m.ttl)
		return res, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(V), nil
}

// Invalidate removes the cached result for the given argument list.
// Returns true if a result was cached. Derivation errors are reported the
// same way as in Do.
func (m *Memo[V]) Invalidate(args ...any) (bool, error) {
	key, err := cachekey.Derive(args...)
	if err != nil {
		return false, err
	}
	return m.store.Delete(key), nil
}

// Reset drops every cached result.
func (m *Memo[V]) Reset() {
	m.store.Clear()
}

// Cache exposes the underlying store for inspection and maintenance,
// e.g. sweeping expired results.
func (m *Memo[V]) Cache() *cache.Cache[string, V] {
	return m.store
}

// Close releases the underlying store's resources.
func (m *Memo[V]) Close() error {
	return m.store.Close()
}
