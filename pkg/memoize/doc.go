// Package memoize wraps deterministic functions with a bounded result cache,
// so repeated calls with equivalent arguments avoid recomputation.
//
// The wrapper derives a canonical key from the argument list (see the
// cachekey package), looks it up in a fixed-capacity LRU store (see the cache
// package), and only invokes the wrapped function on a miss. The core
// guarantee: for repeated identical argument lists, the wrapped function runs
// once, not N times.
//
// # Usage
//
//	fetchUser := func(ctx context.Context, args ...any) (User, error) {
//		return repo.FindUser(ctx, args[0].(string))
//	}
//
//	m, err := memoize.New(fetchUser,
//		memoize.WithCapacity(500),
//		memoize.WithTTL(5*time.Minute),
//	)
//	if err != nil {
//		// invalid capacity or negative TTL
//	}
//
//	u, err := m.Do(ctx, "user-123") // invokes fetchUser
//	u, err = m.Do(ctx, "user-123")  // served from cache
//
// For callers that want a plain function value instead of a handle:
//
//	g, err := memoize.Wrap(fetchUser, memoize.WithTTL(time.Minute))
//	u, err := g(ctx, "user-123")
//
// # Thundering Herd
//
// Concurrent calls for the same not-yet-cached key share one in-flight
// invocation via singleflight, so a burst of identical requests arriving
// before the first completes triggers a single computation rather than a
// stampede of duplicates.
//
// # Failure Handling
//
// Errors from the wrapped function propagate unchanged to the caller and are
// never cached: the next call with the same arguments invokes the function
// again. If the arguments themselves cannot be canonicalized into a key
// (functions, channels, cyclic references), the call fails with
// cachekey.ErrUnserializableArgument and the wrapped function is not invoked.
//
// # Eviction and Expiry
//
// Results live under the cache package's rules: least-recently-used results
// are evicted past capacity, and WithTTL expires results after a duration.
// A call whose result was evicted or expired recomputes as if never cached.
// Invalidate removes one result, Reset removes all of them, and Cache exposes
// the underlying store for maintenance such as sweeping.
package memoize
