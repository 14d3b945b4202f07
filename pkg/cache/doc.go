// Package cache provides an in-memory cache-first store with TTL
// expiration, version gating, glob-pattern invalidation and a bounded
// operation journal.
//
// # Store
//
// A [Store] is explicitly constructed and owns its entries, its access
// statistics and its journal. The background janitor that sweeps expired
// entries is started by [New] and stopped by [Store.Close]:
//
//	c := cache.New(
//	    cache.WithDefaultTTL(5 * time.Minute),
//	    cache.WithCleanupInterval(time.Minute),
//	    cache.WithMaxEntries(1000),
//	)
//	defer c.Close()
//
// When the store is at capacity, inserting a new key first evicts the
// entry that was inserted longest ago. Reads never refresh an entry's
// position: eviction order is strictly insertion order.
//
// # Fetch
//
// The primary read path is the generic [Fetch] function, which returns
// the cached value on a hit and otherwise calls the supplied fetch
// function, caches its result and returns it:
//
//	schedules, err := cache.Fetch(ctx, c, "meditation:schedules:u1",
//	    func(ctx context.Context) ([]Schedule, error) {
//	        return api.Schedules(ctx, "u1")
//	    },
//	    cache.WithTTL(5*time.Minute),
//	)
//
// Fetch-function errors propagate to the caller unchanged; nothing is
// cached for a failed fetch and the store never substitutes a stale
// value. Concurrent misses for the same key share a single in-flight
// fetch via singleflight.
//
// [WithVersion] treats any entry stored with a lower version as invalid
// even if its TTL has not elapsed. [WithForceRefresh] bypasses the
// lookup entirely.
//
// # Invalidation
//
// [Store.Invalidate] accepts one or more patterns. Only '*' is special;
// it matches any run of characters, including ':' and the empty string.
// A pattern without '*' is an exact match. Keys are normalized (trimmed,
// case-folded) on every read, write and invalidation, so logically equal
// keys always collide:
//
//	c.Invalidate("meditation:schedules:" + userID + "*")
//
// # Instrumentation
//
// Every operation appends a [Record] to a bounded drop-oldest journal.
// [Store.Stats] returns a point-in-time snapshot of the entry set and
// [Store.Metrics] computes the trailing-hour hit rate. An optional
// [Observer] receives each record as it is appended; observer failures
// are recovered and logged, never surfaced to cache callers.
package cache
