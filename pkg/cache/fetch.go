package cache

import (
	"context"
	"time"
)

// FetchFunc produces the authoritative value for a key on a cache miss.
// It must not be called on a hit.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// FetchOption configures a single Fetch call.
type FetchOption func(*fetchOptions)

type fetchOptions struct {
	ttl          time.Duration
	version      int
	forceRefresh bool
}

// WithTTL sets the TTL for the entry written on a miss. Non-positive
// values fall back to the store default.
func WithTTL(d time.Duration) FetchOption {
	return func(o *fetchOptions) {
		o.ttl = d
	}
}

// WithVersion requires the cached entry to carry at least the given
// version; an entry stored with a lower version is treated as a miss
// and removed even if its TTL has not elapsed. The entry written on a
// miss is tagged with this version.
// Default: 1.
func WithVersion(n int) FetchOption {
	return func(o *fetchOptions) {
		if n > 1 {
			o.version = n
		}
	}
}

// WithForceRefresh bypasses the lookup entirely: the fetch function
// always runs and its result overwrites any cached entry.
func WithForceRefresh() FetchOption {
	return func(o *fetchOptions) {
		o.forceRefresh = true
	}
}

// Fetch returns the cached value for key or, on a miss, calls fn,
// caches its result under the Fetch options and returns it.
//
// Fetch-function errors propagate to the caller unchanged; nothing is
// cached for a failed fetch, the store never substitutes a stale value,
// and no retry is attempted. Concurrent misses for the same normalized
// key share a single in-flight fetch, so a refresh storm collapses to
// one call.
//
// A key that normalizes to the empty string degrades to a plain fetch
// without caching: misuse costs an extra round trip, never an error.
func Fetch[V any](ctx context.Context, s *Store, key string, fn FetchFunc[V], opts ...FetchOption) (V, error) {
	var zero V
	if fn == nil {
		return zero, ErrNilFetch
	}

	o := &fetchOptions{version: 1}
	for _, opt := range opts {
		opt(o)
	}

	start := time.Now()
	norm := Normalize(key)
	if norm == "" {
		return fn(ctx)
	}

	if o.forceRefresh {
		s.skipLookup(norm, start)
	} else if data, ok := s.lookup(norm, o.version, start); ok {
		if v, ok := data.(V); ok {
			return v, nil
		}
		// Cached under an incompatible type; fall through and overwrite.
	}

	res, err, _ := s.flights.Do(norm, func() (any, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		// Best-effort store; a closed store still serves the fetched value.
		_ = s.Set(norm, v, o.ttl, o.version)
		return v, nil
	})
	if err != nil {
		return zero, err
	}

	v, ok := res.(V)
	if !ok {
		// A concurrent flight for the same key produced a different
		// type. Fetch directly rather than fail the caller.
		return fn(ctx)
	}
	return v, nil
}
