package haven

import (
	"context"
	"time"

	"github.com/stillpoint/haven/pkg/apiclient"
	"github.com/stillpoint/haven/pkg/cache"
	"github.com/stillpoint/haven/pkg/monitor"
	"github.com/stillpoint/haven/pkg/warmup"
)

// Type aliases - public API
type (
	// Store is the in-memory cache store.
	Store = cache.Store

	// Stats is a point-in-time snapshot of the store.
	Stats = cache.Stats

	// Metrics are the trailing-hour performance numbers.
	Metrics = cache.Metrics

	// Record is one journaled cache operation.
	Record = cache.Record

	// Observer receives every journal record as it is written.
	Observer = cache.Observer

	// FetchOption configures a single Fetch call.
	FetchOption = cache.FetchOption

	// Task names one cache key for the warmer to fill.
	Task = warmup.Task

	// TokenProvider supplies bearer tokens for the backend API.
	TokenProvider = apiclient.TokenProvider

	// StaticTokenProvider is a fixed-token TokenProvider.
	StaticTokenProvider = apiclient.StaticTokenProvider

	// Event is one monitoring event as delivered to sinks.
	Event = monitor.Event

	// Sink delivers monitoring events.
	Sink = monitor.Sink
)

// Fetch reads through the client's cache: a hit returns the cached
// value, a miss runs fn and caches its result. Concurrent misses for
// the same key share one fetch.
//
// Example:
//
//	profile, err := haven.Fetch(ctx, client, "user:42:profile", loadProfile,
//	    haven.WithTTL(10*time.Minute),
//	)
func Fetch[V any](ctx context.Context, c *Client, key string, fn func(ctx context.Context) (V, error), opts ...FetchOption) (V, error) {
	return cache.Fetch(ctx, c.cache, key, fn, opts...)
}

// Fetch options, re-exported from pkg/cache.

// WithTTL sets the TTL written on a miss.
func WithTTL(d time.Duration) FetchOption {
	return cache.WithTTL(d)
}

// WithVersion invalidates entries cached under an older data shape.
func WithVersion(n int) FetchOption {
	return cache.WithVersion(n)
}

// WithForceRefresh bypasses the cached entry and refetches.
func WithForceRefresh() FetchOption {
	return cache.WithForceRefresh()
}

// Cache errors for checking return values.
var (
	ErrCacheClosed = cache.ErrClosed
	ErrNilFetch    = cache.ErrNilFetch
)
