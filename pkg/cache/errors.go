package cache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrClosed is returned when a mutation is attempted on a closed store.
	ErrClosed = errors.New("cache: closed")

	// ErrNilFetch is returned by Fetch when no fetch function is supplied.
	ErrNilFetch = errors.New("cache: nil fetch function")
)
