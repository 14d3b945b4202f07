// Package redis provides Redis connection helpers.
//
// [Open] creates a go-redis client from a redis:// or rediss:// URL
// with retry and exponential backoff; [MustOpen] exits on failure for
// simple programs. [Healthcheck] returns a closure compatible with the
// health package's check signature, and [Shutdown] wraps client
// teardown for lifecycle hooks.
package redis
