// Package monitor surfaces cache behavior to an external monitoring
// channel.
//
// A [CacheObserver] turns every cache journal record into an [Event]
// and publishes it through a [Sink]. Publication is strictly
// fire-and-forget: sink errors are logged and dropped, a slow sink is
// cut off by a short timeout, and nothing ever propagates back into
// the caching code path.
//
// Sinks provided here:
//
//   - [SlogSink] — writes events to a structured logger.
//   - [RedisSink] — publishes JSON events to a Redis channel, feeding a
//     live system-monitoring view.
//   - [MultiSink] — fans out to several sinks, tolerating partial failure.
//
// [Handler] exposes the store's stats, metrics and recent journal as a
// JSON debug surface:
//
//	mux.Mount("/debug/cache", monitor.Handler(store))
package monitor
