// Package health runs named health checks in parallel and aggregates
// the results.
//
// A [Checks] map pairs names with [CheckFunc] closures (database pings,
// Redis connectivity, backend reachability). [Run] executes them all
// under a shared timeout and returns a [Response] that is JSON-encodable
// for monitoring surfaces; [HandlerFunc] serves it over HTTP.
package health
