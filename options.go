package haven

import (
	"context"
	"log/slog"

	"github.com/stillpoint/haven/pkg/health"
	"github.com/stillpoint/haven/pkg/monitor"
)

// Option configures the client.
type Option func(*clientOptions)

type clientOptions struct {
	logger     *slog.Logger
	sinks      []monitor.Sink
	checks     health.Checks
	warmUsers  func(ctx context.Context) []string
	noObserver bool
}

// WithLogger sets a custom logger. By default New builds one from the
// Sentry section of the config.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSink adds a monitoring sink on top of the defaults (structured
// log always, Redis pub/sub when configured).
func WithSink(s monitor.Sink) Option {
	return func(o *clientOptions) {
		if s != nil {
			o.sinks = append(o.sinks, s)
		}
	}
}

// WithHealthCheck adds a named local health check to the system store.
func WithHealthCheck(name string, fn health.CheckFunc) Option {
	return func(o *clientOptions) {
		if o.checks == nil {
			o.checks = health.Checks{}
		}
		o.checks[name] = fn
	}
}

// WithScheduledUsers provides the user IDs re-warmed by the cron
// schedule from the config. Without it the schedule is ignored; warm
// passes then run only on explicit WarmUser calls.
func WithScheduledUsers(fn func(ctx context.Context) []string) Option {
	return func(o *clientOptions) {
		o.warmUsers = fn
	}
}

// WithoutObserver disables the cache-to-monitoring bridge. The journal
// and metrics still work; events just are not forwarded anywhere.
func WithoutObserver() Option {
	return func(o *clientOptions) {
		o.noObserver = true
	}
}
