package monitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stillpoint/haven/pkg/cache"
)

// defaultPublishTimeout cuts off a slow sink so observation never
// stalls cache operations for long.
const defaultPublishTimeout = 2 * time.Second

// CacheObserver bridges cache journal records to a monitoring Sink.
// It implements cache.Observer and is wired with cache.WithObserver.
type CacheObserver struct {
	sink    Sink
	log     *slog.Logger
	timeout time.Duration
}

// ObserverOption configures a CacheObserver.
type ObserverOption func(*CacheObserver)

// WithPublishTimeout bounds each sink publish.
// Default: 2 seconds.
func WithPublishTimeout(d time.Duration) ObserverOption {
	return func(o *CacheObserver) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithObserverLogger sets the logger for dropped deliveries.
func WithObserverLogger(l *slog.Logger) ObserverOption {
	return func(o *CacheObserver) {
		if l != nil {
			o.log = l
		}
	}
}

// NewCacheObserver creates an observer forwarding to sink.
func NewCacheObserver(sink Sink, opts ...ObserverOption) *CacheObserver {
	o := &CacheObserver{
		sink:    sink,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout: defaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Observe converts the record to an Event and publishes it. Delivery is
// fire-and-forget: failures are logged at warn and dropped.
func (o *CacheObserver) Observe(rec cache.Record) {
	e := Event{
		ID:       uuid.NewString(),
		Time:     rec.Time,
		Severity: severityFor(rec.Op),
		Category: "cache",
		Message:  messageFor(rec),
		Metadata: map[string]any{
			"op":  string(rec.Op),
			"key": rec.Key,
		},
	}
	if rec.TTL > 0 {
		e.Metadata["ttl_ms"] = rec.TTL.Milliseconds()
	}
	if rec.Size > 0 {
		e.Metadata["size"] = rec.Size
	}
	if rec.Processing > 0 {
		e.Metadata["processing_us"] = rec.Processing.Microseconds()
	}
	if rec.Reason != "" {
		e.Metadata["reason"] = rec.Reason
	}
	for k, v := range rec.Extra {
		e.Metadata[k] = v
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	if err := o.sink.Publish(ctx, e); err != nil {
		o.log.Warn("monitor: dropped cache event",
			slog.String("op", string(rec.Op)),
			slog.String("key", rec.Key),
			slog.Any("error", err),
		)
	}
}

func severityFor(op cache.Op) Severity {
	switch op {
	case cache.OpEvict, cache.OpCleanup:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

func messageFor(rec cache.Record) string {
	if rec.Reason != "" {
		return fmt.Sprintf("cache %s %s (%s)", rec.Op, rec.Key, rec.Reason)
	}
	return fmt.Sprintf("cache %s %s", rec.Op, rec.Key)
}

var _ cache.Observer = (*CacheObserver)(nil)
