package monitor

import (
	"context"
	"errors"
	"time"
)

// Severity grades a monitoring event.
type Severity string

// Event severities.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event is one application-level monitoring event.
type Event struct {
	ID       string         `json:"id"`
	Time     time.Time      `json:"time"`
	Severity Severity       `json:"severity"`
	Category string         `json:"category"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Sink delivers events to a monitoring surface. Implementations should
// respect the context deadline; callers treat delivery as best-effort.
type Sink interface {
	Publish(ctx context.Context, e Event) error
}

// MultiSink fans an event out to several sinks. One sink failing does
// not stop delivery to the others; the errors are joined.
type MultiSink []Sink

// Publish delivers the event to every sink.
func (m MultiSink) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
