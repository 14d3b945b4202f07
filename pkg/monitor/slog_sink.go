package monitor

import (
	"context"
	"log/slog"
)

// SlogSink writes events to a structured logger.
type SlogSink struct {
	log *slog.Logger
}

// NewSlogSink creates a sink logging through l.
func NewSlogSink(l *slog.Logger) *SlogSink {
	if l == nil {
		l = slog.Default()
	}
	return &SlogSink{log: l}
}

// Publish logs the event at a level matching its severity.
func (s *SlogSink) Publish(ctx context.Context, e Event) error {
	attrs := []any{
		slog.String("event_id", e.ID),
		slog.String("category", e.Category),
		slog.Any("metadata", e.Metadata),
	}

	switch e.Severity {
	case SeverityError:
		s.log.ErrorContext(ctx, e.Message, attrs...)
	case SeverityWarning:
		s.log.WarnContext(ctx, e.Message, attrs...)
	default:
		s.log.InfoContext(ctx, e.Message, attrs...)
	}
	return nil
}
