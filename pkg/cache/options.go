package cache

import (
	"io"
	"log/slog"
	"time"
)

// Option configures a Store.
type Option func(*options)

type options struct {
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	maxEntries      int
	journalSize     int
	observer        Observer
	logger          *slog.Logger
}

func defaultOptions() *options {
	return &options{
		defaultTTL:      5 * time.Minute,
		cleanupInterval: time.Minute,
		maxEntries:      1000,
		journalSize:     1000,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithDefaultTTL sets the expiration applied when Set or Fetch is given
// a non-positive TTL.
// Default: 5 minutes.
func WithDefaultTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.defaultTTL = d
		}
	}
}

// WithCleanupInterval sets how often the background janitor sweeps
// expired entries. Zero disables the janitor; expired entries are then
// removed only lazily on access.
// Default: 1 minute.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries bounds the number of stored entries. Inserting past
// the bound evicts the oldest-inserted entry first. Zero means
// unlimited.
// Default: 1000.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxEntries = n
		}
	}
}

// WithJournalSize sets the capacity of the operation journal. Once the
// bound is exceeded the oldest records are dropped.
// Default: 1000.
func WithJournalSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.journalSize = n
		}
	}
}

// WithObserver registers an observer that receives every journal record.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithLogger sets the logger used for internal warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
