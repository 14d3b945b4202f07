// Package logger provides structured logging with optional Sentry
// error reporting.
//
// [New] returns a JSON slog logger writing to stdout; [NewNope] returns
// a logger that discards everything and is the default injected into
// library components.
//
// [NewWithSentry] adds Sentry delivery for warnings and errors:
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//	    DSN:         os.Getenv("SENTRY_DSN"),
//	    Environment: "production",
//	})
//
// When the DSN is empty or Sentry initialization fails, the logger
// gracefully falls back to stdout only, so the same code path works in
// development and production.
package logger
