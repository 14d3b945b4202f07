// Package config loads the YAML configuration file that wires the
// cache, warmer and monitoring layers together.
//
// The file is small by design: everything has a default, so an empty
// file (or no file at all, via [Default]) produces a working setup.
// Environment variables inside the file are expanded before parsing,
// which keeps secrets like the Sentry DSN out of the file itself:
//
//	sentry:
//	  dsn: ${SENTRY_DSN}
//
// Durations use the standard Go syntax ("5m", "1h30m").
package config
