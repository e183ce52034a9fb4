// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package-level functions log through a default [Logger] writing to
// standard error, which is the only safe channel for diagnostics in a
// program whose standard output is pipeline data. [Config] reconfigures
// the default logger and installs it as the slog default.
//
// Configure the logger using functional options:
//
//	log.Config(
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//	)
package log
