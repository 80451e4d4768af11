// Package logging constructs the application slog logger with either a
// compact console handler or JSON output, optionally teeing into a log file.
package logging
