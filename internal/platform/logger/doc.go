// Package logger sets up structured logging with log/slog: JSON output for
// the server, text output for the command line, and a logger carried in the
// request context.
package logger
