// Package logging provides structured logging for cfgsync on top of log/slog.
//
// Level and format come from settings (see internal/config), which in turn
// honour CFGSYNC_LOG_LEVEL (DEBUG, INFO, WARN, ERROR; default WARN) and
// CFGSYNC_LOG_FORMAT (text, json; default text).
//
// Logs always go to stderr: stdout carries the MCP stdio protocol when
// serving and machine-readable output for --format json.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Environment variable names for logging configuration.
const (
	LogLevelEnvVar  = "CFGSYNC_LOG_LEVEL"
	LogFormatEnvVar = "CFGSYNC_LOG_FORMAT"
)

// Default logging configuration.
const (
	DefaultLevel  = slog.LevelWarn
	DefaultFormat = "text"
)

// Logger is the structured logger handed to every component.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a Logger that adds args to every record.
	With(args ...any) Logger
}

type logger struct {
	slog *slog.Logger
}

func (l *logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

func (l *logger) With(args ...any) Logger {
	return &logger{slog: l.slog.With(args...)}
}

// New creates a Logger writing to w at the given level.
// Format is "text" or "json"; anything else means text.
func New(w io.Writer, level slog.Level, format string) Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &logger{slog: slog.New(handler)}
}

// NewStderr creates a Logger on stderr from level and format strings as
// they appear in settings.
func NewStderr(level, format string) Logger {
	if format == "" {
		format = DefaultFormat
	}
	return New(os.Stderr, ParseLevel(level), format)
}

// NewFromEnv creates a stderr Logger configured from the environment only.
func NewFromEnv() Logger {
	return NewStderr(os.Getenv(LogLevelEnvVar), os.Getenv(LogFormatEnvVar))
}

// ParseLevel parses DEBUG, INFO, WARN (or WARNING) and ERROR,
// case-insensitively. Anything else yields DefaultLevel.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return DefaultLevel
	}
}

// LevelString returns the name of a level.
func LevelString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (n nopLogger) With(...any) Logger { return n }

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}
