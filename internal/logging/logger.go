// Package logging defines the structured-logging interface used across the
// storefront client. Implementations wrap log/slog or zerolog.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "cart loaded", "lines", len(lines))
type Logger interface {
	// Debug logs request/response level detail.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions,
	// e.g. a read that degraded to an empty result.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Supported output formats for New.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatZerolog = "zerolog"
)

// New builds a Logger writing to w. Level is one of debug, info, warn, error.
func New(w io.Writer, format, level string) (Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(format) {
	case FormatText, "":
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))), nil
	case FormatJSON:
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))), nil
	case FormatZerolog:
		return NewZerologLogger(w, lvl), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// Nop returns a Logger that discards everything. Handy in tests.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func parseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if level == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("unknown log level %q: %w", level, err)
	}
	return l, nil
}
