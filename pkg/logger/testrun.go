package logger

import (
	"io"
	"log/slog"
)

// NewTestHandler discards output but still evaluates level checks, so
// handlers and services under test run their logging paths.
func NewTestHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level, AddSource: true})
}
