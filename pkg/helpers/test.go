package helpers

import (
	"context"
	"log/slog"

	"github.com/ethos-app/ethos-backend/pkg/logger"
)

// TestCtx returns a context carrying a discarding test logger.
func TestCtx() context.Context {
	return logger.ToContext(context.Background(), TestLogger())
}

// TestLogger returns a logger that drops everything.
func TestLogger() *slog.Logger {
	return slog.New(logger.NewTestHandler(slog.LevelDebug))
}
