package helpers

import (
	"context"
	"log/slog"

	"github.com/GregMSThompson/fintrack/pkg/logger"
)

// TestCtx returns a context carrying a discarding logger.
func TestCtx() context.Context {
	return logger.ToContext(context.Background(), TestLogger())
}

func TestLogger() *slog.Logger {
	return slog.New(logger.NewTestHandler(slog.LevelDebug))
}
