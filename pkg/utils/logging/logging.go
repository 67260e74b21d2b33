package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/masq"
)

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(newLogger(os.Stderr, slog.LevelInfo, FormatConsole))
}

// Format is the log output format
type Format int

const (
	FormatConsole Format = iota
	FormatJSON
)

// Default returns the process-wide logger
func Default() *slog.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger
func SetDefault(logger *slog.Logger) {
	defaultLogger.Store(logger)
}

// New creates a logger writing to w with the given level and format.
// Values tagged `masq:"secret"` are redacted.
func New(w io.Writer, level slog.Level, format Format) *slog.Logger {
	return newLogger(w, level, format)
}

func newLogger(w io.Writer, level slog.Level, format Format) *slog.Logger {
	filter := masq.New(masq.WithTag("secret"))

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: filter,
		})
	default:
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithReplaceAttr(filter),
			clog.WithSource(true),
		)
	}

	return slog.New(handler)
}

type ctxLoggerKey struct{}

// With embeds the logger into the context
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// From extracts the logger from the context, falling back to Default
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return Default()
}
