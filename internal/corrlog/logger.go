// Package corrlog provides correl8's structured logger: a thin wrapper
// around log/slog offering the same global-logger-plus-context-override
// shape as driftpursuit's internal/logging, scaled down to what a
// single-process CLI needs. No third-party structured logging library
// appears anywhere in the retrieved corpus (driftpursuit hand-rolls its own
// JSON encoder rather than reach for one); slog is the standard library's
// own answer to the same problem and is used here in preference to
// reinventing driftpursuit's encoder.
package corrlog

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/ccollicutt/correl8/pkg/correlation"
)

type contextKey string

const loggerContextKey = contextKey("correl8-logger")

var (
	globalMu     sync.RWMutex
	globalLogger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
)

// ParseLevel maps the handful of spellings a CLI flag or config field might
// carry to a slog.Level.
func ParseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, &levelError{raw: raw}
	}
}

type levelError struct{ raw string }

func (e *levelError) Error() string { return "corrlog: unknown log level " + e.raw }

// New builds a JSON-handler logger at the given level, writing to w.
func New(w *os.File, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// ReplaceGlobals swaps the fallback logger used when no context logger is
// present — called once at CLI startup after flags are parsed.
func ReplaceGlobals(logger *slog.Logger) {
	if logger == nil {
		return
	}
	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
}

// L returns the current global logger.
func L() *slog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// ContextWithLogger stores a logger in ctx for handlers further down a call
// chain to retrieve without threading an explicit parameter.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey, logger)
}

// FromContext retrieves a logger from ctx, falling back to the global one.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L()
	}
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return L()
}

// ActionPanicHandler returns a handler suitable for
// correlation.SetActionPanicHandler, logging recovered action panics
// through logger with the action value and the recovered panic value.
func ActionPanicHandler(logger *slog.Logger) func(correlation.Action, any) {
	return func(action correlation.Action, recovered any) {
		logger.Error("action panicked",
			slog.Any("action", action),
			slog.Any("recovered", recovered),
		)
	}
}
