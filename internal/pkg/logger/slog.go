package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
)

type contextKey string

// CorrelationIDKey carries the checkout correlation id so log lines emitted
// while a reservation or payment call is in flight can be tied back to the
// server-side trace.
const CorrelationIDKey contextKey = "correlation_id"

// StackTraceHandler is a handler that adds stack trace to error records
// and extracts correlation_id from context
type StackTraceHandler struct {
	slog.Handler
}

func (h *StackTraceHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if corrID, ok := ctx.Value(CorrelationIDKey).(string); ok {
			r.AddAttrs(slog.String("correlation_id", corrID))
		}
	}

	if r.Level >= slog.LevelError {
		buf := make([]byte, 4096)
		n := runtime.Stack(buf, false)
		r.AddAttrs(slog.String("stack_trace", string(buf[:n])))
	}
	return h.Handler.Handle(ctx, r)
}

// InitStructuredLogger initialize structured logger
func InitStructuredLogger(level slog.Leveler) {
	initLogger(level, os.Stdout)
}

// InitFileLogger initializes the structured logger writing to the given
// file. The TUI owns the terminal, so interactive runs must not log to
// stdout; an unopenable log file silences logging rather than corrupting
// the screen.
func InitFileLogger(level slog.Leveler, path string) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		initLogger(level, io.Discard)
		return
	}

	initLogger(level, file)
}

func initLogger(level slog.Leveler, out io.Writer) {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	if level.Level() == slog.LevelDebug {
		opts.AddSource = true
	}

	jsonHandler := slog.NewJSONHandler(out, opts)
	handler := &StackTraceHandler{Handler: jsonHandler}

	slog.SetDefault(slog.New(handler))
}
