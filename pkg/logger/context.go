package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

var loggerKey ctxKey

// With attaches request-scoped fields (trace id, user id) to the logger
// carried in the context.
func With(ctx context.Context, fields ...any) context.Context {
	l := From(ctx).With(fields...)
	return context.WithValue(ctx, loggerKey, l)
}

// From retrieves the context logger. Outside a request scope it falls back
// to the process-wide logger.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
