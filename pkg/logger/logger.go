// Package logger provides the application's structured logger built on
// log/slog. Production gets JSON on stdout (plus an optional MongoDB sink,
// see mongo_handler.go); development gets human-readable text.
//
// Handlers receive a per-request logger through the context so every line
// carries the request ID:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order created", "order_id", order.ID)
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/dkrylov/camshop/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		opts := &slog.HandlerOptions{Level: slog.LevelInfo}
		handler = slog.NewJSONHandler(os.Stdout, opts)

		// Ship logs to MongoDB when configured, without losing stdout.
		if uri := config.Get("LOG_MONGO_URI", ""); uri != "" {
			if mh, err := NewMongoHandler(uri, config.Get("LOG_MONGO_DB", "camshop"), "logs"); err == nil {
				handler = NewMultiHandler(handler, mh)
			}
		}
	default:
		opts := &slog.HandlerOptions{Level: slog.LevelDebug}
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// ctxKey stores the per-request *slog.Logger injected by the Logger middleware.
type ctxKey struct{}

// WithCtx returns the request-scoped logger from ctx, or the base logger when
// none has been injected (CLI commands, background jobs).
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// Inject stores a pre-tagged *slog.Logger into ctx. Called by the request
// logging middleware; application code rarely needs it.
func Inject(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level using the base logger.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level using the base logger.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level using the base logger.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level using the base logger.
func Error(msg string, args ...any) { L.Error(msg, args...) }
