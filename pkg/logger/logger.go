// Package logger provides the structured, levelled logger for skystore,
// built on log/slog.
//
// Handlers are chosen from APP_ENV: JSON on stdout in production (optionally
// fanned out to MongoDB, see mongo_handler.go), human-readable text in dev.
//
// WithCtx returns a logger pre-tagged with the current request ID so every
// log line written from a handler or service is correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product published", "product_id", p.ID)
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/zmaxim/skystore/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// ctxKey stores the per-request *slog.Logger in a request context.
type ctxKey struct{}

// WithCtx returns the request-scoped logger injected by the Logger
// middleware, or the base logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// Inject stores a request-scoped logger in ctx. Called by the Logger
// middleware; application code rarely needs it.
func Inject(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
