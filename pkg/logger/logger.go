// Package logger provides a structured, levelled logger built on log/slog.
//
// The key extension over plain slog is WithCtx: it returns a logger with the
// request ID already attached, so every log line from a handler is
// automatically correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_id", order.ID)
//	// → time=... level=INFO msg="order placed" request_id=a1b2c3d4 order_id=...
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/nairobitech/duka/config"
)

var L *slog.Logger

// mongoSink holds the optional MongoDB handler so Shutdown can flush it.
var mongoSink *MongoHandler

func init() {
	L = slog.New(baseHandler())
	slog.SetDefault(L)
}

// baseHandler picks the stdout format by environment: JSON at info
// level for log aggregators in production, text at debug level for dev.
func baseHandler() slog.Handler {
	if env := config.AppEnv(); env == "production" || env == "prod" {
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// Connect attaches the MongoDB log sink when LOG_MONGO_URI is configured.
// Call once at server start; a connection failure leaves stdout logging
// untouched and is reported on the base logger.
func Connect() {
	uri := config.Get("LOG_MONGO_URI", "")
	if uri == "" {
		return
	}

	h, err := NewMongoHandler(uri,
		config.Get("LOG_MONGO_DB", "duka"),
		config.Get("LOG_MONGO_COLLECTION", "logs"))
	if err != nil {
		L.Warn("logger: mongo sink disabled", "error", err)
		return
	}

	mongoSink = h
	L = slog.New(NewMultiHandler(baseHandler(), h))
	slog.SetDefault(L)
}

// Shutdown flushes and closes the Mongo sink, if one is attached.
func Shutdown() {
	if mongoSink != nil {
		mongoSink.Close()
		mongoSink = nil
	}
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the *slog.Logger stored in ctx by the Logger middleware,
// pre-tagged with the request_id. Falls back to the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware — not usually needed in application code.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Short-hand helpers on the base logger.

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
