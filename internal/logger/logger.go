package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey string

const (
	requestIDKey ctxKey = "requestID"
	playerIDKey  ctxKey = "playerID"
)

// Init installs the default slog logger. It returns a closer for the rotated
// log file, which is a no-op when no file is configured.
func Init(cfg Config) io.Closer {
	var w io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}

	if cfg.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    orDefault(cfg.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: orDefault(cfg.MaxBackups, DefaultMaxBackups),
			MaxAge:     orDefault(cfg.MaxAgeDays, DefaultMaxAgeDays),
			Compress:   true,
		}
		w = io.MultiWriter(os.Stdout, rotator)
		closer = rotator
	}

	InitLoggerWithWriter(cfg, w)
	return closer
}

// InitLoggerWithWriter installs the default slog logger writing to w.
func InitLoggerWithWriter(cfg Config, w io.Writer) {
	opts := &slog.HandlerOptions{
		Level:     cfg.LogLevel(),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.IsJSON() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler).With(cfg.baseAttributes()...))
}

// GenerateRequestID creates a new UUID for tracing requests.
func GenerateRequestID() string {
	return uuid.NewString()
}

// WithRequestID returns a new context containing the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request ID stored in ctx, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithPlayerID tags ctx with the authenticated player.
func WithPlayerID(ctx context.Context, playerID string) context.Context {
	return context.WithValue(ctx, playerIDKey, playerID)
}

// FromContext returns a logger that includes request_id and player_id when present.
func FromContext(ctx context.Context) *slog.Logger {
	log := slog.Default()
	if id := GetRequestID(ctx); id != "" {
		log = log.With(AttrKeyRequestID, id)
	}
	if id, ok := ctx.Value(playerIDKey).(string); ok && id != "" {
		log = log.With(AttrKeyPlayerID, id)
	}
	return log
}

func Debug(msg string, args ...any) { slog.Default().Debug(msg, args...) }
func Info(msg string, args ...any)  { slog.Default().Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Default().Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Default().Error(msg, args...) }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
