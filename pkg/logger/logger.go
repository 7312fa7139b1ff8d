package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog for structured logging
type Logger struct {
	*slog.Logger
}

type ctxKey struct{}

// New creates a JSON logger writing to stdout.
func New(level string) *Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter creates a JSON logger writing to w.
func NewWithWriter(w io.Writer, level string) *Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	handler := slog.NewJSONHandler(w, opts)
	return &Logger{Logger: slog.New(handler)}
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ContextWithRequestID stores a request ID for WithContext and RequestID to find.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestID returns the request ID stored in ctx, if any.
func RequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(ctxKey{}).(string)
	return requestID
}

// WithContext adds context values to the logger
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if requestID := RequestID(ctx); requestID != "" {
		return &Logger{Logger: l.With("request_id", requestID)}
	}
	return l
}

// WithFields adds additional fields to the logger
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{Logger: l.With(args...)}
}
