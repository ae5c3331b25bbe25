package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type ctxKey struct{}

// RequestIDKey is the gin context key the request-id middleware stores the id under.
const RequestIDKey = "request_id"

// Setup installs the process-wide slog handler. level is one of debug, info, warn, error.
// Production uses JSON output, everything else text.
func Setup(level, environment string) *slog.Logger {
	return setup(os.Stdout, level, environment)
}

func setup(w io.Writer, level, environment string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if environment == "production" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	l := slog.New(h)
	slog.SetDefault(l)
	return l
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID stores the request id on ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(ctxKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger provides structured logging for services
type Logger struct {
	requestID string
	base      *slog.Logger
}

// NewLogger creates a logger with request context
func NewLogger(ctx context.Context) *Logger {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return &Logger{requestID: requestID, base: slog.Default()}
}

func (l *Logger) log(level slog.Level, operation, msg string, attrs ...any) {
	args := append([]any{"request_id", l.requestID, "operation", operation}, attrs...)
	l.base.Log(context.Background(), level, msg, args...)
}

// LogError logs an error with context
func (l *Logger) LogError(operation string, err error) {
	l.log(slog.LevelError, operation, "operation failed", "error", err)
}

// LogErrorf logs a formatted error with context
func (l *Logger) LogErrorf(operation string, format string, args ...any) {
	l.log(slog.LevelError, operation, fmt.Sprintf(format, args...))
}

// LogInfo logs an info message with context
func (l *Logger) LogInfo(operation string, message string) {
	l.log(slog.LevelInfo, operation, message)
}

// LogInfof logs a formatted info message with context
func (l *Logger) LogInfof(operation string, format string, args ...any) {
	l.log(slog.LevelInfo, operation, fmt.Sprintf(format, args...))
}

// LogWarn logs a warning with context
func (l *Logger) LogWarn(operation string, message string) {
	l.log(slog.LevelWarn, operation, message)
}

// LogWarnf logs a formatted warning with context
func (l *Logger) LogWarnf(operation string, format string, args ...any) {
	l.log(slog.LevelWarn, operation, fmt.Sprintf(format, args...))
}
