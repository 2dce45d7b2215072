package logger

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger defines the logging interface
type Logger interface {
	LogInfo(ctx context.Context, msg string, attrs ...any)
	LogError(ctx context.Context, msg string, err error, attrs ...any)
	LogWarning(ctx context.Context, msg string, attrs ...any)
	WithRequestID(requestID string) Logger
}

// StructuredLogger implements the Logger interface on top of zerolog
type StructuredLogger struct {
	zl zerolog.Logger
}

// NewLogger creates a new structured JSON logger writing to stdout at info level
func NewLogger() Logger {
	return New("info", os.Stdout)
}

// New creates a structured logger at the given level ("debug", "info", "warn", "error").
// Unknown levels fall back to info.
func New(level string, w io.Writer) Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zl := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return &StructuredLogger{zl: zl}
}

// Nop returns a logger that discards everything
func Nop() Logger {
	return &StructuredLogger{zl: zerolog.Nop()}
}

// WithRequestID adds a request ID to the logger context
func (l *StructuredLogger) WithRequestID(requestID string) Logger {
	return &StructuredLogger{
		zl: l.zl.With().Str("request_id", requestID).Logger(),
	}
}

// LogError logs an error with context
func (l *StructuredLogger) LogError(ctx context.Context, msg string, err error, attrs ...any) {
	l.zl.Error().Ctx(ctx).Err(err).Fields(attrs).Msg(msg)
}

// LogInfo logs an info message with context
func (l *StructuredLogger) LogInfo(ctx context.Context, msg string, attrs ...any) {
	l.zl.Info().Ctx(ctx).Fields(attrs).Msg(msg)
}

// LogWarning logs a warning message with context
func (l *StructuredLogger) LogWarning(ctx context.Context, msg string, attrs ...any) {
	l.zl.Warn().Ctx(ctx).Fields(attrs).Msg(msg)
}
