// Package logger provides structured logging built on log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// Level represents a logging level.
type Level slog.Level

// Logging levels.
const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// ParseLevel converts a config string into a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// LoggerInterface is the logging contract used across the application.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) LoggerInterface
}

// Logger implements LoggerInterface on top of slog.
type Logger struct {
	handler slog.Handler
}

// Ensure Logger implements LoggerInterface.
var _ LoggerInterface = (*Logger)(nil)

// New creates a Logger writing JSON to w at the given minimum level.
// serviceName is attached to every record; extra attributes are optional.
func New(w io.Writer, minLevel Level, serviceName string, attrs []slog.Attr) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.Level(minLevel),
	})

	all := make([]slog.Attr, 0, len(attrs)+1)
	if serviceName != "" {
		all = append(all, slog.String("service", serviceName))
	}
	all = append(all, attrs...)

	return &Logger{handler: handler.WithAttrs(all)}
}

// With returns a logger with additional attributes attached to every record.
func (l *Logger) With(args ...any) LoggerInterface {
	return &Logger{handler: slog.New(l.handler).With(args...).Handler()}
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, msg, args...)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelError, msg, args...)
}

func (l *Logger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if !l.handler.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // skip Callers, log, and the public wrapper

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.handler.Handle(ctx, r)
}
