// Package logger provides a slog-based application logger that stamps every
// record with the service name and, when available, the active trace id.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Level is the minimum severity a Logger emits.
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// TraceIDFn extracts a trace id from a context. An empty result is omitted.
type TraceIDFn func(ctx context.Context) string

// Logger writes structured records with context-derived attributes.
type Logger struct {
	log       *slog.Logger
	traceIDFn TraceIDFn
}

// New returns a JSON logger writing to w.
func New(w io.Writer, minLevel Level, serviceName string, traceIDFn TraceIDFn) *Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.Level(minLevel)})
	return NewWithHandler(h, serviceName, traceIDFn)
}

// NewWithFormat returns a logger using the "json" or "text" format.
func NewWithFormat(w io.Writer, minLevel Level, serviceName, format string, traceIDFn TraceIDFn) (*Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.Level(minLevel)}
	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format: %s", format)
	}
	return NewWithHandler(h, serviceName, traceIDFn), nil
}

// NewWithHandler wraps an existing slog handler.
func NewWithHandler(h slog.Handler, serviceName string, traceIDFn TraceIDFn) *Logger {
	l := slog.New(h)
	if serviceName != "" {
		l = l.With("service", serviceName)
	}
	return &Logger{log: l, traceIDFn: traceIDFn}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWithHandler(slog.NewTextHandler(io.Discard, nil), "", nil)
}

// ParseLevel maps debug|info|warn|error to a Level. Empty means info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level: %s", s)
}

// Slog returns the underlying slog logger.
func (l *Logger) Slog() *slog.Logger { return l.log }

// With returns a logger carrying the extra attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{log: l.log.With(args...), traceIDFn: l.traceIDFn}
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelDebug, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelInfo, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelWarn, msg, args...)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.write(ctx, slog.LevelError, msg, args...)
}

func (l *Logger) write(ctx context.Context, level slog.Level, msg string, args ...any) {
	if !l.log.Enabled(ctx, level) {
		return
	}
	if l.traceIDFn != nil {
		if id := l.traceIDFn(ctx); id != "" {
			args = append(args, "trace_id", id)
		}
	}
	l.log.Log(ctx, level, msg, args...)
}
