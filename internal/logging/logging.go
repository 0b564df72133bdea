// Package logging writes one JSON object per line: ts, level, msg and attributes.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type contextKey struct{}

var loggerKey = contextKey{}

// New builds a JSON logger whose timestamps are rendered in loc under the "ts" key.
func New(w io.Writer, loc *time.Location, level slog.Level) *slog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.String("ts", a.Value.Time().In(loc).Format(time.RFC3339Nano))
			case slog.LevelKey:
				return slog.String("level", levelName(a.Value.Any()))
			}
			return a
		},
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Init installs a stdout JSON logger as the slog default and returns it.
func Init(loc *time.Location, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	l := New(os.Stdout, loc, level)
	slog.SetDefault(l)
	return l
}

func levelName(v any) string {
	lv, ok := v.(slog.Level)
	if !ok {
		return "info"
	}
	switch {
	case lv >= slog.LevelError:
		return "error"
	case lv >= slog.LevelWarn:
		return "warn"
	case lv >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

// FromContext returns the logger stored in ctx, or the default logger.
// When ctx carries a sampled span, trace_id and span_id are attached.
func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(loggerKey).(*slog.Logger)
	if !ok {
		l = slog.Default()
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		l = l.With(slog.String("trace_id", sc.TraceID().String()), slog.String("span_id", sc.SpanID().String()))
	}
	return l
}

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// With returns a context whose logger carries the extra attributes.
func With(ctx context.Context, args ...any) context.Context {
	l, ok := ctx.Value(loggerKey).(*slog.Logger)
	if !ok {
		l = slog.Default()
	}
	return WithLogger(ctx, l.With(args...))
}

func Info(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

func Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, slog.String("error", err.Error()))
	}
	FromContext(ctx).Error(msg, args...)
}
