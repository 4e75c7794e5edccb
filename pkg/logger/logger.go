// Package logger provides a zap-based application logger that enriches
// every record with the trace ID of the active span.
package logger

import (
	"context"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level determines the minimum severity that gets emitted.
type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// TraceIDFn extracts a trace ID from the context for log correlation.
type TraceIDFn func(ctx context.Context) string

// Logger wraps zap with context-aware leveled logging.
type Logger struct {
	sugar   *zap.SugaredLogger
	traceID TraceIDFn
}

// New constructs a Logger writing JSON records to w at the given level.
// service is attached to every record; traceID may be nil.
func New(w io.Writer, level Level, service string, traceID TraceIDFn) *Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(w), level)
	z := zap.New(core, zap.WithCaller(false)).With(zap.String("service", service))

	return &Logger{sugar: z.Sugar(), traceID: traceID}
}

// Debug logs at debug level with alternating key/value pairs.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.sugar.Debugw(msg, l.enrich(ctx, args)...)
}

// Info logs at info level with alternating key/value pairs.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.sugar.Infow(msg, l.enrich(ctx, args)...)
}

// Warn logs at warn level with alternating key/value pairs.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.sugar.Warnw(msg, l.enrich(ctx, args)...)
}

// Error logs at error level with alternating key/value pairs.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.sugar.Errorw(msg, l.enrich(ctx, args)...)
}

// Sync flushes buffered records.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

func (l *Logger) enrich(ctx context.Context, args []any) []any {
	if l.traceID == nil {
		return args
	}
	return append(args, "trace_id", l.traceID(ctx))
}
