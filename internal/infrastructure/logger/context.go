package logger

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// StageKey is the context key for the running collect stage
	StageKey contextKey = "stage"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, a no-op logger if not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithStage tags ctx and logger with the collect stage and day being run
func WithStage(ctx context.Context, logger *zap.Logger, stage string, day time.Time) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, StageKey, stage)
	enriched := logger.With(
		zap.String("stage", stage),
		zap.String("collect_day", day.Format(time.DateOnly)),
	)
	return WithContext(ctx, enriched), enriched
}

// GetStage retrieves the collect stage from context
func GetStage(ctx context.Context) string {
	if stage, ok := ctx.Value(StageKey).(string); ok {
		return stage
	}
	return ""
}

// WithTraceContext adds trace_id and span_id of the active span to logger.
// Without a valid span the logger is returned unchanged.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}
