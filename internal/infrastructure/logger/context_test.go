package logger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	t.Run("returns attached logger", func(t *testing.T) {
		l := zap.NewExample()
		assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
	})

	t.Run("returns no-op logger when missing", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})
}

func TestWithStage(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	day := time.Date(2014, 12, 10, 0, 0, 0, 0, time.UTC)

	ctx, l := WithStage(context.Background(), zap.New(core), "tenant", day)
	l.Info("running")

	assert.Equal(t, "tenant", GetStage(ctx))
	assert.Same(t, l, FromContext(ctx))
	entries := recorded.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "tenant", fields["stage"])
	assert.Equal(t, "2014-12-10", fields["collect_day"])
}

func TestWithTraceContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	t.Run("unchanged without span", func(t *testing.T) {
		assert.Same(t, base, WithTraceContext(context.Background(), base))
	})

	t.Run("adds trace and span ids", func(t *testing.T) {
		traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
		spanID, _ := trace.SpanIDFromHex("0102030405060708")
		sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		WithTraceContext(ctx, base).Info("traced")

		fields := recorded.All()[0].ContextMap()
		assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", fields["trace_id"])
		assert.Equal(t, "0102030405060708", fields["span_id"])
	})
}
