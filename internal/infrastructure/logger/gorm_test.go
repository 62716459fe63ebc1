package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLoggerWithOptions(t *testing.T) {
	gormLog := NewGormLogger(zap.NewNop(), gormlogger.Info)
	assert.Equal(t, DefaultSlowQuery, gormLog.slowQuery)
	assert.False(t, gormLog.logNotFound)

	gormLog = NewGormLogger(zap.NewNop(), gormlogger.Info, WithSlowQuery(2*time.Second), WithNotFoundErrors())
	assert.Equal(t, 2*time.Second, gormLog.slowQuery)
	assert.True(t, gormLog.logNotFound)
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog := NewGormLogger(zap.NewNop(), gormlogger.Info)
	newLogger := gormLog.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gormLog.level)
	newGormLog, ok := newLogger.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, newGormLog.level)
}

func TestGormLogger_Trace(t *testing.T) {
	query := func() (string, int64) { return "SELECT COALESCE(SUM(value), 0) FROM daily_usages", 1 }

	t.Run("logs errors with stage", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Warn)
		ctx, _ := WithStage(context.Background(), zap.NewNop(), "extra_cost", time.Now())

		gormLog.Trace(ctx, time.Now(), query, errors.New("connection refused"))

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "extra_cost", entries[0].ContextMap()["stage"])
	})

	t.Run("ignores record not found", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Warn)

		gormLog.Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)

		assert.Empty(t, recorded.All())
	})

	t.Run("logs record not found when asked", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Warn, WithNotFoundErrors())

		gormLog.Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)

		assert.Equal(t, 1, recorded.FilterMessage("Query failed").Len())
	})

	t.Run("warns on slow queries", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowQuery(time.Millisecond))

		gormLog.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "Slow query", entries[0].Message)
	})

	t.Run("fast queries only at info", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)

		NewGormLogger(zap.New(core), gormlogger.Warn).Trace(context.Background(), time.Now(), query, nil)
		assert.Empty(t, recorded.All())

		NewGormLogger(zap.New(core), gormlogger.Info).Trace(context.Background(), time.Now(), query, nil)
		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, int64(1), entries[0].ContextMap()["rows"])
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Silent)

		gormLog.Trace(context.Background(), time.Now(), query, errors.New("boom"))

		assert.Empty(t, recorded.All())
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}
