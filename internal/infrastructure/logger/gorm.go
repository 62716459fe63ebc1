package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQuery is the threshold above which a query is logged as slow.
// Usage sums over a year of daily rows stay well below it on indexed tables.
const DefaultSlowQuery = 500 * time.Millisecond

// GormLogger sends GORM query logs to zap, tagged with the collect stage
// found in the context
type GormLogger struct {
	logger      *zap.Logger
	level       gormlogger.LogLevel
	slowQuery   time.Duration
	logNotFound bool
}

// GormOption configures a GormLogger
type GormOption func(*GormLogger)

// WithSlowQuery sets the slow query threshold; zero disables slow query logs
func WithSlowQuery(d time.Duration) GormOption {
	return func(l *GormLogger) { l.slowQuery = d }
}

// WithNotFoundErrors logs gorm.ErrRecordNotFound as an error. Lookups that
// miss are normal in the repositories, so they are dropped by default.
func WithNotFoundErrors() GormOption {
	return func(l *GormLogger) { l.logNotFound = true }
}

// NewGormLogger creates a GORM logger at the given level
func NewGormLogger(log *zap.Logger, level gormlogger.LogLevel, opts ...GormOption) *GormLogger {
	l := &GormLogger{
		logger:    log.Named("gorm"),
		level:     level,
		slowQuery: DefaultSlowQuery,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) printf(ctx context.Context, min gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if l.level < min {
		return
	}
	l.forContext(ctx).Sugar().Logf(lvl, msg, data...)
}

// Trace implements gormlogger.Interface. Failed queries are errors, slow
// ones warnings and the rest debug entries.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	if err != nil && !l.logNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
		err = nil
	}

	elapsed := time.Since(begin)
	slow := l.slowQuery > 0 && elapsed > l.slowQuery
	switch {
	case err != nil && l.level >= gormlogger.Error:
	case slow && l.level >= gormlogger.Warn:
	case err == nil && !slow && l.level >= gormlogger.Info:
	default:
		return
	}

	sql, rows := fc()
	log := l.forContext(ctx)
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
	switch {
	case err != nil:
		log.Error("Query failed", append(fields, zap.Error(err))...)
	case slow:
		log.Warn("Slow query", append(fields, zap.Duration("threshold", l.slowQuery))...)
	default:
		log.Debug("Query", fields...)
	}
}

func (l *GormLogger) forContext(ctx context.Context) *zap.Logger {
	log := WithTraceContext(ctx, l.logger)
	if stage := GetStage(ctx); stage != "" {
		log = log.With(zap.String("stage", stage))
	}
	return log
}

// MapGormLogLevel maps a configured level name to a GORM log level
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
