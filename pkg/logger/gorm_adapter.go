/*
Package logger 提供 GORM 到 Zap 的日志适配。
*/
package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/infrastructure/persistence"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormLoggerConfig GORM 日志选项
type GormLoggerConfig struct {
	// SlowThreshold 超过该耗时的语句以 Warn 记录，0 表示不检测
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
}

func DefaultGormLoggerConfig() GormLoggerConfig {
	return GormLoggerConfig{SlowThreshold: 200 * time.Millisecond}
}

// GormLogger writes GORM output to an injected zap logger.
// The request id travels in the context (persistence.ContextWithRequestID).
type GormLogger struct {
	base   *zap.Logger
	level  gormlogger.LogLevel
	config GormLoggerConfig
}

// NewGormLogger nil base falls back to a no-op logger
func NewGormLogger(base *zap.Logger, level gormlogger.LogLevel, config GormLoggerConfig) *GormLogger {
	if base == nil {
		base = zap.NewNop()
	}
	return &GormLogger{base: base, level: level, config: config}
}

// LogMode returns a copy at level; GORM calls it for db.Debug()
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// enabled GORM levels grow noisier upwards: Silent < Error < Warn < Info
func (l *GormLogger) enabled(level gormlogger.LogLevel) bool {
	return l.level >= level
}

func (l *GormLogger) with(ctx context.Context) *zap.Logger {
	if id := persistence.RequestIDFromContext(ctx); id != "" {
		return l.base.With(zap.String("request_id", id))
	}
	return l.base
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.enabled(gormlogger.Info) {
		l.with(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.enabled(gormlogger.Warn) {
		l.with(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.enabled(gormlogger.Error) {
		l.with(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

// Trace 每条语句一次：失败 Error，慢查询 Warn，其余 Info
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if !l.enabled(gormlogger.Error) {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !(l.config.IgnoreRecordNotFoundError && errors.Is(err, gormlogger.ErrRecordNotFound))
	slow := l.config.SlowThreshold > 0 && elapsed > l.config.SlowThreshold

	switch {
	case failed:
	case slow && l.enabled(gormlogger.Warn):
	case l.enabled(gormlogger.Info):
	default:
		return
	}

	sql, rows := fc()
	fields := []zap.Field{zap.String("sql", sql), zap.Duration("elapsed", elapsed)}
	// -1 means GORM did not count rows
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows", rows))
	}

	log := l.with(ctx)
	switch {
	case failed:
		log.Error("Database operation failed", append(fields, zap.Error(err))...)
	case slow && l.enabled(gormlogger.Warn):
		log.Warn("Slow SQL query", append(fields, zap.Duration("threshold", l.config.SlowThreshold))...)
	default:
		log.Info("SQL query executed", fields...)
	}
}

var _ gormlogger.Interface = (*GormLogger)(nil)
