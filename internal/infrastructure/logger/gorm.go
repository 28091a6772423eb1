package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger adapts zap to GORM's logger interface. Queries carry the
// request ID when the calling context has one.
type GormLogger struct {
	log                *zap.Logger
	level              gormlogger.LogLevel
	slowThreshold      time.Duration
	ignoreNotFoundErrs bool
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the elapsed time above which queries log as slow
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(gl *GormLogger) {
		gl.slowThreshold = threshold
	}
}

// WithIgnoreRecordNotFoundError controls whether gorm.ErrRecordNotFound is
// logged as an error. Lookups that legitimately miss are not failures.
func WithIgnoreRecordNotFoundError(ignore bool) GormLoggerOption {
	return func(gl *GormLogger) {
		gl.ignoreNotFoundErrs = ignore
	}
}

// NewGormLogger creates a GORM logger backed by zap
func NewGormLogger(log *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	gl := &GormLogger{
		log:                log.Named("gorm"),
		level:              level,
		slowThreshold:      200 * time.Millisecond,
		ignoreNotFoundErrs: true,
	}
	for _, opt := range opts {
		opt(gl)
	}
	return gl
}

// LogMode implements gormlogger.Interface
func (gl *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *gl
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface
func (gl *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if gl.level >= gormlogger.Info {
		gl.log.Sugar().Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (gl *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if gl.level >= gormlogger.Warn {
		gl.log.Sugar().Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (gl *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if gl.level >= gormlogger.Error {
		gl.log.Sugar().Errorf(msg, data...)
	}
}

// Trace logs each executed statement with its duration and row count
func (gl *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if gl.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}

	switch {
	case err != nil && gl.level >= gormlogger.Error:
		if gl.ignoreNotFoundErrs && errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		gl.log.Error("sql error", append(fields, zap.Error(err))...)

	case gl.slowThreshold > 0 && elapsed > gl.slowThreshold && gl.level >= gormlogger.Warn:
		gl.log.Warn("slow sql", append(fields, zap.Duration("threshold", gl.slowThreshold))...)

	case gl.level >= gormlogger.Info:
		gl.log.Debug("sql query", fields...)
	}
}

// MapGormLogLevel maps the application log level onto GORM's levels
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
