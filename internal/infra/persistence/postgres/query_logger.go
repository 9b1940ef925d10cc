package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"authsvc/config"
	deliverycontext "authsvc/internal/delivery/context"
	"authsvc/internal/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// queryLogger routes GORM output to the request-scoped slog logger, so SQL
// lines carry the caller's request_id. Bound values are never logged: the
// users table holds password hashes.
type queryLogger struct {
	base  *slog.Logger
	level logger.LogLevel
	slow  time.Duration
}

var (
	_ logger.Interface = (*queryLogger)(nil)
	_ gorm.ParamsFilter = (*queryLogger)(nil)
)

func newQueryLogger(base *slog.Logger, cfg *config.Config) *queryLogger {
	level := logger.Warn
	if cfg != nil && cfg.Env.Debug {
		level = logger.Info
	}

	return &queryLogger{base: base, level: level, slow: slowQueryThreshold}
}

func (l *queryLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *queryLogger) Info(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Info, slog.LevelInfo, msg, args)
}

func (l *queryLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Warn, slog.LevelWarn, msg, args)
}

func (l *queryLogger) Error(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Error, slog.LevelError, msg, args)
}

// ParamsFilter drops every bound value before GORM renders the statement.
func (l *queryLogger) ParamsFilter(_ context.Context, sql string, _ ...any) (string, []any) {
	return sql, nil
}

// Trace logs failed statements, slow statements, and with debug on, all of them.
// A missing user is an expected outcome of FindByLogin and is not logged.
func (l *queryLogger) Trace(ctx context.Context, begin time.Time, sqlAndRows func() (string, int64), err error) {
	if l.base == nil || l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	log := deliverycontext.GetLoggerOrDefault(ctx, l.base)

	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		log.LogAttrs(ctx, slog.LevelError, "User store query failed",
			append(queryAttrs(sqlAndRows, elapsed), slog.String("error", err.Error()))...)
	case l.slow > 0 && elapsed > l.slow && l.level >= logger.Warn:
		log.LogAttrs(ctx, slog.LevelWarn, "Slow user store query",
			append(queryAttrs(sqlAndRows, elapsed), slog.Duration("threshold", l.slow))...)
	case l.level >= logger.Info:
		log.LogAttrs(ctx, slog.LevelInfo, "User store query", queryAttrs(sqlAndRows, elapsed)...)
	}
}

func (l *queryLogger) message(ctx context.Context, threshold logger.LogLevel, level slog.Level, msg string, args []any) {
	if l.base == nil || l.level < threshold {
		return
	}

	deliverycontext.GetLoggerOrDefault(ctx, l.base).LogAttrs(ctx, level, "GORM",
		slog.String("message", fmt.Sprintf(msg, args...)),
	)
}

func queryAttrs(sqlAndRows func() (string, int64), elapsed time.Duration) []slog.Attr {
	sql, rows := sqlAndRows()

	return []slog.Attr{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}
}
