package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"authsvc/config"
	"authsvc/internal/domain/lifecycle"
	"authsvc/internal/errors"

	pgLib "github.com/slighter12/go-lib/database/postgres"
	"gorm.io/gorm"
)

const (
	dbPoolMonitorInterval       = 5 * time.Second
	dbPoolWarnDurationThreshold = 50 * time.Millisecond
)

// Handle is an open database plus the hooks that start and stop it.
type Handle struct {
	DB *gorm.DB

	sqlDB         *sql.DB
	logger        *slog.Logger
	cancelMonitor context.CancelFunc
}

// New creates the PostgreSQL client. Nothing touches the network until Start.
func New(cfg *config.Config, logger *slog.Logger) (*Handle, error) {
	db, err := pgLib.New(primaryOnly(cfg.Postgres))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	db = db.Session(&gorm.Session{
		// Every store call is a single statement.
		SkipDefaultTransaction: true,
		Logger:                 newQueryLogger(logger, cfg),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	return &Handle{DB: db, sqlDB: sqlDB, logger: logger}, nil
}

// primaryOnly strips read replicas so a login always sees the row its
// registration just wrote.
func primaryOnly(conn *pgLib.DBConn) *pgLib.DBConn {
	if conn == nil {
		return nil
	}

	cloned := *conn
	cloned.Replicas = nil

	return &cloned
}

// Start pings, migrates and starts the pool monitor.
func (h *Handle) Start(startCtx context.Context) error {
	ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
	defer cancel()

	if err := h.sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping PostgreSQL")
	}

	if err := Migrate(ctx, h.sqlDB); err != nil {
		return err
	}

	monitorCtx, cancelMonitor := context.WithCancel(context.Background())
	h.cancelMonitor = cancelMonitor
	go monitorDBPool(monitorCtx, h.logger, h.sqlDB, dbPoolMonitorInterval)

	return nil
}

// Close stops the monitor and closes the pool.
func (h *Handle) Close() error {
	if h.cancelMonitor != nil {
		h.cancelMonitor()
	}

	return h.sqlDB.Close()
}

func monitorDBPool(ctx context.Context, logger *slog.Logger, sqlDB *sql.DB, interval time.Duration) {
	if logger == nil || sqlDB == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := sqlDB.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := sqlDB.Stats()
			logPoolWait(ctx, logger, prev, cur)
			prev = cur
		}
	}
}

func logPoolWait(ctx context.Context, logger *slog.Logger, prev, cur sql.DBStats) {
	waitDelta := cur.WaitCount - prev.WaitCount
	if waitDelta <= 0 {
		return
	}
	waitDurationDelta := cur.WaitDuration - prev.WaitDuration

	attrs := []slog.Attr{
		slog.Int64("waitCountDelta", waitDelta),
		slog.Duration("waitDurationDelta", waitDurationDelta),
		slog.Duration("avgWait", waitDurationDelta/time.Duration(waitDelta)),
		slog.Int("maxOpenConns", cur.MaxOpenConnections),
		slog.Int("openConns", cur.OpenConnections),
		slog.Int("inUseConns", cur.InUse),
		slog.Int("idleConns", cur.Idle),
	}
	if waitDurationDelta >= dbPoolWarnDurationThreshold {
		logger.LogAttrs(ctx, slog.LevelWarn, "Postgres pool wait detected", attrs...)
	} else {
		logger.LogAttrs(ctx, slog.LevelDebug, "Postgres pool wait observed", attrs...)
	}
}
