// Package persistence selects and wires the configured credential store.
package persistence

import (
	"context"
	"log/slog"

	"authsvc/config"
	"authsvc/internal/domain/lifecycle"
	"authsvc/internal/domain/repository"
	"authsvc/internal/errors"
	"authsvc/internal/infra/persistence/couchbase"
	"authsvc/internal/infra/persistence/documentstore"
	"authsvc/internal/infra/persistence/postgres"
	"authsvc/internal/infra/persistence/redisstore"

	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// NewCredentialStore opens the driver named by store.driver and ties its
// connection to the fx lifecycle.
func NewCredentialStore(params Params) (repository.CredentialStore, error) {
	cfg := params.Config
	logger := params.Logger.With(slog.String("store", cfg.Store.Driver))

	switch cfg.Store.Driver {
	case config.StoreDriverDocstore:
		store, err := documentstore.Open(context.Background(), cfg.Store.URL)
		if err != nil {
			return nil, err
		}
		params.Append(fx.Hook{
			OnStop: func(context.Context) error { return store.Close() },
		})
		logger.Info("Credential store ready", slog.String("url", cfg.Store.URL))

		return store, nil

	case config.StoreDriverCouchbase:
		// Connection is established on start so a down cluster fails the boot, not the constructor.
		store := &lazyCouchbase{}
		params.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				ctx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
				defer cancel()

				conn, err := couchbase.Connect(ctx, cfg.Couchbase)
				if err != nil {
					return err
				}
				store.conn = conn
				store.CredentialStore = couchbase.NewStore(conn)
				logger.Info("Credential store ready", slog.String("bucket", cfg.Couchbase.BucketName))

				return nil
			},
			OnStop: func(context.Context) error { return store.close() },
		})

		return store, nil

	case config.StoreDriverRedis:
		store, err := redisstore.Open(cfg.Redis.URL, cfg.Redis.KeyPrefix)
		if err != nil {
			return nil, err
		}
		params.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				ctx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
				defer cancel()

				if err := store.Ping(ctx); err != nil {
					return errors.Wrap(err, "failed to ping redis")
				}
				logger.Info("Credential store ready")

				return nil
			},
			OnStop: func(context.Context) error { return store.Close() },
		})

		return store, nil

	case config.StoreDriverPostgres:
		handle, err := postgres.New(cfg, params.Logger)
		if err != nil {
			return nil, err
		}
		params.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := handle.Start(ctx); err != nil {
					return err
				}
				logger.Info("Credential store ready")

				return nil
			},
			OnStop: func(context.Context) error { return handle.Close() },
		})

		return postgres.NewUserRepository(handle.DB), nil

	default:
		return nil, errors.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

// lazyCouchbase is filled in by the start hook. fx runs all start hooks
// before the HTTP server accepts requests.
type lazyCouchbase struct {
	repository.CredentialStore

	conn *couchbase.Connection
}

func (l *lazyCouchbase) close() error {
	if l.conn == nil {
		return nil
	}

	return l.conn.Close()
}
