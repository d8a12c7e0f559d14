package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/osse101/guildledger/internal/config"
	"github.com/osse101/guildledger/internal/database"
	"github.com/osse101/guildledger/internal/database/postgres"
	"github.com/osse101/guildledger/internal/database/sqlite"
	"github.com/osse101/guildledger/internal/repository"
)

// Store is the economy store plus its lifecycle.
type Store interface {
	repository.Economy
	Close()
}

// OpenStore connects to the configured driver. PostgreSQL is migrated only
// when AutoMigrate is set; SQLite always migrates on open.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, database.PoolConfig{
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenStore, err)
		}
		if cfg.AutoMigrate {
			if err := MigratePostgres(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		slog.Info(LogMsgStoreOpened, "driver", cfg.DBDriver)
		return postgres.NewStore(pool), nil

	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenStore, err)
		}
		slog.Info(LogMsgStoreOpened, "driver", cfg.DBDriver, "path", cfg.SQLitePath)
		return store, nil

	default:
		return nil, fmt.Errorf(ErrMsgUnsupportedDriver, cfg.DBDriver)
	}
}

// MigratePostgres runs the embedded migrations through a database/sql view of pool.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := database.Migrate(ctx, db, database.DialectPostgres); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
	}
	slog.Info(LogMsgMigrationsCompleted, "dialect", database.DialectPostgres)
	return nil
}
