package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	scoredb "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/repositories"
	scoremigrations "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/meishu/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// Open creates the process-wide connection pool and verifies it with a ping.
func Open(ctx context.Context, cfg config.PostgresConfig) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	if cfg.MaxConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxConns)
		sqldb.SetMaxIdleConns(cfg.MaxConns)
	}

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	db.RegisterModel((*scoredb.Score)(nil))
	return db, nil
}

// Migrators returns one migrator per module, keyed by module name.
func Migrators(db *bun.DB) map[string]*migrate.Migrator {
	return map[string]*migrate.Migrator{
		"score": migrate.NewMigrator(db, scoremigrations.Migrations),
	}
}

// Migrate initializes the migration tables and applies pending migrations
// for every module.
func Migrate(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	for name, migrator := range Migrators(db) {
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to init migrations for %s: %w", name, err)
		}
		if err := migrator.Lock(ctx); err != nil {
			return fmt.Errorf("failed to lock migrations for %s: %w", name, err)
		}

		group, err := migrator.Migrate(ctx)
		unlockErr := migrator.Unlock(ctx)
		if err != nil {
			return fmt.Errorf("failed to migrate %s: %w", name, err)
		}
		if unlockErr != nil {
			return fmt.Errorf("failed to unlock migrations for %s: %w", name, unlockErr)
		}

		if group.IsZero() {
			logger.Info("No new migrations to run", attr.String("module", name))
		} else {
			logger.Info("Migrated module", attr.String("module", name), attr.String("group", group.String()))
		}
	}
	return nil
}
