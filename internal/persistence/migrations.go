package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/ecyclehub/ecyclehub/internal/config"
	"github.com/ecyclehub/ecyclehub/internal/persistence/migrations"
)

// gooseUp is a seam for tests.
var gooseUp = goose.UpContext

// RunMigrations applies the embedded SQL migrations through goose.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping migrations")
		return nil
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUp(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info("migrations applied")
	return nil
}

// ApplyIdentityPolicy creates or drops the optional unique constraints
// selected by configuration. Username and email uniqueness is part of the
// schema and not configurable.
func ApplyIdentityPolicy(ctx context.Context, pool *pgxpool.Pool, cfg config.IdentityConfig, logger *zap.Logger) error {
	if pool == nil {
		return nil
	}

	stmt := `DROP INDEX IF EXISTS users_contact_key`
	if cfg.UniqueContact {
		stmt = `CREATE UNIQUE INDEX IF NOT EXISTS users_contact_key ON users (contact) WHERE contact IS NOT NULL`
	}
	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("apply identity policy: %w", err)
	}

	logger.Info("identity uniqueness policy applied", zap.Bool("unique_contact", cfg.UniqueContact))
	return nil
}
