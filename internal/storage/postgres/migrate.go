package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies all pending up migrations and returns the schema version.
// An up to date schema is not an error.
func Migrate(ctx context.Context, db *sqlx.DB) (uint, error) {
	return runMigrations(ctx, db, func(m *migrate.Migrate) error {
		return m.Up()
	})
}

// MigrateDown rolls back the given number of migrations.
func MigrateDown(ctx context.Context, db *sqlx.DB, steps int) (uint, error) {
	if steps <= 0 {
		return 0, fmt.Errorf("rollback steps must be positive, got %d", steps)
	}
	return runMigrations(ctx, db, func(m *migrate.Migrate) error {
		return m.Steps(-steps)
	})
}

func runMigrations(ctx context.Context, db *sqlx.DB, apply func(*migrate.Migrate) error) (uint, error) {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return 0, fmt.Errorf("open migration source: %w", err)
	}

	// A dedicated connection keeps m.Close from closing the shared pool.
	conn, err := db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire migration connection: %w", err)
	}

	driver, err := migratepg.WithConnection(ctx, conn, &migratepg.Config{})
	if err != nil {
		_ = conn.Close()
		return 0, fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return 0, fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := apply(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}
