package database

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:blankimports // file source driver
	"github.com/jonesrussell/gocrawl/internal/logger"
)

func migrationsSourceURL() string {
	migrationsPath := "internal/database/migrations"
	if absPath, absErr := filepath.Abs(migrationsPath); absErr == nil {
		migrationsPath = absPath
	}
	return fmt.Sprintf("file://%s", migrationsPath)
}

func newMigrator(driver migratedb.Driver) (*migrate.Migrate, error) {
	m, err := migrate.NewWithDatabaseInstance(migrationsSourceURL(), "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies all pending migrations under internal/database/migrations.
// Grounded on the sibling auth repo's internal/database/migrate.go, which
// wires golang-migrate against the same lib/pq driver this repo already uses
// for ordinary queries.
func RunMigrations(dsn string, log logger.Interface) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open database connection: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}

	m, err := newMigrator(driver)
	if err != nil {
		return err
	}

	if upErr := m.Up(); upErr != nil {
		if errors.Is(upErr, migrate.ErrNoChange) {
			log.Info("no pending migrations")
			return nil
		}
		return fmt.Errorf("run migrations: %w", upErr)
	}

	log.Info("migrations applied successfully")
	return nil
}

// MigrationVersion reports the current applied migration version.
func MigrationVersion(dsn string) (uint, bool, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return 0, false, fmt.Errorf("open database connection: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return 0, false, fmt.Errorf("create postgres driver: %w", err)
	}

	m, err := newMigrator(driver)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get migration version: %w", err)
	}
	return version, dirty, nil
}
