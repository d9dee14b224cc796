package db

import (
	"errors"
	"fmt"
	"io/fs"

	"bookshelf/internal/platform/db/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// MigrateResult describes what happened during migration.
type MigrateResult struct {
	Version uint
	Dirty   bool
	Changed bool
}

// Migrate applies every pending embedded migration for the connection's
// dialect. The migrate instance is not closed because that would close the
// shared *sql.DB.
func (d *Database) Migrate() (*MigrateResult, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve sql db handle: %w", err)
	}

	var (
		dir        string
		driverName string
		driver     database.Driver
	)
	switch d.Driver {
	case DriverSQLite:
		dir, driverName = "sqlite", "sqlite3"
		driver, err = sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	case DriverPostgres:
		dir, driverName = "postgres", "pgx5"
		driver, err = pgxmigrate.WithInstance(sqlDB, &pgxmigrate.Config{})
	default:
		return nil, fmt.Errorf("no migrations for driver %q", d.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}

	sub, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("migration files: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		return nil, fmt.Errorf("migration instance: %w", err)
	}

	err = m.Up()
	changed := true
	if errors.Is(err, migrate.ErrNoChange) {
		changed = false
		err = nil
	}
	if err != nil {
		return nil, fmt.Errorf("migration up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return nil, fmt.Errorf("migration version: %w", err)
	}
	return &MigrateResult{
		Version: version,
		Dirty:   dirty,
		Changed: changed,
	}, nil
}
