// Package migrations embeds the history schema for each supported driver and
// applies it with golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"

	"github.com/JaimeStill/toxiguard/pkg/database"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// URL returns the golang-migrate database URL for cfg. Migrations run on
// their own connection so closing the migrator leaves the application pool intact.
func URL(cfg *database.Config) string {
	if cfg.Driver == database.DriverSQLite {
		return "sqlite://" + cfg.Dsn()
	}
	return cfg.Dsn()
}

// New creates a migrator for the schema matching cfg.Driver.
// The caller must Close the returned migrator.
func New(cfg *database.Config) (*migrate.Migrate, error) {
	source, err := iofs.New(files, string(cfg.Driver))
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, URL(cfg))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// Up applies all pending migrations. An up-to-date schema is not an error.
func Up(cfg *database.Config, logger *slog.Logger) error {
	m, err := New(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}

	logger.Info("schema migrated", "driver", cfg.Driver, "version", version, "dirty", dirty)
	return nil
}
