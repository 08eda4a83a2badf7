package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"

	"github.com/JaimeStill/toxiguard/internal/config"
	"github.com/JaimeStill/toxiguard/internal/migrations"
	"github.com/JaimeStill/toxiguard/pkg/database"
)

func main() {
	var (
		driver  = flag.String("driver", "", "Database driver (postgres|sqlite); defaults to configuration")
		dsn     = flag.String("dsn", "", "Postgres connection string or sqlite file path; defaults to configuration")
		up      = flag.Bool("up", false, "Run all up migrations")
		down    = flag.Bool("down", false, "Run all down migrations")
		steps   = flag.Int("steps", 0, "Number of migrations (positive=up, negative=down)")
		version = flag.Bool("version", false, "Print current migration version")
		force   = flag.Int("force", -1, "Force set version (use with caution)")
	)
	flag.Parse()

	forceSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "force" {
			forceSet = true
		}
	})

	db, err := databaseConfig(*driver, *dsn)
	if err != nil {
		log.Fatalf("failed to resolve database: %v", err)
	}

	m, err := migrations.New(db)
	if err != nil {
		log.Fatalf("failed to create migrator: %v", err)
	}
	defer m.Close()

	switch {
	case *version:
		v, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("failed to get version: %v", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", v, dirty)
	case forceSet:
		if err := m.Force(*force); err != nil {
			log.Fatalf("failed to force version: %v", err)
		}
		fmt.Printf("forced to version %d\n", *force)
	case *up:
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("failed to run up migrations: %v", err)
		}
		fmt.Println("migrations applied successfully")
	case *down:
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("failed to run down migrations: %v", err)
		}
		fmt.Println("migrations reverted successfully")
	case *steps != 0:
		if err := m.Steps(*steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("failed to run migrations: %v", err)
		}
		fmt.Printf("applied %d migration steps\n", *steps)
	default:
		fmt.Println("usage: migrate [-driver postgres|sqlite] [-dsn <connection>] [-up|-down|-steps N|-version|-force N]")
		flag.PrintDefaults()
	}
}

// databaseConfig resolves the target database from flags, falling back to
// the service configuration when no dsn is given.
func databaseConfig(driver, dsn string) (*database.Config, error) {
	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		if driver != "" && database.Driver(driver) != cfg.Database.Driver {
			return nil, fmt.Errorf("-driver %s requires -dsn", driver)
		}
		return &cfg.Database, nil
	}

	db := &database.Config{Driver: database.Driver(driver)}
	if db.Driver == database.DriverSQLite {
		db.Path = dsn
	} else {
		db.URL = dsn
	}

	if err := db.Finalize(nil); err != nil {
		return nil, err
	}
	return db, nil
}
