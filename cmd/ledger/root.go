package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/JaimeStill/toxiguard/internal/config"
	"github.com/JaimeStill/toxiguard/internal/history"
	"github.com/JaimeStill/toxiguard/internal/infrastructure"
	"github.com/JaimeStill/toxiguard/internal/migrations"
	"github.com/JaimeStill/toxiguard/pkg/database"
	"github.com/JaimeStill/toxiguard/pkg/observe"
	"github.com/JaimeStill/toxiguard/pkg/storage"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Administer the toxiguard classification history",
	Long: `ledger operates on the same durable store and snapshot as the server.
It reads config.toml and TOXIGUARD_* environment variables like the server does.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.BaseConfigFile, "base configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(importCmd, exportCmd, showCmd, resetCmd)
}

// ledger is an opened history system and the resources backing it.
type ledger struct {
	history.System
	cfg    *config.Config
	db     database.System
	logger *slog.Logger
}

func (l *ledger) Close() error {
	return l.db.Connection().Close()
}

func openLedger() (*ledger, error) {
	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}
	logger := infrastructure.NewLogger(&cfg.Logging, os.Stderr)

	if cfg.Database.Migrate() {
		if err := migrations.Up(&cfg.Database, logger); err != nil {
			return nil, err
		}
	}

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		db.Connection().Close()
		return nil, err
	}

	sys, err := history.New(
		db.Connection(),
		db.Driver(),
		store,
		&cfg.History,
		noop.NewMeterProvider().Meter(observe.Scope),
		logger,
	)
	if err != nil {
		db.Connection().Close()
		return nil, err
	}

	return &ledger{System: sys, cfg: cfg, db: db, logger: logger}, nil
}
