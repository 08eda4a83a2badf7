// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, metrics, classifier)
// that domain systems require.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/toxiguard/internal/classifier"
	"github.com/JaimeStill/toxiguard/internal/config"
	"github.com/JaimeStill/toxiguard/pkg/database"
	"github.com/JaimeStill/toxiguard/pkg/lifecycle"
	"github.com/JaimeStill/toxiguard/pkg/observe"
	"github.com/JaimeStill/toxiguard/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Database   database.System
	Storage    storage.System
	Observe    observe.System
	Classifier classifier.Classifier
}

// New creates an Infrastructure from the application configuration, logging to stderr.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput is New with an explicit log destination.
func NewWithOutput(cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := NewLogger(&cfg.Logging, w)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	obs, err := observe.New(&cfg.Metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("metrics init failed: %w", err)
	}

	c, err := classifier.New(lc.Context(), &cfg.Classifier, logger)
	if err != nil {
		return nil, fmt.Errorf("classifier init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle:  lc,
		Logger:     logger,
		Database:   db,
		Storage:    store,
		Observe:    obs,
		Classifier: c,
	}, nil
}

// NewLogger builds the root logger from the logging config.
func NewLogger(cfg *config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.JSON() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.Observe.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("metrics start failed: %w", err)
	}

	if closer, ok := i.Classifier.(io.Closer); ok {
		i.Lifecycle.OnShutdown(func() {
			<-i.Lifecycle.Context().Done()
			if err := closer.Close(); err != nil {
				i.Logger.Error("classifier close failed", "error", err)
			}
		})
	}
	return nil
}
