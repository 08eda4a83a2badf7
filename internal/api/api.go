// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/toxiguard/internal/config"
	"github.com/JaimeStill/toxiguard/internal/infrastructure"
	"github.com/JaimeStill/toxiguard/pkg/middleware"
	"github.com/JaimeStill/toxiguard/pkg/module"
	"github.com/JaimeStill/toxiguard/pkg/observe"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	metrics, err := observe.HTTPMetrics(runtime.Observe.Meter())
	if err != nil {
		return nil, fmt.Errorf("http metrics: %w", err)
	}

	mux := http.NewServeMux()
	patterns, err := registerRoutes(mux, cfg, domain)
	if err != nil {
		return nil, err
	}
	runtime.Logger.Debug("routes registered", "patterns", patterns)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.Recover(runtime.Logger))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(metrics)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.MaxBytes(cfg.API.MaxBodySizeBytes()))

	return m, nil
}
