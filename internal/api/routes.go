package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/toxiguard/internal/config"
	"github.com/JaimeStill/toxiguard/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, cfg *config.Config, domain *Domain) ([]string, error) {
	spec, err := NewSpec(cfg).Handler()
	if err != nil {
		return nil, fmt.Errorf("openapi: %w", err)
	}

	return routes.Register(
		mux,
		domain.Predictions.Handler().Routes(),
		domain.History.Handler(cfg.API.Pagination).Routes(),
		routes.Group{
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/openapi.json", Handler: spec},
			},
		},
	), nil
}
