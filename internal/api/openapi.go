package api

import (
	"github.com/JaimeStill/toxiguard/internal/config"
	"github.com/JaimeStill/toxiguard/internal/history"
	"github.com/JaimeStill/toxiguard/internal/predictions"
	"github.com/JaimeStill/toxiguard/pkg/openapi"
)

// NewSpec describes every API endpoint. Paths are relative to the module
// prefix, which is advertised as the server URL.
func NewSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(&cfg.API.OpenAPI, cfg.Version)
	spec.AddServer(cfg.API.BasePath)

	spec.AddPaths("", predictions.Paths())
	spec.AddSchemas(predictions.Schemas())

	spec.AddPaths("", history.Paths())
	spec.AddSchemas(history.Schemas())

	return spec
}
