package api

import (
	"fmt"

	"github.com/JaimeStill/toxiguard/internal/history"
	"github.com/JaimeStill/toxiguard/internal/predictions"
	"github.com/JaimeStill/toxiguard/internal/results"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	History     history.System
	Predictions predictions.System
}

// NewDomain creates all domain systems from the API runtime. Each call owns
// a fresh result cache.
func NewDomain(runtime *Runtime) (*Domain, error) {
	meter := runtime.Observe.Meter()

	historySystem, err := history.New(
		runtime.Database.Connection(),
		runtime.Database.Driver(),
		runtime.Storage,
		&runtime.History,
		meter,
		runtime.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("history init failed: %w", err)
	}

	predictionsSystem, err := predictions.New(
		runtime.Classifier,
		results.New(),
		historySystem,
		meter,
		runtime.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("predictions init failed: %w", err)
	}

	return &Domain{
		History:     historySystem,
		Predictions: predictionsSystem,
	}, nil
}
