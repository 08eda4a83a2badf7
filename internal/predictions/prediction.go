// Package predictions runs the classification pipeline: validate, fingerprint,
// consult the result cache, classify on a miss, and record the occurrence in
// the history ledger.
package predictions

import (
	"context"
	"time"

	"github.com/JaimeStill/toxiguard/internal/classifier"
	"github.com/JaimeStill/toxiguard/internal/results"
)

// Prediction is the outcome of one classification request.
type Prediction struct {
	Label classifier.Label
	// Cached reports whether the label came from the result cache.
	Cached bool
}

// Request is the body of a prediction request.
type Request struct {
	Text string `json:"text"`
}

// Response is the body of a successful prediction.
type Response struct {
	Prediction string `json:"prediction"`
}

// Ledger records classification occurrences.
type Ledger interface {
	Append(ctx context.Context, text string, label classifier.Label, at time.Time) error
}

// System defines the public contract for the classification pipeline.
type System interface {
	Handler() *Handler

	// Predict classifies text, consulting the result cache first. History
	// append failures are logged and never fail the prediction.
	Predict(ctx context.Context, text string) (*Prediction, error)
	// Stats reports result cache usage.
	Stats() results.Stats
}
