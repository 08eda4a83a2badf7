// Package classifier defines the toxicity classification boundary and its
// remote and local implementations.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

var (
	// ErrUnknownProvider indicates the configured provider is not supported.
	ErrUnknownProvider = errors.New("unknown classifier provider")
	// ErrUnexpectedResponse indicates the model answered in an unrecognized shape.
	ErrUnexpectedResponse = errors.New("unexpected classifier response")
)

// Classifier assigns a label to validated text. Implementations may be slow
// and must be safe for concurrent use.
type Classifier interface {
	Classify(ctx context.Context, text string) (Label, error)
}

// Func adapts an ordinary function to the Classifier interface.
type Func func(ctx context.Context, text string) (Label, error)

// Classify calls f(ctx, text).
func (f Func) Classify(ctx context.Context, text string) (Label, error) {
	return f(ctx, text)
}

// New builds the classifier selected by cfg.Provider. Classifiers holding
// remote clients also implement io.Closer.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (Classifier, error) {
	logger = logger.With("system", "classifier", "provider", cfg.Provider)

	switch cfg.Provider {
	case ProviderInference:
		client := &http.Client{Timeout: cfg.TimeoutDuration()}
		return NewInference(cfg, client, logger), nil
	case ProviderGemini:
		return NewGemini(ctx, cfg, logger)
	case ProviderLexicon:
		return NewLexicon(cfg.Terms), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
