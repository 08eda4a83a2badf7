package predictions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/toxiguard/internal/classifier"
	"github.com/JaimeStill/toxiguard/internal/fingerprint"
	"github.com/JaimeStill/toxiguard/internal/results"
)

type pipeline struct {
	classifier classifier.Classifier
	cache      *results.Cache
	ledger     Ledger
	flights    singleflight.Group
	now        func() time.Time
	logger     *slog.Logger
	metrics    *metrics
}

// New creates the classification pipeline. The cache is owned by the
// pipeline for its lifetime; pass a fresh one per instance.
func New(
	c classifier.Classifier,
	cache *results.Cache,
	ledger Ledger,
	meter metric.Meter,
	logger *slog.Logger,
) (System, error) {
	m, err := newMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("predictions metrics: %w", err)
	}

	return &pipeline{
		classifier: c,
		cache:      cache,
		ledger:     ledger,
		now:        time.Now,
		logger:     logger.With("system", "predictions"),
		metrics:    m,
	}, nil
}

func (p *pipeline) Handler() *Handler {
	return NewHandler(p, p.logger)
}

func (p *pipeline) Stats() results.Stats {
	return p.cache.Stats()
}

func (p *pipeline) Predict(ctx context.Context, text string) (pred *Prediction, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("prediction panicked", "panic", r, "stack", string(debug.Stack()))
			pred, err = nil, fmt.Errorf("%w: %v", ErrInternal, r)
		}
		p.metrics.request(ctx, pred, err)
	}()

	if err := Validate(text); err != nil {
		return nil, err
	}

	fp := fingerprint.Of(text)

	label, cached := p.cache.Get(fp)
	if !cached {
		label, err = p.classify(ctx, fp, text)
		if err != nil {
			return nil, err
		}
	}

	if err := p.ledger.Append(ctx, text, label, p.now()); err != nil {
		p.logger.Warn("history append failed", "fingerprint", fp, "error", err)
		p.metrics.appendFailed(ctx)
	}

	return &Prediction{Label: label, Cached: cached}, nil
}

// classify runs at most one classifier call per fingerprint at a time.
// Concurrent callers for the same text share the flight's result.
func (p *pipeline) classify(ctx context.Context, fp fingerprint.Fingerprint, text string) (classifier.Label, error) {
	v, err, shared := p.flights.Do(fp.String(), func() (any, error) {
		if label, ok := p.cache.Peek(fp); ok {
			return label, nil
		}

		start := time.Now()
		label, err := p.classifier.Classify(context.WithoutCancel(ctx), text)
		p.metrics.classified(ctx, time.Since(start), err)

		if err != nil {
			return nil, err
		}
		if !label.Valid() {
			return nil, fmt.Errorf("%w: %q", classifier.ErrUnknownLabel, label)
		}

		p.cache.Put(fp, label)
		return label, nil
	})

	if err != nil {
		p.logger.Error("classification failed", "fingerprint", fp, "shared", shared, "error", err)
		return "", fmt.Errorf("%w: %w", ErrClassify, err)
	}
	return v.(classifier.Label), nil
}

type metrics struct {
	requests       metric.Int64Counter
	classifierCall metric.Float64Histogram
	appendFailures metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	requests, err := meter.Int64Counter(
		"toxiguard.predictions",
		metric.WithDescription("Prediction requests by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	classifierCall, err := meter.Float64Histogram(
		"toxiguard.classifier.duration",
		metric.WithDescription("External classifier call duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	appendFailures, err := meter.Int64Counter(
		"toxiguard.predictions.history_failures",
		metric.WithDescription("History appends that failed and were swallowed"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	return &metrics{
		requests:       requests,
		classifierCall: classifierCall,
		appendFailures: appendFailures,
	}, nil
}

func (m *metrics) request(ctx context.Context, pred *Prediction, err error) {
	attrs := []attribute.KeyValue{attribute.String("outcome", outcome(err))}
	if pred != nil {
		attrs = append(attrs,
			attribute.String("label", string(pred.Label)),
			attribute.Bool("cached", pred.Cached),
		)
	}
	m.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *metrics) classified(ctx context.Context, d time.Duration, err error) {
	m.classifierCall.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome(err))))
}

func (m *metrics) appendFailed(ctx context.Context) {
	m.appendFailures.Add(ctx, 1)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid"
	}
	return "error"
}
