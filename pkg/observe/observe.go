// Package observe wires OpenTelemetry metrics to a Prometheus scrape endpoint.
package observe

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/JaimeStill/toxiguard/pkg/lifecycle"
)

// Scope is the instrumentation scope name shared by every toxiguard meter.
const Scope = "github.com/JaimeStill/toxiguard"

// System owns the meter provider and the scrape handler.
type System interface {
	// Meter returns the meter subsystems use to create instruments.
	Meter() metric.Meter
	// Handler serves the Prometheus exposition format.
	// Responds 404 when metrics are disabled.
	Handler() http.Handler
	// Path is the mount path for Handler.
	Path() string
	// Enabled reports whether instruments record anything.
	Enabled() bool
	// Start registers a shutdown hook that flushes and closes the provider.
	Start(lc *lifecycle.Coordinator) error
}

type observer struct {
	cfg      *Config
	provider *sdkmetric.MeterProvider
	meter    metric.Meter
	handler  http.Handler
	logger   *slog.Logger
}

// New creates the metrics system. With metrics disabled every instrument is a
// no-op and the handler responds 404.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	o := &observer{
		cfg:    cfg,
		logger: logger.With("system", "metrics"),
	}

	if !cfg.IsEnabled() {
		o.meter = noop.NewMeterProvider().Meter(Scope)
		o.handler = http.NotFoundHandler()
		return o, nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	o.provider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	o.meter = o.provider.Meter(Scope)
	o.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	return o, nil
}

func (o *observer) Meter() metric.Meter   { return o.meter }
func (o *observer) Handler() http.Handler { return o.handler }
func (o *observer) Path() string          { return o.cfg.Path }
func (o *observer) Enabled() bool         { return o.provider != nil }

func (o *observer) Start(lc *lifecycle.Coordinator) error {
	if o.provider == nil {
		o.logger.Info("metrics disabled")
		return nil
	}

	o.logger.Info("starting metrics system", "path", o.cfg.Path)

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := o.provider.Shutdown(ctx); err != nil {
			o.logger.Error("metrics shutdown failed", "error", err)
			return
		}
		o.logger.Info("metrics provider closed")
	})

	return nil
}
