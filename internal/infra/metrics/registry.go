// Package metrics owns the Prometheus registry shared by every instrumented component.
package metrics

import (
	"net/http"

	"storefront/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// NewRegistry returns a registry preloaded with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

// Handler exposes the registry in the Prometheus text format. It returns nil when
// metrics are disabled.
func Handler(cfg *config.Config, gatherer prometheus.Gatherer) http.Handler {
	if cfg.Metrics == nil || !cfg.Metrics.Enabled {
		return nil
	}

	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Path returns the route the handler is mounted on.
func Path(cfg *config.Config) string {
	if cfg.Metrics == nil || cfg.Metrics.Path == "" {
		return "/metrics"
	}

	return cfg.Metrics.Path
}

// Module provides the shared registry as both Registerer and Gatherer.
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		NewRegistry,
		func(reg *prometheus.Registry) prometheus.Registerer { return reg },
		func(reg *prometheus.Registry) prometheus.Gatherer { return reg },
	),
)
