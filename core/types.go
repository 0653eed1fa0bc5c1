package core

import (
	"net/http"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/crmarques/weddash/config"
	"github.com/crmarques/weddash/dataprovider"
	"github.com/crmarques/weddash/routing"
	"github.com/crmarques/weddash/session"
)

// Runtime is everything a command needs to talk to the marketplace API under
// one resolved context.
type Runtime struct {
	Context  config.Context
	Contexts config.ContextService
	Session  session.Store
	Resolver *routing.Resolver
	Fetcher  dataprovider.Fetcher
	Provider *dataprovider.Provider
}

type BootstrapConfig struct {
	ContextCatalogPath string

	// Optional ambient collaborators. Zero values fall back to discarding
	// logs, the global OpenTelemetry providers and no Prometheus metrics.
	Logger         logr.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Registerer     prometheus.Registerer

	// Transport replaces the HTTP round tripper; tests point it at a fake.
	Transport http.RoundTripper
}
