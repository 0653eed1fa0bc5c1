// Package telemetry wires OpenTelemetry tracing and metrics for a CLI run
// and owns the Prometheus registry the HTTP fetcher records into.
package telemetry

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/crmarques/weddash/faults"
)

const defaultServiceName = "weddash"

type Config struct {
	// OTLPEndpoint is a host:port gRPC collector address. Empty disables
	// export.
	OTLPEndpoint   string
	Insecure       bool
	ServiceName    string
	ServiceVersion string
}

type Telemetry struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Registry       *prometheus.Registry

	shutdown []func(context.Context) error
}

// Setup never fails without an endpoint; it returns no-op providers and a
// fresh registry.
func Setup(ctx context.Context, cfg Config) (*Telemetry, error) {
	telemetry := &Telemetry{
		TracerProvider: tracenoop.NewTracerProvider(),
		MeterProvider:  metricnoop.NewMeterProvider(),
		Registry:       prometheus.NewRegistry(),
	}

	endpoint := strings.TrimSpace(cfg.OTLPEndpoint)
	if endpoint == "" {
		return telemetry, nil
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", firstNonEmpty(cfg.ServiceName, defaultServiceName)),
		attribute.String("service.version", firstNonEmpty(cfg.ServiceVersion, "dev")),
	)

	traceOptions := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	metricOptions := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(endpoint)}
	if cfg.Insecure {
		traceOptions = append(traceOptions, otlptracegrpc.WithInsecure())
		metricOptions = append(metricOptions, otlpmetricgrpc.WithInsecure())
	}

	traceExporter, err := otlptracegrpc.New(ctx, traceOptions...)
	if err != nil {
		return nil, faults.NewTypedError(faults.TransportError, "failed to create OTLP trace exporter", err)
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	telemetry.TracerProvider = tracerProvider
	telemetry.shutdown = append(telemetry.shutdown, tracerProvider.Shutdown)

	metricExporter, err := otlpmetricgrpc.New(ctx, metricOptions...)
	if err != nil {
		_ = telemetry.Shutdown(ctx)
		return nil, faults.NewTypedError(faults.TransportError, "failed to create OTLP metric exporter", err)
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	telemetry.MeterProvider = meterProvider
	telemetry.shutdown = append(telemetry.shutdown, meterProvider.Shutdown)

	return telemetry, nil
}

// Shutdown flushes exporters in reverse setup order.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error
	for idx := len(t.shutdown) - 1; idx >= 0; idx-- {
		if err := t.shutdown[idx](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	t.shutdown = nil
	return errors.Join(errs...)
}

// WriteMetrics dumps the registry in the node-exporter textfile format.
func (t *Telemetry) WriteMetrics(path string) error {
	path = strings.TrimSpace(path)
	if t == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, t.Registry); err != nil {
		return faults.NewTypedError(faults.InternalError, "failed to write metrics file", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
