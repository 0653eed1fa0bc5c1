package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSetupWithoutEndpointUsesNoopProviders(t *testing.T) {
	t.Parallel()

	telemetry, err := Setup(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	if _, ok := telemetry.TracerProvider.(*sdktrace.TracerProvider); ok {
		t.Fatal("expected no SDK tracer provider without an endpoint")
	}
	if telemetry.Registry == nil {
		t.Fatal("expected a registry")
	}
	if err := telemetry.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}
}

func TestSetupWithEndpointBuildsSDKProviders(t *testing.T) {
	t.Parallel()

	telemetry, err := Setup(context.Background(), Config{OTLPEndpoint: "127.0.0.1:4317", Insecure: true})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	if _, ok := telemetry.TracerProvider.(*sdktrace.TracerProvider); !ok {
		t.Fatalf("expected SDK tracer provider, got %T", telemetry.TracerProvider)
	}
	if _, ok := telemetry.MeterProvider.(*sdkmetric.MeterProvider); !ok {
		t.Fatalf("expected SDK meter provider, got %T", telemetry.MeterProvider)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = telemetry.Shutdown(ctx)
	if len(telemetry.shutdown) != 0 {
		t.Fatal("expected shutdown hooks to be cleared")
	}
}

func TestWriteMetrics(t *testing.T) {
	t.Parallel()

	telemetry, err := Setup(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "weddash_test_total", Help: "test counter"})
	telemetry.Registry.MustRegister(counter)
	counter.Add(3)

	path := filepath.Join(t.TempDir(), "weddash.prom")
	if err := telemetry.WriteMetrics(path); err != nil {
		t.Fatalf("WriteMetrics returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read metrics file: %v", err)
	}
	if !strings.Contains(string(data), "weddash_test_total 3") {
		t.Fatalf("unexpected metrics file %q", data)
	}

	if err := telemetry.WriteMetrics(""); err != nil {
		t.Fatalf("expected empty path to be a no-op, got %v", err)
	}
}
