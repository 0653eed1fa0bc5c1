package common

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/crmarques/weddash/config"
	"github.com/crmarques/weddash/telemetry"
)

func TestInvocationCloseWritesMetricsFile(t *testing.T) {
	t.Parallel()

	run, err := telemetry.Setup(context.Background(), telemetry.Config{})
	if err != nil {
		t.Fatalf("telemetry.Setup returned error: %v", err)
	}
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "weddash_test_total", Help: "test counter"})
	run.Registry.MustRegister(counter)
	counter.Inc()

	path := filepath.Join(t.TempDir(), "weddash.prom")
	invocation := &Invocation{Telemetry: run, MetricsFile: path}
	if err := invocation.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read metrics file: %v", err)
	}
	if !strings.Contains(string(data), "weddash_test_total 1") {
		t.Fatalf("unexpected metrics file %q", string(data))
	}

	var nilInvocation *Invocation
	if err := nilInvocation.Close(); err != nil {
		t.Fatalf("expected nil invocation to close cleanly, got %v", err)
	}
}

func TestRequireRuntimePassesInvocationAndSelection(t *testing.T) {
	t.Parallel()

	run, err := telemetry.Setup(context.Background(), telemetry.Config{})
	if err != nil {
		t.Fatalf("telemetry.Setup returned error: %v", err)
	}

	var captured RuntimeOptions
	deps := CommandDependencies{
		Runtime: func(_ context.Context, opts RuntimeOptions) (Runtime, error) {
			captured = opts
			return Runtime{Context: config.Context{Name: opts.Selection.Name}}, nil
		},
	}

	command := &cobra.Command{Use: "test"}
	command.SetContext(WithInvocation(context.Background(), &Invocation{Telemetry: run}))

	runtime, err := RequireRuntime(command, deps, &GlobalFlags{
		Context:    "staging",
		ConfigPath: "/tmp/contexts.yaml",
		Overrides:  []string{"session.role=VENDOR"},
	})
	if err != nil {
		t.Fatalf("RequireRuntime returned error: %v", err)
	}
	if runtime.Context.Name != "staging" || captured.ConfigPath != "/tmp/contexts.yaml" {
		t.Fatalf("unexpected runtime options %#v", captured)
	}
	if captured.Selection.Overrides[config.OverrideSessionRole] != "VENDOR" {
		t.Fatalf("expected role override, got %#v", captured.Selection.Overrides)
	}
	if captured.Registerer != run.Registry || captured.TracerProvider == nil || captured.MeterProvider == nil {
		t.Fatalf("expected telemetry collaborators to be passed through, got %#v", captured)
	}

	if _, err := RequireRuntime(command, CommandDependencies{}, nil); err == nil {
		t.Fatal("expected missing runtime factory to fail")
	}
}
