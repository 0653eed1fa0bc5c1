package common

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/crmarques/weddash/config"
	"github.com/crmarques/weddash/dataprovider"
	"github.com/crmarques/weddash/routing"
	"github.com/crmarques/weddash/session"
)

// Runtime is the slice of a bootstrapped context the commands use.
type Runtime struct {
	Context  config.Context
	Session  session.Store
	Resolver *routing.Resolver
	Provider *dataprovider.Provider
}

type RuntimeOptions struct {
	ConfigPath     string
	Selection      config.ContextSelection
	Logger         logr.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Registerer     prometheus.Registerer
}

// CommandDependencies builds collaborators lazily so global flags such as
// --config and --set are parsed before anything touches the catalog.
type CommandDependencies struct {
	Contexts func(configPath string) config.ContextService
	Runtime  func(ctx context.Context, opts RuntimeOptions) (Runtime, error)
}

func RequireContexts(deps CommandDependencies, globalFlags *GlobalFlags) (config.ContextService, error) {
	if deps.Contexts == nil {
		return nil, ValidationError("context service is not configured", nil)
	}
	return deps.Contexts(configPath(globalFlags)), nil
}

// RequireRuntime resolves the selected context with --set overrides applied
// and wires it with the invocation's logger and telemetry.
func RequireRuntime(command *cobra.Command, deps CommandDependencies, globalFlags *GlobalFlags) (Runtime, error) {
	if deps.Runtime == nil {
		return Runtime{}, ValidationError("runtime is not configured", nil)
	}

	selection, err := ContextSelection(globalFlags)
	if err != nil {
		return Runtime{}, err
	}

	opts := RuntimeOptions{
		ConfigPath: configPath(globalFlags),
		Selection:  selection,
	}
	if invocation := InvocationFrom(command.Context()); invocation != nil {
		opts.Logger = invocation.Logger
		if invocation.Telemetry != nil {
			opts.TracerProvider = invocation.Telemetry.TracerProvider
			opts.MeterProvider = invocation.Telemetry.MeterProvider
			opts.Registerer = invocation.Telemetry.Registry
		}
	}

	return deps.Runtime(command.Context(), opts)
}

func ContextSelection(globalFlags *GlobalFlags) (config.ContextSelection, error) {
	if globalFlags == nil {
		return config.ContextSelection{}, nil
	}
	overrides, err := ParseAssignments("set", globalFlags.Overrides)
	if err != nil {
		return config.ContextSelection{}, err
	}
	return config.ContextSelection{Name: globalFlags.Context, Overrides: overrides}, nil
}

func configPath(globalFlags *GlobalFlags) string {
	if globalFlags == nil {
		return ""
	}
	return globalFlags.ConfigPath
}
