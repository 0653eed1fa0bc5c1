package main

import (
	"context"
	"os"

	"github.com/crmarques/weddash/config"
	"github.com/crmarques/weddash/core"
	"github.com/crmarques/weddash/internal/cli"
)

func main() {
	if err := cli.Execute(dependencies()); err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func dependencies() cli.Dependencies {
	return cli.Dependencies{
		Contexts: newContextService,
		Runtime:  newRuntime,
	}
}

func newContextService(configPath string) config.ContextService {
	return core.NewContextService(core.BootstrapConfig{ContextCatalogPath: configPath})
}

func newRuntime(ctx context.Context, opts cli.RuntimeOptions) (cli.Runtime, error) {
	runtime, err := core.NewRuntime(ctx, core.BootstrapConfig{
		ContextCatalogPath: opts.ConfigPath,
		Logger:             opts.Logger,
		TracerProvider:     opts.TracerProvider,
		MeterProvider:      opts.MeterProvider,
		Registerer:         opts.Registerer,
	}, opts.Selection)
	if err != nil {
		return cli.Runtime{}, err
	}

	return cli.Runtime{
		Context:  runtime.Context,
		Session:  runtime.Session,
		Resolver: runtime.Resolver,
		Provider: runtime.Provider,
	}, nil
}

func exitCodeForError(err error) int {
	return cli.ExitCodeForError(err)
}
