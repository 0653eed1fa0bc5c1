package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/crmarques/weddash/config"
	"github.com/crmarques/weddash/core"
	clitestkit "github.com/crmarques/weddash/internal/cli/testkit"
)

func testDependencies() Dependencies {
	return Dependencies{
		Contexts: func(configPath string) config.ContextService {
			return core.NewContextService(core.BootstrapConfig{ContextCatalogPath: configPath})
		},
		Runtime: func(ctx context.Context, opts RuntimeOptions) (Runtime, error) {
			runtime, err := core.NewRuntime(ctx, core.BootstrapConfig{
				ContextCatalogPath: opts.ConfigPath,
				Logger:             opts.Logger,
				TracerProvider:     opts.TracerProvider,
				MeterProvider:      opts.MeterProvider,
				Registerer:         opts.Registerer,
			}, opts.Selection)
			if err != nil {
				return Runtime{}, err
			}
			return Runtime{
				Context:  runtime.Context,
				Session:  runtime.Session,
				Resolver: runtime.Resolver,
				Provider: runtime.Provider,
			}, nil
		},
	}
}

func executeForTest(stdin string, args ...string) (string, string, error) {
	return clitestkit.ExecuteCommandForTestWithStreams(NewRootCommand(testDependencies()), stdin, args...)
}

// catalogFor writes a single-context catalog pointing at baseURL.
func catalogFor(t *testing.T, baseURL string, session string) string {
	t.Helper()

	return clitestkit.WriteCatalog(t, strings.Join([]string{
		"contexts:",
		"  - name: local",
		"    api:",
		"      base-url: " + baseURL + "/api",
		session,
		"  - name: staging",
		"    api:",
		"      base-url: https://staging.example.com",
		"current-ctx: local",
		"",
	}, "\n"))
}

const adminSession = "    session:\n      token: admin-token\n      role: ADMIN"
