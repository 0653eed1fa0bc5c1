package file

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/crmarques/weddash/config"
	"github.com/crmarques/weddash/faults"
)

const validContextCatalogYAML = `contexts:
  - name: staging
    api:
      base-url: https://staging.example.com/api
      timeout: 10s
      default-headers:
        X-Tenant: north
    session:
      token-env: STAGING_TOKEN
      role-env: STAGING_ROLE
    paths:
      default:
        venue: admin/venues
      roles:
        VENDOR:
          venue: vendor/venues
    delete-many-concurrency: 4
  - name: local
    api:
      base-url: http://localhost:8080
    session:
      token: local-token
      role: ADMIN
current-ctx: local
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "contexts.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test catalog: %v", err)
	}
	return path
}

func TestDecodeCatalogSuccess(t *testing.T) {
	t.Parallel()

	catalog, err := decodeCatalog([]byte(validContextCatalogYAML))
	if err != nil {
		t.Fatalf("decodeCatalog returned error: %v", err)
	}
	if len(catalog.Contexts) != 2 || catalog.CurrentCtx != "local" {
		t.Fatalf("unexpected catalog %#v", catalog)
	}
	staging := catalog.Contexts[0]
	if staging.API.DefaultHeaders["X-Tenant"] != "north" {
		t.Fatalf("expected default header, got %#v", staging.API.DefaultHeaders)
	}
	if staging.Paths.Roles["VENDOR"]["venue"] != "vendor/venues" {
		t.Fatalf("expected vendor path override, got %#v", staging.Paths)
	}
	if staging.DeleteManyConcurrency != 4 {
		t.Fatalf("expected concurrency 4, got %d", staging.DeleteManyConcurrency)
	}
}

func TestDecodeCatalogRejectsUnknownField(t *testing.T) {
	t.Parallel()

	_, err := decodeCatalog([]byte(`contexts:
  - name: local
    api:
      base-url: http://localhost
      retries: 3
current-ctx: local
`))
	assertTypedCategory(t, err, faults.ValidationError)
}

func TestDecodeCatalogDocuments(t *testing.T) {
	t.Parallel()

	for _, content := range []string{"", "# no contexts yet\n"} {
		catalog, err := decodeCatalog([]byte(content))
		if err != nil || len(catalog.Contexts) != 0 || catalog.CurrentCtx != "" {
			t.Fatalf("expected empty catalog for %q, got %#v %v", content, catalog, err)
		}
	}

	_, err := decodeCatalog([]byte(validContextCatalogYAML + "---\ncurrent-ctx: staging\n"))
	assertTypedCategory(t, err, faults.ValidationError)
}

func TestResolveContextMakesFilePathsAbsolute(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("failed to resolve home dir: %v", err)
	}

	path := writeCatalog(t, `contexts:
  - name: files
    api:
      base-url: https://api.example.com
      tls:
        ca-cert-file: certs/ca.pem
        client-cert-file: ~/certs/client.pem
        client-key-file: /etc/weddash/client.key
    session:
      file: ./session.yaml
current-ctx: files
`)
	catalogDir := filepath.Dir(path)

	resolved, err := NewCatalogService(path).ResolveContext(context.Background(), config.ContextSelection{})
	if err != nil {
		t.Fatalf("ResolveContext returned error: %v", err)
	}
	if resolved.Session.File != filepath.Join(catalogDir, "session.yaml") {
		t.Fatalf("unexpected session file %q", resolved.Session.File)
	}
	tls := resolved.API.TLS
	if tls.CACertFile != filepath.Join(catalogDir, "certs", "ca.pem") ||
		tls.ClientCertFile != filepath.Join(home, "certs", "client.pem") ||
		tls.ClientKeyFile != filepath.Clean("/etc/weddash/client.key") {
		t.Fatalf("unexpected tls paths %#v", tls)
	}

	stored, err := NewCatalogService(path).GetCurrent(context.Background())
	if err != nil || stored.Session.File != "./session.yaml" {
		t.Fatalf("expected stored catalog to keep relative paths, got %#v %v", stored.Session, err)
	}
}

func TestValidateCatalog(t *testing.T) {
	t.Parallel()

	local := config.Context{Name: "local", API: config.API{BaseURL: "http://localhost"}}

	testCases := []struct {
		name    string
		catalog config.ContextCatalog
		wantErr string
	}{
		{name: "empty", catalog: config.ContextCatalog{}},
		{name: "current_without_contexts", catalog: config.ContextCatalog{CurrentCtx: "local"}, wantErr: "current-ctx must be empty"},
		{name: "current_missing", catalog: config.ContextCatalog{Contexts: []config.Context{local}}, wantErr: "current-ctx must be set"},
		{name: "current_unknown", catalog: config.ContextCatalog{Contexts: []config.Context{local}, CurrentCtx: "prod"}, wantErr: "does not match"},
		{name: "duplicate_names", catalog: config.ContextCatalog{Contexts: []config.Context{local, local}, CurrentCtx: "local"}, wantErr: "duplicate context name"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := validateCatalog(testCase.catalog)
			if testCase.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid catalog, got %v", err)
				}
				return
			}
			assertTypedCategory(t, err, faults.ValidationError)
			if !strings.Contains(err.Error(), testCase.wantErr) {
				t.Fatalf("expected %q in error, got %v", testCase.wantErr, err)
			}
		})
	}
}

func TestValidateConfigRules(t *testing.T) {
	t.Parallel()

	base := func() config.Context {
		return config.Context{Name: "dev", API: config.API{BaseURL: "https://api.example.com"}}
	}

	testCases := []struct {
		name    string
		mutate  func(*config.Context)
		wantErr string
	}{
		{name: "valid", mutate: func(*config.Context) {}},
		{name: "missing_name", mutate: func(cfg *config.Context) { cfg.Name = " " }, wantErr: "context name"},
		{name: "missing_base_url", mutate: func(cfg *config.Context) { cfg.API.BaseURL = "" }, wantErr: "api.base-url is required"},
		{name: "relative_base_url", mutate: func(cfg *config.Context) { cfg.API.BaseURL = "/api" }, wantErr: "absolute http or https"},
		{name: "bad_timeout", mutate: func(cfg *config.Context) { cfg.API.Timeout = "fast" }, wantErr: "api.timeout"},
		{name: "negative_rate", mutate: func(cfg *config.Context) { cfg.API.MaxRequestsPerSecond = -2 }, wantErr: "max-requests-per-second"},
		{name: "half_tls_pair", mutate: func(cfg *config.Context) { cfg.API.TLS = &config.TLS{ClientKeyFile: "key.pem"} }, wantErr: "api.tls"},
		{
			name: "two_session_sources",
			mutate: func(cfg *config.Context) {
				cfg.Session = &config.Session{Token: "t", File: "/tmp/session.yaml"}
			},
			wantErr: "session must define only one",
		},
		{name: "unknown_session_role", mutate: func(cfg *config.Context) { cfg.Session = &config.Session{Token: "t", Role: "GUEST"} }, wantErr: "session.role"},
		{
			name: "unknown_paths_role",
			mutate: func(cfg *config.Context) {
				cfg.Paths = &config.Paths{Roles: map[string]map[string]string{"GUEST": {"vendor": "vendors"}}}
			},
			wantErr: "paths.roles key",
		},
		{
			name: "path_with_query",
			mutate: func(cfg *config.Context) {
				cfg.Paths = &config.Paths{Default: map[string]string{"vendor": "vendors?x=1"}}
			},
			wantErr: "plain path segment",
		},
		{name: "negative_concurrency", mutate: func(cfg *config.Context) { cfg.DeleteManyConcurrency = -1 }, wantErr: "delete-many-concurrency"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			cfg := base()
			testCase.mutate(&cfg)
			err := validateConfig(cfg)
			if testCase.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			assertTypedCategory(t, err, faults.ValidationError)
			if !strings.Contains(err.Error(), testCase.wantErr) {
				t.Fatalf("expected %q in error, got %v", testCase.wantErr, err)
			}
		})
	}
}

func TestResolveCatalogPathDefaultAndEnv(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("failed to resolve home dir: %v", err)
	}

	resolvedDefault, err := resolveCatalogPath(config.DefaultContextCatalogPath)
	if err != nil {
		t.Fatalf("resolveCatalogPath default failed: %v", err)
	}
	if expected := filepath.Join(home, ".weddash/contexts.yaml"); resolvedDefault != expected {
		t.Fatalf("expected %q, got %q", expected, resolvedDefault)
	}

	envPath := filepath.Join(t.TempDir(), "contexts.yaml")
	t.Setenv(config.ContextFileEnvVar, envPath)
	resolvedFromEnv, err := resolveCatalogPath("")
	if err != nil {
		t.Fatalf("resolveCatalogPath env failed: %v", err)
	}
	if resolvedFromEnv != envPath {
		t.Fatalf("expected env path %q, got %q", envPath, resolvedFromEnv)
	}
}

func TestResolveContextSelectionAndDefaults(t *testing.T) {
	t.Parallel()

	service := NewCatalogService(writeCatalog(t, validContextCatalogYAML))

	t.Run("empty_name_uses_current_context", func(t *testing.T) {
		t.Parallel()

		resolved, err := service.ResolveContext(context.Background(), config.ContextSelection{})
		if err != nil {
			t.Fatalf("ResolveContext returned error: %v", err)
		}
		if resolved.Name != "local" || resolved.Session.Token != "local-token" {
			t.Fatalf("unexpected resolved context %#v", resolved)
		}
		if resolved.Session.HasEnv() {
			t.Fatalf("expected inline session to stay inline, got %#v", resolved.Session)
		}
	})

	t.Run("explicit_context_keeps_env_names", func(t *testing.T) {
		t.Parallel()

		resolved, err := service.ResolveContext(context.Background(), config.ContextSelection{Name: "staging"})
		if err != nil {
			t.Fatalf("ResolveContext returned error: %v", err)
		}
		if resolved.Session.TokenEnv != "STAGING_TOKEN" || resolved.Session.RoleEnv != "STAGING_ROLE" {
			t.Fatalf("unexpected session %#v", resolved.Session)
		}
	})

	t.Run("unknown_context_returns_not_found", func(t *testing.T) {
		t.Parallel()

		_, err := service.ResolveContext(context.Background(), config.ContextSelection{Name: "missing"})
		assertTypedCategory(t, err, faults.NotFoundError)
		if !strings.Contains(err.Error(), `context "missing" not found`) {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestResolveContextDefaultsSessionToEnvironment(t *testing.T) {
	t.Parallel()

	service := NewCatalogService(writeCatalog(t, `contexts:
  - name: bare
    api:
      base-url: https://api.example.com
current-ctx: bare
`))

	resolved, err := service.ResolveContext(context.Background(), config.ContextSelection{})
	if err != nil {
		t.Fatalf("ResolveContext returned error: %v", err)
	}
	if resolved.Session == nil || resolved.Session.TokenEnv != "WEDDASH_TOKEN" || resolved.Session.RoleEnv != "WEDDASH_ROLE" {
		t.Fatalf("expected default env session, got %#v", resolved.Session)
	}
}

func TestResolveContextOverrides(t *testing.T) {
	t.Parallel()

	service := NewCatalogService(writeCatalog(t, validContextCatalogYAML))

	resolved, err := service.ResolveContext(context.Background(), config.ContextSelection{
		Name: "staging",
		Overrides: map[string]string{
			config.OverrideAPIBaseURL:           "https://other.example.com",
			config.OverrideAPIRequestsPerSecond: "2.5",
			config.OverrideSessionRole:          "vendor",
			config.OverrideSessionToken:         "override-token",
		},
	})
	if err != nil {
		t.Fatalf("ResolveContext returned error: %v", err)
	}
	if resolved.API.BaseURL != "https://other.example.com" || resolved.API.MaxRequestsPerSecond != 2.5 {
		t.Fatalf("unexpected api %#v", resolved.API)
	}
	if *resolved.Session != (config.Session{Token: "override-token", Role: "vendor"}) {
		t.Fatalf("expected inline session from overrides, got %#v", resolved.Session)
	}

	_, err = service.ResolveContext(context.Background(), config.ContextSelection{
		Overrides: map[string]string{"unknown.key": "value", "api.base-url": "https://x"},
	})
	assertTypedCategory(t, err, faults.ValidationError)
	if !strings.Contains(err.Error(), `unknown override key "unknown.key": use one of api.base-url`) {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = service.ResolveContext(context.Background(), config.ContextSelection{
		Overrides: map[string]string{config.OverrideAPIRequestsPerSecond: "lots"},
	})
	assertTypedCategory(t, err, faults.ValidationError)
}

func TestCatalogServiceWritesUserOnlyPermissions(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("POSIX file mode semantics are not portable on Windows")
	}

	path := filepath.Join(t.TempDir(), "nested", "contexts.yaml")
	service := NewCatalogService(path)

	if err := service.Create(context.Background(), config.Context{Name: "dev", API: config.API{BaseURL: "https://api.example.com"}}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat catalog: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Fatalf("expected 0600 permissions, got %#o", got)
	}
}

func TestCatalogServiceNormalizesPermissiveFileMode(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("POSIX file mode semantics are not portable on Windows")
	}

	path := filepath.Join(t.TempDir(), "contexts.yaml")
	if err := os.WriteFile(path, []byte(validContextCatalogYAML), 0o644); err != nil {
		t.Fatalf("failed to write test catalog: %v", err)
	}

	if _, err := NewCatalogService(path).List(context.Background()); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat catalog: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Fatalf("expected normalized 0600 permissions, got %#o", got)
	}
}

func TestCatalogServiceMissingCatalog(t *testing.T) {
	t.Parallel()

	service := NewCatalogService(filepath.Join(t.TempDir(), "contexts.yaml"))
	ctx := context.Background()

	items, err := service.List(ctx)
	if err != nil || len(items) != 0 {
		t.Fatalf("expected empty list, got %v %v", items, err)
	}

	_, err = service.GetCurrent(ctx)
	assertTypedCategory(t, err, faults.NotFoundError)
	_, err = service.ResolveContext(ctx, config.ContextSelection{})
	assertTypedCategory(t, err, faults.NotFoundError)

	assertTypedCategory(t, service.SetCurrent(ctx, "missing"), faults.NotFoundError)
	assertTypedCategory(t, service.Delete(ctx, "missing"), faults.NotFoundError)
	assertTypedCategory(t, service.Update(ctx, config.Context{Name: "dev", API: config.API{BaseURL: "https://x"}}), faults.NotFoundError)
}

func TestCatalogServiceLifecycle(t *testing.T) {
	t.Parallel()

	service := NewCatalogService(filepath.Join(t.TempDir(), "contexts.yaml"))
	ctx := context.Background()

	dev := config.Context{Name: "dev", API: config.API{BaseURL: "http://localhost:8080"}}
	prod := config.Context{
		Name:    "prod",
		API:     config.API{BaseURL: "https://api.example.com"},
		Session: &config.Session{File: "/tmp/weddash-session.yaml"},
		Paths:   &config.Paths{},
	}
	for _, item := range []config.Context{dev, prod} {
		if err := service.Create(ctx, item); err != nil {
			t.Fatalf("Create(%s) returned error: %v", item.Name, err)
		}
	}
	assertTypedCategory(t, service.Create(ctx, dev), faults.ValidationError)

	current, err := service.GetCurrent(ctx)
	if err != nil || current.Name != "dev" {
		t.Fatalf("expected first context to become current, got %q %v", current.Name, err)
	}

	if err := service.SetCurrent(ctx, "prod"); err != nil {
		t.Fatalf("SetCurrent returned error: %v", err)
	}
	current, err = service.GetCurrent(ctx)
	if err != nil || current.Name != "prod" {
		t.Fatalf("expected prod, got %q %v", current.Name, err)
	}
	if current.Paths != nil {
		t.Fatalf("expected empty paths to be compacted away, got %#v", current.Paths)
	}

	updated := prod
	updated.API.MaxRequestsPerSecond = 5
	if err := service.Update(ctx, updated); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	resolved, err := service.ResolveContext(ctx, config.ContextSelection{Name: "prod"})
	if err != nil || resolved.API.MaxRequestsPerSecond != 5 {
		t.Fatalf("expected updated rate, got %#v %v", resolved.API, err)
	}

	if err := service.Delete(ctx, "prod"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	current, err = service.GetCurrent(ctx)
	if err != nil || current.Name != "dev" {
		t.Fatalf("expected fallback to dev, got %q %v", current.Name, err)
	}

	if err := service.Delete(ctx, "dev"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	items, err := service.List(ctx)
	if err != nil || len(items) != 0 {
		t.Fatalf("expected empty catalog, got %v %v", items, err)
	}
	_, err = service.GetCurrent(ctx)
	assertTypedCategory(t, err, faults.NotFoundError)
}

func assertTypedCategory(t *testing.T, err error, category faults.ErrorCategory) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s error, got nil", category)
	}
	if !faults.IsCategory(err, category) {
		t.Fatalf("expected %s error, got %v", category, err)
	}
}
