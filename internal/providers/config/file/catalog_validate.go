package file

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/crmarques/weddash/config"
	"github.com/crmarques/weddash/session"
)

func validateCatalog(contextCatalog config.ContextCatalog) error {
	if len(contextCatalog.Contexts) == 0 {
		if contextCatalog.CurrentCtx != "" {
			return validationError("current-ctx must be empty when contexts list is empty", nil)
		}
		return nil
	}

	seen := map[string]struct{}{}
	for _, item := range contextCatalog.Contexts {
		if item.Name == "" {
			return validationError("context name must not be empty", nil)
		}
		if _, exists := seen[item.Name]; exists {
			return validationError(fmt.Sprintf("duplicate context name %q", item.Name), nil)
		}
		seen[item.Name] = struct{}{}

		if err := validateConfig(item); err != nil {
			return err
		}
	}

	if contextCatalog.CurrentCtx == "" {
		return validationError("current-ctx must be set when contexts are defined", nil)
	}
	if _, exists := seen[contextCatalog.CurrentCtx]; !exists {
		return validationError(fmt.Sprintf("current-ctx %q does not match any context", contextCatalog.CurrentCtx), nil)
	}
	return nil
}

func validateConfig(cfg config.Context) error {
	cfg = normalizeConfig(cfg)

	if cfg.Name == "" {
		return validationError("context name must not be empty", nil)
	}
	if err := validateAPI(cfg.API); err != nil {
		return err
	}
	if err := validateSession(cfg.Session); err != nil {
		return err
	}
	if err := validatePaths(cfg.Paths); err != nil {
		return err
	}
	if cfg.DeleteManyConcurrency < 0 {
		return validationError("delete-many-concurrency must not be negative", nil)
	}
	return nil
}

func validateAPI(api config.API) error {
	if api.BaseURL == "" {
		return validationError("api.base-url is required", nil)
	}
	parsed, err := url.Parse(api.BaseURL)
	if err != nil {
		return validationError("api.base-url is invalid", err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return validationError("api.base-url must be an absolute http or https URL", nil)
	}

	if api.Timeout != "" {
		timeout, err := time.ParseDuration(api.Timeout)
		if err != nil {
			return validationError("api.timeout is not a valid duration", err)
		}
		if timeout <= 0 {
			return validationError("api.timeout must be positive", nil)
		}
	}
	if api.MaxRequestsPerSecond < 0 {
		return validationError("api.max-requests-per-second must not be negative", nil)
	}
	if api.TLS != nil && (api.TLS.ClientCertFile == "") != (api.TLS.ClientKeyFile == "") {
		return validationError("api.tls requires both client-cert-file and client-key-file", nil)
	}
	return nil
}

func validateSession(sessionCfg *config.Session) error {
	if sessionCfg == nil {
		return nil
	}
	if countSet(sessionCfg.HasInline(), sessionCfg.HasEnv(), sessionCfg.HasFile()) > 1 {
		return validationError("session must define only one of token/role, token-env/role-env, file", nil)
	}
	if sessionCfg.Role != "" && session.ParseRole(sessionCfg.Role) == session.RoleNone {
		return validationError(fmt.Sprintf("session.role %q is not a known role", sessionCfg.Role), nil)
	}
	return nil
}

func validatePaths(paths *config.Paths) error {
	if paths == nil {
		return nil
	}
	if err := validatePathTable("paths.default", paths.Default); err != nil {
		return err
	}
	for _, roleName := range sortedKeys(paths.Roles) {
		if session.ParseRole(roleName) == session.RoleNone {
			return validationError(fmt.Sprintf("paths.roles key %q is not a known role", roleName), nil)
		}
		if err := validatePathTable("paths.roles."+roleName, paths.Roles[roleName]); err != nil {
			return err
		}
	}
	return nil
}

func validatePathTable(scope string, table map[string]string) error {
	for _, resource := range sortedKeys(table) {
		if strings.TrimSpace(resource) == "" {
			return validationError(scope+" must not contain an empty resource name", nil)
		}
		segment := table[resource]
		if strings.ContainsAny(segment, "?#") {
			return validationError(fmt.Sprintf("%s.%s must be a plain path segment", scope, resource), nil)
		}
	}
	return nil
}

func normalizeConfig(cfg config.Context) config.Context {
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.API.BaseURL = strings.TrimSpace(cfg.API.BaseURL)
	cfg.API.Timeout = strings.TrimSpace(cfg.API.Timeout)
	if cfg.Session != nil {
		normalized := *cfg.Session
		normalized.Token = strings.TrimSpace(normalized.Token)
		normalized.Role = strings.TrimSpace(normalized.Role)
		normalized.TokenEnv = strings.TrimSpace(normalized.TokenEnv)
		normalized.RoleEnv = strings.TrimSpace(normalized.RoleEnv)
		normalized.File = strings.TrimSpace(normalized.File)
		cfg.Session = &normalized
	}
	return cfg
}

// applyConfigDefaults fills what a resolved context needs but the catalog
// may leave out.
func applyConfigDefaults(cfg config.Context) config.Context {
	cfg = normalizeConfig(cfg)
	if cfg.Session == nil {
		cfg.Session = &config.Session{}
	}
	if !cfg.Session.HasInline() && !cfg.Session.HasFile() {
		if cfg.Session.TokenEnv == "" {
			cfg.Session.TokenEnv = session.TokenEnvVar
		}
		if cfg.Session.RoleEnv == "" {
			cfg.Session.RoleEnv = session.RoleEnvVar
		}
	}
	return cfg
}

func compactConfigForPersistence(cfg config.Context) config.Context {
	cfg = normalizeConfig(cfg)
	if cfg.Session != nil && *cfg.Session == (config.Session{}) {
		cfg.Session = nil
	}
	if cfg.Paths != nil && len(cfg.Paths.Default) == 0 && len(cfg.Paths.Roles) == 0 {
		cfg.Paths = nil
	}
	return cfg
}

func applyOverrides(cfg config.Context, overrides map[string]string) (config.Context, error) {
	for _, key := range sortedKeys(overrides) {
		value := strings.TrimSpace(overrides[key])
		switch key {
		case config.OverrideAPIBaseURL:
			cfg.API.BaseURL = value
		case config.OverrideAPIRequestsPerSecond:
			perSecond, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return config.Context{}, validationError(fmt.Sprintf("override %s must be a number", key), err)
			}
			cfg.API.MaxRequestsPerSecond = perSecond
		case config.OverrideSessionRole:
			cfg.Session = inlineSession(cfg.Session)
			cfg.Session.Role = value
		case config.OverrideSessionToken:
			cfg.Session = inlineSession(cfg.Session)
			cfg.Session.Token = value
		default:
			return config.Context{}, unknownOverrideError(key)
		}
	}
	return cfg, nil
}

// inlineSession switches a session to inline credentials, keeping any inline
// values it already had.
func inlineSession(current *config.Session) *config.Session {
	if current == nil {
		return &config.Session{}
	}
	return &config.Session{Token: current.Token, Role: current.Role}
}

func sortedKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func countSet(values ...bool) int {
	count := 0
	for _, value := range values {
		if value {
			count++
		}
	}
	return count
}
