package file

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/crmarques/weddash/config"
	"github.com/crmarques/weddash/yamlutil"
)

var supportedOverrideKeys = []string{
	config.OverrideAPIBaseURL,
	config.OverrideAPIRequestsPerSecond,
	config.OverrideSessionRole,
	config.OverrideSessionToken,
}

func decodeCatalogFile(path string) (config.ContextCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config.ContextCatalog{}, err
	}
	return decodeCatalog(data)
}

// decodeCatalog reads exactly one YAML document. An empty or comment-only
// file is an empty catalog.
func decodeCatalog(data []byte) (config.ContextCatalog, error) {
	var catalog config.ContextCatalog

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&catalog); err != nil {
		if errors.Is(err, io.EOF) {
			return config.ContextCatalog{}, nil
		}
		return config.ContextCatalog{}, validationError("invalid context catalog yaml", err)
	}

	var extra any
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return config.ContextCatalog{}, validationError("context catalog must hold a single yaml document", err)
	}
	return catalog, nil
}

func encodeCatalog(catalog config.ContextCatalog) ([]byte, error) {
	return yamlutil.Marshal(catalog)
}

// resolveCatalogPath picks the explicit path, then WEDDASH_CONTEXTS_FILE,
// then ~/.weddash/contexts.yaml. Relative paths are taken from the home
// directory.
func resolveCatalogPath(explicitPath string) (string, error) {
	path := strings.TrimSpace(explicitPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(config.ContextFileEnvVar))
	}
	if path == "" {
		path = config.DefaultContextCatalogPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", internalError("failed to resolve user home directory", err)
	}

	cleanPath := filepath.Clean(expandHome(path, homeDir))
	if cleanPath == "." {
		return "", validationError("context catalog path is invalid", errors.New("resolved to current directory"))
	}
	if !filepath.IsAbs(cleanPath) {
		cleanPath = filepath.Join(homeDir, cleanPath)
	}
	return cleanPath, nil
}

// resolveContextFiles makes the session file and TLS files of cfg absolute.
// "~" expands to the home directory; other relative paths are taken from
// the directory holding the catalog.
func resolveContextFiles(cfg config.Context, catalogDir string) (config.Context, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config.Context{}, internalError("failed to resolve user home directory", err)
	}
	resolve := func(path string) string {
		if path == "" {
			return ""
		}
		expanded := expandHome(path, homeDir)
		if !filepath.IsAbs(expanded) {
			expanded = filepath.Join(catalogDir, expanded)
		}
		return filepath.Clean(expanded)
	}

	if cfg.Session.HasFile() {
		sessionCfg := *cfg.Session
		sessionCfg.File = resolve(sessionCfg.File)
		cfg.Session = &sessionCfg
	}
	if cfg.API.TLS != nil {
		tlsCfg := *cfg.API.TLS
		tlsCfg.CACertFile = resolve(tlsCfg.CACertFile)
		tlsCfg.ClientCertFile = resolve(tlsCfg.ClientCertFile)
		tlsCfg.ClientKeyFile = resolve(tlsCfg.ClientKeyFile)
		cfg.API.TLS = &tlsCfg
	}
	return cfg, nil
}

func expandHome(path string, homeDir string) string {
	switch {
	case path == "~":
		return homeDir
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(homeDir, strings.TrimPrefix(path, "~/"))
	default:
		return path
	}
}

func unknownOverrideError(key string) error {
	return validationError(
		fmt.Sprintf("unknown override key %q: use one of %s", key, strings.Join(supportedOverrideKeys, ", ")),
		nil,
	)
}
