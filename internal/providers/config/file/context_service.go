// Package file stores the context catalog as a YAML file readable only by
// its owner.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crmarques/weddash/config"
	"github.com/crmarques/weddash/faults"
)

var _ config.ContextService = (*CatalogService)(nil)

type CatalogService struct {
	path string
}

// NewCatalogService resolves path lazily: an empty path falls back to
// WEDDASH_CONTEXTS_FILE and then the default location on every call.
func NewCatalogService(path string) *CatalogService {
	return &CatalogService{path: path}
}

// Path returns the resolved catalog location.
func (s *CatalogService) Path() (string, error) {
	return resolveCatalogPath(s.path)
}

func (s *CatalogService) Create(_ context.Context, cfg config.Context) error {
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	return s.mutate(false, func(catalog *config.ContextCatalog) error {
		if findContextIndex(catalog.Contexts, cfg.Name) >= 0 {
			return validationError(fmt.Sprintf("context %q already exists", cfg.Name), nil)
		}
		catalog.Contexts = append(catalog.Contexts, cfg)
		if catalog.CurrentCtx == "" {
			catalog.CurrentCtx = cfg.Name
		}
		return nil
	})
}

func (s *CatalogService) Update(_ context.Context, cfg config.Context) error {
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	return s.mutate(true, func(catalog *config.ContextCatalog) error {
		idx := findContextIndex(catalog.Contexts, cfg.Name)
		if idx < 0 {
			return contextNotFoundError(cfg.Name)
		}
		catalog.Contexts[idx] = cfg
		return nil
	})
}

// Delete removes name. When name was current, the first remaining context
// becomes current.
func (s *CatalogService) Delete(_ context.Context, name string) error {
	return s.mutate(true, func(catalog *config.ContextCatalog) error {
		idx := findContextIndex(catalog.Contexts, name)
		if idx < 0 {
			return contextNotFoundError(name)
		}
		catalog.Contexts = append(catalog.Contexts[:idx], catalog.Contexts[idx+1:]...)

		if catalog.CurrentCtx == name {
			catalog.CurrentCtx = ""
			if len(catalog.Contexts) > 0 {
				catalog.CurrentCtx = catalog.Contexts[0].Name
			}
		}
		return nil
	})
}

func (s *CatalogService) SetCurrent(_ context.Context, name string) error {
	return s.mutate(true, func(catalog *config.ContextCatalog) error {
		if findContextIndex(catalog.Contexts, name) < 0 {
			return contextNotFoundError(name)
		}
		catalog.CurrentCtx = name
		return nil
	})
}

func (s *CatalogService) List(_ context.Context) ([]config.Context, error) {
	catalog, err := s.load()
	if err != nil {
		return nil, err
	}
	contexts := make([]config.Context, len(catalog.Contexts))
	copy(contexts, catalog.Contexts)
	return contexts, nil
}

func (s *CatalogService) GetCurrent(_ context.Context) (config.Context, error) {
	catalog, err := s.load()
	if err != nil {
		return config.Context{}, err
	}
	return currentContext(catalog, "")
}

// ResolveContext picks selection.Name (or the current context), applies the
// overrides in sorted key order, fills defaults and validates the result.
// File paths in the result are absolute.
func (s *CatalogService) ResolveContext(_ context.Context, selection config.ContextSelection) (config.Context, error) {
	catalog, err := s.load()
	if err != nil {
		return config.Context{}, err
	}

	selected, err := currentContext(catalog, selection.Name)
	if err != nil {
		return config.Context{}, err
	}

	resolved, err := applyOverrides(normalizeConfig(selected), selection.Overrides)
	if err != nil {
		return config.Context{}, err
	}
	resolved = applyConfigDefaults(resolved)
	if err := validateConfig(resolved); err != nil {
		return config.Context{}, err
	}

	path, err := s.Path()
	if err != nil {
		return config.Context{}, err
	}
	return resolveContextFiles(resolved, filepath.Dir(path))
}

func (s *CatalogService) Validate(_ context.Context, cfg config.Context) error {
	return validateConfig(normalizeConfig(cfg))
}

// mutate loads, edits and saves the catalog. With mustExist a missing
// catalog file is reported as not found instead of starting empty.
func (s *CatalogService) mutate(mustExist bool, edit func(*config.ContextCatalog) error) error {
	if mustExist {
		path, err := s.Path()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return notFoundError(fmt.Sprintf("context catalog %q not found", path))
		}
	}

	catalog, err := s.load()
	if err != nil {
		return err
	}
	if err := edit(&catalog); err != nil {
		return err
	}
	return s.save(catalog)
}

func (s *CatalogService) load() (config.ContextCatalog, error) {
	path, err := s.Path()
	if err != nil {
		return config.ContextCatalog{}, err
	}

	catalog, err := decodeCatalogFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config.ContextCatalog{}, nil
		}
		return config.ContextCatalog{}, err
	}
	if err := ensureUserOnlyReadWriteFile(path); err != nil {
		return config.ContextCatalog{}, err
	}
	if err := validateCatalog(catalog); err != nil {
		return config.ContextCatalog{}, err
	}
	return catalog, nil
}

// save writes through a temporary file in the same directory and renames it
// over the catalog.
func (s *CatalogService) save(catalog config.ContextCatalog) error {
	catalog = compactCatalogForPersistence(catalog)
	if err := validateCatalog(catalog); err != nil {
		return err
	}

	path, err := s.Path()
	if err != nil {
		return err
	}
	encoded, err := encodeCatalog(catalog)
	if err != nil {
		return internalError("failed to encode context catalog", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return internalError("failed to create context catalog directory", err)
	}

	tempFile, err := os.CreateTemp(dir, ".weddash-contexts-*")
	if err != nil {
		return internalError("failed to create temporary context catalog file", err)
	}
	tempPath := tempFile.Name()
	discard := func(message string, cause error) error {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return internalError(message, cause)
	}

	if _, err := tempFile.Write(encoded); err != nil {
		return discard("failed to write context catalog", err)
	}
	if err := tempFile.Chmod(0o600); err != nil {
		return discard("failed to set context catalog permissions", err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return internalError("failed to finalize context catalog", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return internalError("failed to replace context catalog", err)
	}
	return ensureUserOnlyReadWriteFile(path)
}

func currentContext(catalog config.ContextCatalog, name string) (config.Context, error) {
	if name == "" {
		name = catalog.CurrentCtx
	}
	if name == "" {
		return config.Context{}, notFoundError("current context not set")
	}
	idx := findContextIndex(catalog.Contexts, name)
	if idx < 0 {
		return config.Context{}, contextNotFoundError(name)
	}
	return catalog.Contexts[idx], nil
}

func findContextIndex(contexts []config.Context, name string) int {
	for idx, item := range contexts {
		if item.Name == name {
			return idx
		}
	}
	return -1
}

func compactCatalogForPersistence(catalog config.ContextCatalog) config.ContextCatalog {
	if len(catalog.Contexts) == 0 {
		return catalog
	}
	compacted := catalog
	compacted.Contexts = make([]config.Context, len(catalog.Contexts))
	for idx, item := range catalog.Contexts {
		compacted.Contexts[idx] = compactConfigForPersistence(item)
	}
	return compacted
}

func ensureUserOnlyReadWriteFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return internalError("failed to inspect context catalog permissions", err)
	}
	if info.Mode().Perm() == 0o600 {
		return nil
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return internalError("failed to update context catalog permissions", err)
	}
	return nil
}

func contextNotFoundError(name string) error {
	return notFoundError(fmt.Sprintf("context %q not found", name))
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func notFoundError(message string) error {
	return faults.NewTypedError(faults.NotFoundError, message, nil)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}
