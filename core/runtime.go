package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/crmarques/weddash/config"
	"github.com/crmarques/weddash/dataprovider"
	"github.com/crmarques/weddash/faults"
	configfile "github.com/crmarques/weddash/internal/providers/config/file"
	httpfetch "github.com/crmarques/weddash/internal/providers/fetch/http"
	"github.com/crmarques/weddash/routing"
	"github.com/crmarques/weddash/session"
)

func NewContextService(opts BootstrapConfig) config.ContextService {
	return configfile.NewCatalogService(opts.ContextCatalogPath)
}

// NewRuntime resolves selection against the catalog and assembles the
// session store, path resolver, HTTP fetcher and data provider for it.
func NewRuntime(ctx context.Context, opts BootstrapConfig, selection config.ContextSelection) (Runtime, error) {
	contexts := NewContextService(opts)

	resolved, err := contexts.ResolveContext(ctx, selection)
	if err != nil {
		return Runtime{}, err
	}

	store, err := NewSessionStore(resolved.Session)
	if err != nil {
		return Runtime{}, err
	}

	resolver, err := NewResolver(resolved.Paths)
	if err != nil {
		return Runtime{}, err
	}

	fetcherOptions := []httpfetch.FetcherOption{}
	if opts.Registerer != nil {
		fetcherOptions = append(fetcherOptions, httpfetch.WithRegisterer(opts.Registerer))
	}
	if opts.Transport != nil {
		fetcherOptions = append(fetcherOptions, httpfetch.WithTransport(opts.Transport))
	}
	fetcher, err := httpfetch.NewFetcher(resolved.API, fetcherOptions...)
	if err != nil {
		return Runtime{}, err
	}

	providerOptions := []dataprovider.Option{
		dataprovider.WithDeleteManyConcurrency(resolved.DeleteManyConcurrency),
	}
	if opts.Logger.GetSink() != nil {
		providerOptions = append(providerOptions, dataprovider.WithLogger(opts.Logger.WithName("dataprovider")))
	}
	if opts.TracerProvider != nil {
		providerOptions = append(providerOptions, dataprovider.WithTracerProvider(opts.TracerProvider))
	}
	if opts.MeterProvider != nil {
		providerOptions = append(providerOptions, dataprovider.WithMeterProvider(opts.MeterProvider))
	}

	provider, err := dataprovider.New(resolved.API.BaseURL, store, resolver, fetcher, providerOptions...)
	if err != nil {
		return Runtime{}, err
	}

	return Runtime{
		Context:  resolved,
		Contexts: contexts,
		Session:  store,
		Resolver: resolver,
		Fetcher:  fetcher,
		Provider: provider,
	}, nil
}

// NewSessionStore picks the credentials source a context names. A nil or
// empty session reads WEDDASH_TOKEN and WEDDASH_ROLE.
func NewSessionStore(cfg *config.Session) (session.Store, error) {
	switch {
	case cfg == nil:
		return session.Env{}, nil
	case cfg.HasFile() && !cfg.HasInline() && !cfg.HasEnv():
		return session.NewFile(cfg.File), nil
	case cfg.HasInline() && !cfg.HasEnv() && !cfg.HasFile():
		return session.NewStatic(cfg.Role, cfg.Token), nil
	case !cfg.HasInline() && !cfg.HasFile():
		return session.Env{TokenVar: cfg.TokenEnv, RoleVar: cfg.RoleEnv}, nil
	default:
		return nil, faults.NewTypedError(faults.ValidationError, "session must define only one credentials source", nil)
	}
}

// NewResolver layers the context's path tables over the built-in ones.
func NewResolver(paths *config.Paths) (*routing.Resolver, error) {
	base := routing.DefaultResolver()
	if paths == nil {
		return base, nil
	}

	overrides := routing.Overrides{}
	roleNames := make([]string, 0, len(paths.Roles))
	for name := range paths.Roles {
		roleNames = append(roleNames, name)
	}
	sort.Strings(roleNames)
	for _, name := range roleNames {
		role := session.ParseRole(name)
		if role == session.RoleNone {
			return nil, faults.NewTypedError(faults.ValidationError, fmt.Sprintf("paths.roles key %q is not a known role", name), nil)
		}
		overrides[role] = routing.Table(paths.Roles[name])
	}

	return base.Merge(routing.Table(paths.Default), overrides), nil
}
