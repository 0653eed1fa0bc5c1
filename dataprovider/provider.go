// Package dataprovider translates abstract resource operations into REST
// calls whose paths depend on the caller's role, and reshapes every response
// into a Result.
package dataprovider

import (
	"context"
	"net/url"
	"strings"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/crmarques/weddash/routing"
	"github.com/crmarques/weddash/session"
)

const instrumentationName = "github.com/crmarques/weddash/dataprovider"

// Provider is safe for concurrent use. It holds no per-call state: every call
// reads the session again and resolves its path again.
type Provider struct {
	baseURL  string
	session  session.Store
	resolver *routing.Resolver
	fetcher  Fetcher

	logger                logr.Logger
	tracer                trace.Tracer
	operations            metric.Int64Counter
	deleteManyConcurrency int
}

type Option func(*Provider)

func WithLogger(logger logr.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(p *Provider) {
		if provider == nil {
			return
		}
		p.tracer = provider.Tracer(instrumentationName)
	}
}

func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(p *Provider) {
		if provider == nil {
			return
		}
		p.operations = newOperationsCounter(provider)
	}
}

// WithDeleteManyConcurrency bounds how many deletes a DeleteMany call keeps
// in flight. Zero or less leaves the fan-out unbounded.
func WithDeleteManyConcurrency(limit int) Option {
	return func(p *Provider) {
		p.deleteManyConcurrency = limit
	}
}

func New(baseURL string, store session.Store, resolver *routing.Resolver, fetcher Fetcher, opts ...Option) (*Provider, error) {
	normalizedBaseURL, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, validationError("session store is required", nil)
	}
	if resolver == nil {
		return nil, validationError("path resolver is required", nil)
	}
	if fetcher == nil {
		return nil, validationError("fetcher is required", nil)
	}

	provider := &Provider{
		baseURL:  normalizedBaseURL,
		session:  store,
		resolver: resolver,
		fetcher:  fetcher,
		logger:   logr.Discard(),
		tracer:   otel.Tracer(instrumentationName),
	}
	provider.operations = newOperationsCounter(otel.GetMeterProvider())
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(provider)
	}
	return provider, nil
}

func (p *Provider) List(ctx context.Context, resource string, params ListParams) (Result, error) {
	return p.run(ctx, resource, params)
}

func (p *Provider) GetOne(ctx context.Context, resource string, params GetOneParams) (Result, error) {
	return p.run(ctx, resource, params)
}

func (p *Provider) GetMany(ctx context.Context, resource string, params GetManyParams) (Result, error) {
	return p.run(ctx, resource, params)
}

func (p *Provider) GetManyReference(ctx context.Context, resource string, params GetManyReferenceParams) (Result, error) {
	return p.run(ctx, resource, params)
}

func (p *Provider) Create(ctx context.Context, resource string, params CreateParams) (Result, error) {
	return p.run(ctx, resource, params)
}

func (p *Provider) Update(ctx context.Context, resource string, params UpdateParams) (Result, error) {
	return p.run(ctx, resource, params)
}

func (p *Provider) Delete(ctx context.Context, resource string, params DeleteParams) (Result, error) {
	return p.run(ctx, resource, params)
}

// Execute dispatches params to the operation it selects.
func (p *Provider) Execute(ctx context.Context, resource string, params Params) (Result, error) {
	params = derefParams(params)
	if bulk, ok := params.(DeleteManyParams); ok {
		return p.DeleteMany(ctx, resource, bulk)
	}
	return p.run(ctx, resource, params)
}

func (p *Provider) run(ctx context.Context, resource string, params Params) (Result, error) {
	params = derefParams(params)
	operation := operationOf(params)
	ctx, span := p.startSpan(ctx, resource, operation)
	defer span.End()

	result, err := p.roundTrip(ctx, resource, params)
	if err != nil {
		return Result{}, p.fail(ctx, span, resource, operation, err)
	}
	p.succeed(ctx, resource, operation)
	return result, nil
}

func (p *Provider) roundTrip(ctx context.Context, resource string, params Params) (Result, error) {
	request, err := p.BuildRequest(ctx, resource, params)
	if err != nil {
		return Result{}, err
	}

	response, err := p.fetcher.Fetch(ctx, request)
	if err != nil {
		return Result{}, err
	}

	return p.Normalize(ctx, response, resource, params)
}

func (p *Provider) startSpan(ctx context.Context, resource string, operation Operation) (context.Context, trace.Span) {
	return p.tracer.Start(
		ctx,
		"dataprovider."+string(operation),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("weddash.resource", resource),
			attribute.String("weddash.operation", string(operation)),
		),
	)
}

// fail records err and returns it unchanged.
func (p *Provider) fail(ctx context.Context, span trace.Span, resource string, operation Operation, err error) error {
	p.logger.Error(err, "data provider operation failed", "resource", resource, "operation", string(operation))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	p.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", string(operation)),
		attribute.String("resource", resource),
		attribute.String("outcome", "error"),
	))
	return err
}

func (p *Provider) succeed(ctx context.Context, resource string, operation Operation) {
	p.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", string(operation)),
		attribute.String("resource", resource),
		attribute.String("outcome", "success"),
	))
}

func newOperationsCounter(provider metric.MeterProvider) metric.Int64Counter {
	counter, err := provider.Meter(instrumentationName).Int64Counter(
		"weddash.dataprovider.operations",
		metric.WithDescription("Data provider operations by outcome."),
	)
	if err != nil {
		counter, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Counter("weddash.dataprovider.operations")
	}
	return counter
}

func operationOf(params Params) Operation {
	if params == nil {
		return ""
	}
	return params.Operation()
}

func derefParams(params Params) Params {
	switch typed := params.(type) {
	case *ListParams:
		if typed != nil {
			return *typed
		}
	case *GetOneParams:
		if typed != nil {
			return *typed
		}
	case *GetManyParams:
		if typed != nil {
			return *typed
		}
	case *GetManyReferenceParams:
		if typed != nil {
			return *typed
		}
	case *CreateParams:
		if typed != nil {
			return *typed
		}
	case *UpdateParams:
		if typed != nil {
			return *typed
		}
	case *DeleteParams:
		if typed != nil {
			return *typed
		}
	case *DeleteManyParams:
		if typed != nil {
			return *typed
		}
	default:
		return params
	}
	return nil
}

func parseBaseURL(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", validationError("api base-url is required", nil)
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return "", validationError("api base-url is invalid", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", validationError("api base-url must use http or https", nil)
	}
	if parsed.Host == "" {
		return "", validationError("api base-url host is required", nil)
	}
	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return "", validationError("api base-url must not carry a query or fragment", nil)
	}

	return strings.TrimRight(parsed.String(), "/"), nil
}
