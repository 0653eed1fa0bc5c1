// Package http is the net/http implementation of dataprovider.Fetcher.
package http

import (
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/crmarques/weddash/config"
	"github.com/crmarques/weddash/dataprovider"
	"github.com/crmarques/weddash/internal/providers/shared/tlsconfig"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	defaultMediaType   = "application/json"
	requestIDHeader    = "X-Request-Id"
	maxResponseBytes   = 8 << 20
)

var _ dataprovider.Fetcher = (*Fetcher)(nil)

// Fetcher performs exactly one HTTP exchange per Fetch call. It never
// retries.
type Fetcher struct {
	client         *http.Client
	defaultHeaders map[string]string
	limiter        *rate.Limiter
	tlsDebug       tlsDebugInfo
	newRequestID   func() string
}

type FetcherOption func(*fetcherOptions)

type fetcherOptions struct {
	registerer   prometheus.Registerer
	transport    http.RoundTripper
	newRequestID func() string
}

// WithRegisterer records request counts, latencies and in-flight requests on
// registerer.
func WithRegisterer(registerer prometheus.Registerer) FetcherOption {
	return func(o *fetcherOptions) {
		o.registerer = registerer
	}
}

// WithTransport replaces the base round tripper. TLS settings from the
// context are not applied to it.
func WithTransport(transport http.RoundTripper) FetcherOption {
	return func(o *fetcherOptions) {
		o.transport = transport
	}
}

func WithRequestIDGenerator(generate func() string) FetcherOption {
	return func(o *fetcherOptions) {
		o.newRequestID = generate
	}
}

func NewFetcher(cfg config.API, opts ...FetcherOption) (*Fetcher, error) {
	options := fetcherOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&options)
	}

	timeout, err := parseTimeout(cfg.Timeout)
	if err != nil {
		return nil, err
	}
	if cfg.MaxRequestsPerSecond < 0 {
		return nil, validationError("api.max-requests-per-second must not be negative", nil)
	}

	transport := options.transport
	if transport == nil {
		tlsConfig, err := tlsconfig.Build(cfg.TLS)
		if err != nil {
			return nil, err
		}
		base := http.DefaultTransport.(*http.Transport).Clone()
		base.TLSClientConfig = tlsConfig
		transport = base
	}
	if options.registerer != nil {
		transport, err = instrumentTransport(options.registerer, transport)
		if err != nil {
			return nil, err
		}
	}

	newRequestID := options.newRequestID
	if newRequestID == nil {
		newRequestID = newUUID
	}

	return &Fetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		defaultHeaders: cloneStringMap(cfg.DefaultHeaders),
		limiter:        newLimiter(cfg.MaxRequestsPerSecond),
		tlsDebug:       newTLSDebugInfo(cfg.TLS),
		newRequestID:   newRequestID,
	}, nil
}

func parseTimeout(raw string) (time.Duration, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return defaultHTTPTimeout, nil
	}
	timeout, err := time.ParseDuration(value)
	if err != nil {
		return 0, validationError("api.timeout is not a valid duration", err)
	}
	if timeout <= 0 {
		return 0, validationError("api.timeout must be positive", nil)
	}
	return timeout, nil
}

// newLimiter returns nil for an unlimited rate.
func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	burst := int(math.Ceil(perSecond))
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func cloneStringMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	cloned := make(map[string]string, len(values))
	for key, value := range values {
		cloned[key] = value
	}
	return cloned
}
