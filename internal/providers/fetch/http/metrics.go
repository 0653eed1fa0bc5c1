package http

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func instrumentTransport(registerer prometheus.Registerer, next http.RoundTripper) (http.RoundTripper, error) {
	requests, err := registerCollector(registerer, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weddash_http_client_requests_total",
			Help: "Outbound API requests by status code and method.",
		},
		[]string{"code", "method"},
	))
	if err != nil {
		return nil, err
	}

	latency, err := registerCollector(registerer, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weddash_http_client_request_duration_seconds",
			Help:    "Outbound API request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"code", "method"},
	))
	if err != nil {
		return nil, err
	}

	inFlight, err := registerCollector(registerer, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "weddash_http_client_in_flight_requests",
		Help: "Outbound API requests currently in flight.",
	}))
	if err != nil {
		return nil, err
	}

	return promhttp.InstrumentRoundTripperInFlight(inFlight,
		promhttp.InstrumentRoundTripperCounter(requests,
			promhttp.InstrumentRoundTripperDuration(latency, next),
		),
	), nil
}

// registerCollector reuses a collector already registered under the same
// descriptor, so several fetchers can share one registry.
func registerCollector[T prometheus.Collector](registerer prometheus.Registerer, collector T) (T, error) {
	if err := registerer.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, internalError("failed to register HTTP client metrics", err)
	}
	return collector, nil
}
