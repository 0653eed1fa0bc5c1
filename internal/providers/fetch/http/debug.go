package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/crmarques/weddash/config"
	"github.com/crmarques/weddash/dataprovider"
	"github.com/crmarques/weddash/debugctx"
	"github.com/crmarques/weddash/internal/providers/shared/tlsconfig"
)

type tlsDebugInfo struct {
	enabled            bool
	mutualTLS          bool
	insecureSkipVerify bool
	caCertFile         string
}

func newTLSDebugInfo(settings *config.TLS) tlsDebugInfo {
	if settings == nil {
		return tlsDebugInfo{}
	}
	return tlsDebugInfo{
		enabled:            true,
		mutualTLS:          tlsconfig.MutualTLS(settings),
		insecureSkipVerify: settings.InsecureSkipVerify,
		caCertFile:         strings.TrimSpace(settings.CACertFile),
	}
}

func (f *Fetcher) doRequest(ctx context.Context, request dataprovider.Request, httpRequest *http.Request) (*http.Response, error) {
	redacted := redactURLForDebug(httpRequest.URL)
	requestID := httpRequest.Header.Get(requestIDHeader)

	debugctx.Printf(
		ctx,
		"http request operation=%q resource=%q method=%q url=%q request_id=%q tls_enabled=%t mtls_enabled=%t tls_insecure_skip_verify=%t tls_ca_cert_file=%q",
		request.Operation,
		request.Resource,
		httpRequest.Method,
		redacted,
		requestID,
		f.tlsDebug.enabled,
		f.tlsDebug.mutualTLS,
		f.tlsDebug.insecureSkipVerify,
		f.tlsDebug.caCertFile,
	)

	response, err := f.client.Do(httpRequest)
	if err != nil {
		debugctx.Printf(ctx, "http request failed method=%q url=%q request_id=%q error=%v", httpRequest.Method, redacted, requestID, err)
		return nil, err
	}

	debugctx.Printf(ctx, "http response method=%q url=%q request_id=%q status=%d", httpRequest.Method, redacted, requestID, response.StatusCode)
	return response, nil
}

// redactURLForDebug drops user info and masks every query value. Filter
// values can carry client names and emails.
func redactURLForDebug(value *url.URL) string {
	if value == nil {
		return ""
	}

	cloned := *value
	cloned.User = nil

	query := cloned.Query()
	if len(query) > 0 {
		for key, values := range query {
			redacted := make([]string, len(values))
			for idx := range values {
				redacted[idx] = "<redacted>"
			}
			query[key] = redacted
		}
		cloned.RawQuery = query.Encode()
	}
	return cloned.String()
}
