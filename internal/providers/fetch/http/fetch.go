package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/crmarques/weddash/dataprovider"
)

func (f *Fetcher) Fetch(ctx context.Context, request dataprovider.Request) (dataprovider.Response, error) {
	httpRequest, err := f.newRequest(ctx, request)
	if err != nil {
		return dataprovider.Response{}, err
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return dataprovider.Response{}, transportError("rate limiter wait aborted", err)
		}
	}

	response, err := f.doRequest(ctx, request, httpRequest)
	if err != nil {
		return dataprovider.Response{}, transportError("remote request failed", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes+1))
	if err != nil {
		return dataprovider.Response{}, transportError("failed to read remote response body", err)
	}
	oversized := len(body) > maxResponseBytes
	if oversized {
		body = body[:maxResponseBytes]
	}

	if response.StatusCode >= http.StatusBadRequest {
		return dataprovider.Response{}, classifyStatusError(response.StatusCode, body)
	}
	if oversized {
		return dataprovider.Response{}, transportError(
			fmt.Sprintf("remote response exceeds %d bytes", maxResponseBytes),
			nil,
		)
	}

	return dataprovider.Response{
		StatusCode: response.StatusCode,
		Headers:    response.Header.Clone(),
		Body:       decodeResponseBody(body),
	}, nil
}

func (f *Fetcher) newRequest(ctx context.Context, request dataprovider.Request) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(request.Method))
	if method == "" {
		return nil, validationError("request method is required", nil)
	}
	if strings.TrimSpace(request.URL) == "" {
		return nil, validationError("request url is required", nil)
	}

	var bodyReader io.Reader
	if len(request.Body) > 0 {
		bodyReader = bytes.NewReader(request.Body)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, method, request.URL, bodyReader)
	if err != nil {
		return nil, validationError("failed to create remote request", err)
	}

	httpRequest.Header.Set("Accept", defaultMediaType)
	if len(f.defaultHeaders) > 0 {
		keys := make([]string, 0, len(f.defaultHeaders))
		for key := range f.defaultHeaders {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			httpRequest.Header.Set(key, f.defaultHeaders[key])
		}
	}
	for key, values := range request.Headers {
		httpRequest.Header.Del(key)
		for _, value := range values {
			httpRequest.Header.Add(key, value)
		}
	}
	if httpRequest.Header.Get(requestIDHeader) == "" {
		httpRequest.Header.Set(requestIDHeader, f.newRequestID())
	}

	return httpRequest, nil
}

func newUUID() string {
	return uuid.NewString()
}
