package testkit

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// RecordedRequest is one call the fake API received.
type RecordedRequest struct {
	Method  string
	URI     string
	Headers http.Header
	Body    string
}

// Reply is what the fake API answers for one request. A zero Status means
// 200.
type Reply struct {
	Status  int
	Headers map[string]string
	Body    string
}

type FakeAPI struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewFakeAPI starts an HTTP server that records every request and answers
// with respond. It is closed when the test ends.
func NewFakeAPI(t *testing.T, respond func(RecordedRequest) Reply) *FakeAPI {
	t.Helper()

	api := &FakeAPI{}
	api.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		recorded := RecordedRequest{
			Method:  r.Method,
			URI:     r.URL.RequestURI(),
			Headers: r.Header.Clone(),
			Body:    string(body),
		}

		api.mu.Lock()
		api.requests = append(api.requests, recorded)
		api.mu.Unlock()

		reply := respond(recorded)
		for key, value := range reply.Headers {
			w.Header().Set(key, value)
		}
		if reply.Body != "" && w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		status := reply.Status
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply.Body)
	}))
	t.Cleanup(api.server.Close)
	return api
}

func (a *FakeAPI) URL() string {
	return a.server.URL
}

func (a *FakeAPI) Requests() []RecordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]RecordedRequest(nil), a.requests...)
}

// WriteCatalog stores a context catalog in a fresh temp dir and returns its
// path.
func WriteCatalog(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "contexts.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}
