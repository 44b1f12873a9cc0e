package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/nao1215/webharvest/internal/stash"
)

// fakeTransport is a Transport that serves canned responses and records
// every call, so tests can assert exactly when the network is consulted.
type fakeTransport struct {
	mu        sync.Mutex
	calls     int
	responses map[string]*Response
	lastHdrs  map[string]string
	err       error
}

func (t *fakeTransport) Get(_ context.Context, rawURL string, headers map[string]string) (*Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	t.lastHdrs = headers
	if t.err != nil {
		return nil, t.err
	}
	if resp, ok := t.responses[rawURL]; ok {
		return resp, nil
	}
	return &Response{StatusCode: http.StatusNotFound}, nil
}

func (t *fakeTransport) callCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

func newTestStash(t *testing.T) *stash.Stash {
	t.Helper()
	s, err := stash.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create stash: %v", err)
	}
	return s
}

// TestFetcher tests the fetch policy: stash consult, politeness,
// and error tolerance.
func TestFetcher(t *testing.T) {
	t.Parallel()

	t.Run("empty url returns empty body without network", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{}
		f := New(transport, newTestStash(t), WithDelay(0))

		body, err := f.Fetch(context.Background(), "", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if body != "" {
			t.Errorf("expected empty body, got %q", body)
		}
		if transport.callCount() != 0 {
			t.Errorf("expected no network calls, got %d", transport.callCount())
		}
	})

	t.Run("stash hit skips network and sleep", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{}
		st := newTestStash(t)
		if err := st.Write("http://x/page", "stored body"); err != nil {
			t.Fatalf("failed to seed stash: %v", err)
		}

		// A cancelled context would fail the politeness sleep, so a
		// successful fetch proves the stash path never sleeps.
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		f := New(transport, st, WithDelay(DefaultDelay))
		body, err := f.Fetch(ctx, "http://x/page", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if body != "stored body" {
			t.Errorf("expected stored body verbatim, got %q", body)
		}
		if transport.callCount() != 0 {
			t.Errorf("expected no network calls, got %d", transport.callCount())
		}
	})

	t.Run("politeness sleep honors context cancellation", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		f := New(transport, newTestStash(t), WithDelay(DefaultDelay))
		_, err := f.Fetch(ctx, "http://x/page", false)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if transport.callCount() != 0 {
			t.Errorf("expected no network calls, got %d", transport.callCount())
		}
	})

	t.Run("sends accept header favoring markup", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{responses: map[string]*Response{
			"http://x/page": {StatusCode: http.StatusOK, Body: "ok"},
		}}
		f := New(transport, newTestStash(t), WithDelay(0))

		if _, err := f.Fetch(context.Background(), "http://x/page", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := transport.lastHdrs["Accept"]; got != AcceptHeader {
			t.Errorf("expected Accept header %q, got %q", AcceptHeader, got)
		}
	})

	t.Run("not found is recovered into empty body and stashed", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{responses: map[string]*Response{
			"http://x/gone": {StatusCode: http.StatusNotFound, Body: "error page"},
		}}
		st := newTestStash(t)
		f := New(transport, st, WithDelay(0))

		body, err := f.Fetch(context.Background(), "http://x/gone", true)
		if err != nil {
			t.Fatalf("expected recovered failure, got error: %v", err)
		}
		if body != "" {
			t.Errorf("expected empty body, got %q", body)
		}

		// The empty result must be remembered so the failure is not retried.
		if !st.Has("http://x/gone") {
			t.Fatal("expected empty body to be stashed")
		}
		if _, err := f.Fetch(context.Background(), "http://x/gone", true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if transport.callCount() != 1 {
			t.Errorf("expected 1 network call total, got %d", transport.callCount())
		}
	})

	t.Run("server error is recovered into empty body", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{responses: map[string]*Response{
			"http://x/broken": {StatusCode: http.StatusInternalServerError, Body: "boom"},
		}}
		f := New(transport, newTestStash(t), WithDelay(0))

		body, err := f.Fetch(context.Background(), "http://x/broken", false)
		if err != nil {
			t.Fatalf("expected recovered failure, got error: %v", err)
		}
		if body != "" {
			t.Errorf("expected empty body, got %q", body)
		}
	})

	t.Run("unexpected status propagates as StatusError", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{responses: map[string]*Response{
			"http://x/secret": {StatusCode: http.StatusForbidden, Body: "nope"},
		}}
		f := New(transport, newTestStash(t), WithDelay(0))

		_, err := f.Fetch(context.Background(), "http://x/secret", false)
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected *StatusError, got %v", err)
		}
		if statusErr.StatusCode != http.StatusForbidden {
			t.Errorf("expected status 403, got %d", statusErr.StatusCode)
		}
	})

	t.Run("transport failure propagates", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("connection refused")
		transport := &fakeTransport{err: wantErr}
		f := New(transport, newTestStash(t), WithDelay(0))

		_, err := f.Fetch(context.Background(), "http://x/page", false)
		if !errors.Is(err, wantErr) {
			t.Errorf("expected transport error to propagate, got %v", err)
		}
	})

	t.Run("successful body is stashed for later runs", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{responses: map[string]*Response{
			"http://x/page": {StatusCode: http.StatusOK, Body: "page content"},
		}}
		st := newTestStash(t)
		f := New(transport, st, WithDelay(0))

		if _, err := f.Fetch(context.Background(), "http://x/page", true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		stored, err := st.Read("http://x/page")
		if err != nil {
			t.Fatalf("failed to read stash: %v", err)
		}
		if stored != "page content" {
			t.Errorf("expected body stashed verbatim, got %q", stored)
		}
	})

	t.Run("stash disabled leaves no entry", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{responses: map[string]*Response{
			"http://x/page": {StatusCode: http.StatusOK, Body: "page content"},
		}}
		st := newTestStash(t)
		f := New(transport, st, WithDelay(0))

		if _, err := f.Fetch(context.Background(), "http://x/page", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if st.Has("http://x/page") {
			t.Error("expected no stash entry when stashing is off")
		}
	})
}

// TestHTTPTransport tests the resty-backed default transport against a
// real HTTP server.
func TestHTTPTransport(t *testing.T) {
	t.Parallel()

	t.Run("returns status and body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Accept") == "" {
				t.Error("expected Accept header to be forwarded")
			}
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write([]byte("hello")); err != nil {
				t.Errorf("failed to write response: %v", err)
			}
		}))
		defer srv.Close()

		transport := NewHTTPTransport()
		resp, err := transport.Get(context.Background(), srv.URL, map[string]string{"Accept": AcceptHeader})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", resp.StatusCode)
		}
		if resp.Body != "hello" {
			t.Errorf("expected body %q, got %q", "hello", resp.Body)
		}
	})

	t.Run("non-2xx status is not a transport error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not here", http.StatusNotFound)
		}))
		defer srv.Close()

		transport := NewHTTPTransport()
		resp, err := transport.Get(context.Background(), srv.URL, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", resp.StatusCode)
		}
	})

	t.Run("truncates oversized bodies", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			for range 100 {
				if _, err := w.Write([]byte("0123456789")); err != nil {
					return
				}
			}
		}))
		defer srv.Close()

		transport := NewHTTPTransport(WithMaxBodySize(64))
		resp, err := transport.Get(context.Background(), srv.URL, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Body) != 64 {
			t.Errorf("expected body truncated to 64 bytes, got %d", len(resp.Body))
		}
	})
}
