package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response is the result of a transport-level GET.
type Response struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Body is the response payload as text.
	Body string
}

// Transport is the network capability used by the Fetcher:
// perform a GET and return the response or a transport failure.
// Implementations must not treat non-2xx statuses as errors; status
// classification is the Fetcher's job.
type Transport interface {
	Get(ctx context.Context, rawURL string, headers map[string]string) (*Response, error)
}

// Default transport settings.
const (
	// DefaultTimeout bounds each HTTP request. Index and instance pages
	// are ordinary web pages; anything slower than this is effectively down.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies webharvest in HTTP requests.
	// A descriptive User-Agent lets operators identify crawler traffic.
	DefaultUserAgent = "webharvest/1.0 (+https://github.com/nao1215/webharvest)"

	// DefaultMaxBodySize limits the response body size kept in memory.
	// 5MB is sufficient for HTML pages while preventing memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024
)

// HTTPTransport is the default Transport, backed by a resty client.
type HTTPTransport struct {
	// client is the underlying resty client.
	client *resty.Client

	// maxBodySize truncates response bodies beyond this many bytes.
	maxBodySize int
}

// HTTPOption configures an HTTPTransport.
type HTTPOption func(*HTTPTransport)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(t *HTTPTransport) {
		t.client.SetTimeout(d)
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(t *HTTPTransport) {
		t.client.SetHeader("User-Agent", ua)
	}
}

// WithHeaders sets extra headers sent with every request, e.g. a site
// cookie or auth header from the config file.
func WithHeaders(headers map[string]string) HTTPOption {
	return func(t *HTTPTransport) {
		t.client.SetHeaders(headers)
	}
}

// WithMaxBodySize sets the maximum response body size to keep.
func WithMaxBodySize(n int) HTTPOption {
	return func(t *HTTPTransport) {
		if n > 0 {
			t.maxBodySize = n
		}
	}
}

// NewHTTPTransport creates an HTTPTransport with sensible defaults.
func NewHTTPTransport(opts ...HTTPOption) *HTTPTransport {
	client := resty.New()
	client.SetTimeout(DefaultTimeout)
	client.SetHeader("User-Agent", DefaultUserAgent)

	t := &HTTPTransport{
		client:      client,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Get performs an HTTP GET and returns the status code and body.
// Non-2xx statuses are returned, not converted to errors; only
// transport-level failures (DNS, connect, timeout) produce an error.
func (t *HTTPTransport) Get(ctx context.Context, rawURL string, headers map[string]string) (*Response, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("transport failure for %s: %w", rawURL, err)
	}

	body := resp.Body()
	if len(body) > t.maxBodySize {
		body = body[:t.maxBodySize]
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       string(body),
	}, nil
}
