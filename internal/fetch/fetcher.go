package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/webharvest/internal/model"
	"github.com/nao1215/webharvest/internal/stash"
)

// AcceptHeader is sent with every network fetch. It favors HTML and XML
// since crawl targets are markup documents.
const AcceptHeader = "text/html, application/xhtml+xml, application/xml;q=0.9, */*;q=0.8"

// DefaultDelay is the politeness interval slept before each network fetch.
// 30 seconds is deliberately conservative: this scaffold is built for
// small listing sites, not high-volume crawling, and the stash makes
// repeat runs cheap regardless.
const DefaultDelay = 30 * time.Second

// StatusError reports an HTTP status outside both the success range and
// the recovered failure classes. These propagate rather than being
// absorbed, so callers see unexpected statuses instead of silent
// empty-body data loss.
type StatusError struct {
	// URL is the fetched URL.
	URL string

	// StatusCode is the unexpected HTTP status.
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.StatusCode, e.URL)
}

// Observer receives a record for every completed fetch, including stash
// hits. The journal implements this to persist crawl history.
type Observer interface {
	ObserveFetch(ctx context.Context, rec model.FetchRecord)
}

// Fetcher performs rate-limited GETs with stash consult.
type Fetcher struct {
	// transport performs the actual network GET.
	transport Transport

	// stash is consulted before the network and updated after it.
	// May be nil, in which case all stash flags are effectively off.
	stash *stash.Stash

	// delay is the politeness interval slept before each network fetch.
	delay time.Duration

	// logger records recovered failures and stash activity.
	logger *slog.Logger

	// observer, when set, receives a record per completed fetch.
	observer Observer
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithDelay sets the politeness interval. Zero disables the sleep.
func WithDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.delay = d
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithObserver sets the fetch observer.
func WithObserver(o Observer) Option {
	return func(f *Fetcher) {
		f.observer = o
	}
}

// New creates a Fetcher using the given transport and stash.
// The stash may be nil when persistent caching is not wanted.
func New(transport Transport, st *stash.Stash, opts ...Option) *Fetcher {
	f := &Fetcher{
		transport: transport,
		stash:     st,
		delay:     DefaultDelay,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// Fetch returns the body of rawURL.
//
// An empty URL yields an empty body immediately: no error, no sleep, no
// network. When useStash is set and an entry exists for the URL's key,
// the stored body is returned verbatim, again with no sleep and no
// network call. Otherwise the politeness interval is slept (honoring ctx
// cancellation), the page is fetched, and — when useStash is set — the
// resulting body is written to the stash even when it is empty, so that
// recovered failures are remembered and not retried on later runs.
//
// Not-found (404/410) and server-error (5xx) responses are absorbed into
// an empty body. Every other non-success status returns *StatusError,
// and transport failures propagate unchanged.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, useStash bool) (string, error) {
	if rawURL == "" {
		return "", nil
	}

	if useStash && f.stash != nil && f.stash.Has(rawURL) {
		body, err := f.stash.Read(rawURL)
		if err != nil {
			return "", err
		}
		f.logger.Debug("stash hit", "url", rawURL, "bytes", len(body))
		f.observe(ctx, model.FetchRecord{
			URL:      rawURL,
			Key:      stash.Key(rawURL),
			CacheHit: true,
			Bytes:    len(body),
			BodyHash: model.HashBody(body),
		})
		return body, nil
	}

	// Politeness sleep: per fetch call, not per distinct URL.
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delay):
		}
	}

	start := time.Now()
	resp, err := f.transport.Get(ctx, rawURL, map[string]string{"Accept": AcceptHeader})
	if err != nil {
		return "", err
	}
	elapsed := time.Since(start)

	body := resp.Body
	recovered := false
	switch classify(resp.StatusCode) {
	case classSuccess:
	case classRecovered:
		body = ""
		recovered = true
		f.logger.Debug("recovered fetch failure",
			"url", rawURL,
			"status", resp.StatusCode,
		)
	default:
		return "", &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	if useStash && f.stash != nil {
		if err := f.stash.Write(rawURL, body); err != nil {
			return "", err
		}
	}

	f.observe(ctx, model.FetchRecord{
		URL:        rawURL,
		Key:        stashKeyIf(useStash, rawURL),
		StatusCode: resp.StatusCode,
		Recovered:  recovered,
		Bytes:      len(body),
		BodyHash:   model.HashBody(body),
		Elapsed:    elapsed,
	})

	return body, nil
}

// observe forwards a fetch record to the observer, if any.
func (f *Fetcher) observe(ctx context.Context, rec model.FetchRecord) {
	if f.observer != nil {
		f.observer.ObserveFetch(ctx, rec)
	}
}

// stashKeyIf returns the stash key when stashing was in effect.
func stashKeyIf(useStash bool, rawURL string) string {
	if !useStash {
		return ""
	}
	return stash.Key(rawURL)
}

// statusClass partitions HTTP statuses into the crawl policy's classes.
type statusClass int

const (
	// classSuccess keeps the body as fetched.
	classSuccess statusClass = iota

	// classRecovered absorbs the response into an empty body.
	classRecovered

	// classError propagates as *StatusError.
	classError
)

// classify maps an HTTP status code to its crawl policy class.
// 404 and 410 form the "not found" class; 5xx is the "server error"
// class. Redirects are followed by the transport, so 3xx rarely
// surfaces here; when it does the body is kept as-is.
func classify(status int) statusClass {
	switch {
	case status >= 200 && status < 400:
		return classSuccess
	case status == 404 || status == 410:
		return classRecovered
	case status >= 500:
		return classRecovered
	default:
		return classError
	}
}
