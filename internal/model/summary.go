package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// FetchRecord describes the outcome of a single fetch call.
// Records are emitted by the fetcher and persisted by the journal.
type FetchRecord struct {
	// URL is the requested URL.
	URL string `json:"url"`

	// Key is the stash key derived from URL (empty when stashing was off).
	Key string `json:"key,omitempty"`

	// CacheHit reports whether the body was served from the stash
	// without touching the network.
	CacheHit bool `json:"cache_hit"`

	// StatusCode is the HTTP status code, or 0 for cache hits.
	StatusCode int `json:"status_code"`

	// Recovered reports whether a not-found or server-error response was
	// absorbed into an empty body.
	Recovered bool `json:"recovered"`

	// Bytes is the length of the returned body.
	Bytes int `json:"bytes"`

	// BodyHash is the SHA-256 hash of the returned body, empty for
	// empty bodies. Used for change detection between crawls.
	BodyHash string `json:"body_hash,omitempty"`

	// Elapsed is the wall-clock duration of the fetch, excluding the
	// politeness sleep.
	Elapsed time.Duration `json:"elapsed"`
}

// HashBody returns the hex-encoded SHA-256 hash of body.
// Returns the empty string for an empty body so that recovered failures
// and truly empty pages journal identically.
func HashBody(body string) string {
	if body == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// CrawlSummary aggregates the statistics of one completed crawl.
// It is assembled after Scrape returns and rendered by the report package.
type CrawlSummary struct {
	// IndexURL is the listing page the crawl started from.
	IndexURL string `json:"index_url"`

	// Instances is the number of instance URLs the index resolved to.
	Instances int `json:"instances"`

	// Fetches is the total number of fetch calls that produced a record,
	// including cache hits.
	Fetches int `json:"fetches"`

	// CacheHits is the number of fetches served from the stash.
	CacheHits int `json:"cache_hits"`

	// NetworkFetches is the number of fetches that reached the network.
	NetworkFetches int `json:"network_fetches"`

	// Recovered is the number of not-found/server-error responses that
	// were absorbed into empty bodies.
	Recovered int `json:"recovered"`

	// Bytes is the total size of all returned bodies.
	Bytes int64 `json:"bytes"`

	// Started is when the crawl began.
	Started time.Time `json:"started"`

	// Elapsed is the total crawl duration.
	Elapsed time.Duration `json:"elapsed"`
}

// NewCrawlSummary aggregates fetch records into a crawl summary.
// Records include index page fetches, so Fetches may exceed Instances.
func NewCrawlSummary(indexURL string, instances int, started time.Time, recs []FetchRecord) *CrawlSummary {
	s := &CrawlSummary{
		IndexURL:  indexURL,
		Instances: instances,
		Started:   started,
		Elapsed:   time.Since(started),
	}

	for _, rec := range recs {
		s.Fetches++
		s.Bytes += int64(rec.Bytes)
		if rec.CacheHit {
			s.CacheHits++
		} else {
			s.NetworkFetches++
		}
		if rec.Recovered {
			s.Recovered++
		}
	}

	return s
}
