package fetch

import (
	"context"

	"github.com/nao1215/webharvest/internal/model"
)

// Recorder is an Observer that accumulates fetch records in memory.
// The crawl summary is assembled from these after the crawl completes.
type Recorder struct {
	records []model.FetchRecord
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// ObserveFetch appends the record. The crawl is sequential, so no
// locking is needed.
func (r *Recorder) ObserveFetch(_ context.Context, rec model.FetchRecord) {
	r.records = append(r.records, rec)
}

// Records returns the accumulated records in fetch order.
func (r *Recorder) Records() []model.FetchRecord {
	return r.records
}

// multiObserver fans a record out to several observers.
type multiObserver []Observer

// MultiObserver combines observers into one. Nil observers are skipped,
// and combining zero non-nil observers yields nil so the fetcher's
// no-observer fast path still applies.
func MultiObserver(observers ...Observer) Observer {
	var kept multiObserver
	for _, o := range observers {
		if o != nil {
			kept = append(kept, o)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// ObserveFetch forwards the record to every observer in order.
func (m multiObserver) ObserveFetch(ctx context.Context, rec model.FetchRecord) {
	for _, o := range m {
		o.ObserveFetch(ctx, rec)
	}
}
