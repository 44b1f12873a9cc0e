package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/webharvest/internal/markup"
	"github.com/nao1215/webharvest/internal/model"
)

// Handler is the caller-supplied logic invoked once per instance page.
// It receives the instance's full content (all pagination pages
// concatenated), its URL, and its 0-based position in the index. The
// returned value is collected by Scrape in index order.
//
// A handler cannot distinguish a truly empty page from a recovered fetch
// failure; both arrive as empty content. That ambiguity is part of the
// engine's error-tolerance contract.
type Handler func(content, pageURL string, position int) (any, error)

// Driver orchestrates a crawl: resolve the index, then fetch each
// instance page (following its pagination chain) and invoke the handler.
type Driver struct {
	// chain resolves instance pagination chains.
	chain *ChainResolver

	// index resolves the index document into crawl targets.
	index *IndexResolver

	// logger reports crawl progress.
	logger *slog.Logger

	// indexURL is the listing page the crawl starts from.
	indexURL string

	// selector matches the index elements whose link attribute
	// identifies instance pages.
	selector string

	// mode selects how the selector is interpreted.
	mode markup.Mode

	// instanceStash enables the stash for instance pages. On by
	// default: instance content is what repeat runs want cheap.
	instanceStash bool

	// indexStash enables the stash for index pages. Off by default:
	// a stale index hides newly listed instances.
	indexStash bool

	// indexNext is the pagination continuation for the index.
	indexNext NextPageFunc

	// instanceNext is the pagination continuation for instances.
	instanceNext NextPageFunc
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithSelectorMode sets the selector mode. Default is markup.ModePath.
func WithSelectorMode(mode markup.Mode) DriverOption {
	return func(d *Driver) {
		d.mode = mode
	}
}

// WithInstanceStash toggles the stash for instance pages (default on).
func WithInstanceStash(on bool) DriverOption {
	return func(d *Driver) {
		d.instanceStash = on
	}
}

// WithIndexStash toggles the stash for index pages (default off).
func WithIndexStash(on bool) DriverOption {
	return func(d *Driver) {
		d.indexStash = on
	}
}

// WithIndexPagination sets the index pagination continuation.
func WithIndexPagination(next NextPageFunc) DriverOption {
	return func(d *Driver) {
		if next != nil {
			d.indexNext = next
		}
	}
}

// WithInstancePagination sets the instance pagination continuation.
func WithInstancePagination(next NextPageFunc) DriverOption {
	return func(d *Driver) {
		if next != nil {
			d.instanceNext = next
		}
	}
}

// WithDriverLogger sets a custom logger.
func WithDriverLogger(logger *slog.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = logger
	}
}

// NewDriver creates a Driver for the given index URL and link selector.
func NewDriver(chain *ChainResolver, index *IndexResolver, indexURL, selector string, opts ...DriverOption) *Driver {
	d := &Driver{
		chain:         chain,
		index:         index,
		indexURL:      indexURL,
		selector:      selector,
		mode:          markup.ModePath,
		instanceStash: true,
		indexStash:    false,
		indexNext:     NoPagination,
		instanceNext:  NoPagination,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	return d
}

// Targets resolves the index and returns the discovered crawl targets
// without fetching any instance page.
func (d *Driver) Targets(ctx context.Context) ([]model.CrawlTarget, error) {
	return d.index.ResolveIndex(ctx, d.indexURL, d.selector, d.mode, d.indexStash, d.indexNext)
}

// Scrape runs the crawl: it resolves the index, then for each target in
// index order fetches the instance's full content (pagination chain
// included) and invokes handler synchronously. Handler results are
// returned in the same order. One instance is fetched completely before
// the next begins; there is no parallelism.
//
// A recovered fetch failure flows into the handler as empty content;
// the crawl never aborts on a single page's recoverable failure. Hard
// failures — transport errors, unexpected statuses, stash I/O errors,
// handler errors — stop the crawl and propagate.
func (d *Driver) Scrape(ctx context.Context, handler Handler) ([]any, error) {
	targets, err := d.Targets(ctx)
	if err != nil {
		return nil, err
	}

	d.logger.Info("index resolved",
		"index", d.indexURL,
		"targets", len(targets),
	)

	results := make([]any, 0, len(targets))
	for _, target := range targets {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		content, err := d.chain.ResolveChain(ctx, target.URL, d.instanceStash, d.instanceNext)
		if err != nil {
			return results, fmt.Errorf("failed to resolve instance %s: %w", target.URL, err)
		}

		d.logger.Debug("instance resolved",
			"url", target.URL,
			"position", target.Position,
			"bytes", len(content),
		)

		result, err := handler(content, target.URL, target.Position)
		if err != nil {
			return results, fmt.Errorf("handler failed for %s: %w", target.URL, err)
		}
		results = append(results, result)
	}

	return results, nil
}
