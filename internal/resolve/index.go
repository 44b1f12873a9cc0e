package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/webharvest/internal/markup"
	"github.com/nao1215/webharvest/internal/model"
)

// LinkAttr is the attribute extracted from matched index elements.
const LinkAttr = "href"

// IndexResolver extracts instance URLs from a (possibly paginated)
// index document.
type IndexResolver struct {
	// chain fetches the concatenated index content.
	chain *ChainResolver

	// querier evaluates the link selector against the index markup.
	querier *markup.Querier

	// logger reports skipped elements.
	logger *slog.Logger
}

// IndexOption configures an IndexResolver.
type IndexOption func(*IndexResolver)

// WithIndexLogger sets a custom logger.
func WithIndexLogger(logger *slog.Logger) IndexOption {
	return func(r *IndexResolver) {
		r.logger = logger
	}
}

// NewIndexResolver creates an IndexResolver.
func NewIndexResolver(chain *ChainResolver, querier *markup.Querier, opts ...IndexOption) *IndexResolver {
	r := &IndexResolver{
		chain:   chain,
		querier: querier,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// ResolveIndex fetches the full index content via the pagination chain,
// evaluates selector under mode, and returns one CrawlTarget per matched
// element carrying a link attribute.
//
// Order is document order across the concatenated index pages, and
// duplicate URLs are preserved with their own positions. Elements
// lacking the link attribute are skipped with a warning rather than
// failing the crawl; a listing that decorates some entries with
// non-link markup should not abort discovery of the rest.
func (r *IndexResolver) ResolveIndex(ctx context.Context, indexURL, selector string, mode markup.Mode, useStash bool, next NextPageFunc) ([]model.CrawlTarget, error) {
	content, err := r.chain.ResolveChain(ctx, indexURL, useStash, next)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve index %s: %w", indexURL, err)
	}

	elements, err := r.querier.Query(content, selector, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate selector on index %s: %w", indexURL, err)
	}

	targets := make([]model.CrawlTarget, 0, len(elements))
	for _, el := range elements {
		href, ok := el.Attr(LinkAttr)
		if !ok {
			r.logger.Warn("index element lacks link attribute, skipping",
				"index", indexURL,
				"selector", selector,
				"text", el.Text,
			)
			continue
		}
		targets = append(targets, model.CrawlTarget{
			URL:      href,
			Position: len(targets),
		})
	}

	return targets, nil
}
