package resolve

import (
	"context"
	"strings"
)

// NextPageFunc produces the next URL of a pagination chain.
// It receives the previous page's URL and the 1-based index the next
// page would occupy (the chain starts at index 1, so the first call
// receives nextIndex 2). Returning an empty string ends the chain.
type NextPageFunc func(previousURL string, nextIndex int) string

// NoPagination is the default continuation: it returns an empty URL
// unconditionally, so no pagination occurs.
func NoPagination(string, int) string {
	return ""
}

// PageFetcher is the fetch capability the engine runs on.
// *fetch.Fetcher satisfies it; tests substitute counting fakes.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string, useStash bool) (string, error)
}

// ChainResolver concatenates the bodies of a pagination chain.
type ChainResolver struct {
	// fetcher retrieves individual page bodies.
	fetcher PageFetcher
}

// NewChainResolver creates a ChainResolver on top of the given fetcher.
func NewChainResolver(fetcher PageFetcher) *ChainResolver {
	return &ChainResolver{fetcher: fetcher}
}

// ResolveChain fetches startURL and every page the continuation leads
// to, returning the in-order concatenation of their bodies.
//
// The loop halts when a fetched body is empty (an empty page means "no
// content, no continuation") or when the continuation returns a URL
// byte-identical to the current one (self-loop guard, which also makes
// NoPagination terminate after a single fetch). An empty continuation
// result that differs from the current URL is not a halt by itself: the
// empty URL goes through one more Fetch, which returns an empty body
// without touching the network, and the empty body halts the loop. Do
// not short-circuit that extra step; it is observable behavior.
//
// Pagination depth is bounded only by the actual chain, so the loop
// accumulates into a builder instead of recursing.
func (r *ChainResolver) ResolveChain(ctx context.Context, startURL string, useStash bool, next NextPageFunc) (string, error) {
	if next == nil {
		next = NoPagination
	}

	var content strings.Builder
	current := startURL
	index := 1

	for {
		body, err := r.fetcher.Fetch(ctx, current, useStash)
		if err != nil {
			return "", err
		}
		if body == "" {
			return content.String(), nil
		}
		content.WriteString(body)

		nextURL := next(current, index+1)
		if nextURL == current {
			return content.String(), nil
		}

		current = nextURL
		index++
	}
}
