package resolve

import (
	"context"
	"testing"
)

// TestQueryPagination tests the query-parameter continuation.
func TestQueryPagination(t *testing.T) {
	t.Parallel()

	t.Run("advances the parameter", func(t *testing.T) {
		t.Parallel()

		next := QueryPagination("page", 0)

		if got := next("http://x/list", 2); got != "http://x/list?page=2" {
			t.Errorf("unexpected next url: %q", got)
		}
		if got := next("http://x/list?page=2", 3); got != "http://x/list?page=3" {
			t.Errorf("unexpected next url: %q", got)
		}
	})

	t.Run("preserves other query parameters", func(t *testing.T) {
		t.Parallel()

		next := QueryPagination("page", 0)

		got := next("http://x/list?sort=date", 2)
		want := "http://x/list?page=2&sort=date"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("caps the chain at max pages", func(t *testing.T) {
		t.Parallel()

		next := QueryPagination("page", 3)

		if got := next("http://x/list?page=2", 3); got == "" {
			t.Error("expected page 3 to be within the cap")
		}
		if got := next("http://x/list?page=3", 4); got != "" {
			t.Errorf("expected empty url past the cap, got %q", got)
		}
	})

	t.Run("malformed url ends the chain", func(t *testing.T) {
		t.Parallel()

		next := QueryPagination("page", 0)

		if got := next("http://x/%zz", 2); got != "" {
			t.Errorf("expected empty url for malformed input, got %q", got)
		}
	})

	t.Run("chain halts via the engine", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{bodies: map[string]string{
			"http://x/list":        "<p>one</p>",
			"http://x/list?page=2": "<p>two</p>",
		}}
		r := NewChainResolver(f)

		content, err := r.ResolveChain(context.Background(), "http://x/list", false, QueryPagination("page", 0))
		if err != nil {
			t.Fatalf("failed to resolve chain: %v", err)
		}
		if content != "<p>one</p><p>two</p>" {
			t.Errorf("unexpected content: %q", content)
		}
	})
}
