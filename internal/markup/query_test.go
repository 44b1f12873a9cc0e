package markup

import (
	"errors"
	"testing"
)

const listingDoc = `<html><head><title>Listing</title></head><body>
<div class="nav"><a href="/about">About</a></div>
<ul class="posts">
	<li><a href="/a" class="title">First</a></li>
	<li><a href="/b" class="title">Second</a></li>
	<li><a class="title">No target</a></li>
	<li><a href="/a" class="title">First again</a></li>
</ul>
</body></html>`

// TestParseMode tests selector mode parsing.
func TestParseMode(t *testing.T) {
	t.Parallel()

	t.Run("empty string defaults to path mode", func(t *testing.T) {
		t.Parallel()

		mode, err := ParseMode("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mode != ModePath {
			t.Errorf("expected ModePath, got %q", mode)
		}
	})

	t.Run("style mode", func(t *testing.T) {
		t.Parallel()

		mode, err := ParseMode("style")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mode != ModeStyle {
			t.Errorf("expected ModeStyle, got %q", mode)
		}
	})

	t.Run("unknown mode is rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseMode("xquery"); !errors.Is(err, ErrUnknownMode) {
			t.Errorf("expected ErrUnknownMode, got %v", err)
		}
	})
}

// TestQueryStyle tests CSS selector evaluation.
func TestQueryStyle(t *testing.T) {
	t.Parallel()

	t.Run("matches in document order with duplicates preserved", func(t *testing.T) {
		t.Parallel()

		q := NewQuerier()
		elements, err := q.Query(listingDoc, "ul.posts a.title", ModeStyle)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(elements) != 4 {
			t.Fatalf("expected 4 elements, got %d", len(elements))
		}

		wantHrefs := []string{"/a", "/b", "", "/a"}
		for i, want := range wantHrefs {
			got, _ := elements[i].Attr("href")
			if got != want {
				t.Errorf("element %d: expected href %q, got %q", i, want, got)
			}
		}
		if elements[0].Text != "First" {
			t.Errorf("expected text %q, got %q", "First", elements[0].Text)
		}
	})

	t.Run("invalid selector returns an error", func(t *testing.T) {
		t.Parallel()

		q := NewQuerier()
		if _, err := q.Query(listingDoc, "ul..posts", ModeStyle); err == nil {
			t.Error("expected error for invalid css selector")
		}
	})
}

// TestQueryPath tests structural-path evaluation.
func TestQueryPath(t *testing.T) {
	t.Parallel()

	t.Run("descendant step matches anywhere", func(t *testing.T) {
		t.Parallel()

		q := NewQuerier()
		elements, err := q.Query(listingDoc, "//a", ModePath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Nav link plus the four listing links.
		if len(elements) != 5 {
			t.Errorf("expected 5 anchors, got %d", len(elements))
		}
	})

	t.Run("child steps follow structure", func(t *testing.T) {
		t.Parallel()

		q := NewQuerier()
		elements, err := q.Query(listingDoc, "//ul/li/a", ModePath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(elements) != 4 {
			t.Fatalf("expected 4 anchors, got %d", len(elements))
		}
		got, _ := elements[1].Attr("href")
		if got != "/b" {
			t.Errorf("expected second href %q, got %q", "/b", got)
		}
	})

	t.Run("absolute path from document root", func(t *testing.T) {
		t.Parallel()

		q := NewQuerier()
		elements, err := q.Query(listingDoc, "/html/body/ul/li/a", ModePath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(elements) != 4 {
			t.Errorf("expected 4 anchors, got %d", len(elements))
		}
	})

	t.Run("absolute first step anchors at the root", func(t *testing.T) {
		t.Parallel()

		doc := `<section><div><a href="/deep">Deep</a></div></section>`
		q := NewQuerier()

		// The div is nested under html/body, so an absolute path that
		// starts at div must not match it.
		elements, err := q.Query(doc, "/div/a", ModePath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(elements) != 0 {
			t.Errorf("expected no matches for /div/a, got %d", len(elements))
		}

		// The descendant form of the same steps does match.
		elements, err = q.Query(doc, "//div/a", ModePath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(elements) != 1 {
			t.Errorf("expected 1 match for //div/a, got %d", len(elements))
		}
	})

	t.Run("attribute predicate filters matches", func(t *testing.T) {
		t.Parallel()

		q := NewQuerier()
		elements, err := q.Query(listingDoc, "//div[@class='nav']/a", ModePath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(elements) != 1 {
			t.Fatalf("expected 1 anchor, got %d", len(elements))
		}
		got, _ := elements[0].Attr("href")
		if got != "/about" {
			t.Errorf("expected href %q, got %q", "/about", got)
		}
	})

	t.Run("wildcard matches any element", func(t *testing.T) {
		t.Parallel()

		q := NewQuerier()
		elements, err := q.Query(listingDoc, "//ul/*/a", ModePath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(elements) != 4 {
			t.Errorf("expected 4 anchors, got %d", len(elements))
		}
	})

	t.Run("relative selector searches from root", func(t *testing.T) {
		t.Parallel()

		q := NewQuerier()
		elements, err := q.Query(listingDoc, "title", ModePath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(elements) != 1 || elements[0].Text != "Listing" {
			t.Errorf("expected single title %q, got %+v", "Listing", elements)
		}
	})

	t.Run("malformed step is rejected", func(t *testing.T) {
		t.Parallel()

		q := NewQuerier()
		if _, err := q.Query(listingDoc, "//a[href]", ModePath); err == nil {
			t.Error("expected error for malformed step")
		}
	})

	t.Run("empty selector is rejected", func(t *testing.T) {
		t.Parallel()

		q := NewQuerier()
		if _, err := q.Query(listingDoc, "", ModePath); !errors.Is(err, ErrEmptySelector) {
			t.Errorf("expected ErrEmptySelector, got %v", err)
		}
	})
}
