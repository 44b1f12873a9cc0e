package model

// CrawlTarget is an instance URL discovered on an index page, paired with
// its ordinal position in the index's link list.
//
// Positions are 0-based and follow document order of the matched elements
// across the full (possibly paginated) index content. Duplicate URLs keep
// their own positions; the index is not deduplicated.
type CrawlTarget struct {
	// URL is the instance page URL exactly as extracted from the index.
	// URLs are opaque strings: two URLs are the same only if byte-identical.
	URL string

	// Position is the 0-based ordinal of this link in the index.
	Position int
}
