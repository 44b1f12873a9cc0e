// Package model defines the shared data structures for webharvest.
//
// The model package has no dependencies on other internal packages,
// allowing it to be imported by any layer (fetch, journal, report)
// without circular dependencies.
//
// # Key Types
//
//   - CrawlTarget: an instance URL paired with its position in the index
//   - FetchRecord: the outcome of a single fetch (for the journal)
//   - CrawlSummary: aggregate statistics for a completed crawl
package model
