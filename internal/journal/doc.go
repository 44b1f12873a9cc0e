// Package journal provides SQLite-based storage of fetch history.
//
// Every completed fetch — stash hits included — is recorded with its
// URL, stash key, status, size, body hash, and timing. The journal
// powers the post-crawl summary report and lets repeat crawls be
// compared over time via body hashes.
//
// Design decision: The journal is an observer of the fetcher rather
// than a layer inside it because:
//  1. The crawl engine stays functional with no database at all
//  2. Journal write failures must never abort a crawl
//  3. The fetcher's contract stays exactly "url in, body out"
//
// We use modernc.org/sqlite (pure Go) so the binary builds without cgo.
package journal
