// Package stash provides a disk-backed store of previously fetched
// page bodies, keyed by a sanitized form of the URL.
//
// # Keys
//
// A stash key is derived from a URL by stripping every character outside
// [A-Za-z0-9-]. Distinct URLs that collide to the same key deliberately
// share one entry; the stash does not attempt to disambiguate them.
//
// # Storage
//
// Each entry is one file under the stash root directory, written as UTF-8
// text with invalid byte sequences replaced. The root directory (including
// parents) is created once when the stash is constructed. Entries never
// expire and are never invalidated by this package.
//
// # Concurrency
//
// The stash performs no locking. Crawls are single-threaded by design,
// so concurrent writers to the same key are out of scope. A caller that
// shares a stash across goroutines must serialize writes per key.
package stash
