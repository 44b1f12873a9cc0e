// Package resolve implements the crawl engine: pagination chain
// resolution, index link extraction, and the scrape driver.
//
// # Architecture
//
// The package is layered around three types:
//
//   - ChainResolver: follows a pagination chain from a start URL via a
//     caller-supplied continuation function and concatenates page bodies
//     in order.
//   - IndexResolver: resolves the full (possibly multi-page) index
//     document and extracts instance URLs with a selector.
//   - Driver: orchestrates index resolution, then fetches each instance
//     (including its own pagination chain) and invokes caller logic.
//
// Design decision: Pagination and parsing are customized through injected
// functions and capabilities (NextPageFunc, markup.Querier) rather than
// subclass overriding because:
//  1. Go has no virtual dispatch; strategy injection is the idiom
//  2. Each knob can be tested in isolation
//  3. Callers compose behavior without inheriting engine internals
//
// # Halting discipline
//
// A chain halts when a fetched body is empty or when the continuation
// returns the current URL unchanged. An empty continuation result that
// differs from the current URL does not halt immediately: it triggers one
// further fetch of the empty URL, which yields an empty body and halts on
// the next iteration. That two-step halt is externally observable and is
// preserved deliberately.
//
// # Execution model
//
// Everything here is single-threaded, synchronous, and blocking. One
// instance is fetched fully, pagination chain included, before the next
// begins. The only cancellation mechanism is the context passed through
// every fetch.
package resolve
