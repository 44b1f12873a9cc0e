// Package fetch performs rate-limited page fetches with stash consult
// and error tolerance.
//
// # Architecture
//
// The Fetcher wraps a Transport (the "GET a URL, return body or failure"
// capability) with the crawl policy: consult the stash first, sleep a
// politeness interval before every network request, absorb not-found and
// server-error responses into empty bodies, and remember results in the
// stash so failed fetches are not retried.
//
// Design decision: Transport is an interface rather than a concrete HTTP
// client because:
//  1. Tests can count network calls and inject failures deterministically
//  2. The crawl policy is independent of the HTTP stack
//  3. Callers can swap in instrumented or proxied transports
//
// # Politeness
//
// The sleep happens before each network fetch, per fetch call rather than
// per distinct URL, guaranteeing a minimum inter-request spacing toward
// the remote server. Stash hits bypass the sleep entirely; stashed runs
// are meant to be fast.
//
// # Error tolerance
//
// Not-found (404/410) and server-error (5xx) responses are recovered
// failures: the body becomes empty and no error propagates. Any other
// unexpected status surfaces as *StatusError, and transport failures
// propagate as-is. Silent data loss beyond the two known classes would be
// worse than a visible failure.
package fetch
