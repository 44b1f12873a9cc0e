// Package markup evaluates selectors against HTML/XML documents.
//
// # Query modes
//
// Two selector modes are supported:
//
//   - ModePath: structural-path expressions evaluated over the parsed
//     node tree, e.g. "//div/a" or "/html/body/ul/li/a". This is the
//     default mode.
//   - ModeStyle: CSS selectors, e.g. "ul.listing a.title", evaluated
//     via goquery.
//
// # Structural-path subset
//
// Path expressions support absolute steps ("/html/body/a"), descendant
// steps ("//a", "//div//a"), the "*" wildcard, and [@attr='value']
// predicates. A selector without a leading slash is treated as a
// descendant search from the document root.
//
// Design decision: We evaluate paths over golang.org/x/net/html nodes
// rather than pulling in an XPath engine because:
//  1. Link extraction needs only element-path navigation
//  2. x/net/html is already the parsing layer for the crawl engine
//  3. The subset is small enough to specify and test exhaustively
//
// Results are always returned in document order, duplicates preserved.
package markup
