package markup

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Mode selects how a selector string is interpreted.
type Mode string

const (
	// ModePath interprets the selector as a structural-path expression.
	// This is the default mode.
	ModePath Mode = "path"

	// ModeStyle interprets the selector as a CSS selector.
	ModeStyle Mode = "style"
)

// Selector mode errors.
var (
	// ErrUnknownMode is returned for a selector mode outside the
	// enumerated set.
	ErrUnknownMode = errors.New("unknown selector mode: must be \"path\" or \"style\"")

	// ErrEmptySelector is returned when the selector string is empty.
	ErrEmptySelector = errors.New("selector must not be empty")
)

// ParseMode converts a user-supplied string into a Mode.
// The empty string maps to ModePath, the default.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePath, "":
		return ModePath, nil
	case ModeStyle:
		return ModeStyle, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Element is a matched markup element: its attributes plus the
// concatenated text of its subtree.
type Element struct {
	// Attrs maps attribute names to values.
	Attrs map[string]string

	// Text is the element's text content, whitespace-trimmed.
	Text string
}

// Attr returns the named attribute and whether it is present.
func (e Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// Querier evaluates selectors against markup documents.
// The zero value is usable; NewQuerier exists for symmetry with the
// other engine components.
type Querier struct{}

// NewQuerier creates a Querier.
func NewQuerier() *Querier {
	return &Querier{}
}

// Query parses document and returns the elements matched by selector
// under the given mode, in document order with duplicates preserved.
func (q *Querier) Query(document, selector string, mode Mode) ([]Element, error) {
	if selector == "" {
		return nil, ErrEmptySelector
	}

	switch mode {
	case ModeStyle:
		return q.queryStyle(document, selector)
	case ModePath, "":
		return q.queryPath(document, selector)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// queryStyle evaluates a CSS selector via goquery.
func (q *Querier) queryStyle(document, selector string) ([]Element, error) {
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid css selector %q: %w", selector, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	var elements []Element
	doc.FindMatcher(matcher).Each(func(_ int, sel *goquery.Selection) {
		for _, node := range sel.Nodes {
			elements = append(elements, nodeToElement(node))
		}
	})

	return elements, nil
}

// queryPath evaluates a structural-path expression over the parsed tree.
func (q *Querier) queryPath(document, selector string) ([]Element, error) {
	steps, err := parsePath(selector)
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	matched := []*html.Node{root}
	for _, st := range steps {
		var next []*html.Node
		for _, n := range matched {
			if st.descendant {
				collectDescendants(n, st, &next)
			} else {
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if st.matches(c) {
						next = append(next, c)
					}
				}
			}
		}
		matched = dedupeNodes(next)
	}

	elements := make([]Element, 0, len(matched))
	for _, n := range matched {
		elements = append(elements, nodeToElement(n))
	}
	return elements, nil
}

// step is one component of a structural-path expression.
type step struct {
	// name is the element name to match; "*" matches any element.
	name string

	// attr/value form the optional [@attr='value'] predicate.
	attr  string
	value string

	// descendant selects matching descendants at any depth rather
	// than direct children only.
	descendant bool
}

// matches reports whether n satisfies the step's name and predicate.
func (st step) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if st.name != "*" && !strings.EqualFold(n.Data, st.name) {
		return false
	}
	if st.attr != "" {
		for _, a := range n.Attr {
			if a.Key == st.attr {
				return a.Val == st.value
			}
		}
		return false
	}
	return true
}

// stepPattern matches a single path step: an element name or "*",
// optionally followed by an [@attr='value'] predicate.
var stepPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_-]*|\*)(?:\[@([A-Za-z][A-Za-z0-9_-]*)='([^']*)'\])?$`)

// parsePath tokenizes a structural-path expression into steps.
// A selector without a leading slash searches descendants from the root.
func parsePath(selector string) ([]step, error) {
	// A relative selector's first step matches at any depth. An absolute
	// selector anchors its first step at the root: the single leading
	// slash is consumed here so only "//" marks a descendant step.
	rest := selector
	descendant := true
	if strings.HasPrefix(rest, "/") {
		rest = rest[1:]
		descendant = false
	}

	var steps []step
	for _, raw := range strings.Split(rest, "/") {
		if raw == "" {
			// An empty segment comes from "//": the next named step
			// matches descendants at any depth.
			descendant = true
			continue
		}

		m := stepPattern.FindStringSubmatch(raw)
		if m == nil {
			return nil, fmt.Errorf("invalid path step %q in selector %q", raw, selector)
		}
		steps = append(steps, step{
			name:       m[1],
			attr:       m[2],
			value:      m[3],
			descendant: descendant,
		})
		descendant = false
	}

	if len(steps) == 0 {
		return nil, fmt.Errorf("selector %q contains no steps", selector)
	}
	return steps, nil
}

// collectDescendants appends all descendants of n matching st, in
// document order.
func collectDescendants(n *html.Node, st step, out *[]*html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if st.matches(c) {
			*out = append(*out, c)
		}
		collectDescendants(c, st, out)
	}
}

// dedupeNodes removes duplicate nodes while preserving document order.
// Duplicates arise when nested nodes both match a descendant step.
func dedupeNodes(nodes []*html.Node) []*html.Node {
	seen := make(map[*html.Node]bool, len(nodes))
	result := nodes[:0]
	for _, n := range nodes {
		if !seen[n] {
			seen[n] = true
			result = append(result, n)
		}
	}
	return result
}

// nodeToElement converts an html.Node into an Element.
func nodeToElement(n *html.Node) Element {
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[a.Key] = a.Val
	}

	var text strings.Builder
	collectText(n, &text)

	return Element{
		Attrs: attrs,
		Text:  strings.TrimSpace(text.String()),
	}
}

// collectText appends the text content of n's subtree to buf.
func collectText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, buf)
	}
}
