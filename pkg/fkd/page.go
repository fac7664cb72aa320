package fkd

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Node-walking helpers shared by the case, scenario, and list parsers.
// The archive's markup is 1990s-era table soup, so everything works on
// structural predicates rather than CSS paths.

// findAll collects every node under root (root included) matching pred,
// in document order.
func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// findFirst returns the first node under root matching pred, or nil.
func findFirst(root *html.Node, pred func(*html.Node) bool) *html.Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if pred(n) {
			found = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return found
}

func isElement(n *html.Node, name string) bool {
	return n.Type == html.ElementNode && n.Data == name
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// parentElement walks up to the nearest enclosing element with the
// given name, or nil.
func parentElement(n *html.Node, name string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if isElement(p, name) {
			return p
		}
	}
	return nil
}

// childElements returns the direct element children named name.
func childElements(n *html.Node, name string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, name) {
			out = append(out, c)
		}
	}
	return out
}

// text flattens a node to text: fragments trimmed and concatenated,
// <br> as newline. Matches how the archive's cells read once tag noise
// is removed.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(strings.TrimSpace(n.Data))
		case isElement(n, "br"):
			b.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// flowText flattens a node to paragraph text: <br> becomes a line
// break, runs of blank lines become paragraph breaks, and paragraphs
// are joined with one blank line. Used for the narrative fields (経過,
// 原因, 対策, ...) whose cells hold multi-paragraph prose.
func flowText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case isElement(n, "br"):
			b.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	var paragraphs []string
	var current []string
	for _, line := range strings.Split(b.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			current = append(current, line)
			continue
		}
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = nil
		}
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, "\n"))
	}
	return strings.Join(paragraphs, "\n\n")
}

// resolveURL resolves ref against base, returning ref unchanged when
// either side fails to parse.
func resolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
