// Package dom reads fields out of detached HTML snapshots. Every lookup is
// best-effort: a missing element or attribute is reported as absent.
package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Node wraps a goquery selection.
type Node struct {
	sel *goquery.Selection
}

// Parse builds a Node rooted at a single outerHTML fragment.
// Unparseable input yields an empty Node.
func Parse(fragment string) Node {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return Node{}
	}
	// The parser wraps fragments in html/body; step down to the fragment root.
	if kids := doc.Find("body").Children(); kids.Length() == 1 {
		return Node{sel: kids}
	}
	return Node{sel: doc.Selection}
}

// ParseDocument builds a Node rooted at a full page.
func ParseDocument(html string) Node {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Node{}
	}
	return Node{sel: doc.Selection}
}

func (n Node) Empty() bool {
	return n.sel == nil || n.sel.Length() == 0
}

// Text returns the trimmed text of the first descendant matching selector.
func (n Node) Text(selector string) (string, bool) {
	if n.Empty() {
		return "", false
	}
	found := n.sel.Find(selector).First()
	if found.Length() == 0 {
		return "", false
	}
	return normalizeSpace(found.Text()), true
}

// OwnText returns the node's own trimmed text.
func (n Node) OwnText() string {
	if n.Empty() {
		return ""
	}
	return normalizeSpace(n.sel.Text())
}

// Attr returns an attribute of the first descendant matching selector.
func (n Node) Attr(selector, name string) (string, bool) {
	if n.Empty() {
		return "", false
	}
	found := n.sel.Find(selector).First()
	if found.Length() == 0 {
		return "", false
	}
	v, ok := found.Attr(name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// OwnAttr returns an attribute of the node itself.
func (n Node) OwnAttr(name string) (string, bool) {
	if n.Empty() {
		return "", false
	}
	return n.sel.Attr(name)
}

// All returns every descendant matching selector, in document order.
func (n Node) All(selector string) []Node {
	if n.Empty() {
		return nil
	}
	var out []Node
	n.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, Node{sel: s})
	})
	return out
}

// ClosestAttr walks from the node up through its ancestors and returns the
// first value of the named attribute. Descendants are never consulted.
func (n Node) ClosestAttr(name string) (string, bool) {
	if n.Empty() {
		return "", false
	}
	for s := n.sel.First(); s.Length() > 0; s = s.Parent() {
		if v, ok := s.Attr(name); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// normalizeSpace collapses whitespace runs the way rendered innerText does.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
