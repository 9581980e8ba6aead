// Package dom is a thin document adapter over golang.org/x/net/html. It
// exposes the small capability set the renderer and edit tracker need
// (attribute queries, text and attribute writes, template cloning, child
// insertion and removal) so both stay testable against in-memory documents.
package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document wraps a parsed HTML tree.
type Document struct {
	root *html.Node
}

// Parse reads a complete HTML document. Fragments are tolerated: the parser
// wraps them in html/head/body the way browsers do.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is a convenience wrapper for Parse.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document root node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Render serializes the document back to HTML.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}
	return nil
}

// RenderString serializes the document to a string.
func (d *Document) RenderString() (string, error) {
	var b strings.Builder
	if err := d.Render(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// FindAll returns every element in the document carrying the attribute, in
// document order.
func (d *Document) FindAll(attr string) []*html.Node {
	return FindAll(d.root, attr)
}

// FindAll returns every element at or below n carrying the attribute, in
// document order.
func FindAll(n *html.Node, attr string) []*html.Node {
	var found []*html.Node
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.ElementNode {
			if _, ok := Attr(node, attr); ok {
				found = append(found, node)
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return found
}

// Attr returns the value of an attribute and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr writes an attribute, replacing any existing value.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes an attribute if present.
func RemoveAttr(n *html.Node, key string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// Text returns the concatenated text content of n's subtree.
func Text(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

// SetText replaces n's children with a single text node.
func SetText(n *html.Node, text string) {
	RemoveChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// Clone deep-copies a node. The copy is detached: no parent, no siblings.
func Clone(n *html.Node) *html.Node {
	out := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out.AppendChild(Clone(c))
	}
	return out
}

// NewElement creates a detached element node.
func NewElement(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag}
}

// InsertBefore attaches child under parent immediately before ref. A nil ref
// appends.
func InsertBefore(parent, child, ref *html.Node) {
	if ref == nil {
		parent.AppendChild(child)
		return
	}
	parent.InsertBefore(child, ref)
}

// ElementChildren returns the element-node children of n.
func ElementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// HasAncestor reports whether any ancestor of n satisfies pred.
func HasAncestor(n *html.Node, pred func(*html.Node) bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && pred(p) {
			return true
		}
	}
	return false
}
