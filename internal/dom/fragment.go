package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewFragment returns an empty detached container.
func NewFragment() *html.Node {
	return &html.Node{Type: html.DocumentNode}
}

// IsFragment reports whether n is a detached container.
func IsFragment(n *html.Node) bool {
	return n != nil && n.Type == html.DocumentNode && n.Parent == nil
}

var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// ParseFragment parses markup in a <body> context and returns the top-level
// nodes inside a fresh fragment.
func ParseFragment(markup string) (*html.Node, error) {
	return ParseFragmentIn(markup, bodyContext)
}

// ParseFragmentIn parses markup as the content of context, so that
// `<tr>` inside a table body or raw text inside `<textarea>` behave.
func ParseFragmentIn(markup string, context *html.Node) (*html.Node, error) {
	if context == nil || context.Type != html.ElementNode {
		context = bodyContext
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	frag := NewFragment()
	for _, n := range nodes {
		Detach(n)
		frag.AppendChild(n)
	}
	return frag, nil
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// CloneShallow copies n without parent, siblings or children.
func CloneShallow(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	return c
}

// CloneDeep copies n and all of its descendants.
func CloneDeep(n *html.Node) *html.Node {
	c := CloneShallow(n)
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(CloneDeep(ch))
	}
	return c
}

// MoveChildren moves every child of from to the end of to.
func MoveChildren(from, to *html.Node) {
	for c := from.FirstChild; c != nil; {
		next := c.NextSibling
		from.RemoveChild(c)
		to.AppendChild(c)
		c = next
	}
}

// MoveNodes appends nodes (in order) to to, detaching each first.
func MoveNodes(nodes []*html.Node, to *html.Node) *html.Node {
	for _, n := range nodes {
		Detach(n)
		to.AppendChild(n)
	}
	return to
}

// ToNewFragment moves nodes into a fresh fragment.
func ToNewFragment(nodes []*html.Node) *html.Node {
	return MoveNodes(nodes, NewFragment())
}

// InsertBefore moves all children of frag into parent before ref.
// A nil ref appends.
func InsertBefore(parent, frag, ref *html.Node) {
	if parent == nil || frag == nil {
		return
	}
	for c := frag.FirstChild; c != nil; {
		next := c.NextSibling
		frag.RemoveChild(c)
		parent.InsertBefore(c, ref)
		c = next
	}
}

// InsertAfter moves all children of frag right after ref, keeping their order.
func InsertAfter(ref, frag *html.Node) {
	if ref == nil || ref.Parent == nil {
		return
	}
	InsertBefore(ref.Parent, frag, ref.NextSibling)
}

// Append moves all children of frag to the end of parent.
func Append(parent, frag *html.Node) {
	InsertBefore(parent, frag, nil)
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// Contains reports whether n is an ancestor of (or equal to) d.
func Contains(n, d *html.Node) bool {
	for ; d != nil; d = d.Parent {
		if d == n {
			return true
		}
	}
	return false
}

// Root returns the top-most ancestor of n.
func Root(n *html.Node) *html.Node {
	for n != nil && n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Children returns the direct children of n.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// ChildIndex returns the position of n among its siblings.
func ChildIndex(n *html.Node) int {
	i := 0
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		i++
	}
	return i
}
