package dom

import "golang.org/x/net/html"

// Control tells Walk how to proceed after visiting a node.
type Control uint8

const (
	// Descend visits the children of the node.
	Descend Control = iota
	// SkipChildren moves on to the next sibling.
	SkipChildren
	// Stop ends the walk.
	Stop
)

// Walk visits the descendants of root in pre-order. open is called when a
// node is entered, close after its subtree (also for skipped subtrees).
// Children and siblings are read after the callbacks run, so open may move
// the children of the node it was called with.
func Walk(root *html.Node, open func(*html.Node) Control, close func(*html.Node)) {
	walk(root, open, close)
}

func walk(parent *html.Node, open func(*html.Node) Control, close func(*html.Node)) bool {
	for n := parent.FirstChild; n != nil; {
		ctl := Descend
		if open != nil {
			ctl = open(n)
		}
		if ctl == Stop {
			return false
		}
		if ctl == Descend && !walk(n, open, close) {
			return false
		}
		if close != nil {
			close(n)
		}
		n = n.NextSibling
	}
	return true
}

// Flatten returns the descendants of root in pre-order.
func Flatten(root *html.Node) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) Control {
		out = append(out, n)
		return Descend
	}, nil)
	return out
}

// next returns the node following n in document order without entering n,
// staying inside limit.
func next(n, limit *html.Node) *html.Node {
	for ; n != nil && n != limit; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// ImmediateNodes returns the nodes strictly between start and end, taking
// whole subtrees. When a subtree holds end it is entered instead of taken,
// so markers on different levels still yield a well-formed node list.
func ImmediateNodes(start, end *html.Node) []*html.Node {
	if start == end {
		return nil
	}
	limit := Root(start)
	var out []*html.Node
	for n := next(start, limit); n != nil && n != end; {
		if end != nil && Contains(n, end) {
			n = n.FirstChild
			continue
		}
		out = append(out, n)
		n = next(n, limit)
	}
	return out
}

// Range returns first, the nodes between first and last, and last.
func Range(first, last *html.Node) []*html.Node {
	if first == nil {
		return nil
	}
	if first == last || last == nil {
		return []*html.Node{first}
	}
	out := append([]*html.Node{first}, ImmediateNodes(first, last)...)
	return append(out, last)
}
