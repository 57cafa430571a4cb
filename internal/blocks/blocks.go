// Package blocks pairs containerless statement markers.
//
// Markers are comments and carry no structural nesting: `<!-- ko if: a -->`
// and its `<!-- /ko -->` may be separated by any number of sibling elements.
// Nesting is recovered from document order alone with a stack.
package blocks

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"htmlizer/internal/directive"
)

// ErrMissingEndTag is returned when an open marker is never closed.
var ErrMissingEndTag = errors.New("missing end tag")

// UnclosedError names the innermost statement left open.
type UnclosedError struct {
	Start *html.Node
	Stmt  string
}

func (e *UnclosedError) Error() string {
	return fmt.Sprintf("missing end tag for %s", e.Stmt)
}

func (e *UnclosedError) Unwrap() error { return ErrMissingEndTag }

// Block is one paired statement.
type Block struct {
	Key   string
	Start *html.Node
	End   *html.Node
}

// Table holds matched blocks in the order their end markers appear.
type Table struct {
	blocks  []Block
	byStart map[*html.Node]int
	byEnd   map[*html.Node]int
}

// ByStart returns the block opened by n.
func (t *Table) ByStart(n *html.Node) (Block, bool) {
	if t == nil {
		return Block{}, false
	}
	i, ok := t.byStart[n]
	if !ok {
		return Block{}, false
	}
	return t.blocks[i], true
}

// ByEnd returns the block closed by n.
func (t *Table) ByEnd(n *html.Node) (Block, bool) {
	if t == nil {
		return Block{}, false
	}
	i, ok := t.byEnd[n]
	if !ok {
		return Block{}, false
	}
	return t.blocks[i], true
}

func (t *Table) All() []Block {
	if t == nil {
		return nil
	}
	return append([]Block(nil), t.blocks...)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.blocks)
}

// Options configure Match.
type Options struct {
	NoConflict bool
	// ExtraEnd is called for every close marker without an open one.
	ExtraEnd func(end *html.Node)
}

// Match pairs the markers found in nodes, a flat pre-order sequence.
func Match(nodes []*html.Node, opts Options) (*Table, error) {
	t := &Table{
		byStart: make(map[*html.Node]int),
		byEnd:   make(map[*html.Node]int),
	}
	var stack []Block
	for _, n := range nodes {
		if n.Type != html.CommentNode {
			continue
		}
		kind, key := directive.Classify(n.Data, opts.NoConflict)
		switch kind {
		case directive.OpenMarker:
			stack = append(stack, Block{Key: key, Start: n})
		case directive.CloseMarker:
			if len(stack) == 0 {
				if opts.ExtraEnd != nil {
					opts.ExtraEnd(n)
				}
				continue
			}
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			b.End = n
			t.byStart[b.Start] = len(t.blocks)
			t.byEnd[n] = len(t.blocks)
			t.blocks = append(t.blocks, b)
		}
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return nil, &UnclosedError{Start: top.Start, Stmt: strings.TrimSpace(top.Start.Data)}
	}
	return t, nil
}
