// Package testkit holds invariant checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"
	"golang.org/x/net/html"

	"htmlizer/internal/blocks"
	"htmlizer/internal/diag"
	"htmlizer/internal/source"
)

// CheckDiagnosticSpans verifies that every span in bag is usable by the
// renderers:
// 1) Start <= End
// 2) the span points into a file known to fs, unless it is the zero span
// 3) End does not run past the file content
// Notes are held to the same rules as primary spans.
func CheckDiagnosticSpans(bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || fs == nil {
		return fmt.Errorf("nil bag or file set")
	}
	for i, d := range bag.Items() {
		if err := checkSpan(d.Primary, fs); err != nil {
			return fmt.Errorf("diagnostic %d (%s): %w", i, d.Code.ID(), err)
		}
		for j, n := range d.Notes {
			if err := checkSpan(n.Span, fs); err != nil {
				return fmt.Errorf("diagnostic %d (%s) note %d: %w", i, d.Code.ID(), j, err)
			}
		}
	}
	return nil
}

func checkSpan(sp source.Span, fs *source.FileSet) error {
	if sp == (source.Span{}) {
		return nil
	}
	if sp.End < sp.Start {
		return fmt.Errorf("inverted span %v", sp)
	}
	f := fs.Get(sp.File)
	if f == nil {
		return fmt.Errorf("span %v points to unknown file", sp)
	}
	size, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if sp.End > size {
		return fmt.Errorf("span %v ends beyond content (%d bytes)", sp, size)
	}
	return nil
}

// CheckBlockTable verifies that matched blocks are properly nested within
// nodes, the flat pre-order sequence they were matched on: every start
// precedes its end and no two blocks partially overlap.
func CheckBlockTable(t *blocks.Table, nodes []*html.Node) error {
	order := make(map[*html.Node]int, len(nodes))
	for i, n := range nodes {
		order[n] = i
	}
	type pos struct{ start, end int }
	var spans []pos
	for _, b := range t.All() {
		s, okS := order[b.Start]
		e, okE := order[b.End]
		if !okS || !okE {
			return fmt.Errorf("block %s: marker outside the node sequence", b.Key)
		}
		if s >= e {
			return fmt.Errorf("block %s: start %d not before end %d", b.Key, s, e)
		}
		spans = append(spans, pos{s, e})
	}
	for i, a := range spans {
		for _, b := range spans[i+1:] {
			disjoint := a.end < b.start || b.end < a.start
			nested := (a.start < b.start && b.end < a.end) || (b.start < a.start && a.end < b.end)
			if !disjoint && !nested {
				return fmt.Errorf("blocks %v and %v overlap", a, b)
			}
		}
	}
	return nil
}
