package driver

import (
	"golang.org/x/net/html"

	"htmlizer/internal/blocks"
	"htmlizer/internal/dom"
	"htmlizer/internal/source"
)

// BlockRow is one matched statement with the spans of its markers.
type BlockRow struct {
	Key   string
	Start source.Span
	End   source.Span
}

// MatchBlocks pairs the statement markers of file as written, before any
// statement body is carved out. Rows come in the order the end markers appear.
func MatchBlocks(file *source.File, noConflict bool) ([]BlockRow, error) {
	frag, err := dom.ParseFragment(string(file.Content))
	if err != nil {
		return nil, err
	}
	nodes := dom.Flatten(frag)

	// comments are located in order so repeated end markers get their own spans
	spans := make(map[*html.Node]source.Span)
	var from uint32
	for _, n := range nodes {
		if n.Type != html.CommentNode {
			continue
		}
		sp, ok := file.Locate([]byte("<!--"+n.Data+"-->"), from)
		if !ok {
			continue
		}
		spans[n] = sp
		from = sp.End
	}

	table, err := blocks.Match(nodes, blocks.Options{NoConflict: noConflict})
	if err != nil {
		return nil, err
	}
	rows := make([]BlockRow, 0, table.Len())
	for _, b := range table.All() {
		rows = append(rows, BlockRow{Key: b.Key, Start: spans[b.Start], End: spans[b.End]})
	}
	return rows, nil
}
