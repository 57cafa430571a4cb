package template

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"htmlizer/internal/dom"
	"htmlizer/internal/objlit"
	"htmlizer/internal/reactive"
)

// splice keeps ln.views aligned with the bound items: views[i] <-> items[i].
func (v *View) splice(ln *liveNode, index, remove int, items []any, alias string) {
	n := len(ln.views)
	if index < 0 {
		index = max(n+index, 0)
	}
	index = min(index, n)
	remove = min(max(remove, 0), n-index)

	for _, old := range ln.views[index : index+remove] {
		old.Retire()
	}
	ln.views = slices.Delete(ln.views, index, index+remove)

	sub := ln.info.Sub
	out := dom.NewFragment()
	added := make([]*View, len(items))
	for k, item := range items {
		cell := reactive.NewCell(index + k)
		ctx := v.ctx.Derive(item).WithIndex(cell)
		if alias != "" {
			ctx = ctx.WithAlias(alias, item)
		}
		// the item is $data (and the alias); bare names still resolve
		// against the data of the enclosing view
		w := newView(sub, v.data, ctx, v)
		w.unwatch = cell.Subscribe(func(_, _ any) { w.refreshIndex() })
		added[k] = w
		dom.Append(out, w.ToDocumentFragment())
	}

	// the first surviving view at index is the insertion point
	anchor := v.anchor(ln, index)
	ln.views = slices.Insert(ln.views, index, added...)
	for i := index + len(items); i < len(ln.views); i++ {
		ln.views[i].ctx.Index.Set(i)
	}
	insert(ln, out, anchor)
}

// anchor returns the first node of the first non-empty view at or after
// from, or nil when the items end there.
func (v *View) anchor(ln *liveNode, from int) *html.Node {
	for _, w := range ln.views[from:] {
		if w.firstChild != nil && w.firstChild.Parent != nil {
			return w.firstChild
		}
	}
	return nil
}

// insert places frag before ref, or at the end of the foreach content:
// the end of the element, or before the end marker of a statement.
func insert(ln *liveNode, frag, ref *html.Node) {
	if ref != nil {
		dom.InsertBefore(ref.Parent, frag, ref)
		return
	}
	if ln.node.Type != html.CommentNode {
		dom.Append(ln.node, frag)
		return
	}
	if ln.blockEnd != nil && ln.blockEnd.Parent != nil {
		dom.InsertBefore(ln.blockEnd.Parent, frag, ln.blockEnd)
		return
	}
	dom.InsertAfter(ln.node, frag)
}

func (v *View) foreachNode(n *html.Node) (*View, *liveNode, error) {
	if v.retired {
		return nil, nil, ErrRetired
	}
	w, ln := v.owner(n)
	if ln == nil {
		return nil, nil, ErrUnknownNode
	}
	if ln.info == nil || !ln.info.Bindings.Has("foreach") || ln.info.Sub == nil {
		return nil, nil, ErrNotForeach
	}
	return w, ln, nil
}

// Splice removes remove items starting at index and inserts items in their
// place, like a JavaScript splice. Only the affected item views are built
// or retired; later views are renumbered.
func (v *View) Splice(n *html.Node, index, remove int, items []any) error {
	w, ln, err := v.foreachNode(n)
	if err != nil {
		return err
	}
	w.splice(ln, index, remove, items, w.foreachAlias(ln))
	return nil
}

// Sort reorders the item views: position i takes the view that was at
// order[i].
func (v *View) Sort(n *html.Node, order []int) error {
	_, ln, err := v.foreachNode(n)
	if err != nil {
		return err
	}
	if !isPermutation(order, len(ln.views)) {
		return fmt.Errorf("%w: %v for %d items", ErrBadPermutation, order, len(ln.views))
	}
	views := make([]*View, len(order))
	for i, j := range order {
		views[i] = ln.views[j]
	}
	reorder(ln, views)
	return nil
}

// Reverse reverses the item views.
func (v *View) Reverse(n *html.Node) error {
	_, ln, err := v.foreachNode(n)
	if err != nil {
		return err
	}
	views := slices.Clone(ln.views)
	slices.Reverse(views)
	reorder(ln, views)
	return nil
}

// reorder pulls every item out of the document and re-inserts all of them
// in one batch.
func reorder(ln *liveNode, views []*View) {
	ln.views = views
	out := dom.NewFragment()
	for i, w := range views {
		dom.Append(out, w.ToDocumentFragment())
		w.ctx.Index.Set(i)
	}
	insert(ln, out, nil)
}

// refreshIndex re-runs every binding of this item view tree that reads
// $index. Views of a nested foreach carry their own cell and are skipped.
func (v *View) refreshIndex() {
	if v.retired {
		return
	}
	cell := v.ctx.Index
	v.each(func(w *View) {
		if w.ctx.Index != cell {
			return
		}
		for _, ln := range w.nodes {
			if ln.info == nil {
				continue
			}
			for _, b := range ln.info.Bindings {
				for _, key := range indexKeys(b.Name, b.Expr) {
					// bindings without an update keep their output
					_ = w.update(ln, b.Name, key)
				}
			}
		}
	})
}

// indexKeys lists the update keys of a binding whose value reads $index:
// "" for plain bindings, the affected sub-keys for attr, css and style.
func indexKeys(binding, expr string) []string {
	if !strings.Contains(expr, "$index") {
		return nil
	}
	if !isKeyed(binding) {
		return []string{""}
	}
	pairs, err := objlit.Parse(objlit.Strip(expr))
	if err != nil {
		return nil
	}
	var keys []string
	for _, p := range pairs {
		if strings.Contains(p.Value, "$index") {
			keys = append(keys, p.Key)
		}
	}
	return keys
}

func isPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, i := range order {
		if i < 0 || i >= n || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}

// Update re-runs the update of binding on node n. For attr, css and style
// key selects the sub-key and must be set; it is ignored otherwise.
func (v *View) Update(n *html.Node, binding, key string) error {
	if v.retired {
		return ErrRetired
	}
	w, ln := v.owner(n)
	if ln == nil || ln.info == nil {
		return ErrUnknownNode
	}
	return w.update(ln, binding, key)
}

func (v *View) update(ln *liveNode, binding, key string) error {
	expr, ok := ln.info.Bindings.Get(binding)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoBinding, binding)
	}
	name := binding
	if isKeyed(binding) {
		if key == "" {
			return fmt.Errorf("%w: %s", ErrNoKey, binding)
		}
		pairs, err := objlit.Parse(objlit.Strip(expr))
		if err != nil {
			return fmt.Errorf("%s: %w", binding, err)
		}
		if expr, ok = objlit.Lookup(pairs, key); !ok {
			return fmt.Errorf("%w: %s.%s", ErrNoBinding, binding, key)
		}
		name = binding + "." + key
	}
	h, _ := v.tpl.opts.Handlers.Lookup(binding)
	u, ok := h.(Updater)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoUpdate, binding)
	}
	tbl, _ := v.tpl.Blocks()
	u.Update(v, Call{
		Node:   ln.node,
		TNode:  ln.tnode,
		Name:   name,
		Expr:   expr,
		Info:   ln.info,
		Blocks: tbl,
	}, key)
	return nil
}

func isKeyed(binding string) bool {
	switch binding {
	case "attr", "css", "style":
		return true
	}
	return false
}
