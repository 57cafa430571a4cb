package template

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/net/html"

	"htmlizer/internal/diag"
	"htmlizer/internal/dom"
	"htmlizer/internal/trace"
)

// Render materialises the view and then replaces every pending component
// node of the view tree that is part of the output by the component's own
// output, in document order. Construction of all components happened
// before, so references between siblings are already wired.
//
// Failed components keep their node; their errors are joined.
func (v *View) Render(ctx context.Context) (*html.Node, error) {
	if v.retired {
		return nil, ErrRetired
	}
	frag := v.ToDocumentFragment()
	tracer := v.tpl.opts.Tracer
	if !tracer.Enabled() {
		tracer = trace.FromContext(ctx)
	}
	span := trace.SpanFrom(ctx).Child(tracer, trace.ScopePass, "render-components")
	ctx = trace.WithSpan(ctx, span)

	var errs []error
	mounts := v.mountsIn(frag)
	for _, p := range mounts {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		out, err := p.comp.Render(ctx)
		if err != nil {
			v.tpl.warnf(diag.EvalComponentRender, p.node, "", "render <%s>: %v", p.node.Data, err)
			errs = append(errs, fmt.Errorf("render <%s>: %w", p.node.Data, err))
			continue
		}
		v.replace(p.node, out)
		p.done = true
	}
	span.End(fmt.Sprintf("%d component(s)", len(mounts)))
	return v.ToDocumentFragment(), errors.Join(errs...)
}

// mountsIn returns the pending mounts whose node currently sits inside
// root, ordered as the nodes appear.
func (v *View) mountsIn(root *html.Node) []*pendingMount {
	order := make(map[*html.Node]int)
	for i, n := range dom.Flatten(root) {
		order[n] = i
	}
	var out []*pendingMount
	v.each(func(w *View) {
		for _, p := range w.pending {
			if _, ok := order[p.node]; ok && !p.done {
				out = append(out, p)
			}
		}
	})
	slices.SortFunc(out, func(a, b *pendingMount) int {
		return order[a.node] - order[b.node]
	})
	return out
}

// replace swaps old for the children of frag and keeps the boundaries of
// every view of the tree that started or ended at old.
func (v *View) replace(old, frag *html.Node) {
	var first, last *html.Node
	if frag != nil {
		first, last = frag.FirstChild, frag.LastChild
	}
	prev, next := old.PrevSibling, old.NextSibling
	if old.Parent != nil {
		dom.InsertBefore(old.Parent, frag, old)
		dom.Detach(old)
	}
	v.each(func(w *View) {
		switch {
		case w.firstChild == old && w.lastChild == old:
			w.firstChild, w.lastChild = first, last
		case w.firstChild == old:
			if first != nil {
				w.firstChild = first
			} else {
				w.firstChild = next
			}
		case w.lastChild == old:
			if last != nil {
				w.lastChild = last
			} else {
				w.lastChild = prev
			}
		}
	})
}
