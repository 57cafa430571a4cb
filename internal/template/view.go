package template

import (
	"strings"

	"golang.org/x/net/html"

	"htmlizer/internal/blocks"
	"htmlizer/internal/component"
	"htmlizer/internal/diag"
	"htmlizer/internal/directive"
	"htmlizer/internal/dom"
	"htmlizer/internal/eval"
	"htmlizer/internal/objlit"
)

// liveNode is the bookkeeping of one produced node carrying bindings.
type liveNode struct {
	node  *html.Node
	tnode *html.Node
	info  *NodeInfo // nil for block end markers
	// views are the child views mounted at this node; foreach keeps
	// views[i] aligned with item i.
	views []*View
	// blockStart and blockEnd link the markers of a comment statement.
	blockStart *html.Node
	blockEnd   *html.Node
	comp       component.Component
}

type pendingMount struct {
	comp component.Component
	node *html.Node
	done bool
}

// View is a live instantiation of a Template.
type View struct {
	tpl    *Template
	data   any
	ctx    *eval.Context
	parent *View

	built      bool
	fragment   *html.Node
	firstChild *html.Node
	lastChild  *html.Node

	nodes   []*liveNode
	nodeMap map[*html.Node]*liveNode
	pending []*pendingMount
	retired bool
	// unwatch cancels the $index subscription of a foreach item view.
	unwatch func()
}

func newView(tpl *Template, data any, ctx *eval.Context, parent *View) *View {
	return &View{
		tpl:     tpl,
		data:    data,
		ctx:     ctx,
		parent:  parent,
		nodeMap: make(map[*html.Node]*liveNode),
	}
}

func (v *View) Template() *Template     { return v.tpl }
func (v *View) Data() any               { return v.data }
func (v *View) Context() *eval.Context  { return v.ctx }
func (v *View) Parent() *View           { return v.parent }
func (v *View) Retired() bool           { return v.retired }
func (v *View) FirstChild() *html.Node  { return v.firstChild }
func (v *View) LastChild() *html.Node   { return v.lastChild }
func (v *View) Fragment() *html.Node    { return v.fragment }
func (v *View) Options() Options        { return v.tpl.opts }
func (v *View) Reporter() diag.Reporter { return v.tpl.opts.Reporter }

// Root returns the outermost view.
func (v *View) Root() *View {
	for v.parent != nil {
		v = v.parent
	}
	return v
}

// ToDocumentFragment returns the detached container holding the view
// output. The first call materialises the template. Later calls return the
// same container while the output still sits in it; once the output was
// moved elsewhere the node range [FirstChild, LastChild] is pulled back
// into a fresh container. A retired view yields an empty fragment.
func (v *View) ToDocumentFragment() *html.Node {
	if v.retired {
		return dom.NewFragment()
	}
	if !v.built {
		v.build()
		return v.fragment
	}
	if v.firstChild == nil {
		return v.fragment
	}
	if v.firstChild.Parent == v.fragment &&
		v.fragment.FirstChild == v.firstChild && v.fragment.LastChild == v.lastChild {
		return v.fragment
	}
	v.fragment = dom.ToNewFragment(dom.Range(v.firstChild, v.lastChild))
	return v.fragment
}

// String serialises the current output of the view.
func (v *View) String() string {
	return dom.String(v.ToDocumentFragment())
}

type openStatement struct {
	live  *html.Node
	tnode *html.Node
}

func (v *View) build() {
	v.built = true
	tbl, _ := v.tpl.Blocks()
	out := dom.NewFragment()
	attr := directive.AttrName(v.tpl.opts.NoConflict)

	// two shadow stacks: live ancestors and their template counterparts
	stack := []*html.Node{out}
	tstack := []*html.Node{v.tpl.frag}
	var statements []openStatement
	var ignoreTill *html.Node

	dom.Walk(v.tpl.frag, func(tn *html.Node) dom.Control {
		if ignoreTill != nil {
			return dom.SkipChildren
		}
		n := dom.CloneShallow(tn)
		stack[len(stack)-1].AppendChild(n)

		switch tn.Type {
		case html.ElementNode:
			stack = append(stack, n)
			tstack = append(tstack, tn)
			ctl := v.openElement(n, tn, attr, tbl)
			if ctl.IgnoreTill != nil {
				ignoreTill = ctl.IgnoreTill
			}
			if ctl.SkipChildren {
				return dom.SkipChildren
			}
		case html.CommentNode:
			ctl := v.openComment(n, tn, tbl, &statements)
			if ctl.IgnoreTill != nil {
				ignoreTill = ctl.IgnoreTill
			}
		}
		return dom.Descend
	}, func(tn *html.Node) {
		if tn.Type == html.ElementNode && tstack[len(tstack)-1] == tn {
			stack = stack[:len(stack)-1]
			tstack = tstack[:len(tstack)-1]
		}
		if tn == ignoreTill {
			ignoreTill = nil
		}
	})

	v.fragment = out
	v.firstChild, v.lastChild = out.FirstChild, out.LastChild
}

func (v *View) track(n, tn *html.Node, info *NodeInfo) *liveNode {
	ln := &liveNode{node: n, tnode: tn, info: info}
	v.nodes = append(v.nodes, ln)
	v.nodeMap[n] = ln
	return ln
}

func (v *View) openElement(n, tn *html.Node, attr string, tbl *blocks.Table) Control {
	dom.RemoveAttr(n, attr)
	info := v.tpl.nodeMap[tn]
	var ctl Control
	if info != nil {
		ln := v.track(n, tn, info)
		ctl = v.runBindings(ln, tbl)
		if info.Component != nil {
			v.mountTag(ln)
			ctl.SkipChildren = true
			return ctl
		}
	}
	if ref, ok := dom.Attr(n, "ref"); ok && ref != "" && v.ctx.Root != nil {
		if err := component.Assign(v.ctx.Root, ref, n); err != nil {
			v.tpl.warnf(diag.EvalRefUnresolved, tn, ref, "ref %q: %v", ref, err)
		}
		dom.RemoveAttr(n, "ref")
	}
	return ctl
}

func (v *View) openComment(n, tn *html.Node, tbl *blocks.Table, statements *[]openStatement) Control {
	if directive.Ignored(tn.Data, v.tpl.opts.NoConflict) {
		return Control{}
	}
	if _, ok := tbl.ByStart(tn); ok {
		ln := v.track(n, tn, v.tpl.nodeMap[tn])
		*statements = append(*statements, openStatement{live: n, tnode: tn})
		if ln.info == nil {
			return Control{}
		}
		return v.runBindings(ln, tbl)
	}
	if blk, ok := tbl.ByEnd(tn); ok {
		end := v.track(n, tn, nil)
		// statements whose body was skipped never see their end marker
		open := *statements
		for i := len(open) - 1; i >= 0; i-- {
			if open[i].tnode != blk.Start {
				continue
			}
			v.nodeMap[open[i].live].blockEnd = n
			end.blockStart = open[i].live
			*statements = open[:i]
			break
		}
	}
	return Control{}
}

func (v *View) runBindings(ln *liveNode, tbl *blocks.Table) Control {
	var ctl Control
	for _, b := range ln.info.Bindings {
		h, ok := v.tpl.opts.Handlers.Lookup(b.Name)
		if !ok {
			continue
		}
		c := h.Init(v, Call{
			Node:   ln.node,
			TNode:  ln.tnode,
			Name:   b.Name,
			Expr:   b.Expr,
			Info:   ln.info,
			Blocks: tbl,
		})
		ctl.SkipChildren = ctl.SkipChildren || c.SkipChildren
		if c.IgnoreTill != nil {
			ctl.IgnoreTill = c.IgnoreTill
		}
		if c.SkipOtherBindings {
			break
		}
	}
	return ctl
}

// Evaluate runs expr in the scope of the view. Failures are reported and
// yield nil.
func (v *View) Evaluate(binding, expr string, n *html.Node) any {
	val, err := v.tpl.eval.Eval(expr, v.ctx, v.data, n)
	if err != nil {
		v.tpl.evalFailed(binding, expr, n, err)
		return nil
	}
	return val
}

// evaluateObject evaluates every value of an object literal.
func (v *View) evaluateObject(binding, literal string, n *html.Node) component.Config {
	pairs, err := objlit.Parse(objlit.Strip(literal))
	if err != nil {
		v.tpl.warnf(diag.DirBadObjectLiteral, n, literal, "%s: %v", binding, err)
		return component.Config{}
	}
	cfg := make(component.Config, len(pairs))
	for _, p := range pairs {
		cfg[p.Key] = v.Evaluate(binding+"."+p.Key, p.Value, n)
	}
	return cfg
}

func (v *View) makeView(ln *liveNode, tpl *Template, ctx *eval.Context, data any) *View {
	child := newView(tpl, data, ctx, v)
	ln.views = append(ln.views, child)
	return child
}

// mountTag constructs the component of a custom element.
func (v *View) mountTag(ln *liveNode) {
	n, class := ln.node, ln.info.Component
	for c := ln.tnode.FirstChild; c != nil; c = c.NextSibling {
		n.AppendChild(dom.CloneDeep(c))
	}

	cfg := component.Config{}
	if params, ok := dom.Attr(n, "params"); ok && strings.TrimSpace(params) != "" {
		cfg = v.evaluateObject("params", params, n)
	}
	if class.FromView != nil {
		cfg = class.FromView(n, cfg)
	}
	cfg["type"] = class.Name
	cfg["parent"] = v.ctx.Root

	comp, err := class.New(cfg)
	if err != nil {
		v.tpl.warnf(diag.EvalComponentRender, ln.tnode, "", "construct %s: %v", class.Name, err)
		return
	}
	if ref, ok := dom.Attr(n, "ref"); ok && ref != "" && v.ctx.Root != nil {
		if err := component.Assign(v.ctx.Root, ref, comp); err != nil {
			v.tpl.warnf(diag.EvalRefUnresolved, ln.tnode, ref, "ref %q: %v", ref, err)
		}
	}
	v.queue(ln, comp)
}

func (v *View) queue(ln *liveNode, comp component.Component) {
	ln.comp = comp
	v.pending = append(v.pending, &pendingMount{comp: comp, node: ln.node})
}

// owner finds the view in this tree that produced n.
func (v *View) owner(n *html.Node) (*View, *liveNode) {
	if ln, ok := v.nodeMap[n]; ok {
		return v, ln
	}
	for _, ln := range v.nodes {
		for _, child := range ln.views {
			if w, found := child.owner(n); w != nil {
				return w, found
			}
		}
	}
	return nil, nil
}

// each visits v and every descendant view in document order.
func (v *View) each(fn func(*View)) {
	fn(v)
	for _, ln := range v.nodes {
		for _, child := range ln.views {
			child.each(fn)
		}
	}
}

// ChildViews returns the views mounted at node n, which may belong to any
// view of this tree. For foreach the order matches the items.
func (v *View) ChildViews(n *html.Node) []*View {
	_, ln := v.owner(n)
	if ln == nil {
		return nil
	}
	return append([]*View(nil), ln.views...)
}

// NodesWithBinding returns the live nodes of this view tree carrying the
// named binding, in document order of the views.
func (v *View) NodesWithBinding(name string) []*html.Node {
	var out []*html.Node
	v.each(func(w *View) {
		for _, ln := range w.nodes {
			if ln.info != nil && ln.info.Bindings.Has(name) {
				out = append(out, ln.node)
			}
		}
	})
	return out
}

// Components returns every component constructed by this view tree.
func (v *View) Components() []component.Component {
	var out []component.Component
	v.each(func(w *View) {
		for _, p := range w.pending {
			out = append(out, p.comp)
		}
	})
	return out
}

// Retire detaches the view output, retires all descendant views and
// drops the node maps. A retired view is never reused.
func (v *View) Retire() {
	if v.retired {
		return
	}
	if v.unwatch != nil {
		v.unwatch()
		v.unwatch = nil
	}
	if v.built {
		v.ToDocumentFragment()
	}
	for _, ln := range v.nodes {
		for _, child := range ln.views {
			child.Retire()
		}
	}
	v.fragment, v.firstChild, v.lastChild = nil, nil, nil
	v.nodes, v.nodeMap, v.pending = nil, nil, nil
	v.retired = true
}
