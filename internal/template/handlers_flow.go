package template

import (
	"strings"

	"golang.org/x/net/html"

	"htmlizer/internal/component"
	"htmlizer/internal/diag"
	"htmlizer/internal/dom"
	"htmlizer/internal/eval"
	"htmlizer/internal/objlit"
)

// mount places a child view output: inside an element, or right after the
// start marker of a comment statement.
func mount(n, frag *html.Node) {
	if n.Type == html.CommentNode {
		dom.InsertAfter(n, frag)
		return
	}
	dom.Append(n, frag)
}

type ifHandler struct{ negate bool }

func (h ifHandler) holds(v *View, c Call) bool {
	return eval.Truthy(v.Evaluate(c.Name, c.Expr, c.Node)) != h.negate
}

func (h ifHandler) Init(v *View, c Call) Control {
	if h.holds(v, c) {
		child := v.makeView(v.nodeMap[c.Node], c.Info.Sub, v.ctx, v.data)
		mount(c.Node, child.ToDocumentFragment())
	}
	return Control{}
}

// Update pulls the child output back and re-inserts it only while the
// predicate holds. The child view is created on first need and kept.
func (h ifHandler) Update(v *View, c Call, _ string) {
	ln := v.nodeMap[c.Node]
	ok := h.holds(v, c)
	if len(ln.views) == 0 {
		if !ok {
			return
		}
		v.makeView(ln, c.Info.Sub, v.ctx, v.data)
	}
	frag := ln.views[0].ToDocumentFragment()
	if ok {
		mount(c.Node, frag)
	}
}

type withHandler struct{}

func (withHandler) Init(v *View, c Call) Control {
	val := v.Evaluate(c.Name, c.Expr, c.Node)
	if c.Info.Sub.Empty() || eval.IsNullish(val) {
		return Control{}
	}
	child := v.makeView(v.nodeMap[c.Node], c.Info.Sub, v.ctx.Derive(val), val)
	mount(c.Node, child.ToDocumentFragment())
	return Control{}
}

type foreachHandler struct{}

func (foreachHandler) Init(v *View, c Call) Control {
	items, alias, ok := v.foreachSource(c)
	if !ok {
		return Control{}
	}
	list, isList := eval.ToList(items)
	if !isList {
		if items != nil {
			v.tpl.warnf(diag.DirForeachNotList, c.TNode, c.Expr, "foreach: %T is not a list", items)
		}
		return Control{}
	}
	ln := v.nodeMap[c.Node]
	v.splice(ln, 0, len(ln.views), list, alias)
	return Control{}
}

// foreachSource evaluates `items` or `{data: items, as: 'name'}`.
func (v *View) foreachSource(c Call) (items any, alias string, ok bool) {
	expr := strings.TrimSpace(c.Expr)
	if !objlit.IsObject(expr) {
		return v.Evaluate(c.Name, expr, c.Node), "", true
	}
	data, alias, ok := v.foreachOptions(c.TNode, expr)
	if !ok {
		return nil, "", false
	}
	return v.Evaluate(c.Name, data, c.Node), alias, true
}

func (v *View) foreachOptions(tn *html.Node, expr string) (data, alias string, ok bool) {
	pairs, err := objlit.Parse(objlit.Strip(expr))
	if err != nil {
		v.tpl.warnf(diag.DirBadForeachOptions, tn, expr, "foreach: %v", err)
		return "", "", false
	}
	data, ok = objlit.Lookup(pairs, "data")
	if !ok || data == "" {
		v.tpl.warnf(diag.DirBadForeachOptions, tn, expr, "foreach: options need a data key")
		return "", "", false
	}
	if as, found := objlit.Lookup(pairs, "as"); found {
		alias = objlit.Unquote(as)
	}
	return data, alias, true
}

// foreachAlias re-reads the alias of an authored foreach binding.
func (v *View) foreachAlias(ln *liveNode) string {
	expr, _ := ln.info.Bindings.Get("foreach")
	if !objlit.IsObject(expr) {
		return ""
	}
	_, alias, _ := v.foreachOptions(ln.tnode, expr)
	return alias
}

// templateHandler splices another template in place of a comment
// statement, with the same context. The marker and body are dropped.
type templateHandler struct{}

func (templateHandler) Init(v *View, c Call) Control {
	if c.Node.Type != html.CommentNode {
		return Control{}
	}
	val := v.Evaluate(c.Name, c.Expr, c.Node)
	if tpl := v.lookupTemplate(val, c.Expr); tpl != nil {
		child := v.makeView(v.nodeMap[c.Node], tpl, v.ctx, v.data)
		dom.InsertAfter(c.Node, child.ToDocumentFragment())
	} else {
		v.tpl.warnf(diag.EvalTemplateMissing, c.TNode, c.Expr, "sub-template %q is undefined", strings.TrimSpace(c.Expr))
	}
	dom.Detach(c.Node)
	return Control{IgnoreTill: blockEnd(c)}
}

// lookupTemplate accepts a *Template or a name from Options.Templates.
// An undefined value falls back to the expression text as the name.
func (v *View) lookupTemplate(val any, expr string) *Template {
	switch t := val.(type) {
	case *Template:
		return t
	case string:
		return v.tpl.opts.Templates[t]
	case nil:
		return v.tpl.opts.Templates[objlit.Unquote(strings.TrimSpace(expr))]
	}
	return nil
}

func blockEnd(c Call) *html.Node {
	if c.Info != nil && c.Info.Block != nil {
		return c.Info.Block.End
	}
	if blk, ok := c.Blocks.ByStart(c.TNode); ok {
		return blk.End
	}
	return nil
}

// componentHandler mounts an existing component instance at a comment
// statement: `component: panel` or `component: {ref: panel, params: {...}}`.
type componentHandler struct{}

func (componentHandler) Init(v *View, c Call) Control {
	if c.Node.Type != html.CommentNode {
		return Control{}
	}
	ctl := Control{IgnoreTill: blockEnd(c)}
	expr := strings.TrimSpace(c.Expr)
	refExpr, params := expr, component.Config{}
	if objlit.IsObject(expr) {
		pairs, err := objlit.Parse(objlit.Strip(expr))
		if err != nil {
			v.tpl.warnf(diag.DirBadObjectLiteral, c.TNode, expr, "component: %v", err)
			return ctl
		}
		refExpr, _ = objlit.Lookup(pairs, "ref")
		if p, ok := objlit.Lookup(pairs, "params"); ok && p != "" {
			params = v.evaluateObject("params", p, c.Node)
		}
	}
	comp, ok := v.Evaluate(c.Name, refExpr, c.Node).(component.Component)
	if !ok {
		v.tpl.warnf(diag.EvalComponentMissing, c.TNode, refExpr, "component %q is not a component instance", refExpr)
		return ctl
	}
	params["parent"] = v.ctx.Root
	comp.Set(params)
	v.queue(v.nodeMap[c.Node], comp)
	return ctl
}
