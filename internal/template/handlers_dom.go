package template

import (
	"golang.org/x/net/html"

	"htmlizer/internal/component"
	"htmlizer/internal/diag"
	"htmlizer/internal/dom"
	"htmlizer/internal/eval"
	"htmlizer/internal/objlit"
)

type textHandler struct{}

// Init on an element replaces the content with one text node. On a comment
// the text goes after the start marker and the authored body is skipped.
func (textHandler) Init(v *View, c Call) Control {
	text := &html.Node{Type: html.TextNode, Data: eval.ToString(v.Evaluate(c.Name, c.Expr, c.Node))}
	if c.Node.Type == html.ElementNode {
		c.Node.AppendChild(text)
		return Control{SkipChildren: true}
	}
	frag := dom.NewFragment()
	frag.AppendChild(text)
	dom.InsertAfter(c.Node, frag)

	end := blockEnd(c)
	if end == nil {
		return Control{}
	}
	if end.PrevSibling != nil {
		return Control{IgnoreTill: end.PrevSibling}
	}
	return Control{IgnoreTill: end.Parent}
}

func (textHandler) Update(v *View, c Call, _ string) {
	text := &html.Node{Type: html.TextNode, Data: eval.ToString(v.Evaluate(c.Name, c.Expr, c.Node))}
	if c.Node.Type == html.ElementNode {
		dom.RemoveChildren(c.Node)
		c.Node.AppendChild(text)
		return
	}
	if ln := v.nodeMap[c.Node]; ln != nil && ln.blockEnd != nil {
		dom.ToNewFragment(dom.ImmediateNodes(c.Node, ln.blockEnd))
	}
	frag := dom.NewFragment()
	frag.AppendChild(text)
	dom.InsertAfter(c.Node, frag)
}

type htmlHandler struct{}

func (htmlHandler) Init(v *View, c Call) Control {
	if c.Node.Type != html.ElementNode {
		return Control{}
	}
	dom.RemoveChildren(c.Node)
	val := v.Evaluate(c.Name, c.Expr, c.Node)
	if eval.IsNullish(val) || val == "" {
		return Control{SkipChildren: true}
	}
	frag, err := dom.ParseFragmentIn(eval.ToString(val), dom.CloneShallow(c.Node))
	if err != nil {
		v.tpl.warnf(diag.DirMarkupParse, c.TNode, c.Expr, "html: %v", err)
		return Control{SkipChildren: true}
	}
	dom.Append(c.Node, frag)
	return Control{SkipChildren: true}
}

func (h htmlHandler) Update(v *View, c Call, _ string) {
	h.Init(v, c)
}

// forEachKey evaluates every sub-key of a keyed binding literal.
func forEachKey(v *View, c Call, fn func(key string, val any)) {
	pairs, err := objlit.Parse(objlit.Strip(c.Expr))
	if err != nil {
		v.tpl.warnf(diag.DirBadObjectLiteral, c.TNode, c.Expr, "%s: %v", c.Name, err)
		return
	}
	for _, p := range pairs {
		fn(p.Key, v.Evaluate(c.Name+"."+p.Key, p.Value, c.Node))
	}
}

// forward keeps the shadow copy of a component mounted at n in sync.
func (v *View) forward(n *html.Node, attr string) {
	ln := v.nodeMap[n]
	if ln == nil || ln.comp == nil {
		return
	}
	key := attr
	if attr == "class" {
		key = "cls"
	}
	var val any
	if s, ok := dom.Attr(n, attr); ok {
		val = s
	}
	ln.comp.Set(component.Config{key: val})
}

type attrHandler struct{}

// Init sets string and number values; anything else leaves the attribute unset.
func (attrHandler) Init(v *View, c Call) Control {
	if c.Node.Type != html.ElementNode {
		return Control{}
	}
	forEachKey(v, c, func(key string, val any) {
		if eval.IsScalar(val) {
			dom.SetAttr(c.Node, key, eval.ToString(val))
		}
	})
	return Control{}
}

func (attrHandler) Update(v *View, c Call, key string) {
	if c.Node.Type != html.ElementNode {
		return
	}
	val := v.Evaluate(c.Name, c.Expr, c.Node)
	if eval.Truthy(val) || eval.IsScalar(val) {
		dom.SetAttr(c.Node, key, eval.ToString(val))
	} else {
		dom.RemoveAttr(c.Node, key)
	}
	v.forward(c.Node, key)
}

type cssHandler struct{}

func (cssHandler) Init(v *View, c Call) Control {
	if c.Node.Type != html.ElementNode {
		return Control{}
	}
	forEachKey(v, c, func(cls string, val any) {
		if eval.Truthy(val) {
			dom.AddClass(c.Node, cls)
		}
	})
	return Control{}
}

func (cssHandler) Update(v *View, c Call, key string) {
	if c.Node.Type != html.ElementNode {
		return
	}
	if eval.Truthy(v.Evaluate(c.Name, c.Expr, c.Node)) {
		dom.AddClass(c.Node, key)
	} else {
		dom.RemoveClass(c.Node, key)
	}
	v.forward(c.Node, "class")
}

type styleHandler struct{}

// Init writes truthy values; a falsy one clears the property.
func (styleHandler) Init(v *View, c Call) Control {
	if c.Node.Type != html.ElementNode {
		return Control{}
	}
	forEachKey(v, c, func(prop string, val any) {
		if eval.Truthy(val) {
			dom.SetStyle(c.Node, dom.CSSName(prop), eval.ToString(val))
		} else {
			dom.RemoveStyle(c.Node, dom.CSSName(prop))
		}
	})
	return Control{}
}

func (styleHandler) Update(v *View, c Call, key string) {
	if c.Node.Type != html.ElementNode {
		return
	}
	val := v.Evaluate(c.Name, c.Expr, c.Node)
	if eval.Truthy(val) || eval.IsScalar(val) {
		dom.SetStyle(c.Node, dom.CSSName(key), eval.ToString(val))
	} else {
		dom.RemoveStyle(c.Node, dom.CSSName(key))
	}
	v.forward(c.Node, "style")
}

// toggle adapts an idempotent element setter; init and update are the same.
type toggle func(n *html.Node, name string, val any)

func (t toggle) Init(v *View, c Call) Control {
	if c.Node.Type == html.ElementNode {
		t(c.Node, c.Name, v.Evaluate(c.Name, c.Expr, c.Node))
	}
	return Control{}
}

func (t toggle) Update(v *View, c Call, _ string) {
	t.Init(v, c)
}

// setEnabled serves both enable and disable.
func setEnabled(n *html.Node, name string, val any) {
	disabled := eval.Truthy(val)
	if name == "enable" {
		disabled = !disabled
	}
	if disabled {
		dom.SetAttr(n, "disabled", "disabled")
	} else {
		dom.RemoveAttr(n, "disabled")
	}
}

func setChecked(n *html.Node, _ string, val any) {
	if eval.Truthy(val) {
		dom.SetAttr(n, "checked", "checked")
	} else {
		dom.RemoveAttr(n, "checked")
	}
}

func setValue(n *html.Node, _ string, val any) {
	if eval.IsNullish(val) {
		dom.RemoveAttr(n, "value")
		return
	}
	dom.SetAttr(n, "value", eval.ToString(val))
}

func setVisible(n *html.Node, _ string, val any) {
	if eval.Truthy(val) {
		if dom.Style(n, "display") == "none" {
			dom.RemoveStyle(n, "display")
		}
		return
	}
	dom.SetStyle(n, "display", "none")
}
