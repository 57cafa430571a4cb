package template

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"htmlizer/internal/blocks"
	"htmlizer/internal/component"
	"htmlizer/internal/diag"
	"htmlizer/internal/directive"
	"htmlizer/internal/dom"
	"htmlizer/internal/eval"
)

// NodeInfo is the binding metadata of one template node.
type NodeInfo struct {
	Node     *html.Node
	Depth    int
	Bindings directive.Bindings
	// Block is set for comment statements.
	Block *blocks.Block
	// Sub holds the carved body of a structural binding.
	Sub *Template
	// Component is the registered class of a custom element.
	Component *component.Class
}

// Template is the parsed, immutable form of a markup fragment.
// It may back any number of Views, also from several goroutines.
type Template struct {
	frag    *html.Node
	opts    Options
	depth   int
	infos   []*NodeInfo
	nodeMap map[*html.Node]*NodeInfo
	eval    *eval.Evaluator

	blocksOnce sync.Once
	blocks     *blocks.Table
	blocksErr  error
}

// New parses markup and prepares it. Missing end markers and binding
// conflicts are fatal.
func New(markup string, opts Options) (*Template, error) {
	frag, err := dom.ParseFragment(markup)
	if err != nil {
		opts = opts.withDefaults()
		diag.ReportError(opts.Reporter, diag.DirMarkupParse, opts.File.WholeFile(), err.Error()).Emit()
		return nil, err
	}
	return FromFragment(frag, opts)
}

// FromFragment prepares an already parsed fragment. The template takes
// ownership of frag.
func FromFragment(frag *html.Node, opts Options) (*Template, error) {
	t := &Template{
		frag: frag,
		opts: opts.withDefaults(),
		eval: eval.NewEvaluator(),
	}
	if err := t.prepare(); err != nil {
		return nil, err
	}
	return t, nil
}

// child prepares a carved body. Children share options and the expression cache.
func (t *Template) child(frag *html.Node, depth int) (*Template, error) {
	sub := &Template{
		frag:  frag,
		opts:  t.opts,
		depth: depth,
		eval:  t.eval,
	}
	if err := sub.prepare(); err != nil {
		return nil, err
	}
	return sub, nil
}

// Blocks returns the block table of this template, matched once.
func (t *Template) Blocks() (*blocks.Table, error) {
	t.blocksOnce.Do(func() {
		t.blocks, t.blocksErr = blocks.Match(dom.Flatten(t.frag), blocks.Options{
			NoConflict: t.opts.NoConflict,
			ExtraEnd: func(end *html.Node) {
				t.report(diag.BlkExtraEnd, diag.SevWarning, end, "", "extra end tag found")
			},
		})
		var unclosed *blocks.UnclosedError
		if errors.As(t.blocksErr, &unclosed) {
			t.report(diag.BlkMissingEnd, diag.SevError, unclosed.Start, "", unclosed.Error())
		}
	})
	return t.blocks, t.blocksErr
}

func (t *Template) prepare() error {
	t.nodeMap = make(map[*html.Node]*NodeInfo)
	tbl, err := t.Blocks()
	if err != nil {
		return err
	}
	attr := directive.AttrName(t.opts.NoConflict)
	depth := t.depth
	var perr error
	dom.Walk(t.frag, func(n *html.Node) dom.Control {
		depth++
		ctl := dom.Descend
		switch n.Type {
		case html.ElementNode:
			ctl, perr = t.prepareElement(n, depth, attr)
		case html.CommentNode:
			perr = t.prepareComment(n, depth, tbl)
		}
		if perr != nil {
			return dom.Stop
		}
		return ctl
	}, func(*html.Node) {
		depth--
	})
	return perr
}

func (t *Template) prepareElement(n *html.Node, depth int, attr string) (dom.Control, error) {
	class, isComponent := t.opts.Components.LookupTag(n.Data)
	raw, _ := dom.Attr(n, attr)
	raw = strings.TrimSpace(raw)
	if raw == "" && !isComponent {
		return dom.Descend, nil
	}

	var bs directive.Bindings
	if raw != "" {
		var err error
		if bs, err = directive.Parse(raw); err != nil {
			t.report(diag.DirBadObjectLiteral, diag.SevError, n, raw, err.Error())
			return dom.Stop, fmt.Errorf("<%s>: %w", n.Data, err)
		}
		if err := directive.CheckConflicts(bs, isComponent); err != nil {
			code := diag.DirConflict
			if errors.Is(err, directive.ErrComponentBinding) {
				code = diag.DirComponentBinding
			}
			t.report(code, diag.SevError, n, raw, err.Error())
			return dom.Stop, fmt.Errorf("<%s>: %w", n.Data, err)
		}
	}

	info := &NodeInfo{Node: n, Depth: depth, Bindings: bs}
	t.record(info)
	t.checkKnown(n, bs)

	if isComponent {
		info.Component = class
		return dom.SkipChildren, nil
	}
	if _, ok := bs.Structural(); ok {
		body := dom.NewFragment()
		dom.MoveChildren(n, body)
		sub, err := t.child(body, depth)
		if err != nil {
			return dom.Stop, err
		}
		info.Sub = sub
	}
	return dom.Descend, nil
}

func (t *Template) prepareComment(n *html.Node, depth int, tbl *blocks.Table) error {
	if directive.Ignored(n.Data, t.opts.NoConflict) {
		return nil
	}
	blk, ok := tbl.ByStart(n)
	if !ok {
		return nil
	}
	b, err := directive.ParseStatement(n.Data)
	if err != nil {
		t.report(diag.BlkBadStatement, diag.SevWarning, n, "", err.Error())
		return nil
	}
	info := &NodeInfo{Node: n, Depth: depth, Bindings: directive.Bindings{b}, Block: &blk}
	t.record(info)
	t.checkKnown(n, info.Bindings)

	if directive.IsStructural(b.Name) {
		body := dom.ToNewFragment(dom.ImmediateNodes(blk.Start, blk.End))
		sub, err := t.child(body, depth)
		if err != nil {
			return err
		}
		info.Sub = sub
	}
	return nil
}

func (t *Template) record(info *NodeInfo) {
	t.infos = append(t.infos, info)
	t.nodeMap[info.Node] = info
}

func (t *Template) checkKnown(n *html.Node, bs directive.Bindings) {
	for _, b := range bs {
		if _, ok := t.opts.Handlers.Lookup(b.Name); !ok {
			t.warnf(diag.DirUnknownBinding, n, b.Name, "unknown binding %q is ignored", b.Name)
		}
	}
}

// Infos returns the binding metadata of this template in document order.
// Sub-templates keep their own.
func (t *Template) Infos() []*NodeInfo {
	return t.infos
}

// Info returns the metadata of a template node.
func (t *Template) Info(n *html.Node) (*NodeInfo, bool) {
	info, ok := t.nodeMap[n]
	return info, ok
}

// Depth is the nesting depth this template was carved at; 0 for roots.
func (t *Template) Depth() int {
	return t.depth
}

// Fragment returns the template fragment. It must not be modified.
func (t *Template) Fragment() *html.Node {
	return t.frag
}

// Empty reports whether the template produces no nodes.
func (t *Template) Empty() bool {
	return t.frag.FirstChild == nil
}

// Evaluator returns the expression cache shared by this template tree.
func (t *Template) Evaluator() *eval.Evaluator {
	return t.eval
}

// NewView materialises a view of t. ctx may be nil for a root view.
func (t *Template) NewView(data any, ctx *eval.Context) *View {
	if ctx == nil {
		ctx = eval.NewRoot(data)
	}
	v := newView(t, data, ctx, nil)
	v.ToDocumentFragment()
	return v
}

// ToDocumentFragment renders t against data into a detached fragment.
// Components are constructed but not rendered.
func (t *Template) ToDocumentFragment(data any, ctx *eval.Context) *html.Node {
	return t.NewView(data, ctx).ToDocumentFragment()
}

// ToString renders t against data and serialises the result.
func (t *Template) ToString(data any, ctx *eval.Context) string {
	return dom.String(t.ToDocumentFragment(data, ctx))
}
