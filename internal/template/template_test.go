package template

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"htmlizer/internal/blocks"
	"htmlizer/internal/component"
	"htmlizer/internal/diag"
	"htmlizer/internal/directive"
	"htmlizer/internal/dom"
	"htmlizer/internal/eval"
	"htmlizer/internal/source"
)

func mustNew(t *testing.T, markup string, opts Options) *Template {
	t.Helper()
	tpl, err := New(markup, opts)
	if err != nil {
		t.Fatalf("New(%q): %v", markup, err)
	}
	return tpl
}

// withBag returns opts reporting into a fresh bag.
func withBag(opts Options) (Options, *diag.Bag) {
	bag := diag.NewBag(100)
	opts.Reporter = diag.BagReporter{Bag: bag}
	return opts, bag
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		markup string
		want   string
	}{
		{`<div class="a"><span>hi</span></div>`, `<div class="a"><span>hi</span></div>`},
		{`<ul><li>1</li><li>2</li></ul>`, `<ul><li>1</li><li>2</li></ul>`},
		{`<p>a &amp; b</p><br/><!-- note -->`, `<p>a &amp; b</p><br/><!-- note -->`},
		{`<style>a > b {}</style>`, `<style>a > b {}</style>`},
		{`<div id="x" data-bind="css: {}">x</div>`, `<div id="x">x</div>`},
	}
	for _, tt := range tests {
		tpl := mustNew(t, tt.markup, Options{})
		if got := tpl.ToString(nil, nil); got != tt.want {
			t.Errorf("ToString(%q) = %q, want %q", tt.markup, got, tt.want)
		}
	}
}

func TestPrepareRecordsBindings(t *testing.T) {
	tpl := mustNew(t, `<div data-bind="attr: {id: a}, text: b"></div>`+
		`<section data-bind="if: show"><p data-bind="text: c"></p></section>`+
		`<!-- ko foreach: items --><i data-bind="text: $data"></i><!-- /ko -->`, Options{})

	type row struct {
		Tag      string
		Depth    int
		Bindings []string
		Sub      bool
	}
	var got []row
	for _, info := range tpl.Infos() {
		tag := info.Node.Data
		if info.Node.Type == html.CommentNode {
			tag = "#comment"
		}
		got = append(got, row{tag, info.Depth, info.Bindings.Names(), info.Sub != nil})
	}
	want := []row{
		{"div", 1, []string{"attr", "text"}, false},
		{"section", 1, []string{"if"}, true},
		{"#comment", 1, []string{"foreach"}, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("infos (-want +got):\n%s", diff)
	}

	section := tpl.Infos()[1]
	if section.Node.FirstChild != nil {
		t.Error("structural element kept its children")
	}
	sub := section.Sub
	if sub.Depth() != 1 || len(sub.Infos()) != 1 || sub.Infos()[0].Depth != 2 {
		t.Errorf("sub-template depth/infos wrong: depth=%d infos=%d", sub.Depth(), len(sub.Infos()))
	}
	if sub.Evaluator() != tpl.Evaluator() {
		t.Error("sub-template does not share the expression cache")
	}
	foreach := tpl.Infos()[2]
	if foreach.Node.NextSibling != foreach.Block.End {
		t.Error("statement body was not carved out")
	}
}

func TestBlockErrors(t *testing.T) {
	opts, bag := withBag(Options{})
	_, err := New(`<!-- ko if: a --><b></b>`, opts)
	if !errors.Is(err, blocks.ErrMissingEndTag) {
		t.Fatalf("missing end: got %v", err)
	}
	if !strings.Contains(err.Error(), "ko if: a") {
		t.Errorf("error does not name the statement: %v", err)
	}
	if diff := cmp.Diff([]diag.Code{diag.BlkMissingEnd}, codes(bag)); diff != "" {
		t.Errorf("codes (-want +got):\n%s", diff)
	}

	opts, bag = withBag(Options{})
	tpl, err := New(`<b></b><!-- /ko -->`, opts)
	if err != nil {
		t.Fatalf("extra end must not be fatal: %v", err)
	}
	if bag.HasErrors() || !bag.HasWarnings() {
		t.Errorf("extra end should warn only: %v", codes(bag))
	}
	if got := tpl.ToString(nil, nil); got != `<b></b><!-- /ko -->` {
		t.Errorf("extra end output = %q", got)
	}
}

type panel struct {
	component.Base
}

func (p *panel) Render(context.Context) (*html.Node, error) {
	return dom.ParseFragment("<section>" + html.EscapeString(eval.ToString(p.Get("title"))) + "</section>")
}

func panels(t *testing.T, fromView func(*html.Node, component.Config) component.Config) *component.Registry {
	t.Helper()
	reg := component.NewRegistry()
	err := reg.Register(component.Class{
		Name: "x.panel",
		New: func(cfg component.Config) (component.Component, error) {
			p := &panel{}
			p.Set(cfg)
			return p, nil
		},
		FromView: fromView,
	})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestBindingConflicts(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   error
		code   diag.Code
	}{
		{"two structural", `<div data-bind="if: a, text: b"></div>`, directive.ErrBindingConflict, diag.DirConflict},
		{"foreach and html", `<ul data-bind="foreach: xs, html: h"></ul>`, directive.ErrBindingConflict, diag.DirConflict},
		{"component text", `<x-panel data-bind="text: a"></x-panel>`, directive.ErrComponentBinding, diag.DirComponentBinding},
		{"nested", `<p><span data-bind="with: a, ifnot: b"></span></p>`, directive.ErrBindingConflict, diag.DirConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, bag := withBag(Options{Components: panels(t, nil)})
			_, err := New(tt.markup, opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if diff := cmp.Diff([]diag.Code{tt.code}, codes(bag)); diff != "" {
				t.Errorf("codes (-want +got):\n%s", diff)
			}
		})
	}

	// attr is the one binding a component accepts; a single structural
	// binding next to plain ones is fine
	for _, markup := range []string{
		`<x-panel data-bind="attr: {title: a}"></x-panel>`,
		`<div data-bind="if: a, css: {on: b}, attr: {id: c}"></div>`,
	} {
		if _, err := New(markup, Options{Components: panels(t, nil)}); err != nil {
			t.Errorf("New(%q): %v", markup, err)
		}
	}
}

func TestUnknownBindingAndBadStatement(t *testing.T) {
	opts, bag := withBag(Options{})
	tpl := mustNew(t, `<p data-bind="frobnicate: x, text: y"></p><!-- ko if: --><i></i><!-- /ko -->`, opts)
	if diff := cmp.Diff([]diag.Code{diag.DirUnknownBinding, diag.BlkBadStatement}, codes(bag)); diff != "" {
		t.Errorf("codes (-want +got):\n%s", diff)
	}
	got := tpl.ToString(map[string]any{"y": "ok"}, nil)
	if want := `<p>ok</p><!-- ko if: --><i></i><!-- /ko -->`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDiagnosticsArePinned(t *testing.T) {
	markup := "<div>\n  <b data-bind=\"text: nothing.deep\"></b>\n</div>"
	fs := source.NewFileSet()
	id := fs.AddVirtual("views/x.html", []byte(markup))
	opts, bag := withBag(Options{File: fs.Get(id)})
	mustNew(t, markup, opts).ToString(map[string]any{}, nil)

	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.EvalFailed {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	start, _ := fs.Resolve(items[0].Primary)
	if start.Line != 2 {
		t.Errorf("pinned to line %d, want 2", start.Line)
	}
}

func TestNoConflict(t *testing.T) {
	tpl := mustNew(t, `<div data-htmlizer="text: a" data-bind="text: b"></div>`+
		`<!-- ko if: hidden --><i>ko</i><!-- /ko -->`+
		`<!-- hz if: hidden --><i>hz</i><!-- /hz -->`, Options{NoConflict: true})
	got := tpl.ToString(map[string]any{"a": "A", "b": "B", "hidden": false}, nil)
	want := `<div data-bind="text: b">A</div><!-- ko if: hidden --><i>ko</i><!-- /ko --><!-- hz if: hidden --><!-- /hz -->`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestCache(t *testing.T) {
	c := NewCache(Options{})
	a, err := c.Get(`<b data-bind="text: x"></b>`)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := c.Get(`<b data-bind="text: x"></b>`)
	if a != b || c.Len() != 1 {
		t.Fatalf("cache miss on identical source (len %d)", c.Len())
	}
	c.Discard(`<b data-bind="text: x"></b>`)
	if c.Len() != 0 {
		t.Fatal("discard kept the entry")
	}
	if again, _ := c.Get(`<b data-bind="text: x"></b>`); again == a {
		t.Error("discarded template was returned again")
	}
	if _, err := c.Get(`<!-- ko if: x -->`); err == nil || c.Len() != 1 {
		t.Errorf("failed compile: err=%v len=%d", err, c.Len())
	}
}
