package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/net/html"

	"htmlizer/internal/component"
	"htmlizer/internal/diag"
	"htmlizer/internal/dom"
	"htmlizer/internal/project"
	"htmlizer/internal/project/dag"
	"htmlizer/internal/source"
	"htmlizer/internal/template"
)

var (
	// ErrComponentDepth stops runaway recursion through dynamic component
	// statements.
	ErrComponentDepth = errors.New("component nesting too deep")
	// ErrComponentCycle marks components whose templates use themselves.
	ErrComponentCycle = errors.New("component template uses itself")
)

const maxComponentDepth = 32

type depthKey struct{}

func depthFrom(ctx context.Context) int {
	d, _ := ctx.Value(depthKey{}).(int)
	return d
}

// templateClass is a component class whose output is another template
// rendered with the component configuration as data.
type templateClass struct {
	name string
	file string
	tpl  *template.Template
	err  error
}

type templateComponent struct {
	component.Base
	class *templateClass
}

func (c *templateComponent) Render(ctx context.Context) (*html.Node, error) {
	depth := depthFrom(ctx)
	if c.class.err != nil {
		return nil, fmt.Errorf("%s: %w", c.class.name, c.class.err)
	}
	if depth >= maxComponentDepth {
		return nil, fmt.Errorf("%s: %w", c.class.name, ErrComponentDepth)
	}
	if c.class.tpl == nil {
		return nil, fmt.Errorf("%s: template %s did not compile", c.class.name, c.class.file)
	}
	data := map[string]any(c.Cfg.Merge(nil))
	v := c.class.tpl.NewView(data, nil)
	out, err := v.Render(context.WithValue(ctx, depthKey{}, depth+1))
	if err != nil && ctx.Err() != nil {
		return nil, err
	}
	// nested component failures were reported by the nested view
	return out, nil
}

// loadComponents registers every class first and compiles the templates
// afterwards, so component templates may use each other in any order.
// Components that use themselves, directly or through others, are reported
// and fail to render.
func loadComponents(fs *source.FileSet, entries []project.Component, opts template.Options) (*component.Registry, error) {
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	reg := component.NewRegistry()
	classes := make([]*templateClass, 0, len(entries))
	for _, e := range entries {
		tc := &templateClass{name: e.Class, file: e.File}
		err := reg.Register(component.Class{
			Name: e.Class,
			New: func(cfg component.Config) (component.Component, error) {
				c := &templateComponent{class: tc}
				c.Set(cfg)
				return c, nil
			},
			FromView: func(n *html.Node, cfg component.Config) component.Config {
				return component.NodeConfig(n).Merge(cfg)
			},
		})
		if err != nil {
			return nil, err
		}
		classes = append(classes, tc)
	}

	opts.Components = reg
	nodes := make([]dag.ComponentNode, 0, len(classes))
	metas := make([]dag.ComponentMeta, 0, len(classes))
	for _, tc := range classes {
		id, err := fs.Load(tc.file)
		if err != nil {
			diag.ReportError(opts.Reporter, diag.ProjMissingTemplate, source.Span{},
				fmt.Sprintf("component %s: %v", tc.name, err)).Emit()
			return nil, fmt.Errorf("component %s: %w", tc.name, err)
		}
		file := fs.Get(id)
		seen := &teeReporter{next: opts.Reporter}
		fileOpts := opts
		fileOpts.File = file
		fileOpts.Reporter = seen
		tc.tpl, _ = template.New(string(file.Content), fileOpts)

		meta := dag.ComponentMeta{Class: tc.name, Span: source.Span{File: id}, Uses: usesOf(file, reg)}
		node := dag.ComponentNode{Meta: meta, Reporter: opts.Reporter}
		if tc.tpl == nil || seen.firstErr != nil {
			node.Broken = true
			node.FirstErr = seen.firstErr
		}
		for _, u := range meta.Uses {
			if u.Class == tc.name {
				tc.err = ErrComponentCycle
			}
		}
		metas = append(metas, meta)
		nodes = append(nodes, node)
	}

	idx := dag.BuildIndex(metas)
	graph, slots := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(graph)
	dag.ReportCycles(idx, slots, topo)
	dag.ReportBrokenDeps(idx, slots)
	for _, id := range topo.Cycles {
		if tc, ok := classByName(classes, idx.IDToName[int(id)]); ok {
			tc.err = ErrComponentCycle
		}
	}
	return reg, nil
}

// usesOf lists the component tags found in file, in document order.
func usesOf(file *source.File, reg *component.Registry) []dag.Use {
	frag, err := dom.ParseFragment(string(file.Content))
	if err != nil {
		return nil
	}
	var out []dag.Use
	var from uint32
	for _, n := range dom.Flatten(frag) {
		if n.Type != html.ElementNode {
			continue
		}
		class, ok := reg.LookupTag(n.Data)
		if !ok {
			continue
		}
		use := dag.Use{Class: class.Name, Span: source.Span{File: file.ID}}
		if sp, ok := file.Locate([]byte("<"+n.Data), from); ok {
			use.Span = sp
			from = sp.End
		}
		out = append(out, use)
	}
	return out
}

// teeReporter forwards to next and remembers the first error it saw.
type teeReporter struct {
	next     diag.Reporter
	mu       sync.Mutex
	firstErr *diag.Diagnostic
}

func (r *teeReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if sev >= diag.SevError {
		r.mu.Lock()
		if r.firstErr == nil {
			r.firstErr = &diag.Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes}
		}
		r.mu.Unlock()
	}
	r.next.Report(code, sev, primary, msg, notes)
}

func classByName(classes []*templateClass, name string) (*templateClass, bool) {
	for _, tc := range classes {
		if tc.name == name {
			return tc, true
		}
	}
	return nil, false
}
