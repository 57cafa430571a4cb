package template

import (
	"maps"
	"slices"
	"sync"

	"golang.org/x/net/html"

	"htmlizer/internal/blocks"
)

// Call describes one binding invocation.
type Call struct {
	// Node is the live node, TNode its template counterpart.
	Node  *html.Node
	TNode *html.Node
	// Name is the binding name; sub-keyed bindings use "attr.title".
	Name string
	Expr string
	Info *NodeInfo
	// Blocks is the block table of the template that owns TNode.
	Blocks *blocks.Table
}

// Control is what Init may ask of the materialisation walk.
type Control struct {
	// SkipChildren leaves the template children of the node alone; the
	// handler owns the node content.
	SkipChildren bool
	// IgnoreTill suppresses every template node up to and including this one.
	IgnoreTill *html.Node
	// SkipOtherBindings stops the remaining bindings of the node.
	SkipOtherBindings bool
}

// Handler mounts one directive.
type Handler interface {
	Init(v *View, c Call) Control
}

// Updater is implemented by handlers that can reconcile already mounted
// output. key is the sub-key of attr, css and style.
type Updater interface {
	Update(v *View, c Call, key string)
}

// Registry maps directive names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// DefaultRegistry returns a fresh registry holding the standard directives.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("if", ifHandler{})
	r.Register("ifnot", ifHandler{negate: true})
	r.Register("with", withHandler{})
	r.Register("foreach", foreachHandler{})
	r.Register("text", textHandler{})
	r.Register("html", htmlHandler{})
	r.Register("attr", attrHandler{})
	r.Register("css", cssHandler{})
	r.Register("style", styleHandler{})
	r.Register("enable", toggle(setEnabled))
	r.Register("disable", toggle(setEnabled))
	r.Register("checked", toggle(setChecked))
	r.Register("value", toggle(setValue))
	r.Register("visible", toggle(setVisible))
	r.Register("template", templateHandler{})
	r.Register("component", componentHandler{})
	return r
}

// Register binds name to h, replacing any previous handler.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Clone returns an independent copy for registering custom handlers.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Registry{handlers: maps.Clone(r.handlers)}
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.handlers))
}
