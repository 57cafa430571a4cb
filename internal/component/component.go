// Package component is the boundary to component implementations.
//
// The engine never renders a component on its own: it builds the
// configuration, constructs the instance through a registered Class, wires
// references and queues the instance. Output is produced later by Render.
package component

import (
	"context"
	"maps"
	"strings"

	"golang.org/x/net/html"

	"htmlizer/internal/dom"
)

// Config is the plain configuration record handed to components.
type Config map[string]any

// Merge returns a copy of c overlaid with other.
func (c Config) Merge(other Config) Config {
	out := make(Config, len(c)+len(other))
	maps.Copy(out, c)
	maps.Copy(out, other)
	return out
}

// Component is a constructed instance.
type Component interface {
	// Set merges cfg into the component configuration.
	Set(cfg Config)
	// Render produces the component output as a detached fragment.
	Render(ctx context.Context) (*html.Node, error)
}

// Class describes a constructible component type.
type Class struct {
	// Name is the dotted class name; tag `x-panel` resolves `x.panel`.
	Name string
	New  func(cfg Config) (Component, error)
	// FromView optionally derives configuration from the authored node.
	// cfg already holds the evaluated `params` attribute.
	FromView func(node *html.Node, cfg Config) Config
}

// NodeConfig reads the conventional configuration of an authored node:
// id, cls, style, ref and html (the inner markup).
func NodeConfig(node *html.Node) Config {
	cfg := Config{}
	for _, key := range []string{"id", "style", "ref"} {
		if v, ok := dom.Attr(node, key); ok && v != "" {
			cfg[key] = v
		}
	}
	if v, ok := dom.Attr(node, "class"); ok && v != "" {
		cfg["cls"] = v
	}
	if inner := strings.TrimSpace(dom.InnerHTML(node)); inner != "" {
		cfg["html"] = inner
	}
	return cfg
}

// Base keeps configuration for simple components; embed it and implement Render.
type Base struct {
	Cfg Config
}

func (b *Base) Set(cfg Config) {
	if b.Cfg == nil {
		b.Cfg = Config{}
	}
	maps.Copy(b.Cfg, cfg)
}

// Get returns a configuration value.
func (b *Base) Get(key string) any {
	return b.Cfg[key]
}
