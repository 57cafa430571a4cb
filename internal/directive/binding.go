// Package directive extracts bindings from template markup: the directive
// attribute of elements (`data-bind="if: x, text: y"`) and containerless
// statements carried by comments (`<!-- ko if: x -->` ... `<!-- /ko -->`).
package directive

import (
	"fmt"

	"htmlizer/internal/objlit"
)

const (
	// Attr is the directive attribute.
	Attr = "data-bind"
	// NoConflictAttr replaces Attr when the engine shares markup with another binding library.
	NoConflictAttr = "data-htmlizer"
)

// AttrName returns the directive attribute for the given mode.
func AttrName(noConflict bool) string {
	if noConflict {
		return NoConflictAttr
	}
	return Attr
}

// Binding is one directive: name and expression source.
type Binding struct {
	Name string
	Expr string
}

// Bindings keeps directives in authored order.
type Bindings []Binding

// Get returns the expression of binding name.
func (bs Bindings) Get(name string) (string, bool) {
	for _, b := range bs {
		if b.Name == name {
			return b.Expr, true
		}
	}
	return "", false
}

func (bs Bindings) Has(name string) bool {
	_, ok := bs.Get(name)
	return ok
}

func (bs Bindings) Names() []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.Name
	}
	return out
}

// Structural returns the structural binding carried by bs, if any.
func (bs Bindings) Structural() (Binding, bool) {
	for _, b := range bs {
		if IsStructural(b.Name) {
			return b, true
		}
	}
	return Binding{}, false
}

// Parse splits a directive attribute value into bindings.
func Parse(attr string) (Bindings, error) {
	pairs, err := objlit.Parse(attr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadBinding, err)
	}
	out := make(Bindings, len(pairs))
	for i, p := range pairs {
		out[i] = Binding{Name: p.Key, Expr: p.Value}
	}
	return out, nil
}

// IsStructural reports whether name carves its body into a sub-template.
func IsStructural(name string) bool {
	switch name {
	case "if", "ifnot", "foreach", "with":
		return true
	}
	return false
}
