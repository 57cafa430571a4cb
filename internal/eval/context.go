package eval

import (
	"slices"

	"htmlizer/internal/reactive"
)

// Alias is a name introduced by `foreach: {data: ..., as: 'name'}`.
type Alias struct {
	Name  string
	Value any
}

// Context is the scope chain of a view. A Context is never modified after
// it was handed to a view, except for the value held by its Index cell.
type Context struct {
	Root          any
	Parent        any
	ParentContext *Context
	Parents       []any // nearest first
	Data          any
	RawData       any
	Index         *reactive.Cell // nil outside foreach
	Aliases       []Alias        // inherited by every derived context
}

// NewRoot creates the context of a top-level view.
func NewRoot(data any) *Context {
	return &Context{
		Root:    data,
		Data:    data,
		RawData: data,
	}
}

// Derive returns the scope for a child view bound to data.
func (c *Context) Derive(data any) *Context {
	if c == nil {
		return NewRoot(data)
	}
	parents := make([]any, 0, len(c.Parents)+1)
	parents = append(parents, c.Data)
	parents = append(parents, c.Parents...)
	return &Context{
		Root:          c.Root,
		Parent:        c.Data,
		ParentContext: c,
		Parents:       parents,
		Data:          data,
		RawData:       data,
		Index:         c.Index,
		Aliases:       slices.Clone(c.Aliases),
	}
}

// WithIndex returns a copy of c carrying index.
func (c *Context) WithIndex(index *reactive.Cell) *Context {
	cp := *c
	cp.Index = index
	return &cp
}

// WithAlias returns a copy of c with name bound to v.
func (c *Context) WithAlias(name string, v any) *Context {
	cp := *c
	cp.Aliases = append(slices.Clone(c.Aliases), Alias{Name: name, Value: v})
	return &cp
}

// Alias looks name up; later aliases shadow earlier ones.
func (c *Context) Alias(name string) (any, bool) {
	for i := len(c.Aliases) - 1; i >= 0; i-- {
		if c.Aliases[i].Name == name {
			return c.Aliases[i].Value, true
		}
	}
	return nil, false
}

// IndexValue returns the current $index or -1 outside foreach.
func (c *Context) IndexValue() int {
	if c == nil || c.Index == nil {
		return -1
	}
	if i, ok := c.Index.Get().(int); ok {
		return i
	}
	return -1
}
