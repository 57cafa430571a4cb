// Package reactive provides the minimal observable value the engine needs:
// a Cell that can be read, written and watched. Expressions never see a
// Cell itself; Unwrap replaces it by its current value.
package reactive

import (
	"reflect"
	"sync"
)

// Observable is any value the evaluator unwraps transparently.
type Observable interface {
	Get() any
}

// Cell is a goroutine-safe observable value.
type Cell struct {
	mu   sync.Mutex
	v    any
	subs map[int]func(old, cur any)
	next int
}

func NewCell(v any) *Cell {
	return &Cell{v: v}
}

func (c *Cell) Get() any {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

// Set stores v and notifies subscribers when the value changed.
func (c *Cell) Set(v any) {
	c.mu.Lock()
	old := c.v
	c.v = v
	subs := make([]func(old, cur any), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()
	if same(old, v) {
		return
	}
	for _, fn := range subs {
		fn(old, v)
	}
}

// Subscribe registers fn and returns a function removing it.
func (c *Cell) Subscribe(fn func(old, cur any)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subs == nil {
		c.subs = make(map[int]func(old, cur any))
	}
	id := c.next
	c.next++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Unwrap returns the current value of an Observable, or v unchanged.
func Unwrap(v any) any {
	for {
		o, ok := v.(Observable)
		if !ok || o == nil {
			return v
		}
		v = o.Get()
	}
}

func same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
