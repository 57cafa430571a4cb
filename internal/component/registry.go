package component

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var ErrDuplicateClass = errors.New("component class already registered")

// Registry maps class names to classes. Lookups are case-insensitive.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*Class)}
}

// Register adds c. Names are compared case-insensitively.
func (r *Registry) Register(c Class) error {
	if c.Name == "" || c.New == nil {
		return fmt.Errorf("register component: name and constructor are required")
	}
	key := strings.ToLower(c.Name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.classes[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateClass, c.Name)
	}
	r.classes[key] = &c
	return nil
}

// Lookup resolves a dotted class name.
func (r *Registry) Lookup(name string) (*Class, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[strings.ToLower(name)]
	return c, ok
}

// LookupTag resolves a custom element name: dashes become dots.
// Tags without a dash never name a component.
func (r *Registry) LookupTag(tag string) (*Class, bool) {
	if !strings.Contains(tag, "-") {
		return nil, false
	}
	return r.Lookup(strings.ReplaceAll(tag, "-", "."))
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c.Name)
	}
	slices.Sort(out)
	return out
}
