package template

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache keeps one Template per markup source. Concurrent misses on the
// same source compile once.
type Cache struct {
	opts  Options
	mu    sync.RWMutex
	items map[string]*Template
	group singleflight.Group
}

func NewCache(opts Options) *Cache {
	return &Cache{opts: opts, items: make(map[string]*Template)}
}

// Get returns the cached Template for markup, compiling it on a miss.
// Failed compilations are not cached.
func (c *Cache) Get(markup string) (*Template, error) {
	c.mu.RLock()
	t, ok := c.items[markup]
	c.mu.RUnlock()
	if ok {
		return t, nil
	}
	v, err, _ := c.group.Do(markup, func() (any, error) {
		t, err := New(markup, c.opts)
		if err != nil {
			return nil, err
		}
		c.Put(markup, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Template), nil
}

// Put stores t under markup.
func (c *Cache) Put(markup string, t *Template) {
	c.mu.Lock()
	c.items[markup] = t
	c.mu.Unlock()
}

// Discard drops the entry of markup. Views made from it stay valid.
func (c *Cache) Discard(markup string) {
	c.mu.Lock()
	delete(c.items, markup)
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
