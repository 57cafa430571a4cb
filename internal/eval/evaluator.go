// Package eval evaluates binding expressions with expr-lang/expr against a
// view's Context and data.
package eval

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"golang.org/x/net/html"

	"htmlizer/internal/reactive"
)

type compiled struct {
	prog *vm.Program
	err  error
}

// Evaluator compiles each distinct expression string once. It is shared by
// all views of a template and safe for concurrent use.
type Evaluator struct {
	mu    sync.RWMutex
	progs map[string]compiled
}

func NewEvaluator() *Evaluator {
	return &Evaluator{progs: make(map[string]compiled)}
}

// Compile returns the cached program for src. Failures are cached as well.
func (e *Evaluator) Compile(src string) (*vm.Program, error) {
	e.mu.RLock()
	c, ok := e.progs[src]
	e.mu.RUnlock()
	if ok {
		return c.prog, c.err
	}

	prog, err := expr.Compile(src)
	if err != nil {
		err = fmt.Errorf("compile %q: %w", src, err)
	}
	e.mu.Lock()
	if prev, ok := e.progs[src]; ok {
		e.mu.Unlock()
		return prev.prog, prev.err
	}
	e.progs[src] = compiled{prog: prog, err: err}
	e.mu.Unlock()
	return prog, err
}

// Len returns the number of cached expressions.
func (e *Evaluator) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.progs)
}

// Eval runs src with c and data in scope. Observable results are unwrapped.
// Every failure, including a panic inside a called function, is returned as
// an error together with a nil value.
func (e *Evaluator) Eval(src string, c *Context, data any, elem *html.Node) (val any, err error) {
	prog, err := e.Compile(src)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			val, err = nil, fmt.Errorf("evaluate %q: %v", src, r)
		}
	}()
	out, err := expr.Run(prog, Env(c, data, elem))
	if err != nil {
		return nil, fmt.Errorf("evaluate %q: %w", src, err)
	}
	return reactive.Unwrap(out), nil
}
