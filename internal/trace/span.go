package trace

import (
	"sync/atomic"
	"time"
)

var (
	seq     atomic.Uint64
	spanIDs atomic.Uint64
)

// Span tracks one logical operation between Begin and End.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	file    string
	name    string
	started time.Time
	extra   map[string]string
}

func (s *Span) live() bool {
	return s != nil && s.tracer != nil && s.tracer.Enabled() && s.id != 0
}

func (s *Span) emit(kind Kind, detail string, extra map[string]string) {
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Seq:      seq.Add(1),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		File:     s.file,
		Name:     s.name,
		Detail:   detail,
		Extra:    extra,
	})
}

// Begin starts a span and emits its begin event. Disabled scopes get an
// inert span, so callers never check the level themselves.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return begin(t, scope, "", name, parent)
}

// BeginFile starts a ScopeFile span for the template at path. Spans opened
// under it with Child carry the same path.
func BeginFile(t Tracer, path string, parent uint64) *Span {
	return begin(t, ScopeFile, path, path, parent)
}

func begin(t Tracer, scope Scope, file, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop, file: file}
	}
	s := &Span{
		tracer:  t,
		id:      spanIDs.Add(1),
		parent:  parent,
		scope:   scope,
		file:    file,
		name:    name,
		started: time.Now(),
	}
	s.emit(KindSpanBegin, "", nil)
	return s
}

// Child starts a span below s on tracer t, inheriting the file of s. It is
// opened even when s itself was filtered out by the level.
func (s *Span) Child(t Tracer, scope Scope, name string) *Span {
	var file string
	if s != nil {
		file = s.file
	}
	return begin(t, scope, file, name, s.ID())
}

// End emits the end event and returns the span duration; 0 when disabled.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	dur := time.Since(s.started)
	s.emit(KindSpanEnd, detail, s.extra)
	return dur
}

// WithExtra adds a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event about file.
func Point(t Tracer, scope Scope, file, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      seq.Add(1),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		File:     file,
		Name:     name,
		Detail:   detail,
	})
}
