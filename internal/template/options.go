package template

import (
	"htmlizer/internal/component"
	"htmlizer/internal/diag"
	"htmlizer/internal/source"
	"htmlizer/internal/trace"
)

// Options configure a Template and every View made from it.
type Options struct {
	// NoConflict switches the directive attribute to data-htmlizer and leaves
	// `ko` comment statements to another library.
	NoConflict bool
	Components *component.Registry
	// Handlers defaults to DefaultRegistry().
	Handlers *Registry
	// Templates resolves names used by the template statement.
	Templates map[string]*Template
	Reporter  diag.Reporter
	Tracer    trace.Tracer
	// File is the markup source; diagnostics are pinned into it.
	File *source.File
	// Name labels trace events; defaults to the path of File.
	Name string
}

func (o Options) withDefaults() Options {
	if o.Handlers == nil {
		o.Handlers = DefaultRegistry()
	}
	if o.Reporter == nil {
		o.Reporter = diag.NopReporter{}
	}
	if o.Tracer == nil {
		o.Tracer = trace.Nop
	}
	if o.Name == "" && o.File != nil {
		o.Name = o.File.Path
	}
	return o
}
