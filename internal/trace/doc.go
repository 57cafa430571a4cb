// Package trace records what the renderer is doing: which template files are
// processed, how long each pass takes and which expressions failed inside a
// materialisation.
//
// # Usage
//
//	htmlizer render --trace=- --trace-level=detail views/*.html
//
// # Tracers
//
//   - Nop: records nothing
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Events carry a Scope; the Level decides which scopes are emitted:
//
//   - LevelPhase: ScopeDriver and ScopePass (load, parse, prepare, render, write)
//   - LevelDetail: adds ScopeFile (one span per template file)
//   - LevelDebug: adds ScopeNode (per-binding evaluation failures)
//
// Every event names the template file it belongs to. File spans pass the
// path on to their children:
//
//	file := trace.BeginFile(tracer, "views/list.html", trace.CurrentSpan(ctx))
//	ctx = trace.WithSpan(ctx, file)
//	pass := file.Child(tracer, trace.ScopePass, "prepare")
//	defer pass.End("")
package trace
