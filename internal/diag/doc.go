// Package diag defines the diagnostic model shared by template parsing,
// materialisation and the command line driver.
//
// # Purpose
//
//   - Capture findings (parse errors, recoverable parse warnings, evaluation
//     failures, lookup misses) as deterministic data.
//   - Decouple producers from storage: the block matcher, the template parser and
//     the expression evaluator only see a Reporter.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable string form (codes.go).
//   - Message – short human text.
//   - Primary – the source.Span the finding is pinned to. Markup nodes carry no
//     offsets, so producers locate them best-effort; an empty span at offset 0
//     means "somewhere in this template".
//   - Notes – optional secondary spans.
//
// # Emitting
//
// Use ReportError / ReportWarning to build a diagnostic and Emit it, or call
// Reporter.Report directly. BagReporter collects into a Bag; DedupReporter drops
// repeats, which matters for foreach bodies that evaluate the same failing
// expression once per item.
//
// Rendering lives in internal/diagfmt.
package diag
