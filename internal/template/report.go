package template

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"htmlizer/internal/diag"
	"htmlizer/internal/source"
	"htmlizer/internal/trace"
)

// spanOf pins a node to the source by searching for its markup.
// Parsed nodes keep no offsets, so the first occurrence wins.
func (t *Template) spanOf(n *html.Node, hint string) source.Span {
	f := t.opts.File
	if f == nil {
		return source.Span{}
	}
	var needles []string
	if hint != "" {
		needles = append(needles, hint)
	}
	if n != nil {
		switch n.Type {
		case html.CommentNode:
			needles = append(needles, n.Data, strings.TrimSpace(n.Data))
		case html.ElementNode:
			needles = append(needles, "<"+n.Data)
		}
	}
	for _, needle := range needles {
		if sp, ok := f.Locate([]byte(needle), 0); ok {
			return sp
		}
	}
	return source.Span{File: f.ID}
}

func (t *Template) report(code diag.Code, sev diag.Severity, n *html.Node, hint, msg string) {
	diag.NewReportBuilder(t.opts.Reporter, sev, code, t.spanOf(n, hint), msg).Emit()
}

func (t *Template) warnf(code diag.Code, n *html.Node, hint, format string, args ...any) {
	t.report(code, diag.SevWarning, n, hint, fmt.Sprintf(format, args...))
}

// evalFailed records a failed evaluation. The value is treated as undefined.
func (t *Template) evalFailed(binding, expr string, n *html.Node, err error) {
	t.warnf(diag.EvalFailed, n, expr, "binding %s: %v", binding, err)
	trace.Point(t.opts.Tracer, trace.ScopeNode, t.opts.Name, "eval", binding+": "+err.Error(), 0)
}
