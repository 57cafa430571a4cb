package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"htmlizer/internal/diag"
	"htmlizer/internal/source"
)

type palette struct {
	err, warn, info, path, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:   mk(color.FgRed, color.Bold),
		warn:  mk(color.FgYellow, color.Bold),
		info:  mk(color.FgCyan),
		path:  mk(color.Bold),
		caret: mk(color.FgGreen, color.Bold),
		note:  mk(color.FgBlue),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждой диагностики печатает
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span и заметки.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		writeHeader(w, pal, fs, opts, d)
		writeExcerpt(w, pal, fs, opts, d.Primary)
		if opts.ShowNotes || d.Code == diag.ObsTimings {
			for _, n := range d.Notes {
				loc := location(fs, n.Span, opts.PathMode)
				fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note"), pal.path.Sprint(loc), n.Msg)
			}
		}
	}
}

func writeHeader(w io.Writer, pal palette, fs *source.FileSet, opts PrettyOpts, d *diag.Diagnostic) {
	msg := d.Message
	if opts.Width > 0 {
		msg = runewidth.Truncate(msg, int(opts.Width), "…")
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprint(location(fs, d.Primary, opts.PathMode)),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		d.Code.ID(),
		msg,
	)
}

func writeExcerpt(w io.Writer, pal palette, fs *source.FileSet, opts PrettyOpts, sp source.Span) {
	f := fs.Get(sp.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(sp)
	ctx := uint32(max(opts.Context, 0))
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := min(start.Line+ctx, uint32(len(f.LineIdx))+1)
	gutter := len(fmt.Sprint(last))
	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		text = strings.ReplaceAll(text, "\t", "    ")
		fmt.Fprintf(w, " %*d | %s\n", gutter, ln, text)
		if ln != start.Line {
			continue
		}
		fmt.Fprintf(w, " %s | %s\n", strings.Repeat(" ", gutter), pal.caret.Sprint(underline(text, start, end)))
	}
}

// underline builds the ^~~~ marker for a span starting on line; multi-line spans
// are underlined to the end of the first line.
func underline(line string, start, end source.LineCol) string {
	runes := []rune(line)
	startCol := int(start.Col) - 1
	startCol = min(max(startCol, 0), len(runes))
	endCol := len(runes)
	if end.Line == start.Line {
		endCol = min(int(end.Col)-1, len(runes))
	}
	pad := runewidth.StringWidth(string(runes[:startCol]))
	width := 1
	if endCol > startCol {
		width = runewidth.StringWidth(string(runes[startCol:endCol]))
	}
	return strings.Repeat(" ", pad) + "^" + strings.Repeat("~", max(width-1, 0))
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.FormatPath(mode.mode(), fs.BaseDir()), start.Line, start.Col)
}
