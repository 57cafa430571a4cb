package testkit

import (
	"testing"

	"htmlizer/internal/blocks"
	"htmlizer/internal/diag"
	"htmlizer/internal/dom"
	"htmlizer/internal/source"
)

func TestCheckDiagnosticSpans(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.html", []byte("<p>hello</p>"))

	tests := []struct {
		name string
		d    *diag.Diagnostic
		ok   bool
	}{
		{"zero span", diag.NewError(diag.IOLoadFileError, source.Span{}, "x"), true},
		{"inside", diag.NewError(diag.EvalFailed, source.Span{File: id, Start: 3, End: 8}, "x"), true},
		{"whole file", diag.NewError(diag.EvalFailed, fs.Get(id).WholeFile(), "x"), true},
		{"inverted", diag.NewError(diag.EvalFailed, source.Span{File: id, Start: 5, End: 2}, "x"), false},
		{"past end", diag.NewError(diag.EvalFailed, source.Span{File: id, Start: 5, End: 40}, "x"), false},
		{"unknown file", diag.NewError(diag.EvalFailed, source.Span{File: 9, Start: 0, End: 1}, "x"), false},
		{"bad note", diag.NewError(diag.EvalFailed, source.Span{File: id, Start: 0, End: 1}, "x").
			WithNote(source.Span{File: id, Start: 0, End: 99}, "n"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag := diag.NewBag(10)
			bag.Add(tt.d)
			err := CheckDiagnosticSpans(bag, fs)
			if (err == nil) != tt.ok {
				t.Errorf("ok=%v, err=%v", tt.ok, err)
			}
		})
	}
	if CheckDiagnosticSpans(nil, fs) == nil {
		t.Error("nil bag accepted")
	}
}

func TestCheckBlockTable(t *testing.T) {
	frag, err := dom.ParseFragment(`<!-- ko if: a --><!-- ko with: b --><i></i><!-- /ko --><!-- /ko --><!-- ko foreach: c --><!-- /ko -->`)
	if err != nil {
		t.Fatal(err)
	}
	nodes := dom.Flatten(frag)
	table, err := blocks.Match(nodes, blocks.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 3 {
		t.Fatalf("matched %d blocks", table.Len())
	}
	if err := CheckBlockTable(table, nodes); err != nil {
		t.Error(err)
	}
	if err := CheckBlockTable(table, nodes[:2]); err == nil {
		t.Error("markers outside the sequence accepted")
	}
}
