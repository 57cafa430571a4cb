package diag

import (
	"testing"

	"htmlizer/internal/source"
)

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{BlkMissingEnd, "BLK1001"},
		{DirConflict, "DIR2001"},
		{EvalFailed, "EVL3001"},
		{IOLoadFileError, "IO4001"},
		{ProjBadManifest, "PRJ5001"},
		{ObsTimings, "OBS6001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
	if got := Code(9999).Title(); got != "Unknown error" {
		t.Errorf("unknown title = %q", got)
	}
}

func TestBagLimitAndSeverity(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(New(SevWarning, BlkExtraEnd, source.Span{}, "extra")) {
		t.Fatal("first add rejected")
	}
	if bag.HasErrors() {
		t.Fatal("warning counted as error")
	}
	bag.Add(NewError(BlkMissingEnd, source.Span{}, "missing"))
	if bag.Add(NewError(BlkMissingEnd, source.Span{}, "overflow")) {
		t.Fatal("bag accepted item above limit")
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatal("expected both errors and warnings")
	}
	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(10)
	bag.Add(New(SevWarning, EvalFailed, source.Span{Start: 10, End: 12}, "b"))
	bag.Add(New(SevWarning, EvalFailed, source.Span{Start: 1, End: 2}, "a"))
	bag.Add(New(SevWarning, EvalFailed, source.Span{Start: 10, End: 12}, "b"))
	bag.Sort()
	bag.Dedup()
	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Message != "a" || items[1].Message != "b" {
		t.Fatalf("unexpected order: %q, %q", items[0].Message, items[1].Message)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	for range 5 {
		ReportWarning(r, EvalFailed, source.Span{Start: 3, End: 7}, "boom is not defined").Emit()
	}
	ReportWarning(r, EvalFailed, source.Span{Start: 9, End: 11}, "boom is not defined").Emit()
	if bag.Len() != 2 {
		t.Fatalf("got %d diagnostics, want 2", bag.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportError(BagReporter{Bag: bag}, BlkMissingEnd, source.Span{}, "missing").
		WithNote(source.Span{Start: 1, End: 2}, "opened here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("Len = %d, want 1", bag.Len())
	}
	if n := len(bag.Items()[0].Notes); n != 1 {
		t.Fatalf("notes = %d, want 1", n)
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/proj")
	id := fs.AddVirtual("/proj/views/list.html", []byte("<ul>\n<!-- ko if: x: -->\n</ul>\n"))
	diags := []*Diagnostic{
		New(SevWarning, BlkExtraEnd, source.Span{File: id, Start: 0, End: 4}, "extra end tag found"),
		New(SevError, BlkMissingEnd, source.Span{File: id, Start: 5, End: 23}, "missing end tag for if: x:\n"),
	}
	got := FormatShortDiagnostics(diags, fs, false)
	want := "warning BLK1002 views/list.html:1:1 extra end tag found\n" +
		"error BLK1001 views/list.html:2:1 missing end tag for if: x:"
	if got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}
