package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("page.html", []byte("<p>one</p>"), 0)
	id2 := fs.Add("page.html", []byte("<p>two</p>"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}

	latest, ok := fs.GetLatest("page.html")
	if !ok || latest != id2 {
		t.Fatalf("expected latest id %d, got %d (ok=%v)", id2, latest, ok)
	}
	if got := string(fs.Get(id1).Content); got != "<p>one</p>" {
		t.Errorf("old version content changed: %q", got)
	}
	if fs.Get(FileID(42)) != nil {
		t.Errorf("expected nil for unknown id")
	}
}

func TestAddVirtualNormalizes(t *testing.T) {
	fs := NewFileSet()
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a\r\nb\r\n")...)
	id := fs.AddVirtual("inline", raw)
	f := fs.Get(id)

	if string(f.Content) != "a\nb\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	for _, flag := range []FileFlags{FileVirtual, FileHadBOM, FileNormalizedCRLF} {
		if f.Flags&flag == 0 {
			t.Errorf("expected flag %b to be set (flags=%b)", flag, f.Flags)
		}
	}
	want := []uint32{1, 3}
	if len(f.LineIdx) != len(want) || f.LineIdx[0] != want[0] || f.LineIdx[1] != want[1] {
		t.Errorf("LineIdx = %v, want %v", f.LineIdx, want)
	}
}

func TestNormalizeNFC(t *testing.T) {
	// "e" + combining acute accent must become a single precomposed rune.
	out, flags := Normalize([]byte("cafe\u0301"))
	if string(out) != "caf\u00e9" {
		t.Fatalf("expected NFC form, got %q", out)
	}
	if flags&FileNormalizedNFC == 0 {
		t.Errorf("expected FileNormalizedNFC flag")
	}
}

func TestResolveAndGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.html", []byte("<ul>\n  <li>x</li>\n</ul>"))
	f := fs.Get(id)

	sp, ok := f.Locate([]byte("<li>"), 0)
	if !ok {
		t.Fatal("expected to locate <li>")
	}
	start, end := fs.Resolve(sp)
	if start != (LineCol{Line: 2, Col: 3}) {
		t.Errorf("start = %+v", start)
	}
	if end != (LineCol{Line: 2, Col: 7}) {
		t.Errorf("end = %+v", end)
	}
	if got := f.GetLine(2); got != "  <li>x</li>" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Errorf("GetLine(9) = %q, want empty", got)
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "card.html")
	if err := os.WriteFile(path, []byte("<div>\r\n</div>"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "<div>\n</div>" {
		t.Errorf("content = %q", f.Content)
	}
	if got := f.FormatPath("relative", dir); got != "card.html" {
		t.Errorf("relative path = %q", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Errorf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 1}); got != a {
		t.Errorf("cross-file Cover must keep receiver, got %v", got)
	}
}
