package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"htmlizer/internal/diag"
	"htmlizer/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSetWithBase("/home/user/site")
	content := []byte("<ul data-bind=\"foreach: items\">\n  <!-- ko text: name: -->\n</ul>\n")
	id := fs.AddVirtual("/home/user/site/views/list.html", content)
	f := fs.Get(id)
	sp, ok := f.Locate([]byte("<!-- ko text: name: -->"), 0)
	if !ok {
		t.Fatal("marker not found")
	}
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.BlkMissingEnd, sp, "missing end tag for text: name:").
		WithNote(sp, "statement opened here"))
	return bag, fs
}

func TestPathModes(t *testing.T) {
	bag, fs := sampleBag(t)
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"absolute", PathModeAbsolute, "/home/user/site/views/list.html:2:3"},
		{"relative", PathModeRelative, "views/list.html:2:3"},
		{"basename", PathModeBasename, "list.html:2:3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, Context: 1})
			out := buf.String()
			if !strings.Contains(out, tt.contains) {
				t.Errorf("expected %q in output:\n%s", tt.contains, out)
			}
			if !strings.Contains(out, "ERROR BLK1001") {
				t.Errorf("missing severity/code in output:\n%s", out)
			}
		})
	}
}

func TestPrettyUnderline(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	out := buf.String()
	want := "   | " + "  ^" + strings.Repeat("~", len("<!-- ko text: name: -->")-1)
	if !strings.Contains(out, want) {
		t.Errorf("expected underline %q in output:\n%s", want, out)
	}
	if !strings.Contains(out, "note list.html:2:3: statement opened here") {
		t.Errorf("missing note in output:\n%s", out)
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeRelative}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 {
		t.Fatalf("Count = %d, want 1", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "BLK1001" || d.Location.File != "views/list.html" || d.Location.StartLine != 2 {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
	if len(d.Notes) != 0 {
		t.Fatalf("notes must be omitted without IncludeNotes")
	}
}
