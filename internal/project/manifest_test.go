package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[render]
data = "data/page.json"
no_conflict = true
jobs = 3

[components]
x-card = "views/card.html"
"ui.dialog" = "views/dialog.html"
`)
	nested := filepath.Join(root, "views", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Load(nested)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	wantRoot, _ := filepath.Abs(root)
	if m.Root != wantRoot {
		t.Errorf("root %q, want %q", m.Root, wantRoot)
	}
	if !m.Config.Render.NoConflict || m.Jobs() != 3 {
		t.Errorf("render config %+v", m.Config.Render)
	}
	if got := m.DataPath(); got != filepath.Join(wantRoot, "data", "page.json") {
		t.Errorf("data path %q", got)
	}
	want := []Component{
		{Class: "ui.dialog", File: filepath.Join(wantRoot, "views", "dialog.html")},
		{Class: "x.card", File: filepath.Join(wantRoot, "views", "card.html")},
	}
	if diff := cmp.Diff(want, m.Components()); diff != "" {
		t.Errorf("components (-want +got):\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	m, ok, err := Load(t.TempDir())
	if err != nil || ok || m != nil {
		t.Fatalf("got %v %v %v", m, ok, err)
	}
	// nil manifest falls back to defaults
	if m.DataPath() != "" || m.Jobs() < 1 || m.Components() != nil {
		t.Error("nil manifest defaults")
	}
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "[render]\nthreads = 2\n"},
		{"negative jobs", "[render]\njobs = -1\n"},
		{"empty data", "[render]\ndata = \" \"\n"},
		{"single segment component", "[components]\ncard = \"card.html\"\n"},
		{"empty template", "[components]\nx-card = \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			if _, err := LoadConfig(path); !errors.Is(err, ErrBadManifest) {
				t.Errorf("got %v, want ErrBadManifest", err)
			}
		})
	}

	path := writeManifest(t, t.TempDir(), "[render\n")
	if _, err := LoadConfig(path); err == nil || errors.Is(err, ErrBadManifest) {
		t.Errorf("syntax error: %v", err)
	}
}

func TestClassName(t *testing.T) {
	tests := []struct {
		in, want string
		ok       bool
	}{
		{"x-card", "x.card", true},
		{"UI.Dialog", "ui.dialog", true},
		{"my-big-card", "my.big.card", true},
		{"card", "", false},
		{"x--card", "", false},
	}
	for _, tt := range tests {
		got, err := ClassName(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ClassName(%q) = %q, %v", tt.in, got, err)
		}
	}
}
