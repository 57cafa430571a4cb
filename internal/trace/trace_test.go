package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLevelScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseNames(t *testing.T) {
	for i, name := range []string{"off", "error", "phase", "detail", "debug"} {
		l, err := ParseLevel(strings.ToUpper(name))
		if err != nil || l != Level(i) || l.String() != name {
			t.Errorf("ParseLevel(%q) = %v, %v", name, l, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil || !strings.Contains(err.Error(), "off|error|phase|detail|debug") {
		t.Errorf("bad level error: %v", err)
	}
	m, err := ParseMode(" ring ")
	if err != nil || m != ModeRing {
		t.Errorf("ParseMode(ring) = %v, %v", m, err)
	}
	if _, err := ParseMode(""); err == nil {
		t.Error("empty mode accepted")
	}
	if got := Scope(99).String(); got != "unknown" {
		t.Errorf("Scope(99) = %q", got)
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	root := Begin(tr, ScopeDriver, "render", 0)
	file := BeginFile(tr, "list.html", root.ID())
	pass := file.Child(tr, ScopePass, "prepare")
	Point(tr, ScopeNode, "list.html", "eval", "dropped at detail level", file.ID())
	pass.End("")
	file.WithExtra("views", "3").End("")
	root.End("ok")

	out := buf.String()
	for _, want := range []string{"→ render", "→ list.html", "→ prepare @list.html", "← list.html {views=3}", "← render (ok)"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "eval") {
		t.Errorf("node point leaked at detail level:\n%s", out)
	}
}

func TestNDJSONCarriesFile(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeNode, "a.html", "eval", "text: boom", 7)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	delete(got, "time")
	delete(got, "seq")
	want := map[string]any{
		"kind":      "point",
		"scope":     "node",
		"parent_id": float64(7),
		"file":      "a.html",
		"name":      "eval",
		"detail":    "text: boom",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("event (-want +got):\n%s", diff)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(r, ScopeNode, name+".html", name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if got := r.ForFile("c.html"); len(got) != 1 || got[0].Name != "c" {
		t.Errorf("ForFile: %+v", got)
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("expected Nop without tracer")
	}
	r := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	span := BeginFile(FromContext(ctx), "x.html", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() {
		t.Fatal("span id not propagated")
	}
	child := SpanFrom(ctx).Child(r, ScopePass, "render")
	child.End("")
	evs := r.ForFile("x.html")
	if len(evs) != 3 || evs[2].ParentID != span.ID() {
		t.Errorf("child events: %+v", evs)
	}
}

func TestInertSpanKeepsFile(t *testing.T) {
	r := NewRingTracer(8, LevelPhase)
	file := BeginFile(r, "y.html", 0) // filtered at phase level
	if file.ID() != 0 || file.End("") != 0 {
		t.Fatal("file span is live at phase level")
	}
	file.Child(r, ScopePass, "parse").End("")
	evs := r.Snapshot()
	if len(evs) != 2 || evs[0].File != "y.html" || evs[0].ParentID != 0 {
		t.Errorf("events: %+v", evs)
	}
}

func TestNewConfig(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("LevelOff must give disabled tracer, got %v %v", tr, err)
	}
	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(*MultiTracer); !ok || RingOf(tr) == nil {
		t.Fatalf("ModeBoth must produce a MultiTracer with a ring, got %T", tr)
	}
	tr, err = New(Config{Level: LevelPhase, Mode: ModeRing})
	if err != nil || RingOf(tr) == nil {
		t.Fatalf("ModeRing: %T %v", tr, err)
	}
	if _, err := New(Config{Level: LevelPhase}); err == nil {
		t.Error("missing mode accepted")
	}
}
