package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"htmlizer/internal/pipeline"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan pipeline.Event)
	m := NewProgressModel("render", []string{"a.html", "b.html"}, events).(*progressModel)

	steps := []pipeline.Event{
		{File: "a.html", Stage: pipeline.StageParse, Status: pipeline.StatusWorking},
		{File: "b.html", Status: pipeline.StatusCached},
		{File: "unknown.html", Status: pipeline.StatusError},
	}
	for _, ev := range steps {
		m.Update(eventMsg(ev))
	}
	got := []string{m.items[0].status, m.items[1].status}
	if diff := cmp.Diff([]string{"parsing", "cached"}, got); diff != "" {
		t.Errorf("statuses (-want +got):\n%s", diff)
	}
	if m.finished() != 1 {
		t.Errorf("finished = %d", m.finished())
	}
	// a.html is at parse (1/5), b.html is complete
	if got, want := m.percent(), 0.6; math.Abs(got-want) > 1e-9 {
		t.Errorf("percent = %v, want %v", got, want)
	}

	view := m.View()
	for _, s := range []string{"render (1/2)", "a.html", "parsing", "cached"} {
		if !strings.Contains(view, s) {
			t.Errorf("view lacks %q:\n%s", s, view)
		}
	}

	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Error("model did not finish")
	}
	if !strings.Contains(m.View(), "done: render") {
		t.Errorf("final view:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"views/very/long/name.html", 10, "view..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
