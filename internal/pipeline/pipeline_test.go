package pipeline

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestTimings(t *testing.T) {
	var tm Timings
	tm.Add(StageParse, 2*time.Millisecond)
	tm.Add(StageParse, 3*time.Millisecond)
	tm.Add(StageRender, time.Millisecond)
	if !tm.Has(StageParse) || tm.Has(StageWrite) {
		t.Error("Has")
	}
	if got := tm.Duration(StageParse); got != 5*time.Millisecond {
		t.Errorf("parse = %v", got)
	}
	if got := tm.Sum(); got != 6*time.Millisecond {
		t.Errorf("sum = %v", got)
	}
	if got := tm.Sum(StageRender, StageWrite); got != time.Millisecond {
		t.Errorf("partial sum = %v", got)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	EmitQueued(&r, []string{"a.html", "b.html"})
	Emit(&r, Event{File: "a.html", Stage: StageParse, Status: StatusWorking})
	Emit(&r, Event{File: "a.html", Stage: StageRender, Status: StatusDone})
	Emit(&r, Event{Stage: StageRender, Status: StatusDone})
	Emit(nil, Event{File: "dropped"})

	want := map[string]Status{"a.html": StatusDone, "b.html": StatusQueued}
	if diff := cmp.Diff(want, r.Last()); diff != "" {
		t.Errorf("last (-want +got):\n%s", diff)
	}
	if len(r.Events()) != 5 {
		t.Errorf("events: %d", len(r.Events()))
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "x"})
	if ev := <-ch; ev.File != "x" {
		t.Errorf("got %+v", ev)
	}
	ChannelSink{}.OnEvent(Event{File: "y"})
}

func TestDisplayPaths(t *testing.T) {
	base := t.TempDir()
	files := []string{
		filepath.Join(base, "views", "b.html"),
		filepath.Join(base, "a.html"),
		filepath.Join(base, "a.html"),
		"",
	}
	want := []string{"a.html", "views/b.html"}
	if diff := cmp.Diff(want, DisplayPaths(files, base)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	outside := filepath.Join(filepath.Dir(base), "other.html")
	if got := DisplayPath(outside, base); got != filepath.ToSlash(outside) {
		t.Errorf("outside base: %q", got)
	}
}
