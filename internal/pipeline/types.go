// Package pipeline carries progress events and stage timings of a
// multi-file run from the driver to whatever displays them.
package pipeline

import "time"

// Stage describes a phase of processing one template file.
type Stage string

const (
	StageLoad    Stage = "load"
	StageParse   Stage = "parse"
	StagePrepare Stage = "prepare"
	StageRender  Stage = "render"
	StageWrite   Stage = "write"
)

// Stages lists the stages in the order a file passes them.
var Stages = []Stage{StageLoad, StageParse, StagePrepare, StageRender, StageWrite}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
	// StatusCached marks a file whose result was replayed from the disk cache.
	StatusCached Status = "cached"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Emit sends ev to sink; a nil sink drops it.
func Emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

// EmitQueued announces files before any work starts.
func EmitQueued(sink ProgressSink, files []string) {
	for _, f := range files {
		Emit(sink, Event{File: f, Status: StatusQueued})
	}
}

// Timings holds accumulated stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

// Add accumulates dur into stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] += dur
}

func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Sum returns the total of the given stages, or of every stage when none are named.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if len(stages) == 0 {
		stages = Stages
	}
	var total time.Duration
	for _, s := range stages {
		total += t.stages[s]
	}
	return total
}
