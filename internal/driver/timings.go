package driver

import (
	"encoding/json"
	"fmt"
	"time"

	"htmlizer/internal/diag"
	"htmlizer/internal/observ"
	"htmlizer/internal/pipeline"
	"htmlizer/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases,omitempty"`
	Files   []fileTiming         `json:"files,omitempty"`
}

type fileTiming struct {
	Path   string             `json:"path"`
	Cached bool               `json:"cached,omitempty"`
	Stages map[string]float64 `json:"stages_ms"`
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// AppendTimings adds an informational diagnostic summarising a run: the
// timer report plus the stage durations of every file in results. The note
// carries the payload as JSON. A full bag is grown so timings are never
// dropped.
func AppendTimings(bag *diag.Bag, kind string, report observ.Report, results []*FileResult) {
	if bag == nil {
		return
	}
	if kind == "" {
		kind = "pipeline"
	}
	payload := timingPayload{Kind: kind, TotalMS: report.TotalMS, Phases: report.Phases}
	for _, res := range results {
		if res == nil {
			continue
		}
		ft := fileTiming{Path: res.Path, Cached: res.Cached, Stages: make(map[string]float64)}
		for _, st := range pipeline.Stages {
			if res.Timings.Has(st) {
				ft.Stages[string(st)] = millis(res.Timings.Duration(st))
			}
		}
		payload.Files = append(payload.Files, ft)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms, %d file(s)", kind, report.TotalMS, len(payload.Files))
	entry := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg).WithNote(source.Span{}, string(data))
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
