package main

import (
	"fmt"
	"io"
	"time"

	"htmlizer/internal/driver"
	"htmlizer/internal/pipeline"
)

// stageTotals adds up the stage timings of every file.
func stageTotals(results []*driver.FileResult) pipeline.Timings {
	var total pipeline.Timings
	for _, res := range results {
		if res == nil {
			continue
		}
		for _, st := range pipeline.Stages {
			if res.Timings.Has(st) {
				total.Add(st, res.Timings.Duration(st))
			}
		}
	}
	return total
}

func printStageTimings(out io.Writer, timings pipeline.Timings) {
	for _, st := range pipeline.Stages {
		if timings.Has(st) {
			fmt.Fprintf(out, "%-8s %.1f ms\n", st, toMillis(timings.Duration(st)))
		}
	}
	fmt.Fprintf(out, "%-8s %.1f ms\n", "total", toMillis(timings.Sum()))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
