package main

import (
	"fmt"
	"io"
	"strings"

	"htmlizer/internal/diag"
	"htmlizer/internal/diagfmt"
	"htmlizer/internal/driver"
	"htmlizer/internal/source"
)

type outputFormat string

const (
	formatPretty outputFormat = "pretty"
	formatJSON   outputFormat = "json"
	formatShort  outputFormat = "short"
)

func readFormat(value string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case formatPretty, formatJSON, formatShort:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected pretty|json|short)", value)
	}
}

// collect merges the component diagnostics and those of every file into one
// sorted bag.
func collect(compBag *diag.Bag, results []*driver.FileResult) *diag.Bag {
	all := diag.NewBag(1)
	all.Merge(compBag)
	for _, res := range results {
		if res != nil {
			all.Merge(res.Bag)
		}
	}
	all.Sort()
	return all
}

func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, format outputFormat, useColor bool) error {
	switch format {
	case formatJSON:
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     true,
		})
	case formatShort:
		_, err := io.WriteString(w, diag.FormatShortDiagnostics(bag.Items(), fs, false))
		return err
	default:
		if bag.Len() == 0 {
			return nil
		}
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     useColor,
			Context:   1,
			PathMode:  diagfmt.PathModeRelative,
			ShowNotes: true,
		})
		return nil
	}
}
