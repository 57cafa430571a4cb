package fuzztests

import (
	"testing"
	"time"

	"htmlizer/internal/blocks"
	"htmlizer/internal/diag"
	"htmlizer/internal/dom"
	"htmlizer/internal/source"
	"htmlizer/internal/template"
	"htmlizer/internal/testkit"
)

// renderTimeout bounds compile plus render of one input; exceeding it means
// a loop that never terminates.
const renderTimeout = 5 * time.Second

func FuzzTemplateCompile(f *testing.F) {
	addMarkupSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.html", input))
		bag := diag.NewBag(256)

		done := make(chan struct{})
		go func() {
			defer close(done)
			tpl, err := template.New(string(file.Content), template.Options{
				Reporter: diag.BagReporter{Bag: bag},
				File:     file,
			})
			if err != nil {
				return
			}
			_ = tpl.ToString(map[string]any{}, nil)
		}()
		select {
		case <-done:
		case <-time.After(renderTimeout):
			t.Fatalf("compile did not finish within %v", renderTimeout)
		}
		if err := testkit.CheckDiagnosticSpans(bag, fs); err != nil {
			t.Fatal(err)
		}
	})
}

func FuzzBlockMatch(f *testing.F) {
	addMarkupSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		frag, err := dom.ParseFragment(string(input))
		if err != nil {
			return
		}
		nodes := dom.Flatten(frag)
		for _, nc := range []bool{false, true} {
			table, err := blocks.Match(nodes, blocks.Options{NoConflict: nc})
			if err != nil {
				continue
			}
			if err := testkit.CheckBlockTable(table, nodes); err != nil {
				t.Fatal(err)
			}
		}
	})
}
