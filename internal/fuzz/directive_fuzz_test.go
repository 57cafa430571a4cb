package fuzztests

import (
	"testing"

	"htmlizer/internal/directive"
	"htmlizer/internal/objlit"
)

func FuzzDirectiveParse(f *testing.F) {
	addDirectiveSeeds(f)
	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		pairs, err := objlit.Parse(input)
		if err == nil {
			for _, p := range pairs {
				if p.Key == "" {
					t.Fatalf("empty key accepted in %q", input)
				}
			}
		}
		_ = objlit.Keys(input)
		_ = objlit.IsObject(input)

		bs, err := directive.Parse(input)
		if err == nil && len(bs) != len(pairs) {
			t.Fatalf("directive.Parse found %d bindings, objlit %d", len(bs), len(pairs))
		}
		if err == nil {
			_ = directive.CheckConflicts(bs, false)
		}

		for _, nc := range []bool{false, true} {
			kind, key := directive.Classify(input, nc)
			if kind != directive.OpenMarker && key != "" {
				t.Fatalf("Classify(%q) returned key %q for kind %d", input, key, kind)
			}
		}
		_, _ = directive.ParseStatement(input)
	})
}
