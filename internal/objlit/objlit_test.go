package objlit

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want []Pair
	}{
		{"text: name", []Pair{{"text", "name"}}},
		{" if: a && b , css: {active: sel, 'is-big': size > 3} ", []Pair{
			{"if", "a && b"},
			{"css", "{active: sel, 'is-big': size > 3}"},
		}},
		{`attr: {title: "a, b: c"}, visible: f(1, [2, 3])`, []Pair{
			{"attr", `{title: "a, b: c"}`},
			{"visible", "f(1, [2, 3])"},
		}},
		{`"quoted-key": x ? 1 : 2`, []Pair{{"quoted-key", "x ? 1 : 2"}}},
		{"bare, next: 1,", []Pair{{"bare", ""}, {"next", "1"}}},
		{"", nil},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Parse(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"a: (1", ErrUnbalanced},
		{"a: 1)", ErrUnbalanced},
		{"a: 'x", ErrUnterminated},
		{": 1", ErrEmptyKey},
	}
	for _, tt := range tests {
		if _, err := Parse(tt.in); !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestHelpers(t *testing.T) {
	if got := Strip(" {data: items, as: 'row'} "); got != "data: items, as: 'row'" {
		t.Fatalf("Strip = %q", got)
	}
	pairs, err := Parse(Strip("{data: items, as: 'row'}"))
	if err != nil {
		t.Fatal(err)
	}
	as, ok := Lookup(pairs, "as")
	if !ok || Unquote(as) != "row" {
		t.Fatalf("as = %q %v", as, ok)
	}
	if diff := cmp.Diff([]string{"foreach", "attr"}, Keys("foreach: xs, attr: {id: i}")); diff != "" {
		t.Fatal(diff)
	}
	if !IsObject(" {a: 1}") || IsObject("items") {
		t.Fatal("IsObject misclassified")
	}
}
