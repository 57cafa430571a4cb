package eval

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"htmlizer/internal/reactive"
)

type user struct {
	Name  string `json:"name"`
	Admin bool
	Tags  []string `json:"tags"`
	note  string
}

func TestEvalScopes(t *testing.T) {
	root := map[string]any{"title": "Users", "count": reactive.NewCell(3)}
	ctx := NewRoot(root)
	u := &user{Name: "ann", Admin: true, Tags: []string{"x"}, note: "hidden"}
	child := ctx.Derive(u).WithIndex(reactive.NewCell(2)).WithAlias("row", u)

	ev := NewEvaluator()
	tests := []struct {
		src  string
		want any
	}{
		{"name", "ann"},
		{"Name + '!'", "ann!"},
		{"Admin && len(tags) == 1", true},
		{"$root.title", "Users"},
		{"$root.count", 3},
		{"$parent.title", "Users"},
		{"$index", 2},
		{"row.name", "ann"},
		{"$context.$index + 1", 3},
		{"$parentContext.$data.title", "Users"},
		{"missing", nil},
		{"note", nil},
	}
	for _, tt := range tests {
		got, err := ev.Eval(tt.src, child, u, nil)
		if err != nil {
			t.Errorf("Eval(%q): %v", tt.src, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Eval(%q) (-want +got):\n%s", tt.src, diff)
		}
	}
}

func TestDataShadowsContext(t *testing.T) {
	ctx := NewRoot(nil).WithAlias("title", "alias")
	got, err := NewEvaluator().Eval("title", ctx, map[string]any{"title": "data"}, nil)
	if err != nil || got != "data" {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestEvalFailures(t *testing.T) {
	ev := NewEvaluator()
	ctx := NewRoot(map[string]any{})
	for _, src := range []string{"nothing.deep.field", "1 +", "!missing"} {
		got, err := ev.Eval(src, ctx, ctx.Data, nil)
		if err == nil {
			t.Errorf("Eval(%q) succeeded with %v", src, got)
		}
		if got != nil {
			t.Errorf("Eval(%q) = %v, want nil", src, got)
		}
	}
	// compile errors are cached
	n := ev.Len()
	_, _ = ev.Eval("1 +", ctx, nil, nil)
	if ev.Len() != n {
		t.Fatal("failed compilation was not cached")
	}
	if _, err := ev.Compile("1 +"); err == nil || !strings.Contains(err.Error(), `compile "1 +"`) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDeriveChain(t *testing.T) {
	a, b, c := map[string]any{"n": "a"}, map[string]any{"n": "b"}, map[string]any{"n": "c"}
	ctx := NewRoot(a).Derive(b).Derive(c)
	if diff := cmp.Diff([]any{b, a}, ctx.Parents); diff != "" {
		t.Fatal(diff)
	}
	if ctx.ParentContext.Data == nil || ctx.Root == nil {
		t.Fatal("broken chain")
	}
	aliased := NewRoot(a).WithAlias("row", 1)
	inner := aliased.Derive(b)
	if v, ok := inner.Alias("row"); !ok || v != 1 {
		t.Fatal("alias not inherited")
	}
	inner2 := inner.WithAlias("row", 2)
	if v, _ := inner2.Alias("row"); v != 2 {
		t.Fatal("alias not shadowed")
	}
	if v, _ := inner.Alias("row"); v != 1 {
		t.Fatal("WithAlias mutated its receiver")
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{nil, false}, {false, false}, {0, false}, {0.0, false}, {"", false},
		{uint8(0), false}, {(*user)(nil), false},
		{true, true}, {1, true}, {"0", true}, {[]int{}, true}, {map[string]any{}, true},
		{reactive.NewCell(0), false}, {reactive.NewCell("x"), true},
	}
	for _, tt := range tests {
		if got := Truthy(tt.v); got != tt.want {
			t.Errorf("Truthy(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestConversions(t *testing.T) {
	if got := ToString(2.5); got != "2.5" {
		t.Errorf("ToString(2.5) = %q", got)
	}
	if got := ToString(nil); got != "" {
		t.Errorf("ToString(nil) = %q", got)
	}
	list, ok := ToList([]string{"a", "b"})
	if !ok || len(list) != 2 || list[1] != "b" {
		t.Errorf("ToList = %v %v", list, ok)
	}
	if _, ok := ToList("abc"); ok {
		t.Error("string must not be a list")
	}
	if !IsScalar(3) || !IsScalar("x") || IsScalar(true) {
		t.Error("IsScalar misclassified")
	}
}
