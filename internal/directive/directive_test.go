package directive

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseKeepsOrder(t *testing.T) {
	bs, err := Parse("attr: {id: x}, text: name, css: {on: y}")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"attr", "text", "css"}, bs.Names()); diff != "" {
		t.Fatal(diff)
	}
	if expr, _ := bs.Get("text"); expr != "name" {
		t.Fatalf("text = %q", expr)
	}
	if _, ok := bs.Structural(); ok {
		t.Fatal("no structural binding expected")
	}
	if _, err := Parse("text: (x"); !errors.Is(err, ErrBadBinding) {
		t.Fatalf("want ErrBadBinding, got %v", err)
	}
}

func TestCheckConflicts(t *testing.T) {
	tests := []struct {
		attr      string
		component bool
		want      error
	}{
		{"if: a, css: {x: y}", false, nil},
		{"if: a, foreach: b", false, ErrBindingConflict},
		{"text: a, html: b", false, ErrBindingConflict},
		{"attr: {id: a}", true, nil},
		{"css: {x: y}", true, ErrComponentBinding},
	}
	for _, tt := range tests {
		bs, err := Parse(tt.attr)
		if err != nil {
			t.Fatal(err)
		}
		err = CheckConflicts(bs, tt.component)
		if tt.want == nil && err != nil || tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("CheckConflicts(%q, %v) = %v, want %v", tt.attr, tt.component, err, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		data       string
		noConflict bool
		kind       MarkerKind
		key        string
	}{
		{" ko if: x ", false, OpenMarker, "if"},
		{"hz foreach: {data: xs, as: 'r'}", false, OpenMarker, "foreach"},
		{" /ko ", false, CloseMarker, ""},
		{"/hz", false, CloseMarker, ""},
		{"ko if: x", true, NotMarker, ""},
		{"/ko", true, NotMarker, ""},
		{"hz if: x", true, OpenMarker, "if"},
		{"plain comment", false, NotMarker, ""},
		{"ko if", false, NotMarker, ""},
	}
	for _, tt := range tests {
		kind, key := Classify(tt.data, tt.noConflict)
		if kind != tt.kind || key != tt.key {
			t.Errorf("Classify(%q, %v) = %v %q, want %v %q", tt.data, tt.noConflict, kind, key, tt.kind, tt.key)
		}
	}
}

func TestParseStatement(t *testing.T) {
	b, err := ParseStatement(" ko foreach: {data: items, as: 'row'} ")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Binding{Name: "foreach", Expr: "{data: items, as: 'row'}"}, b); diff != "" {
		t.Fatal(diff)
	}
	if _, err := ParseStatement("ko if:"); !errors.Is(err, ErrMalformedStatement) {
		t.Fatalf("want ErrMalformedStatement, got %v", err)
	}
}
