package reactive

import "testing"

func TestCellSetNotifies(t *testing.T) {
	c := NewCell(1)
	var got []any
	cancel := c.Subscribe(func(old, cur any) { got = append(got, cur) })
	c.Set(2)
	c.Set(2)
	cancel()
	c.Set(3)
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("notifications = %v, want [2]", got)
	}
	if c.Get() != 3 {
		t.Fatalf("Get = %v", c.Get())
	}
}

func TestUnwrap(t *testing.T) {
	inner := NewCell("x")
	outer := NewCell(inner)
	if got := Unwrap(outer); got != "x" {
		t.Fatalf("Unwrap = %v", got)
	}
	if got := Unwrap(5); got != 5 {
		t.Fatalf("Unwrap(5) = %v", got)
	}
	var nilCell *Cell
	if got := Unwrap(nilCell); got != nil {
		t.Fatalf("Unwrap(nil cell) = %v", got)
	}
	s := NewCell([]int{1})
	s.Set([]int{1}) // slices are not comparable; must not panic
}
