package component

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrRefUnresolved is returned when a reference path cannot be followed.
var ErrRefUnresolved = errors.New("reference target cannot be resolved")

// Assign stores v at the dotted path inside root: "panel" sets root.panel,
// "dialogs.confirm" sets root.dialogs.confirm. Maps with string keys and
// pointers to structs (exported fields or json names) can be traversed.
func Assign(root any, path string, v any) error {
	parts := strings.Split(strings.TrimSpace(path), ".")
	if len(parts) == 0 || parts[0] == "" {
		return fmt.Errorf("%w: empty path", ErrRefUnresolved)
	}
	cur := reflect.ValueOf(root)
	for _, part := range parts[:len(parts)-1] {
		next, ok := member(cur, part)
		if !ok {
			return fmt.Errorf("%w: %q has no member %q", ErrRefUnresolved, path, part)
		}
		cur = next
	}
	return set(cur, parts[len(parts)-1], v, path)
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func member(v reflect.Value, name string) (reflect.Value, bool) {
	v = indirect(v)
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		m := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		return m, m.IsValid()
	case reflect.Struct:
		f := field(v, name)
		return f, f.IsValid()
	}
	return reflect.Value{}, false
}

func field(v reflect.Value, name string) reflect.Value {
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if f.Name == name || tag == name {
			return v.Field(i)
		}
	}
	return reflect.Value{}
}

func set(target reflect.Value, name string, v any, path string) error {
	target = indirect(target)
	if !target.IsValid() {
		return fmt.Errorf("%w: %q has a nil parent", ErrRefUnresolved, path)
	}
	val := reflect.ValueOf(v)
	if !val.IsValid() {
		return fmt.Errorf("%w: nil value for %q", ErrRefUnresolved, path)
	}
	switch target.Kind() {
	case reflect.Map:
		kt, et := target.Type().Key(), target.Type().Elem()
		if kt.Kind() != reflect.String || !val.Type().AssignableTo(et) {
			return fmt.Errorf("%w: cannot store %T in %s", ErrRefUnresolved, v, target.Type())
		}
		if target.IsNil() {
			return fmt.Errorf("%w: %q has a nil map parent", ErrRefUnresolved, path)
		}
		target.SetMapIndex(reflect.ValueOf(name).Convert(kt), val)
		return nil
	case reflect.Struct:
		f := field(target, name)
		if !f.IsValid() || !f.CanSet() {
			return fmt.Errorf("%w: field %q of %s is not settable", ErrRefUnresolved, name, target.Type())
		}
		if !val.Type().AssignableTo(f.Type()) {
			return fmt.Errorf("%w: cannot assign %T to field %q", ErrRefUnresolved, v, name)
		}
		f.Set(val)
		return nil
	}
	return fmt.Errorf("%w: %s is not an object", ErrRefUnresolved, target.Type())
}
