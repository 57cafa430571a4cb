package eval

import (
	"reflect"
	"strings"

	"golang.org/x/net/html"

	"htmlizer/internal/reactive"
)

// members is the part of the environment contributed by the context.
func (c *Context) members() map[string]any {
	m := map[string]any{
		"$root":          reactive.Unwrap(c.Root),
		"$parent":        reactive.Unwrap(c.Parent),
		"$parents":       c.Parents,
		"$data":          reactive.Unwrap(c.Data),
		"$rawData":       c.RawData,
		"$parentContext": nil,
	}
	if c.ParentContext != nil {
		m["$parentContext"] = c.ParentContext.members()
	}
	if c.Index != nil {
		m["$index"] = c.Index.Get()
	}
	for _, a := range c.Aliases {
		m[a.Name] = reactive.Unwrap(a.Value)
	}
	return m
}

// Env builds the expression environment: context members overlaid by the
// members of data. Data wins on name collisions.
func Env(c *Context, data any, elem *html.Node) map[string]any {
	if c == nil {
		c = NewRoot(data)
	}
	env := c.members()
	ctx := make(map[string]any, len(env))
	for k, v := range env {
		ctx[k] = v
	}
	env["$context"] = ctx
	env["$element"] = elem
	overlay(env, reactive.Unwrap(data))
	return env
}

func overlay(env map[string]any, data any) {
	switch d := data.(type) {
	case nil:
		return
	case map[string]any:
		for k, v := range d {
			env[k] = reactive.Unwrap(v)
		}
		return
	}
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return
		}
		iter := v.MapRange()
		for iter.Next() {
			env[iter.Key().String()] = reactive.Unwrap(iter.Value().Interface())
		}
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			val := reactive.Unwrap(v.Field(i).Interface())
			env[f.Name] = val
			if name := jsonName(f); name != "" && name != f.Name {
				env[name] = val
			}
		}
	}
}

func jsonName(f reflect.StructField) string {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}
