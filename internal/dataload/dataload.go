// Package dataload reads the data a template is rendered against.
//
// The format follows the file extension: .json, .toml, .mp / .msgpack.
// Every decoder yields plain maps, slices and scalars so expressions see
// the same shapes whatever the source.
package dataload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
)

// Format is a data file encoding.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatTOML
	FormatMsgpack
)

var ErrUnknownFormat = errors.New("unknown data format")

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	case FormatMsgpack:
		return "msgpack"
	}
	return "unknown"
}

// FormatOf picks the format from the path extension. "-" means JSON on stdin.
func FormatOf(path string) Format {
	if path == "-" {
		return FormatJSON
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	case ".mp", ".msgpack":
		return FormatMsgpack
	}
	return FormatUnknown
}

// Load reads path; "-" reads stdin. An empty path yields an empty object.
func Load(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	format := FormatOf(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	data, err := Decode(raw, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// Decode parses raw in the given format. The top level must be an object.
func Decode(raw []byte, format Format) (map[string]any, error) {
	var v any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		v = normalize(v)
	case FormatTOML:
		m := map[string]any{}
		if _, err := toml.Decode(string(raw), &m); err != nil {
			return nil, err
		}
		v = normalize(m)
	case FormatMsgpack:
		if err := msgpack.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		v = normalize(v)
	default:
		return nil, ErrUnknownFormat
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top level is %T, want an object", v)
	}
	return m, nil
}

// normalize converts decoder specific shapes: json.Number becomes int or
// float64, integer widths collapse to int, msgpack maps get string keys.
func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i)
		}
		f, _ := x.Float64()
		return f
	case int64:
		return int(x)
	case int8:
		return int(x)
	case int16:
		return int(x)
	case int32:
		return int(x)
	case uint8:
		return int(x)
	case uint16:
		return int(x)
	case uint32:
		return int(x)
	case uint64:
		return int(x)
	case uint:
		return int(x)
	case float32:
		return float64(x)
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	case []map[string]any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	}
	return v
}

// Encode writes data in the given format.
func Encode(w io.Writer, data map[string]any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(data)
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		return enc.Encode(data)
	}
	return ErrUnknownFormat
}
