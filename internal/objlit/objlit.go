// Package objlit splits binding strings of the form `key: expr, key2: expr2`.
//
// Values are kept as source text; nested (), [] and {} groups and quoted
// strings are skipped over when looking for separators.
package objlit

import (
	"errors"
	"fmt"
	"strings"
)

// Pair is one `key: value` entry in authored order.
type Pair struct {
	Key   string
	Value string
}

var (
	ErrUnbalanced   = errors.New("unbalanced brackets")
	ErrUnterminated = errors.New("unterminated string")
	ErrEmptyKey     = errors.New("empty key")
)

// Parse splits s into pairs. A bare entry without a colon yields an empty value.
func Parse(s string) ([]Pair, error) {
	var (
		out   []Pair
		depth int
		start int
		colon = -1
	)
	flush := func(end int) error {
		entry := s[start:end]
		if strings.TrimSpace(entry) == "" {
			return nil
		}
		var key, val string
		if colon < 0 {
			key = entry
		} else {
			key, val = s[start:colon], s[colon+1:end]
		}
		key = Unquote(strings.TrimSpace(key))
		if key == "" {
			return fmt.Errorf("%w in %q", ErrEmptyKey, strings.TrimSpace(entry))
		}
		out = append(out, Pair{Key: key, Value: strings.TrimSpace(val)})
		return nil
	}

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'', '"', '`':
			j, err := skipString(s, i)
			if err != nil {
				return nil, err
			}
			i = j
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unexpected %q at %d", ErrUnbalanced, c, i)
			}
		case ':':
			if depth == 0 && colon < 0 {
				colon = i
			}
		case ',':
			if depth == 0 {
				if err := flush(i); err != nil {
					return nil, err
				}
				start, colon = i+1, -1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: %d group(s) left open", ErrUnbalanced, depth)
	}
	if err := flush(len(s)); err != nil {
		return nil, err
	}
	return out, nil
}

// skipString returns the index of the closing quote of the string at s[i].
func skipString(s string, i int) (int, error) {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case q:
			return j, nil
		}
	}
	return 0, fmt.Errorf("%w starting at %d", ErrUnterminated, i)
}

// Keys returns the keys of s in order, ignoring malformed input.
func Keys(s string) []string {
	pairs, err := Parse(s)
	if err != nil {
		return nil
	}
	keys := make([]string, len(pairs))
	for i, p := range pairs {
		keys[i] = p.Key
	}
	return keys
}

// Lookup returns the value of key.
func Lookup(pairs []Pair, key string) (string, bool) {
	for _, p := range pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Strip removes one pair of surrounding braces: "{a: 1}" -> "a: 1".
func Strip(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' {
		return s[1 : len(s)-1]
	}
	return s
}

// IsObject reports whether s is written as an object literal.
func IsObject(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "{")
}

// Unquote strips matching single or double quotes.
func Unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
