package directive

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	openMarker  = regexp.MustCompile(`^(?:ko|hz)[ ]+([^:]+):`)
	closeMarker = regexp.MustCompile(`^/(?:ko|hz)$`)
	statement   = regexp.MustCompile(`(?:ko|hz)[ ]+([^:]+):(.+)`)
	foreignOnes = regexp.MustCompile(`^(ko |/ko$)`)
)

// MarkerKind classifies a comment.
type MarkerKind uint8

const (
	NotMarker MarkerKind = iota
	OpenMarker
	CloseMarker
)

// Classify inspects comment data. key is the statement name of open markers.
// With noConflict, `ko` markers belong to another library and are ignored.
func Classify(data string, noConflict bool) (kind MarkerKind, key string) {
	stmt := strings.TrimSpace(data)
	if noConflict && foreignOnes.MatchString(stmt) {
		return NotMarker, ""
	}
	if m := openMarker.FindStringSubmatch(stmt); m != nil {
		return OpenMarker, strings.TrimSpace(m[1])
	}
	if closeMarker.MatchString(stmt) {
		return CloseMarker, ""
	}
	return NotMarker, ""
}

// Ignored reports whether comment data belongs to another library.
func Ignored(data string, noConflict bool) bool {
	return noConflict && foreignOnes.MatchString(strings.TrimSpace(data))
}

// ParseStatement extracts the single `name: expression` of an open marker.
func ParseStatement(data string) (Binding, error) {
	stmt := strings.TrimSpace(data)
	m := statement.FindStringSubmatch(stmt)
	if m == nil {
		return Binding{}, fmt.Errorf("%w: %q", ErrMalformedStatement, stmt)
	}
	return Binding{Name: strings.TrimSpace(m[1]), Expr: strings.TrimSpace(m[2])}, nil
}
