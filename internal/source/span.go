package source

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"
)

// Span is a byte range inside one file.
type Span struct {
	File  FileID
	Start uint32 // inclusive
	End   uint32 // exclusive
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span holding both s and other.
// Spans of different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// WholeFile returns a span covering the entire content of f.
func (f *File) WholeFile() Span {
	if f == nil {
		return Span{}
	}
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return Span{File: f.ID, Start: 0, End: end}
}

// Locate finds the first occurrence of needle at or after from and returns its span.
// Markup nodes do not remember their offsets, so diagnostics pin them by text search.
func (f *File) Locate(needle []byte, from uint32) (Span, bool) {
	if f == nil || len(needle) == 0 || int(from) > len(f.Content) {
		return Span{}, false
	}
	idx := bytes.Index(f.Content[from:], needle)
	if idx < 0 {
		return Span{}, false
	}
	start, err := safecast.Conv[uint32](idx)
	if err != nil {
		return Span{}, false
	}
	n, err := safecast.Conv[uint32](len(needle))
	if err != nil {
		return Span{}, false
	}
	start += from
	return Span{File: f.ID, Start: start, End: start + n}, true
}
