package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // only ring dumps after a failure
	LevelPhase               // driver + pass boundaries
	LevelDetail              // per-file spans
	LevelDebug               // everything including node-level points
)

// StorageMode determines how events are stored.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // immediate write
	ModeRing                          // circular buffer
	ModeBoth                          // stream + ring
)

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

// Scope indicates the granularity of the event. Lower values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // CLI command
	ScopePass                    // load, parse, prepare, render, write
	ScopeFile                    // one template file
	ScopeNode                    // single binding on a node
)

var (
	levelNames = []string{"off", "error", "phase", "detail", "debug"}
	modeNames  = []string{"", "stream", "ring", "both"}
	kindNames  = []string{"", "begin", "end", "point"}
	scopeNames = []string{"", "driver", "pass", "file", "node"}
)

func nameOf[T ~uint8](names []string, v T) string {
	if int(v) < len(names) && names[v] != "" {
		return names[v]
	}
	return "unknown"
}

func parseName[T ~uint8](names []string, s, what string) (T, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n != "" && n == s {
			return T(i), nil
		}
	}
	var valid []string
	for _, n := range names {
		if n != "" {
			valid = append(valid, n)
		}
	}
	return 0, fmt.Errorf("invalid %s: %q (expected: %s)", what, s, strings.Join(valid, "|"))
}

func (l Level) String() string       { return nameOf(levelNames, l) }
func (m StorageMode) String() string { return nameOf(modeNames, m) }
func (k Kind) String() string        { return nameOf(kindNames, k) }
func (s Scope) String() string       { return nameOf(scopeNames, s) }

// ParseLevel converts a flag value to a Level.
func ParseLevel(s string) (Level, error) {
	return parseName[Level](levelNames, s, "trace level")
}

// ParseMode converts a flag value to a StorageMode.
func ParseMode(s string) (StorageMode, error) {
	return parseName[StorageMode](modeNames, s, "storage mode")
}

// ShouldEmit reports whether scope is visible at this level. LevelError
// emits nothing directly; the ring keeps everything for a dump.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopePass
	case LevelDetail:
		return scope <= ScopeFile
	case LevelDebug:
		return true
	}
	return false
}
