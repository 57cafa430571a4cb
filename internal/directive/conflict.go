package directive

import (
	"errors"
	"fmt"
)

var (
	ErrBindingConflict    = errors.New("conflicting bindings")
	ErrComponentBinding   = errors.New("component only supports attr binding")
	ErrBadBinding         = errors.New("malformed binding")
	ErrMalformedStatement = errors.New("malformed containerless statement")
)

// exclusive lists bindings that own the descendants of their element.
var exclusive = map[string]bool{
	"if": true, "ifnot": true, "foreach": true, "with": true, "text": true, "html": true,
}

// CheckConflicts enforces that an element carries at most one binding
// controlling its descendants, and that a component tag carries only attr.
func CheckConflicts(bs Bindings, component bool) error {
	var conflict []string
	for _, b := range bs {
		if component {
			if b.Name != "attr" {
				conflict = append(conflict, b.Name)
			}
		} else if exclusive[b.Name] {
			conflict = append(conflict, b.Name)
		}
	}
	switch {
	case component && len(conflict) > 0:
		return fmt.Errorf("%w (found %s)", ErrComponentBinding, conflict[0])
	case len(conflict) > 1:
		return fmt.Errorf("%w: %s and %s are trying to control descendant bindings of the same element",
			ErrBindingConflict, conflict[0], conflict[1])
	}
	return nil
}
