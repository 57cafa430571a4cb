// Package dag orders template-backed components by the components their
// templates use and reports cycles and failed dependencies.
package dag

import (
	"sort"

	"htmlizer/internal/source"
)

type ComponentID uint32

// Use is one custom tag of another component inside a template.
type Use struct {
	Class string
	Span  source.Span
}

// ComponentMeta describes one component template.
type ComponentMeta struct {
	Class string
	Span  source.Span
	Uses  []Use
}

type ComponentIndex struct {
	NameToID map[string]ComponentID
	IDToName []string
}

// собрать уникальные имена, sort.Strings, раздать ID по порядку
func BuildIndex(metas []ComponentMeta) ComponentIndex {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Class != "" {
			uniq[meta.Class] = struct{}{}
		}
		for _, use := range meta.Uses {
			if use.Class != "" {
				uniq[use.Class] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(uniq))
	for name := range uniq {
		names = append(names, name)
	}
	sort.Strings(names)

	nameToID := make(map[string]ComponentID, len(names))
	for i, name := range names {
		nameToID[name] = ComponentID(i)
	}
	return ComponentIndex{NameToID: nameToID, IDToName: names}
}
