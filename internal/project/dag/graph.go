package dag

import (
	"fmt"
	"slices"
	"strings"

	"htmlizer/internal/diag"
)

type Graph struct {
	Edges   [][]ComponentID // Edges[user] = []used
	Indeg   []int           // входящие степени для Kahn (только присутствующие компоненты)
	Present []bool          // компонент объявлен, а не только использован
}

type ComponentNode struct {
	Meta     ComponentMeta
	Reporter diag.Reporter
	Broken   bool
	FirstErr *diag.Diagnostic
}

type ComponentSlot struct {
	Meta     ComponentMeta
	Reporter diag.Reporter
	Present  bool
	Broken   bool
	FirstErr *diag.Diagnostic
}

// BuildGraph links every component to the components its template uses.
// A template using its own tag is reported and left out of the graph.
func BuildGraph(idx ComponentIndex, nodes []ComponentNode) (Graph, []ComponentSlot) {
	count := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]ComponentID, count),
		Indeg:   make([]int, count),
		Present: make([]bool, count),
	}
	slots := make([]ComponentSlot, count)
	for i, name := range idx.IDToName {
		slots[i].Meta.Class = name
	}

	for _, node := range nodes {
		id, ok := idx.NameToID[node.Meta.Class]
		if !ok || slots[int(id)].Present {
			continue
		}
		slots[int(id)] = ComponentSlot{
			Meta:     node.Meta,
			Reporter: node.Reporter,
			Present:  true,
			Broken:   node.Broken,
			FirstErr: node.FirstErr,
		}
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present {
			continue
		}
		seen := make(map[ComponentID]struct{}, len(slot.Meta.Uses))
		for _, use := range slot.Meta.Uses {
			toID, ok := idx.NameToID[use.Class]
			if !ok {
				continue
			}
			if ComponentID(from) == toID {
				if _, dup := seen[toID]; !dup && slot.Reporter != nil {
					slot.Reporter.Report(diag.ProjComponentSelfUse, diag.SevError, use.Span,
						fmt.Sprintf("component %q uses itself", slot.Meta.Class), nil)
				}
				seen[toID] = struct{}{}
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}
			g.Edges[from] = append(g.Edges[from], toID)
			if g.Present[int(toID)] {
				g.Indeg[int(toID)]++
			}
		}
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}
	return g, slots
}

func ReportCycles(idx ComponentIndex, slots []ComponentSlot, topo *Topo) {
	if topo == nil || !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.IDToName[int(id)])
	}
	summary := strings.Join(names, " -> ")

	for _, id := range topo.Cycles {
		slot := slots[int(id)]
		if !slot.Present || slot.Reporter == nil {
			continue
		}
		msg := fmt.Sprintf("component %q is part of a usage cycle: %s", slot.Meta.Class, summary)
		slot.Reporter.Report(diag.ProjComponentCycle, diag.SevError, slot.Meta.Span, msg, nil)
	}
}

// ReportBrokenDeps flags every use of a component whose template failed,
// pointing at the first error of that template.
func ReportBrokenDeps(idx ComponentIndex, slots []ComponentSlot) {
	for i := range slots {
		from := &slots[i]
		if !from.Present || from.Reporter == nil {
			continue
		}
		emitted := make(map[string]struct{}, len(from.Meta.Uses))
		for _, use := range from.Meta.Uses {
			toID, ok := idx.NameToID[use.Class]
			if !ok || int(toID) == i {
				continue
			}
			dep := slots[int(toID)]
			if !dep.Broken {
				continue
			}
			key := use.Class + "|" + use.Span.String()
			if _, seen := emitted[key]; seen {
				continue
			}
			emitted[key] = struct{}{}

			var notes []diag.Note
			if dep.FirstErr != nil {
				notes = append(notes, diag.Note{
					Span: dep.FirstErr.Primary,
					Msg:  "first error in used component: " + dep.FirstErr.Message,
				})
			}
			msg := fmt.Sprintf("used component %q has errors", use.Class)
			from.Reporter.Report(diag.ProjDependencyFailed, diag.SevError, use.Span, msg, notes)
		}
	}
}
