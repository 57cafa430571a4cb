package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Topo is the result of ToposortKahn.
type Topo struct {
	Order   []ComponentID   // пользователи раньше используемых
	Batches [][]ComponentID // волны независимых компонентов
	Cyclic  bool
	Cycles  []ComponentID // узлы, оставшиеся в цикле
}

func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]ComponentID, 0, nodeCount),
		Batches: make([][]ComponentID, 0),
	}

	active := 0
	for i := range nodeCount {
		if g.Present[i] {
			active++
		}
	}

	current := make([]ComponentID, 0, nodeCount)
	for i := range nodeCount {
		if !g.Present[i] {
			continue
		}
		if indeg[i] == 0 {
			mID, err := safecast.Conv[ComponentID](i)
			if err != nil {
				panic(fmt.Errorf("component id overflow: %w", err))
			}
			current = append(current, mID)
		}
	}
	slices.Sort(current)

	visited := 0
	for len(current) > 0 {
		batch := make([]ComponentID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]ComponentID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Edges[int(id)] {
				if !g.Present[int(to)] {
					continue
				}
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		left := make(map[int]bool)
		for i := range nodeCount {
			if g.Present[i] && indeg[i] > 0 {
				left[i] = true
			}
		}
		// отбрасываем узлы, которые только используются циклом
		for pruned := true; pruned; {
			pruned = false
			for i := range left {
				if !slices.ContainsFunc(g.Edges[i], func(to ComponentID) bool { return left[int(to)] }) {
					delete(left, i)
					pruned = true
				}
			}
		}
		for i := range left {
			cID, err := safecast.Conv[ComponentID](i)
			if err != nil {
				panic(fmt.Errorf("component id overflow: %w", err))
			}
			topo.Cycles = append(topo.Cycles, cID)
		}
		slices.Sort(topo.Cycles)
	}

	return topo
}
