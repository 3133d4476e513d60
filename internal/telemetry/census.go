// Package telemetry collects element counts and tick timings and writes them
// out as CSV.
package telemetry

import (
	"powder/internal/element"
	"powder/internal/grid"
)

// Census counts particles per element id at one tick.
type Census struct {
	Tick   uint64
	Counts []int
}

// TakeCensus scans g and counts every element id known to reg.
func TakeCensus(tick uint64, g *grid.Grid, reg *element.Registry) Census {
	c := Census{Tick: tick, Counts: make([]int, reg.Len())}
	for _, p := range g.Cells() {
		c.Counts[p.Element]++
	}
	return c
}

// Count returns the number of particles of id.
func (c Census) Count(id element.ID) int {
	if int(id) >= len(c.Counts) {
		return 0
	}
	return c.Counts[id]
}

// Group returns the combined count of ids.
func (c Census) Group(ids ...element.ID) int {
	n := 0
	for _, id := range ids {
		n += c.Count(id)
	}
	return n
}

// Total returns the number of cells counted.
func (c Census) Total() int {
	n := 0
	for _, v := range c.Counts {
		n += v
	}
	return n
}

// ReactionGroups partitions the registry into sets of elements linked by
// reactions. Within a set the combined count is conserved by a tick; every
// element outside any reaction forms its own singleton set.
func ReactionGroups(reg *element.Registry) [][]element.ID {
	parent := make([]int, reg.Len())
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) { parent[find(a)] = find(b) }

	for _, e := range reg.All() {
		if e.Reaction == nil {
			continue
		}
		if t, err := reg.IDOf(e.Reaction.Trigger); err == nil {
			union(int(e.ID), int(t))
		}
		if p, err := reg.IDOf(e.Reaction.Product); err == nil {
			union(int(e.ID), int(p))
		}
	}

	byRoot := map[int][]element.ID{}
	var roots []int
	for i := range parent {
		r := find(i)
		if _, ok := byRoot[r]; !ok {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], element.ID(i))
	}
	groups := make([][]element.ID, 0, len(roots))
	for _, r := range roots {
		groups = append(groups, byRoot[r])
	}
	return groups
}

// Conserved reports whether every reaction group has the same combined count
// in a and b.
func Conserved(groups [][]element.ID, a, b Census) bool {
	for _, g := range groups {
		if a.Group(g...) != b.Group(g...) {
			return false
		}
	}
	return true
}
