package sim

import (
	"fmt"

	"powder/internal/element"
	"powder/internal/grid"
	"powder/pkg/core"
)

// Gas drift offsets. Up is listed three times so gases rise more often than
// they sink.
var (
	gasDX = []int{-1, 0, 1}
	gasDY = []int{-1, -1, -1, 0, 1}
)

func ruleFor(b element.Behavior) (ruleFunc, error) {
	switch b {
	case element.BehaviorInert:
		return inertRule, nil
	case element.BehaviorPowder:
		return powderRule, nil
	case element.BehaviorLiquid:
		return liquidRule, nil
	case element.BehaviorGas:
		return gasRule, nil
	}
	return nil, fmt.Errorf("unknown behavior %d", b)
}

func inertRule(*Simulation, grid.Pos) {}

// powderRule falls straight down into empty space (5 in 6) or sinks through a
// liquid (1 in 4). Either way the straight-down check ends the update. A
// powder resting on something else slides to one random diagonal if it is
// empty or liquid.
func powderRule(s *Simulation, p grid.Pos) {
	below := p.Add(0, 1)
	if s.grid.InBounds(below) {
		switch s.category(below) {
		case element.CategoryNone:
			if core.Chance(s.src, 5, 6) {
				s.move(p, below)
			}
			return
		case element.CategoryLiquid:
			if core.Chance(s.src, 5, 20) {
				s.move(p, below)
			}
			return
		}
	}

	diag := p.Add(core.Side(s.src), 1)
	if !s.grid.InBounds(diag) {
		return
	}
	if c := s.category(diag); c == element.CategoryNone || c == element.CategoryLiquid {
		s.move(p, diag)
	}
}

// liquidRule first checks the element's reaction, then falls, slides down a
// diagonal, or spreads sideways, only ever into empty cells.
func liquidRule(s *Simulation, p grid.Pos) {
	if r := s.reactions[s.grid.ElementAt(p)]; r.ok && s.touches(p, r.trigger) {
		s.grid.SetElement(p, r.product)
		return
	}

	below := p.Add(0, 1)
	if s.empty(below) {
		if core.Chance(s.src, 5, 6) {
			s.move(p, below)
		}
		return
	}

	sides := []int{-1, 1}
	core.Shuffle(s.src, sides)
	for _, dx := range sides {
		if d := p.Add(dx, 1); s.empty(d) {
			s.move(p, d)
			return
		}
	}
	for _, dx := range sides {
		if d := p.Add(dx, 0); s.empty(d) {
			s.move(p, d)
			return
		}
	}
}

// gasRule drifts to one random neighbour. It bubbles up through liquids and
// drifts into empty space one time in five.
func gasRule(s *Simulation, p grid.Pos) {
	dx := core.Pick(s.src, gasDX)
	dy := core.Pick(s.src, gasDY)
	if dx == 0 && dy == 0 {
		return
	}
	t := p.Add(dx, dy)
	if !s.grid.InBounds(t) {
		return
	}
	switch s.category(t) {
	case element.CategoryLiquid:
		if dy == -1 {
			s.move(p, t)
		}
	case element.CategoryNone:
		if core.Chance(s.src, 1, 5) {
			s.move(p, t)
		}
	}
}

func (s *Simulation) category(p grid.Pos) element.Category {
	return s.cats[s.grid.ElementAt(p)]
}

func (s *Simulation) empty(p grid.Pos) bool {
	return s.grid.InBounds(p) && s.category(p) == element.CategoryNone
}

// touches reports whether any of the eight neighbours of p holds id.
func (s *Simulation) touches(p grid.Pos, id element.ID) bool {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := p.Add(dx, dy)
			if s.grid.InBounds(n) && s.grid.ElementAt(n) == id {
				return true
			}
		}
	}
	return false
}

// move swaps the particle at from into to and marks to as done for this tick.
func (s *Simulation) move(from, to grid.Pos) {
	s.grid.Swap(from, to)
	s.moved[s.grid.Index(to)] = s.tick
}
