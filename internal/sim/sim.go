// Package sim runs the falling-sand automaton: it binds each registered
// element to its movement rule and advances the grid one tick at a time.
package sim

import (
	"errors"
	"fmt"

	"powder/internal/element"
	"powder/internal/grid"
	"powder/pkg/core"
)

// Background is the id of the inert element that fills unused space.
const Background element.ID = 0

// ErrNoBackground is returned when the registry has no inert element at id 0.
var ErrNoBackground = errors.New("registry has no inert background element at id 0")

type ruleFunc func(s *Simulation, p grid.Pos)

type reaction struct {
	ok      bool
	trigger element.ID
	product element.ID
}

// Simulation owns the live grid and the rule table derived from a registry.
// It is not safe for concurrent use: Advance, Paint and Fill must be
// serialized by the caller, and readers must not run during Advance.
type Simulation struct {
	reg  *element.Registry
	grid *grid.Grid
	src  core.Source

	rules     []ruleFunc
	cats      []element.Category
	reactions []reaction

	order []int
	moved []uint64
	tick  uint64
}

// New builds a simulation of w*h cells filled with the background element.
// The registry must not change afterwards.
func New(reg *element.Registry, w, h int, src core.Source) (*Simulation, error) {
	if reg == nil || reg.Len() == 0 {
		return nil, ErrNoBackground
	}
	if bg := reg.MustElement(Background); bg.Category != element.CategoryNone {
		return nil, fmt.Errorf("%w: %q is %s", ErrNoBackground, bg.Name, bg.Category)
	}
	if src == nil {
		src = core.NewRNG(1)
	}

	s := &Simulation{
		reg:       reg,
		grid:      grid.New(w, h, Background),
		src:       src,
		rules:     make([]ruleFunc, reg.Len()),
		cats:      make([]element.Category, reg.Len()),
		reactions: make([]reaction, reg.Len()),
	}
	for _, e := range reg.All() {
		rule, err := ruleFor(e.Behavior)
		if err != nil {
			return nil, fmt.Errorf("element %q: %w", e.Name, err)
		}
		s.rules[e.ID] = rule
		s.cats[e.ID] = e.Category
		if e.Reaction == nil {
			continue
		}
		trigger, err := reg.IDOf(e.Reaction.Trigger)
		if err != nil {
			return nil, fmt.Errorf("element %q reaction trigger: %w", e.Name, err)
		}
		product, err := reg.IDOf(e.Reaction.Product)
		if err != nil {
			return nil, fmt.Errorf("element %q reaction product: %w", e.Name, err)
		}
		s.reactions[e.ID] = reaction{ok: true, trigger: trigger, product: product}
	}

	s.order = make([]int, s.grid.Width())
	for i := range s.order {
		s.order[i] = i
	}
	s.moved = make([]uint64, len(s.grid.Cells()))
	return s, nil
}

// Advance runs one tick. Rows are visited bottom to top so a particle that
// falls is not picked up again lower down; columns are visited in a fresh
// random order per row. Rules mutate the live grid, so later cells see the
// effects of earlier ones. A particle that moves into a cell not yet visited
// this tick is skipped when the scheduler reaches that cell.
func (s *Simulation) Advance() {
	s.tick++
	w := s.grid.Width()
	for y := s.grid.Height() - 1; y >= 0; y-- {
		core.Shuffle(s.src, s.order)
		row := y * w
		for _, x := range s.order {
			if s.moved[row+x] == s.tick {
				continue
			}
			p := grid.Pos{X: x, Y: y}
			s.rule(s.grid.ElementAt(p))(s, p)
		}
	}
}

func (s *Simulation) rule(id element.ID) ruleFunc {
	if int(id) >= len(s.rules) {
		panic(fmt.Sprintf("sim: element id %d in grid was never registered", id))
	}
	return s.rules[id]
}

// Tick returns the number of completed Advance calls.
func (s *Simulation) Tick() uint64 { return s.tick }

// Width returns the grid width.
func (s *Simulation) Width() int { return s.grid.Width() }

// Height returns the grid height.
func (s *Simulation) Height() int { return s.grid.Height() }

// InBounds reports whether p lies inside the grid.
func (s *Simulation) InBounds(p grid.Pos) bool { return s.grid.InBounds(p) }

// Grid exposes the particle grid for read-only consumers such as renderers.
func (s *Simulation) Grid() *grid.Grid { return s.grid }

// Registry returns the element registry the simulation was built from.
func (s *Simulation) Registry() *element.Registry { return s.reg }

// ElementAt returns the element record occupying p.
func (s *Simulation) ElementAt(p grid.Pos) element.Element {
	return s.reg.MustElement(s.grid.ElementAt(p))
}

// IDOf resolves an element name, for input handling.
func (s *Simulation) IDOf(name string) (element.ID, error) { return s.reg.IDOf(name) }

// Fill resets every cell to id.
func (s *Simulation) Fill(id element.ID) error {
	if !s.reg.Known(id) {
		return fmt.Errorf("fill: id %d: %w", id, element.ErrUnknownID)
	}
	s.grid.Fill(id)
	return nil
}

// Clear resets every cell to the background element.
func (s *Simulation) Clear() { s.grid.Fill(Background) }

// Paint writes id at p with the given shade. It reports false when p is out
// of bounds or id is unknown.
func (s *Simulation) Paint(p grid.Pos, id element.ID, shade float32) bool {
	if !s.grid.InBounds(p) || !s.reg.Known(id) {
		return false
	}
	if shade < 0 {
		shade = 0
	} else if shade > 1 {
		shade = 1
	}
	s.grid.Set(p, grid.Particle{Element: id, Shade: shade})
	return true
}

// PaintElement writes id at p, drawing its shade from the element's range.
func (s *Simulation) PaintElement(p grid.Pos, id element.ID) bool {
	if !s.reg.Known(id) {
		return false
	}
	return s.Paint(p, id, s.shadeFor(s.reg.MustElement(id)))
}

// PaintDisc paints every in-bounds cell within radius of center and returns
// how many cells were written.
func (s *Simulation) PaintDisc(center grid.Pos, radius int, id element.ID) int {
	if radius < 0 || !s.reg.Known(id) {
		return 0
	}
	n := 0
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			if s.PaintElement(center.Add(dx, dy), id) {
				n++
			}
		}
	}
	return n
}

// Erase resets p to the background element.
func (s *Simulation) Erase(p grid.Pos) bool {
	return s.Paint(p, Background, 1)
}

func (s *Simulation) shadeFor(e element.Element) float32 {
	if !e.Shade.Varies() {
		return 1
	}
	// Thousandths, inclusive of both ends.
	step := float32(s.src.IntN(1001)) / 1000
	return e.Shade.Min + step*(e.Shade.Max-e.Shade.Min)
}
