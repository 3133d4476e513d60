package sim

import (
	"errors"
	"fmt"
	"sort"

	"powder/internal/element"
	"powder/internal/grid"
)

// ErrUnknownScene is returned by LoadScene for names with no registered scene.
var ErrUnknownScene = errors.New("unknown scene")

// Scene lays out an initial grid. It may assume the grid has already been
// cleared to the background element.
type Scene func(s *Simulation) error

var scenes = map[string]Scene{}

// RegisterScene adds a scene under the provided name.
func RegisterScene(name string, fn Scene) {
	if name == "" || fn == nil {
		return
	}
	scenes[name] = fn
}

// Scenes lists the registered scene names in sorted order.
func Scenes() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadScene clears the grid and applies the named scene.
func (s *Simulation) LoadScene(name string) error {
	fn, ok := scenes[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownScene)
	}
	s.Clear()
	if err := fn(s); err != nil {
		return fmt.Errorf("scene %q: %w", name, err)
	}
	return nil
}

func init() {
	RegisterScene("empty", func(*Simulation) error { return nil })
	RegisterScene("basin", basinScene)
	RegisterScene("reaction", reactionScene)
	RegisterScene("hourglass", hourglassScene)
}

// basinScene walls in the left, right and bottom edges.
func basinScene(s *Simulation) error {
	wall, err := s.IDOf(element.Wall)
	if err != nil {
		return err
	}
	w, h := s.Width(), s.Height()
	s.fillRect(0, h-1, w-1, h-1, wall)
	s.fillRect(0, 0, 0, h-1, wall)
	s.fillRect(w-1, 0, w-1, h-1, wall)
	return nil
}

// reactionScene puts a lava pool at the bottom of a basin and a water
// reservoir on a shelf above it that drains through a gap in the middle.
func reactionScene(s *Simulation) error {
	if err := basinScene(s); err != nil {
		return err
	}
	ids, err := s.lookup(element.Wall, element.Water, element.Lava)
	if err != nil {
		return err
	}
	wall, water, lava := ids[0], ids[1], ids[2]
	w, h := s.Width(), s.Height()

	shelf := h / 2
	gap := max(w/16, 1)
	mid := w / 2
	s.fillRect(1, shelf, mid-gap-1, shelf, wall)
	s.fillRect(mid+gap, shelf, w-2, shelf, wall)
	s.fillRect(1, shelf-h/6, w-2, shelf-1, water)
	s.fillRect(1, h-1-h/5, w-2, h-2, lava)
	return nil
}

// hourglassScene builds a funnel with a narrow neck and fills the upper
// chamber with salt.
func hourglassScene(s *Simulation) error {
	if err := basinScene(s); err != nil {
		return err
	}
	ids, err := s.lookup(element.Wall, element.Salt)
	if err != nil {
		return err
	}
	wall, salt := ids[0], ids[1]
	w, h := s.Width(), s.Height()

	mid := w / 2
	top := h / 4
	neck := h / 2
	for y := top; y <= neck; y++ {
		// Walls converge linearly from the sides to a two-cell neck.
		t := float64(y-top) / float64(max(neck-top, 1))
		inset := int(t * float64(mid-2))
		s.fillRect(1, y, inset, y, wall)
		s.fillRect(w-1-inset, y, w-2, y, wall)
	}
	for y := 1; y < top; y++ {
		for x := 1; x < w-1; x++ {
			s.PaintElement(grid.Pos{X: x, Y: y}, salt)
		}
	}
	return nil
}

func (s *Simulation) lookup(names ...string) ([]element.ID, error) {
	ids := make([]element.ID, len(names))
	for i, name := range names {
		id, err := s.IDOf(name)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// fillRect paints the inclusive rectangle [x0,x1]x[y0,y1], clipped to the grid.
func (s *Simulation) fillRect(x0, y0, x1, y1 int, id element.ID) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			s.PaintElement(grid.Pos{X: x, Y: y}, id)
		}
	}
}
