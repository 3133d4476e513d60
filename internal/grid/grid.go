// Package grid stores the particle field in a dense row-major slice.
package grid

import (
	"fmt"

	"powder/internal/element"
)

// Pos addresses a cell by column and row. Row 0 is the top of the grid.
type Pos struct {
	X, Y int
}

// Add returns p offset by (dx, dy).
func (p Pos) Add(dx, dy int) Pos { return Pos{X: p.X + dx, Y: p.Y + dy} }

// Particle is the payload of one cell.
type Particle struct {
	Element element.ID
	Shade   float32
}

// Grid is a fixed-size field of particles. Every cell always holds a valid
// element id; the inert element fills unused space.
type Grid struct {
	w, h  int
	cells []Particle
}

// New allocates a grid with the given dimensions, filled with fill.
func New(w, h int, fill element.ID) *Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	g := &Grid{w: w, h: h, cells: make([]Particle, w*h)}
	g.Fill(fill)
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// InBounds reports whether p lies inside the grid.
func (g *Grid) InBounds(p Pos) bool {
	return p.X >= 0 && p.X < g.w && p.Y >= 0 && p.Y < g.h
}

// Index returns the linear slice index for p.
func (g *Grid) Index(p Pos) int { return p.Y*g.w + p.X }

// PosAt is the inverse of Index.
func (g *Grid) PosAt(i int) Pos { return Pos{X: i % g.w, Y: i / g.w} }

// At returns the particle at p.
func (g *Grid) At(p Pos) Particle {
	g.check(p)
	return g.cells[g.Index(p)]
}

// ElementAt returns the element id at p.
func (g *Grid) ElementAt(p Pos) element.ID {
	g.check(p)
	return g.cells[g.Index(p)].Element
}

// Set overwrites the whole particle at p.
func (g *Grid) Set(p Pos, v Particle) {
	g.check(p)
	g.cells[g.Index(p)] = v
}

// SetElement changes the element at p in place, keeping its shade. It is
// meant for transformations, not for moving matter.
func (g *Grid) SetElement(p Pos, id element.ID) {
	g.check(p)
	g.cells[g.Index(p)].Element = id
}

// Swap exchanges the full payloads of a and b.
func (g *Grid) Swap(a, b Pos) {
	g.check(a)
	g.check(b)
	i, j := g.Index(a), g.Index(b)
	g.cells[i], g.cells[j] = g.cells[j], g.cells[i]
}

// Fill resets every cell to id at full shade.
func (g *Grid) Fill(id element.ID) {
	for i := range g.cells {
		g.cells[i] = Particle{Element: id, Shade: 1}
	}
}

// Cells exposes the backing slice for read-only scans.
func (g *Grid) Cells() []Particle { return g.cells }

func (g *Grid) check(p Pos) {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("grid: position (%d,%d) outside %dx%d", p.X, p.Y, g.w, g.h))
	}
}
