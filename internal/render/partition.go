// Package render turns the particle grid into RGBA frames. The grid is only
// read here; columns are split into disjoint ranges and filled concurrently.
package render

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"powder/internal/element"
	"powder/internal/grid"
)

// ColumnRange is the half-open column interval [Start, End).
type ColumnRange struct {
	Start, End int
}

// Partition splits width columns into at most parts contiguous, disjoint
// ranges that together cover [0, width). Range sizes differ by at most one.
func Partition(width, parts int) []ColumnRange {
	if width <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > width {
		parts = width
	}
	ranges := make([]ColumnRange, parts)
	base, extra := width/parts, width%parts
	start := 0
	for i := range ranges {
		n := base
		if i < extra {
			n++
		}
		ranges[i] = ColumnRange{Start: start, End: start + n}
		start += n
	}
	return ranges
}

// Frame holds two RGBA layers: gases are drawn on their own layer so they can
// be composited separately, everything else on the solid layer.
type Frame struct {
	W, H  int
	Solid []byte
	Gas   []byte
}

// NewFrame allocates a frame of w*h pixels.
func NewFrame(w, h int) *Frame {
	return &Frame{W: w, H: h, Solid: make([]byte, 4*w*h), Gas: make([]byte, 4*w*h)}
}

// Renderer fills a Frame from a grid using one goroutine per column range.
type Renderer struct {
	frame  *Frame
	ranges []ColumnRange
}

// NewRenderer prepares a renderer for a w*h grid. workers <= 0 uses
// GOMAXPROCS.
func NewRenderer(w, h, workers int) *Renderer {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Renderer{frame: NewFrame(w, h), ranges: Partition(w, workers)}
}

// Frame returns the frame written by the last Render.
func (r *Renderer) Frame() *Frame { return r.frame }

// Ranges returns the column partition used by Render.
func (r *Renderer) Ranges() []ColumnRange { return r.ranges }

// Render fills the frame from g. It must not run concurrently with anything
// that mutates g; it returns once every worker has finished.
func (r *Renderer) Render(g *grid.Grid, reg *element.Registry) error {
	if g.Width() != r.frame.W || g.Height() != r.frame.H {
		return fmt.Errorf("render: grid %dx%d does not match frame %dx%d", g.Width(), g.Height(), r.frame.W, r.frame.H)
	}
	elems := reg.All()
	if len(elems) == 0 {
		return fmt.Errorf("render: empty registry")
	}
	var eg errgroup.Group
	for _, cr := range r.ranges {
		cr := cr
		eg.Go(func() error {
			fillColumns(r.frame, g.Cells(), elems, cr)
			return nil
		})
	}
	return eg.Wait()
}
