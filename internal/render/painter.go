//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads a Frame into two images and draws them scaled, the gas
// layer on top at a fixed opacity.
type GridPainter struct {
	w, h  int
	solid *ebiten.Image
	gas   *ebiten.Image
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	return &GridPainter{
		w:     w,
		h:     h,
		solid: ebiten.NewImage(w, h),
		gas:   ebiten.NewImage(w, h),
	}
}

// Blit uploads f and draws it onto dst.
func (gp *GridPainter) Blit(dst *ebiten.Image, f *Frame, scale int, gasAlpha float32) {
	if f == nil || f.W != gp.w || f.H != gp.h {
		return
	}
	gp.solid.WritePixels(f.Solid)
	gp.gas.WritePixels(f.Gas)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.solid, op)
	op.ColorScale.ScaleAlpha(gasAlpha)
	dst.DrawImage(gp.gas, op)
}

// Size returns the dimensions of the underlying images.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
