//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"powder/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws optional debugging visuals on top of the grid: the render
// column partition (F1) and the brush outline under the cursor (F2).
type Overlay struct {
	scale          int
	showPartitions bool
	showBrush      bool
	pixel          *ebiten.Image
}

// NewOverlay constructs an overlay for a view drawn at the given scale.
func NewOverlay(scale int) *Overlay {
	o := &Overlay{scale: scale, showBrush: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the overlay toggles.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		o.showPartitions = !o.showPartitions
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		o.showBrush = !o.showBrush
	}
}

// Draw paints the enabled overlays. cx, cy is the cursor in grid cells.
func (o *Overlay) Draw(screen *ebiten.Image, ranges []render.ColumnRange, gridH, cx, cy, brush int) {
	if o.showPartitions && len(ranges) > 1 {
		for _, cr := range ranges[1:] {
			o.rect(screen, float64(cr.Start*o.scale), 0, 1, float64(gridH*o.scale), partitionColor)
		}
	}
	if o.showBrush {
		o.circle(screen, cx, cy, brush)
	}
}

// circle marks the outer cells of the brush disc.
func (o *Overlay) circle(screen *ebiten.Image, cx, cy, r int) {
	s := float64(o.scale)
	if r == 0 {
		o.rect(screen, float64(cx)*s, float64(cy)*s, s, s, brushColor)
		return
	}
	steps := max(8, 8*r)
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x := math.Round(float64(cx) + float64(r)*math.Cos(a))
		y := math.Round(float64(cy) + float64(r)*math.Sin(a))
		o.rect(screen, x*s, y*s, s, s, brushColor)
	}
}

func (o *Overlay) rect(dst *ebiten.Image, x, y, w, h float64, c color.NRGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	dst.DrawImage(o.pixel, op)
}

var (
	partitionColor = color.NRGBA{R: 255, G: 64, B: 64, A: 160}
	brushColor     = color.NRGBA{R: 255, G: 255, B: 255, A: 96}
)
