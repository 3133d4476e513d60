//go:build ebiten

package ui

import (
	"image/color"

	"powder/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the readout panel to the right of the simulation view.
type HUD struct {
	width      int
	panel      *ebiten.Image
	lastHeight int
}

// NewHUD constructs a HUD with the given panel width.
func NewHUD(width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{width: width}
}

// Width returns the panel width in screen pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Draw paints r into a panel of the given height at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int, r core.Readout) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(panelColor)

	face := basicfont.Face7x13
	y := panelPadding
	for _, g := range r.Groups {
		y += lineHeight
		if y > height {
			break
		}
		text.Draw(h.panel, g.Name, face, panelPadding, y, headerColor)
		for _, l := range g.Lines {
			y += lineHeight
			if y > height {
				break
			}
			text.Draw(h.panel, l.Label, face, panelPadding+indent, y, labelColor)
			bounds := text.BoundString(face, l.Value)
			text.Draw(h.panel, l.Value, face, h.width-panelPadding-bounds.Dx(), y, valueColor)
		}
		y += groupGap
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

var (
	panelColor  = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	headerColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor  = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	valueColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
)

const (
	panelPadding = 12
	lineHeight   = 16
	indent       = 8
	groupGap     = 8
)
