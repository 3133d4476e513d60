package render

import (
	"image/color"

	"powder/internal/element"
	"powder/internal/grid"
)

// fillColumns writes the pixels of columns [cr.Start, cr.End) for every row.
// Gas cells show the background on the solid layer; non-gas cells are
// transparent on the gas layer.
func fillColumns(f *Frame, cells []grid.Particle, elems []element.Element, cr ColumnRange) {
	background := elems[0].Color
	for x := cr.Start; x < cr.End; x++ {
		for y := 0; y < f.H; y++ {
			i := y*f.W + x
			p := cells[i]
			e := &elems[p.Element]
			c := e.ShadedColor(p.Shade)
			if e.Category == element.CategoryGas {
				setPixel(f.Solid, i, background)
				setPixel(f.Gas, i, c)
				continue
			}
			setPixel(f.Solid, i, c)
			setPixel(f.Gas, i, color.RGBA{})
		}
	}
}

func setPixel(buf []byte, i int, c color.RGBA) {
	base := i * 4
	buf[base+0] = c.R
	buf[base+1] = c.G
	buf[base+2] = c.B
	buf[base+3] = c.A
}
