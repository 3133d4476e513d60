package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powder/internal/element"
	"powder/internal/grid"
)

func TestPartitionCoversDisjointly(t *testing.T) {
	for _, width := range []int{1, 2, 7, 40, 320, 1001} {
		for _, parts := range []int{-1, 0, 1, 3, 8, 64, 2000} {
			ranges := Partition(width, parts)
			require.NotEmpty(t, ranges)
			next := 0
			for _, cr := range ranges {
				assert.Equal(t, next, cr.Start, "width=%d parts=%d", width, parts)
				assert.Greater(t, cr.End, cr.Start, "empty range width=%d parts=%d", width, parts)
				next = cr.End
			}
			assert.Equal(t, width, next, "width=%d parts=%d", width, parts)
		}
	}
}

func TestPartitionBalanced(t *testing.T) {
	ranges := Partition(10, 4)
	require.Len(t, ranges, 4)
	assert.Equal(t, []ColumnRange{{0, 3}, {3, 6}, {6, 8}, {8, 10}}, ranges)
}

func TestPartitionEmptyWidth(t *testing.T) {
	assert.Nil(t, Partition(0, 4))
}

func pixel(buf []byte, w, x, y int) color.RGBA {
	i := 4 * (y*w + x)
	return color.RGBA{R: buf[i], G: buf[i+1], B: buf[i+2], A: buf[i+3]}
}

func TestRenderMatchesElementColors(t *testing.T) {
	reg, err := element.NewDefaultRegistry()
	require.NoError(t, err)
	air := reg.MustElement(0)
	water, err := reg.IDOf(element.Water)
	require.NoError(t, err)
	steam, err := reg.IDOf(element.Steam)
	require.NoError(t, err)
	salt, err := reg.IDOf(element.Salt)
	require.NoError(t, err)

	g := grid.New(13, 5, 0)
	g.Set(grid.Pos{X: 0, Y: 0}, grid.Particle{Element: water, Shade: 1})
	g.Set(grid.Pos{X: 12, Y: 4}, grid.Particle{Element: steam, Shade: 1})
	g.Set(grid.Pos{X: 6, Y: 2}, grid.Particle{Element: salt, Shade: 0.5})

	for _, workers := range []int{1, 3, 13, 50} {
		r := NewRenderer(13, 5, workers)
		require.NoError(t, r.Render(g, reg))
		f := r.Frame()

		assert.Equal(t, reg.ColorOf(water), pixel(f.Solid, 13, 0, 0))
		assert.Equal(t, color.RGBA{}, pixel(f.Gas, 13, 0, 0))

		assert.Equal(t, air.Color, pixel(f.Solid, 13, 12, 4), "gas cells show background below")
		assert.Equal(t, reg.ColorOf(steam), pixel(f.Gas, 13, 12, 4))

		assert.Equal(t, reg.MustElement(salt).ShadedColor(0.5), pixel(f.Solid, 13, 6, 2))
		assert.Equal(t, air.Color, pixel(f.Solid, 13, 5, 2))
	}
}

func TestRenderRejectsSizeMismatch(t *testing.T) {
	reg, err := element.NewDefaultRegistry()
	require.NoError(t, err)
	r := NewRenderer(4, 4, 2)
	assert.Error(t, r.Render(grid.New(5, 4, 0), reg))
}

func TestNewRendererDefaultsWorkers(t *testing.T) {
	r := NewRenderer(16, 1, 0)
	assert.NotEmpty(t, r.Ranges())
	assert.Equal(t, 16, r.Ranges()[len(r.Ranges())-1].End)
}
