package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powder/internal/element"
)

func TestNewClampsAndFills(t *testing.T) {
	g := New(0, -3, 2)
	assert.Equal(t, 1, g.Width())
	assert.Equal(t, 1, g.Height())
	assert.Equal(t, Particle{Element: 2, Shade: 1}, g.At(Pos{}))
}

func TestIndexRoundTrip(t *testing.T) {
	g := New(7, 5, 0)
	for i := range g.Cells() {
		p := g.PosAt(i)
		require.True(t, g.InBounds(p))
		assert.Equal(t, i, g.Index(p))
		assert.Equal(t, p.Y*7+p.X, i)
	}
}

func TestInBounds(t *testing.T) {
	g := New(3, 2, 0)
	tests := []struct {
		p    Pos
		want bool
	}{
		{Pos{0, 0}, true},
		{Pos{2, 1}, true},
		{Pos{3, 1}, false},
		{Pos{2, 2}, false},
		{Pos{-1, 0}, false},
		{Pos{0, -1}, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, g.InBounds(tc.p), "%v", tc.p)
	}
}

func TestSwapMovesFullPayload(t *testing.T) {
	g := New(2, 2, 0)
	a, b := Pos{0, 0}, Pos{1, 1}
	g.Set(a, Particle{Element: 3, Shade: 0.8})

	g.Swap(a, b)

	assert.Equal(t, Particle{Element: 0, Shade: 1}, g.At(a))
	assert.Equal(t, Particle{Element: 3, Shade: 0.8}, g.At(b))
}

func TestSetElementKeepsShade(t *testing.T) {
	g := New(1, 1, 0)
	g.Set(Pos{}, Particle{Element: 1, Shade: 0.9})
	g.SetElement(Pos{}, element.ID(4))
	assert.Equal(t, Particle{Element: 4, Shade: 0.9}, g.At(Pos{}))
	assert.Equal(t, element.ID(4), g.ElementAt(Pos{}))
}

func TestFillResets(t *testing.T) {
	g := New(4, 4, 0)
	g.Set(Pos{1, 2}, Particle{Element: 5, Shade: 0.3})
	g.Fill(1)
	for _, c := range g.Cells() {
		assert.Equal(t, Particle{Element: 1, Shade: 1}, c)
	}
}

func TestOutOfBoundsPanics(t *testing.T) {
	g := New(2, 2, 0)
	assert.Panics(t, func() { g.At(Pos{2, 0}) })
	assert.Panics(t, func() { g.Swap(Pos{0, 0}, Pos{0, -1}) })
	assert.Panics(t, func() { g.SetElement(Pos{5, 5}, 1) })
}
