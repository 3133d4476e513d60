package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powder/internal/element"
	"powder/pkg/core"
)

func TestScenesRegistered(t *testing.T) {
	assert.Equal(t, []string{"basin", "empty", "hourglass", "reaction"}, Scenes())
}

func TestLoadSceneUnknown(t *testing.T) {
	s := newSim(t, 8, 8, core.NewRNG(1))
	assert.ErrorIs(t, s.LoadScene("volcano"), ErrUnknownScene)
}

func TestLoadEveryScene(t *testing.T) {
	for _, name := range Scenes() {
		for _, size := range [][2]int{{1, 1}, {3, 2}, {64, 48}} {
			s := newSim(t, size[0], size[1], core.NewRNG(3))
			require.NoError(t, s.LoadScene(name), "%s %v", name, size)
			assert.NotPanics(t, func() {
				for i := 0; i < 10; i++ {
					s.Advance()
				}
			})
		}
	}
}

func TestLoadSceneClearsFirst(t *testing.T) {
	s := newSim(t, 10, 10, core.NewRNG(1))
	require.NoError(t, s.Fill(idOf(t, s, element.Salt)))
	require.NoError(t, s.LoadScene("empty"))
	assert.Equal(t, 100, census(s)[element.Air])
}

func TestBasinScene(t *testing.T) {
	s := newSim(t, 12, 9, core.NewRNG(1))
	require.NoError(t, s.LoadScene("basin"))
	for x := 0; x < 12; x++ {
		assert.Equal(t, element.Wall, nameAt(s, x, 8))
	}
	for y := 0; y < 9; y++ {
		assert.Equal(t, element.Wall, nameAt(s, 0, y))
		assert.Equal(t, element.Wall, nameAt(s, 11, y))
	}
	assert.Equal(t, 12+8+8, census(s)[element.Wall])
}

func TestHourglassDrains(t *testing.T) {
	s := newSim(t, 40, 40, core.NewRNG(8))
	require.NoError(t, s.LoadScene("hourglass"))
	salt := census(s)[element.Salt]
	require.Positive(t, salt)

	for i := 0; i < 300; i++ {
		s.Advance()
	}
	assert.Equal(t, salt, census(s)[element.Salt])

	below := 0
	for x := 0; x < 40; x++ {
		for y := 21; y < 40; y++ {
			if nameAt(s, x, y) == element.Salt {
				below++
			}
		}
	}
	assert.Positive(t, below, "salt should pass the neck")
}

func TestReactionSceneReacts(t *testing.T) {
	s := newSim(t, 64, 48, core.NewRNG(11))
	require.NoError(t, s.LoadScene("reaction"))
	c := census(s)
	require.Positive(t, c[element.Water])
	require.Positive(t, c[element.Lava])
	group := c[element.Water] + c[element.Lava]

	for i := 0; i < 200; i++ {
		s.Advance()
	}
	c = census(s)
	assert.Positive(t, c[element.Steam]+c[element.Stone])
	assert.Equal(t, group, c[element.Water]+c[element.Lava]+c[element.Steam]+c[element.Stone])
}
