package app

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powder/internal/config"
	incore "powder/internal/core"
	"powder/internal/element"
	"powder/internal/grid"
	"powder/internal/sim"
	"powder/internal/telemetry"
	"powder/pkg/core"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Grid.Width, cfg.Grid.Height = 32, 24
	cfg.Telemetry.LogEvery = 0
	cfg.Telemetry.CensusEvery = 0
	return cfg
}

func newSession(t *testing.T, cfg *config.Config, logger *slog.Logger, out *telemetry.OutputManager) *Session {
	t.Helper()
	reg, err := element.NewDefaultRegistry()
	require.NoError(t, err)
	s, err := sim.New(reg, cfg.Grid.Width, cfg.Grid.Height, core.NewRNG(3))
	require.NoError(t, err)
	ss, err := NewSession(s, cfg, logger, out)
	require.NoError(t, err)
	return ss
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestNewSessionLoadsScene(t *testing.T) {
	ss := newSession(t, testConfig(t), discard(), nil)
	assert.Equal(t, element.Salt, ss.Selected().Name)
	assert.Equal(t, 2, ss.Brush())
	assert.Equal(t, element.Wall, ss.Sim().ElementAt(grid.Pos{X: 0, Y: 23}).Name, "basin walls")
}

func TestNewSessionErrors(t *testing.T) {
	reg, err := element.NewDefaultRegistry()
	require.NoError(t, err)
	s, err := sim.New(reg, 8, 8, nil)
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.Brush.Element = "plasma"
	_, err = NewSession(s, cfg, discard(), nil)
	assert.ErrorIs(t, err, element.ErrNotFound)

	cfg = testConfig(t)
	cfg.Sim.Scene = "volcano"
	_, err = NewSession(s, cfg, discard(), nil)
	assert.ErrorIs(t, err, sim.ErrUnknownScene)
}

func TestSelectAndBrush(t *testing.T) {
	ss := newSession(t, testConfig(t), discard(), nil)
	require.True(t, ss.Select(3))
	assert.Equal(t, element.Water, ss.Selected().Name)
	assert.False(t, ss.Select(-1))
	assert.False(t, ss.Select(ss.Sim().Registry().Len()))
	assert.Equal(t, element.Water, ss.Selected().Name, "failed select keeps the old element")

	ss.SetBrush(-4)
	assert.Equal(t, 0, ss.Brush())
	ss.SetBrush(1000)
	assert.Equal(t, MaxBrush, ss.Brush())
}

func TestPaintAndErase(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sim.Scene = "empty"
	ss := newSession(t, cfg, discard(), nil)
	ss.SetBrush(1)
	center := grid.Pos{X: 10, Y: 10}

	assert.Equal(t, 5, ss.Paint(center, false))
	assert.Equal(t, element.Salt, ss.Sim().ElementAt(center).Name)
	assert.Equal(t, element.Salt, ss.Sim().ElementAt(center.Add(0, -1)).Name)

	assert.Equal(t, 5, ss.Paint(center, true))
	assert.Equal(t, element.Air, ss.Sim().ElementAt(center).Name)

	ss.SetBrush(0)
	assert.Equal(t, 0, ss.Paint(grid.Pos{X: -1, Y: 0}, false))
}

func TestRunHonoursPause(t *testing.T) {
	ss := newSession(t, testConfig(t), discard(), nil)
	assert.Equal(t, 3, ss.Run(3))
	assert.Equal(t, uint64(3), ss.Sim().Tick())

	ss.TogglePause()
	require.True(t, ss.Paused())
	assert.Equal(t, 0, ss.Run(5))
	assert.Equal(t, uint64(3), ss.Sim().Tick())

	ss.StepOnce()
	assert.Equal(t, 1, ss.Run(5))
	assert.Equal(t, 0, ss.Run(5), "a queued step runs once")
	assert.Equal(t, uint64(4), ss.Sim().Tick())
	assert.Equal(t, 4, ss.Perf().Samples)
}

func TestClearAndReload(t *testing.T) {
	ss := newSession(t, testConfig(t), discard(), nil)
	corner := grid.Pos{X: 0, Y: 23}
	ss.Clear()
	assert.Equal(t, element.Air, ss.Sim().ElementAt(corner).Name)
	require.NoError(t, ss.Reload())
	assert.Equal(t, element.Wall, ss.Sim().ElementAt(corner).Name)
}

func TestReadout(t *testing.T) {
	ss := newSession(t, testConfig(t), discard(), nil)
	ss.TogglePause()
	r := ss.Readout()

	require.Len(t, r.Groups, 4)
	names := []string{r.Groups[0].Name, r.Groups[1].Name, r.Groups[2].Name, r.Groups[3].Name}
	assert.Equal(t, []string{"Sim", "Brush", "Census", "Keys"}, names)
	assert.Equal(t, "paused", lineValue(r.Groups[0], "state"))
	assert.Equal(t, "Salt", lineValue(r.Groups[1], "element"))
	assert.Equal(t, "2", lineValue(r.Groups[1], "radius"))

	n := ss.Sim().Registry().Len()
	assert.Len(t, r.Groups[2].Lines, n-1, "census skips the background")
	assert.Len(t, r.Groups[3].Lines, n)
	assert.Equal(t, "1", r.Groups[3].Lines[0].Label)
}

func lineValue(g incore.ReadoutGroup, label string) string {
	for _, l := range g.Lines {
		if l.Label == label {
			return l.Value
		}
	}
	return ""
}

func TestRunWritesTelemetry(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.LogEvery = 2
	cfg.Telemetry.CensusEvery = 1
	dir := t.TempDir()
	out, err := telemetry.NewOutputManager(dir)
	require.NoError(t, err)

	var logs bytes.Buffer
	ss := newSession(t, cfg, slog.New(slog.NewTextHandler(&logs, nil)), out)
	ss.Run(2)
	require.NoError(t, ss.Close())

	assert.Contains(t, logs.String(), "tick perf")
	data, err := os.ReadFile(filepath.Join(dir, "census.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 1+2*ss.Sim().Registry().Len())
}
