package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powder/internal/element"
	"powder/internal/grid"
)

func defaultRegistry(t *testing.T) *element.Registry {
	t.Helper()
	reg, err := element.NewDefaultRegistry()
	require.NoError(t, err)
	return reg
}

func mustID(t *testing.T, reg *element.Registry, name string) element.ID {
	t.Helper()
	id, err := reg.IDOf(name)
	require.NoError(t, err)
	return id
}

func TestTakeCensus(t *testing.T) {
	reg := defaultRegistry(t)
	g := grid.New(4, 3, 0)
	salt := mustID(t, reg, element.Salt)
	g.SetElement(grid.Pos{X: 0, Y: 0}, salt)
	g.SetElement(grid.Pos{X: 3, Y: 2}, salt)

	c := TakeCensus(7, g, reg)
	assert.Equal(t, uint64(7), c.Tick)
	assert.Equal(t, 10, c.Count(0))
	assert.Equal(t, 2, c.Count(salt))
	assert.Equal(t, 0, c.Count(element.ID(99)))
	assert.Equal(t, 12, c.Total())
	assert.Equal(t, 12, c.Group(0, salt))
}

func TestReactionGroups(t *testing.T) {
	reg := defaultRegistry(t)
	groups := ReactionGroups(reg)

	var reactive []element.ID
	singletons := 0
	for _, g := range groups {
		if len(g) > 1 {
			reactive = g
			continue
		}
		singletons++
	}
	want := []element.ID{
		mustID(t, reg, element.Water),
		mustID(t, reg, element.Lava),
		mustID(t, reg, element.Steam),
		mustID(t, reg, element.Stone),
	}
	assert.ElementsMatch(t, want, reactive)
	assert.Equal(t, reg.Len()-len(want), singletons)
}

func TestConserved(t *testing.T) {
	reg := defaultRegistry(t)
	groups := ReactionGroups(reg)
	water := mustID(t, reg, element.Water)
	steam := mustID(t, reg, element.Steam)

	a := Census{Counts: make([]int, reg.Len())}
	b := Census{Counts: make([]int, reg.Len())}
	a.Counts[water] = 3
	b.Counts[water] = 2
	b.Counts[steam] = 1
	assert.True(t, Conserved(groups, a, b))

	b.Counts[0] = 1
	assert.False(t, Conserved(groups, a, b))
}

func TestPerfCollectorStats(t *testing.T) {
	pc := NewPerfCollector(4)
	assert.Equal(t, PerfStats{}, pc.Stats())

	for _, ms := range []int{1, 2, 3, 4, 100} {
		pc.Observe(time.Duration(ms) * time.Millisecond)
	}
	stats := pc.Stats()
	assert.Equal(t, 4, stats.Samples, "window keeps the last four samples")
	assert.Equal(t, 2*time.Millisecond, stats.Min)
	assert.Equal(t, 100*time.Millisecond, stats.Max)
	assert.Equal(t, 27250*time.Microsecond, stats.Mean)
	assert.Positive(t, stats.StdDev)
	assert.InDelta(t, float64(time.Second)/float64(27250*time.Microsecond), stats.TicksPerSecond, 1e-6)
}

func TestPerfCollectorSingleSample(t *testing.T) {
	pc := NewPerfCollector(0)
	pc.Time(func() { time.Sleep(time.Millisecond) })
	stats := pc.Stats()
	assert.Equal(t, 1, stats.Samples)
	assert.Zero(t, stats.StdDev)
	assert.GreaterOrEqual(t, stats.Mean, time.Millisecond)
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	require.NoError(t, err)
	assert.Nil(t, om)
	assert.NoError(t, om.WriteCensus([]CensusRecord{{Tick: 1}}))
	assert.NoError(t, om.WritePerf(PerfRecord{}))
	assert.NoError(t, om.Close())
	assert.Empty(t, om.Dir())
}

func TestOutputManagerWritesHeadersOnce(t *testing.T) {
	reg := defaultRegistry(t)
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	require.NoError(t, err)

	g := grid.New(2, 2, 0)
	for tick := uint64(1); tick <= 2; tick++ {
		require.NoError(t, om.WriteCensus(CensusRecords(0, TakeCensus(tick, g, reg), reg)))
		require.NoError(t, om.WritePerf(PerfStats{Samples: 1, Mean: time.Millisecond}.ToRecord(0, tick)))
	}
	require.NoError(t, om.Close())

	data, err := os.ReadFile(filepath.Join(dir, "census.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "trial,tick,element,count", lines[0])
	assert.Len(t, lines, 1+2*reg.Len())
	assert.Equal(t, "0,1,air,4", lines[1])

	data, err = os.ReadFile(filepath.Join(dir, "perf.csv"))
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "trial,tick,samples,mean_us"))
	assert.True(t, strings.HasPrefix(lines[2], "0,2,1,1000,"))
}
