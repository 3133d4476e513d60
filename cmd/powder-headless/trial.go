package main

import (
	"fmt"

	"powder/internal/element"
	"powder/internal/sim"
	"powder/internal/telemetry"
	"powder/pkg/core"
)

type trialSpec struct {
	index       int
	seed        int64
	width       int
	height      int
	scene       string
	ticks       int
	censusEvery int
	perfWindow  int
}

type trialResult struct {
	index     int
	seed      int64
	censuses  []telemetry.Census
	perf      telemetry.PerfStats
	conserved bool
	err       error
}

// runTrial loads the scene into a fresh simulation, runs it for spec.ticks
// and checks every reaction group kept its size.
func runTrial(reg *element.Registry, groups [][]element.ID, spec trialSpec) trialResult {
	res := trialResult{index: spec.index, seed: spec.seed}
	s, err := sim.New(reg, spec.width, spec.height, core.NewRNG(spec.seed))
	if err != nil {
		res.err = err
		return res
	}
	if err := s.LoadScene(spec.scene); err != nil {
		res.err = err
		return res
	}

	start := telemetry.TakeCensus(s.Tick(), s.Grid(), reg)
	res.censuses = append(res.censuses, start)
	perf := telemetry.NewPerfCollector(spec.perfWindow)
	for i := 0; i < spec.ticks; i++ {
		perf.Time(s.Advance)
		if spec.censusEvery > 0 && s.Tick()%uint64(spec.censusEvery) == 0 {
			res.censuses = append(res.censuses, telemetry.TakeCensus(s.Tick(), s.Grid(), reg))
		}
	}
	end := telemetry.TakeCensus(s.Tick(), s.Grid(), reg)
	if last := res.censuses[len(res.censuses)-1]; last.Tick != end.Tick {
		res.censuses = append(res.censuses, end)
	}
	res.perf = perf.Stats()
	res.conserved = telemetry.Conserved(groups, start, end)
	if !res.conserved {
		res.err = fmt.Errorf("trial %d: element groups not conserved", spec.index)
	}
	return res
}
