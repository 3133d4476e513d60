// Command powder-headless runs the sandbox without a window: several seeded
// trials of one scene in parallel, with tick timing and element census
// reported through slog and optional CSV.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"powder/internal/config"
	"powder/internal/element"
	"powder/internal/telemetry"
)

func main() {
	fs := flag.CommandLine
	trials := fs.Int("trials", 4, "number of seeded trials")
	ticks := fs.Int("ticks", 1000, "ticks per trial")
	jobs := fs.Int("jobs", runtime.NumCPU(), "trials run concurrently")
	cfg, err := config.Parse(fs, os.Args[1:])
	if err != nil {
		slog.Error("loading config", "err", err)
		os.Exit(2)
	}
	logger, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		slog.Error("building logger", "err", err)
		os.Exit(2)
	}
	slog.SetDefault(logger)

	if !run(cfg, logger, *trials, *ticks, *jobs) {
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, trials, ticks, jobs int) bool {
	reg, err := element.NewDefaultRegistry()
	if err != nil {
		logger.Error("building registry", "err", err)
		return false
	}
	out, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		logger.Error("opening output", "err", err)
		return false
	}
	defer out.Close()
	if out != nil {
		if err := cfg.WriteYAML(filepath.Join(out.Dir(), "config.yaml")); err != nil {
			logger.Error("saving config", "err", err)
		}
	}

	baseSeed := cfg.Sim.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}
	jobs = max(1, min(jobs, trials))
	logger.Info("starting trials",
		"trials", trials, "ticks", ticks, "jobs", jobs, "scene", cfg.Sim.Scene,
		"width", cfg.Grid.Width, "height", cfg.Grid.Height, "seed", baseSeed)

	groups := telemetry.ReactionGroups(reg)
	specs := make(chan trialSpec)
	results := make(chan trialResult)
	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for spec := range specs {
				results <- runTrial(reg, groups, spec)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	go func() {
		for i := 0; i < trials; i++ {
			specs <- trialSpec{
				index:       i,
				seed:        baseSeed + int64(i),
				width:       cfg.Grid.Width,
				height:      cfg.Grid.Height,
				scene:       cfg.Sim.Scene,
				ticks:       ticks,
				censusEvery: cfg.Telemetry.CensusEvery,
				perfWindow:  cfg.Telemetry.Window,
			}
		}
		close(specs)
	}()

	start := time.Now()
	var all []trialResult
	for res := range results {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].index < all[j].index })

	ok := true
	tps := make([]float64, 0, len(all))
	for _, res := range all {
		if res.err != nil {
			logger.Error("trial failed", "trial", res.index, "seed", res.seed, "err", res.err)
			ok = false
			if res.perf.Samples == 0 {
				continue
			}
		}
		tps = append(tps, res.perf.TicksPerSecond)
		res.perf.LogStats(logger, "trial perf", "trial", res.index, "seed", res.seed)
		if err := writeTrial(out, reg, res); err != nil {
			logger.Error("writing trial output", "trial", res.index, "err", err)
			ok = false
		}
	}

	if len(tps) > 0 {
		mean, std := stat.MeanStdDev(tps, nil)
		if len(tps) < 2 {
			std = 0
		}
		logger.Info("trials finished",
			"elapsed", time.Since(start).Round(time.Millisecond),
			"ticks_per_sec_mean", mean, "ticks_per_sec_stddev", std, "ok", ok)
	}
	return ok
}

func writeTrial(out *telemetry.OutputManager, reg *element.Registry, res trialResult) error {
	if out == nil {
		return nil
	}
	for _, c := range res.censuses {
		if err := out.WriteCensus(telemetry.CensusRecords(res.index, c, reg)); err != nil {
			return err
		}
	}
	last := res.censuses[len(res.censuses)-1]
	return out.WritePerf(res.perf.ToRecord(res.index, last.Tick))
}
