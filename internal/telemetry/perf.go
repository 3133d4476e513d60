package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// PerfCollector keeps a rolling window of tick durations.
type PerfCollector struct {
	windowSize  int
	samples     []float64
	writeIndex  int
	sampleCount int
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]float64, windowSize),
	}
}

// Observe records one tick duration.
func (p *PerfCollector) Observe(d time.Duration) {
	p.samples[p.writeIndex] = float64(d)
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// Time runs fn and records how long it took.
func (p *PerfCollector) Time(fn func()) {
	start := time.Now()
	fn()
	p.Observe(time.Since(start))
}

// PerfStats summarizes the current window.
type PerfStats struct {
	Samples        int
	Mean           time.Duration
	StdDev         time.Duration
	P50            time.Duration
	P95            time.Duration
	Min            time.Duration
	Max            time.Duration
	TicksPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{}
	}
	data := slices.Clone(p.samples[:p.sampleCount])
	slices.Sort(data)

	mean, std := stat.MeanStdDev(data, nil)
	if p.sampleCount < 2 {
		std = 0
	}
	s := PerfStats{
		Samples: p.sampleCount,
		Mean:    time.Duration(mean),
		StdDev:  time.Duration(std),
		P50:     time.Duration(stat.Quantile(0.5, stat.Empirical, data, nil)),
		P95:     time.Duration(stat.Quantile(0.95, stat.Empirical, data, nil)),
		Min:     time.Duration(data[0]),
		Max:     time.Duration(data[len(data)-1]),
	}
	if mean > 0 {
		s.TicksPerSecond = float64(time.Second) / mean
	}
	return s
}

// LogStats logs the summary through logger.
func (s PerfStats) LogStats(logger *slog.Logger, msg string, extra ...any) {
	attrs := []any{
		"samples", s.Samples,
		"mean_us", s.Mean.Microseconds(),
		"stddev_us", s.StdDev.Microseconds(),
		"p50_us", s.P50.Microseconds(),
		"p95_us", s.P95.Microseconds(),
		"max_us", s.Max.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	logger.Info(msg, append(attrs, extra...)...)
}
