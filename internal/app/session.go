package app

import (
	"fmt"
	"log/slog"

	"powder/internal/config"
	"powder/internal/core"
	"powder/internal/element"
	"powder/internal/grid"
	"powder/internal/sim"
	"powder/internal/telemetry"
)

// MaxBrush caps the brush radius.
const MaxBrush = 32

// Session holds the interactive state around a simulation: the selected
// element, the brush, pause state and telemetry. It has no GUI dependency so
// the ebiten Game only translates input into Session calls.
type Session struct {
	sim    *sim.Simulation
	logger *slog.Logger
	perf   *telemetry.PerfCollector
	out    *telemetry.OutputManager

	scene    string
	selected element.ID
	brush    int
	paused   bool
	stepOnce bool

	logEvery    uint64
	censusEvery uint64
}

// NewSession loads the configured scene into s and selects the configured
// brush element. out may be nil.
func NewSession(s *sim.Simulation, cfg *config.Config, logger *slog.Logger, out *telemetry.OutputManager) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	selected, err := s.IDOf(cfg.Brush.Element)
	if err != nil {
		return nil, fmt.Errorf("brush element: %w", err)
	}
	ss := &Session{
		sim:         s,
		logger:      logger,
		perf:        telemetry.NewPerfCollector(cfg.Telemetry.Window),
		out:         out,
		scene:       cfg.Sim.Scene,
		selected:    selected,
		logEvery:    uint64(cfg.Telemetry.LogEvery),
		censusEvery: uint64(cfg.Telemetry.CensusEvery),
	}
	ss.SetBrush(cfg.Brush.Radius)
	if err := ss.Reload(); err != nil {
		return nil, err
	}
	return ss, nil
}

// Sim returns the underlying simulation.
func (ss *Session) Sim() *sim.Simulation { return ss.sim }

// Select picks the element in palette slot i, in registration order. It
// reports false for slots with no element.
func (ss *Session) Select(slot int) bool {
	if slot < 0 || slot >= ss.sim.Registry().Len() {
		return false
	}
	ss.selected = element.ID(slot)
	return true
}

// Selected returns the element painted by the brush.
func (ss *Session) Selected() element.Element {
	return ss.sim.Registry().MustElement(ss.selected)
}

// SetBrush sets the brush radius, clamped to [0, MaxBrush].
func (ss *Session) SetBrush(r int) {
	ss.brush = max(0, min(r, MaxBrush))
}

// Brush returns the brush radius.
func (ss *Session) Brush() int { return ss.brush }

// TogglePause flips between running and paused.
func (ss *Session) TogglePause() { ss.paused = !ss.paused }

// Paused reports whether ticks are suspended.
func (ss *Session) Paused() bool { return ss.paused }

// StepOnce queues a single tick to run while paused.
func (ss *Session) StepOnce() { ss.stepOnce = true }

// Clear resets the grid to the background element.
func (ss *Session) Clear() { ss.sim.Clear() }

// Reload clears the grid and reapplies the current scene.
func (ss *Session) Reload() error {
	if err := ss.sim.LoadScene(ss.scene); err != nil {
		return err
	}
	ss.logger.Info("scene loaded", "scene", ss.scene, "width", ss.sim.Width(), "height", ss.sim.Height())
	return nil
}

// Paint applies the brush at p with the selected element, or the background
// when erase is set. It returns the number of cells written.
func (ss *Session) Paint(p grid.Pos, erase bool) int {
	id := ss.selected
	if erase {
		id = sim.Background
	}
	return ss.sim.PaintDisc(p, ss.brush, id)
}

// Run advances the simulation by due ticks, or by one queued tick while
// paused, and returns how many ticks ran.
func (ss *Session) Run(due int) int {
	if ss.paused {
		if !ss.stepOnce {
			return 0
		}
		due = 1
	}
	ss.stepOnce = false
	for i := 0; i < due; i++ {
		ss.perf.Time(ss.sim.Advance)
		ss.afterTick()
	}
	return max(due, 0)
}

func (ss *Session) afterTick() {
	tick := ss.sim.Tick()
	if ss.logEvery > 0 && tick%ss.logEvery == 0 {
		ss.perf.Stats().LogStats(ss.logger, "tick perf", "tick", tick)
	}
	if ss.out == nil || ss.censusEvery == 0 || tick%ss.censusEvery != 0 {
		return
	}
	c := telemetry.TakeCensus(tick, ss.sim.Grid(), ss.sim.Registry())
	if err := ss.out.WriteCensus(telemetry.CensusRecords(0, c, ss.sim.Registry())); err != nil {
		ss.logger.Error("writing census", "err", err)
	}
	if err := ss.out.WritePerf(ss.perf.Stats().ToRecord(0, tick)); err != nil {
		ss.logger.Error("writing perf", "err", err)
	}
}

// Perf returns the rolling tick timing statistics.
func (ss *Session) Perf() telemetry.PerfStats { return ss.perf.Stats() }

// Readout summarises the session for the HUD.
func (ss *Session) Readout() core.Readout {
	var r core.Readout
	state := "running"
	if ss.paused {
		state = "paused"
	}
	r.Add("Sim").
		Line("scene", "%s", ss.scene).
		Line("tick", "%d", ss.sim.Tick()).
		Line("state", "%s", state).
		Line("tick time", "%.2fms", float64(ss.perf.Stats().Mean.Microseconds())/1000)

	r.Add("Brush").
		Line("element", "%s", ss.Selected().DisplayName).
		Line("radius", "%d", ss.brush)

	reg := ss.sim.Registry()
	c := telemetry.TakeCensus(ss.sim.Tick(), ss.sim.Grid(), reg)
	counts := r.Add("Census")
	for _, e := range reg.All() {
		if e.ID == sim.Background {
			continue
		}
		counts.Line(e.DisplayName, "%d", c.Count(e.ID))
	}

	palette := r.Add("Keys")
	for _, e := range reg.All() {
		if key, ok := slotKey(int(e.ID)); ok {
			palette.Line(key, "%s", e.DisplayName)
		}
	}
	return r
}

// slotKey names the number key bound to a palette slot: 1-9 then 0.
func slotKey(slot int) (string, bool) {
	switch {
	case slot >= 0 && slot < 9:
		return fmt.Sprint(slot + 1), true
	case slot == 9:
		return "0", true
	}
	return "", false
}

// Close flushes telemetry output.
func (ss *Session) Close() error { return ss.out.Close() }
