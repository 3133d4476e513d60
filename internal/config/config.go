// Package config loads the sandbox settings: embedded YAML defaults, an
// optional user file on top, then command-line flags on top of that.
package config

import (
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// MaxDimension bounds the grid width and height.
const MaxDimension = 4096

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds every tunable of the sandbox.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Window    WindowConfig    `yaml:"window"`
	Sim       SimConfig       `yaml:"sim"`
	Render    RenderConfig    `yaml:"render"`
	Brush     BrushConfig     `yaml:"brush"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// GridConfig sets the simulation size in cells.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// WindowConfig holds display and pacing settings.
type WindowConfig struct {
	Scale    int `yaml:"scale"`     // screen pixels per cell
	TPS      int `yaml:"tps"`       // ebiten update rate
	SimTPS   int `yaml:"sim_tps"`   // simulation ticks per second
	MaxSteps int `yaml:"max_steps"` // catch-up cap per frame
	HUDWidth int `yaml:"hud_width"`
}

// SimConfig selects the initial layout and random seed.
type SimConfig struct {
	Seed  int64  `yaml:"seed"` // 0 = time based
	Scene string `yaml:"scene"`
}

// RenderConfig controls the parallel renderer.
type RenderConfig struct {
	Workers  int     `yaml:"workers"` // 0 = GOMAXPROCS
	GasAlpha float64 `yaml:"gas_alpha"`
}

// BrushConfig sets the initial paint brush.
type BrushConfig struct {
	Radius  int    `yaml:"radius"`
	Element string `yaml:"element"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TelemetryConfig controls perf logging and CSV output.
type TelemetryConfig struct {
	Window      int    `yaml:"window"`       // perf samples kept
	LogEvery    int    `yaml:"log_every"`    // ticks between perf log lines, 0 = off
	CensusEvery int    `yaml:"census_every"` // ticks between census records
	OutputDir   string `yaml:"output_dir"`   // empty = no CSV
}

// Load reads the embedded defaults and, when path is non-empty, overlays the
// YAML file at path. Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Bind registers command-line flags that write directly into c. Current
// values become the flag defaults.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Grid.Width, "width", c.Grid.Width, "grid width in cells")
	fs.IntVar(&c.Grid.Height, "height", c.Grid.Height, "grid height in cells")
	fs.IntVar(&c.Window.Scale, "scale", c.Window.Scale, "screen pixels per cell")
	fs.IntVar(&c.Window.TPS, "tps", c.Window.TPS, "window updates per second")
	fs.IntVar(&c.Window.SimTPS, "sim-tps", c.Window.SimTPS, "simulation ticks per second")
	fs.Int64Var(&c.Sim.Seed, "seed", c.Sim.Seed, "random seed (0 = time based)")
	fs.StringVar(&c.Sim.Scene, "scene", c.Sim.Scene, "initial scene")
	fs.IntVar(&c.Render.Workers, "workers", c.Render.Workers, "render goroutines (0 = GOMAXPROCS)")
	fs.Float64Var(&c.Render.GasAlpha, "gas-alpha", c.Render.GasAlpha, "gas layer opacity")
	fs.IntVar(&c.Brush.Radius, "brush", c.Brush.Radius, "brush radius in cells")
	fs.StringVar(&c.Brush.Element, "element", c.Brush.Element, "initially selected element")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "debug, info, warn or error")
	fs.StringVar(&c.Log.Format, "log-format", c.Log.Format, "text or json")
	fs.StringVar(&c.Telemetry.OutputDir, "out", c.Telemetry.OutputDir, "directory for census and perf CSV")
}

// Parse loads the defaults, binds flags to fs, parses args and, if a
// -config file was named, reloads from it and reapplies the flags that were
// set explicitly. The result is validated.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg, err := Load("")
	if err != nil {
		return nil, err
	}
	path := fs.String("config", "", "YAML config file")
	cfg.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *path != "" {
		fileCfg, err := Load(*path)
		if err != nil {
			return nil, err
		}
		overrides := flag.NewFlagSet("overrides", flag.ContinueOnError)
		overrides.SetOutput(io.Discard)
		fileCfg.Bind(overrides)
		var setErr error
		fs.Visit(func(f *flag.Flag) {
			if overrides.Lookup(f.Name) == nil || setErr != nil {
				return
			}
			setErr = overrides.Set(f.Name, f.Value.String())
		})
		if setErr != nil {
			return nil, fmt.Errorf("applying flags: %w", setErr)
		}
		cfg = fileCfg
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Grid.Width < 1 || c.Grid.Width > MaxDimension:
		return fmt.Errorf("%w: grid.width %d outside [1, %d]", ErrInvalid, c.Grid.Width, MaxDimension)
	case c.Grid.Height < 1 || c.Grid.Height > MaxDimension:
		return fmt.Errorf("%w: grid.height %d outside [1, %d]", ErrInvalid, c.Grid.Height, MaxDimension)
	case c.Window.Scale < 1:
		return fmt.Errorf("%w: window.scale must be positive", ErrInvalid)
	case c.Window.TPS < 1 || c.Window.SimTPS < 1:
		return fmt.Errorf("%w: window.tps and window.sim_tps must be positive", ErrInvalid)
	case c.Window.MaxSteps < 1:
		return fmt.Errorf("%w: window.max_steps must be positive", ErrInvalid)
	case c.Window.HUDWidth < 0:
		return fmt.Errorf("%w: window.hud_width is negative", ErrInvalid)
	case c.Sim.Scene == "":
		return fmt.Errorf("%w: sim.scene is empty", ErrInvalid)
	case c.Render.Workers < 0:
		return fmt.Errorf("%w: render.workers is negative", ErrInvalid)
	case c.Render.GasAlpha < 0 || c.Render.GasAlpha > 1:
		return fmt.Errorf("%w: render.gas_alpha %g outside [0, 1]", ErrInvalid, c.Render.GasAlpha)
	case c.Brush.Radius < 0:
		return fmt.Errorf("%w: brush.radius is negative", ErrInvalid)
	case c.Brush.Element == "":
		return fmt.Errorf("%w: brush.element is empty", ErrInvalid)
	case c.Telemetry.Window < 1:
		return fmt.Errorf("%w: telemetry.window must be positive", ErrInvalid)
	case c.Telemetry.LogEvery < 0 || c.Telemetry.CensusEvery < 0:
		return fmt.Errorf("%w: telemetry intervals must not be negative", ErrInvalid)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("%w: log.format %q is not text or json", ErrInvalid, c.Log.Format)
	}
	return nil
}

// WriteYAML saves the effective configuration to path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// NewLogger builds a slog logger writing to w in the configured format.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := l.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(l.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func (l LogConfig) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q: %v", ErrInvalid, l.Level, err)
	}
	return level, nil
}
