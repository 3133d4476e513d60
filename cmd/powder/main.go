//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"powder/internal/app"
	"powder/internal/config"
	"powder/internal/element"
	"powder/internal/sim"
	"powder/internal/telemetry"
	"powder/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
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

	if err := run(cfg, logger); err != nil {
		logger.Error("powder exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	reg, err := element.NewDefaultRegistry()
	if err != nil {
		return err
	}
	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s, err := sim.New(reg, cfg.Grid.Width, cfg.Grid.Height, core.NewRNG(seed))
	if err != nil {
		return err
	}
	logger.Info("simulation ready",
		"width", cfg.Grid.Width, "height", cfg.Grid.Height,
		"seed", seed, "elements", reg.Len(), "workers", cfg.Render.Workers)

	out, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		return err
	}
	session, err := app.NewSession(s, cfg, logger, out)
	if err != nil {
		out.Close()
		return err
	}
	defer session.Close()

	game := app.New(session, app.Options{
		Scale:    cfg.Window.Scale,
		SimTPS:   cfg.Window.SimTPS,
		MaxSteps: cfg.Window.MaxSteps,
		Workers:  cfg.Render.Workers,
		GasAlpha: float32(cfg.Render.GasAlpha),
		HUDWidth: cfg.Window.HUDWidth,
	}, logger)

	ebiten.SetWindowTitle("powder")
	ebiten.SetTPS(cfg.Window.TPS)
	ebiten.SetWindowSize(cfg.Grid.Width*cfg.Window.Scale+cfg.Window.HUDWidth, cfg.Grid.Height*cfg.Window.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	session.Perf().LogStats(logger, "session perf", "tick", s.Tick())
	return nil
}
