//go:build ebiten

package app

import (
	"log/slog"

	"powder/internal/core"
	"powder/internal/grid"
	"powder/internal/render"
	"powder/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Options holds the display settings of a Game.
type Options struct {
	Scale    int
	SimTPS   int
	MaxSteps int
	Workers  int
	GasAlpha float32
	HUDWidth int
}

// Game adapts a Session to the ebiten.Game interface. Input and ticks run in
// Update; the grid is only read in Draw, after Update has returned.
type Game struct {
	session  *Session
	renderer *render.Renderer
	painter  *render.GridPainter
	overlay  *ui.Overlay
	hud      *ui.HUD
	step     *core.FixedStep
	logger   *slog.Logger

	opts      Options
	renderErr bool
}

// New constructs a Game for the provided session.
func New(session *Session, opts Options, logger *slog.Logger) *Game {
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := session.Sim()
	return &Game{
		session:  session,
		renderer: render.NewRenderer(s.Width(), s.Height(), opts.Workers),
		painter:  render.NewGridPainter(s.Width(), s.Height()),
		overlay:  ui.NewOverlay(opts.Scale),
		hud:      ui.NewHUD(opts.HUDWidth),
		step:     core.NewFixedStep(opts.SimTPS),
		logger:   logger,
		opts:     opts,
	}
}

var slotKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4, ebiten.KeyDigit5,
	ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9, ebiten.KeyDigit0,
}

// Update handles input and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.session.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.session.StepOnce()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.session.Clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.session.Reload(); err != nil {
			g.logger.Error("reloading scene", "err", err)
		}
	}
	for slot, key := range slotKeys {
		if inpututil.IsKeyJustPressed(key) && g.session.Select(slot) {
			g.logger.Debug("element selected", "element", g.session.Selected().Name)
		}
	}
	if _, dy := ebiten.Wheel(); dy > 0 {
		g.session.SetBrush(g.session.Brush() + 1)
	} else if dy < 0 {
		g.session.SetBrush(g.session.Brush() - 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.session.SetBrush(g.session.Brush() + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.session.SetBrush(g.session.Brush() - 1)
	}
	g.overlay.Update()

	if p, ok := g.cursorCell(); ok {
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			g.session.Paint(p, false)
		} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
			g.session.Paint(p, true)
		}
	}

	g.session.Run(g.step.Steps(g.opts.MaxSteps))
	return nil
}

// cursorCell maps the cursor to a grid cell, reporting false outside the grid.
func (g *Game) cursorCell() (grid.Pos, bool) {
	mx, my := ebiten.CursorPosition()
	p := grid.Pos{X: mx / g.opts.Scale, Y: my / g.opts.Scale}
	if mx < 0 || my < 0 {
		return p, false
	}
	return p, g.session.Sim().InBounds(p)
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	s := g.session.Sim()
	if err := g.renderer.Render(s.Grid(), s.Registry()); err != nil {
		if !g.renderErr {
			g.logger.Error("rendering grid", "err", err)
			g.renderErr = true
		}
		return
	}
	g.painter.Blit(screen, g.renderer.Frame(), g.opts.Scale, g.opts.GasAlpha)

	mx, my := ebiten.CursorPosition()
	g.overlay.Draw(screen, g.renderer.Ranges(), s.Height(), mx/g.opts.Scale, my/g.opts.Scale, g.session.Brush())
	g.hud.Draw(screen, s.Width()*g.opts.Scale, s.Height()*g.opts.Scale, g.session.Readout())
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.session.Sim()
	return s.Width()*g.opts.Scale + g.hud.Width(), s.Height() * g.opts.Scale
}
