// Package gui hosts the stardust field in an ebiten window, with mouse
// and single-touch input.
package gui

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/san-kum/stardust/internal/config"
	"github.com/san-kum/stardust/internal/dither"
	"github.com/san-kum/stardust/internal/geom"
	"github.com/san-kum/stardust/internal/input"
	"github.com/san-kum/stardust/internal/palette"
	"github.com/san-kum/stardust/internal/render"
	"github.com/san-kum/stardust/internal/sim"
	"golang.org/x/image/font/basicfont"
)

type Game struct {
	cfg *config.Config
	sim *sim.Simulation
	log *slog.Logger

	scale         geom.Scale
	width, height int // logical window size
	physW, physH  int
	bg            *dither.Generator
	bgImage       *ebiten.Image
	tracker       input.Tracker
	touchIDs      []ebiten.TouchID
	face          text.Face
	last          sim.TickStats
	paused, hudOn bool
}

func New(cfg *config.Config, rng sim.Rand, log *slog.Logger) *Game {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	for _, err := range cfg.ColorErrors() {
		log.Debug("colour falls back to white", "err", err)
	}
	bounds := geom.NewBounds(float64(cfg.Render.Width), float64(cfg.Render.Height), cfg.Interaction.EdgeBuffer)
	return &Game{
		cfg:   cfg,
		sim:   sim.New(cfg, bounds, rng),
		log:   log,
		scale: geom.Scale{Factor: 1},
		bg: dither.NewGenerator(
			palette.Parse(cfg.Background.Top),
			palette.Parse(cfg.Background.Bottom),
			cfg.Background.Levels,
		),
		face: text.NewGoXFace(basicfont.Face7x13),
	}
}

func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyQ):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.log.Debug("released", "particles", g.sim.Release())
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.hudOn = !g.hudOn
	}

	now := time.Now()
	for _, ev := range g.tracker.Events(g.sample(), now) {
		out := g.sim.HandleEvent(ev)
		if out.Started || out.Ended {
			g.log.Debug("interaction", "kind", ev.Kind, "source", ev.Source, "started", out.Started, "ended", out.Ended)
		}
	}

	if !g.paused {
		g.last = g.sim.Step(now)
	}
	return nil
}

// sample polls the mouse and the first active touch. ebiten reports
// positions in screen pixels, which Layout makes physical.
func (g *Game) sample() input.Sample {
	mx, my := ebiten.CursorPosition()
	s := input.Sample{
		MouseDown: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Mouse:     g.scale.ToLogical(geom.PhysicalPoint{X: float64(mx), Y: float64(my)}),
	}

	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	s.Touches = len(g.touchIDs)
	if s.Touches > 0 {
		tx, ty := ebiten.TouchPosition(g.touchIDs[0])
		s.Touch = g.scale.ToLogical(geom.PhysicalPoint{X: float64(tx), Y: float64(ty)})
	}
	return s
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.bgImage != nil {
		screen.DrawImage(g.bgImage, nil)
	} else {
		screen.Fill(color.Black)
	}

	render.Frame(g.sim, screenSink{dst: screen, scale: g.scale}, render.Options{
		RegularSize: g.cfg.Particles.RegularSize,
		BloomOffset: g.cfg.Render.BloomOffset,
	})

	if g.hudOn {
		g.drawHUD(screen)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := []string{
		fmt.Sprintf("tps %.0f  fps %.0f", ebiten.ActualTPS(), ebiten.ActualFPS()),
		fmt.Sprintf("free %d  attracted %d  flicked %d", g.last.Free, g.last.Attracted, g.last.Flicked),
		fmt.Sprintf("radius %.1f  scale %.2f", g.last.Radius, g.scale.Factor),
	}
	if g.paused {
		lines = append(lines, "paused")
	}
	for i, l := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(8, 8+float64(i)*16)
		op.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, l, g.face, op)
	}
}

// Layout renders at physical resolution. A change of logical size or
// scale factor resizes the field and rebuilds the background.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := geom.Scale{Factor: ebiten.Monitor().DeviceScaleFactor()}
	if outsideWidth == g.width && outsideHeight == g.height && scale == g.scale && g.bgImage != nil {
		return g.physW, g.physH
	}
	g.resize(outsideWidth, outsideHeight, scale)
	return g.physW, g.physH
}

func (g *Game) resize(w, h int, scale geom.Scale) {
	if w <= 0 || h <= 0 {
		return
	}
	g.width, g.height, g.scale = w, h, scale
	g.physW, g.physH = scale.PhysicalSize(float64(w), float64(h))
	g.sim.Resize(geom.NewBounds(float64(w), float64(h), g.cfg.Interaction.EdgeBuffer))

	img, fresh, err := g.bg.Regenerate(g.physW, g.physH)
	if err != nil {
		g.log.Error("background", "err", err)
		return
	}
	if fresh {
		if g.bgImage != nil {
			g.bgImage.Deallocate()
		}
		g.bgImage = ebiten.NewImageFromImage(img)
	}
	g.log.Info("resized", "logical", fmt.Sprintf("%dx%d", w, h), "physical", fmt.Sprintf("%dx%d", g.physW, g.physH), "scale", scale.Factor)
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, rng sim.Rand, log *slog.Logger) error {
	ebiten.SetWindowTitle("stardust")
	ebiten.SetWindowSize(cfg.Render.Width, cfg.Render.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Render.TPS)
	return ebiten.RunGame(New(cfg, rng, log))
}
