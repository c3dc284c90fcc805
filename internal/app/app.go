//go:build ebiten

package app

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"pixsand/internal/brush"
	"pixsand/internal/core"
	"pixsand/internal/render"
	"pixsand/internal/sims/sand"
	"pixsand/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type paletteProvider interface {
	Palette() []color.RGBA
}

var digitKeys = map[ebiten.Key]rune{
	ebiten.KeyDigit1: '1',
	ebiten.KeyDigit2: '2',
	ebiten.KeyDigit3: '3',
	ebiten.KeyDigit4: '4',
}

// Game adapts a core simulation to the ebiten.Game interface. Painting and
// stepping both happen inside Update, so they never overlap.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	palette []color.RGBA
	setter  core.CellSetter
	log     *slog.Logger

	tool       brush.Tool
	lastPaint  [2]int
	painting   bool
	cursorX    int
	cursorY    int
	cursorOver bool

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, scale int, seed int64, tool brush.Tool, hudWidth int, log *slog.Logger) *Game {
	size := sim.Size()
	g := &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		overlay: ui.NewOverlay(sim, scale),
		hud:     ui.NewHUD(sim, hudWidth),
		palette: sand.Palette(),
		tool:    tool,
		scale:   scale,
		seed:    seed,
		log:     log,
	}
	if provider, ok := sim.(paletteProvider); ok {
		g.palette = provider.Palette()
	}
	if setter, ok := sim.(core.CellSetter); ok {
		g.setter = setter
	}
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
	g.log.Info("reset", "sim", g.sim.Name(), "seed", seed)
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
		g.log.Debug("pause toggled", "paused", g.paused)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	for key, digit := range digitKeys {
		if inpututil.IsKeyJustPressed(key) && g.tool.Select(digit) {
			g.log.Debug("material selected", "material", g.tool.Material)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeftBracket) {
		g.tool.Resize(g.tool.Radius - 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRightBracket) {
		g.tool.Resize(g.tool.Radius + 1)
	}

	g.overlay.Update()
	g.hud.Update(g.viewWidth())
	g.paint()

	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	g.hud.SetStatus(
		fmt.Sprintf("Brush: %s", g.tool),
		fmt.Sprintf("TPS: %.1f", ebiten.ActualTPS()),
		pausedLabel(g.paused),
	)
	return nil
}

// paint applies the brush under the cursor: left button paints the selected
// material, right button erases to Air.
func (g *Game) paint() {
	mx, my := ebiten.CursorPosition()
	g.cursorX, g.cursorY, g.cursorOver = cellAt(mx, my, g.scale, g.sim.Size())

	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	if g.setter == nil || !g.cursorOver || (!left && !right) {
		g.painting = false
		return
	}
	value := uint8(g.tool.Material)
	if right {
		value = uint8(sand.Air)
	}
	from := [2]int{g.cursorX, g.cursorY}
	if g.painting {
		from = g.lastPaint
	}
	if _, err := brush.Line(g.setter, from[0], from[1], g.cursorX, g.cursorY, g.tool.Radius, value); err != nil {
		g.log.Warn("paint failed", "err", err)
	}
	g.lastPaint = [2]int{g.cursorX, g.cursorY}
	g.painting = true
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	radius := -1
	if g.cursorOver {
		radius = g.tool.Radius
	}
	g.overlay.Draw(screen, g.cursorX, g.cursorY, radius)
	g.hud.Draw(screen, g.viewWidth(), g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return g.viewWidth() + g.hud.Width(), s.H * g.scale
}

func (g *Game) viewWidth() int { return g.sim.Size().W * g.scale }

func pausedLabel(paused bool) string {
	if paused {
		return "Paused (space to resume)"
	}
	return "Running"
}
