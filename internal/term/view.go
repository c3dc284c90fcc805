// Package term renders a simulation into a terminal with tcell, one grid cell
// per character cell, and lets the mouse paint into it.
package term

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"pixsand/internal/brush"
	"pixsand/internal/core"
	"pixsand/internal/sims/sand"

	"github.com/gdamore/tcell/v2"
)

type paletteProvider interface {
	Palette() []color.RGBA
}

type fallingMaskProvider interface {
	FallingMask() []bool
}

// View draws a simulation onto a tcell.Screen. The bottom terminal row is
// reserved for a status line.
type View struct {
	screen tcell.Screen
	sim    core.Sim
	setter core.CellSetter
	styles []tcell.Style
	log    *slog.Logger
	tool   brush.Tool
	seed   int64
	paused bool
	step   bool
	drag   bool
	marks  bool
	lastX  int
	lastY  int
}

// NewView binds a simulation to an initialized screen.
func NewView(screen tcell.Screen, sim core.Sim, seed int64, tool brush.Tool, log *slog.Logger) *View {
	palette := sand.Palette()
	if p, ok := sim.(paletteProvider); ok {
		palette = p.Palette()
	}
	styles := make([]tcell.Style, len(palette))
	for i, c := range palette {
		styles[i] = tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
	}
	v := &View{screen: screen, sim: sim, styles: styles, log: log, tool: tool, seed: seed}
	if s, ok := sim.(core.CellSetter); ok {
		v.setter = s
	}
	return v
}

// Paused reports whether automatic stepping is suspended.
func (v *View) Paused() bool { return v.paused }

// Tool returns the current brush.
func (v *View) Tool() brush.Tool { return v.tool }

// Tick advances the simulation once unless paused. A pending single step
// runs even while paused.
func (v *View) Tick() {
	if v.paused && !v.step {
		return
	}
	v.step = false
	v.sim.Step()
}

// Handle applies one input event. It returns false when the user asked to quit.
func (v *View) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *View) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}
	switch r := ev.Rune(); r {
	case 'q', 'Q':
		return false
	case ' ':
		v.paused = !v.paused
	case 'n', 'N':
		v.step = true
	case 'f', 'F':
		v.marks = !v.marks
	case 'r', 'R':
		v.reset(v.seed)
	case 's', 'S':
		v.reset(time.Now().UnixNano())
	case '[':
		v.tool.Resize(v.tool.Radius - 1)
	case ']':
		v.tool.Resize(v.tool.Radius + 1)
	default:
		if v.tool.Select(r) {
			v.log.Debug("material selected", "material", v.tool.Material)
		}
	}
	return true
}

func (v *View) reset(seed int64) {
	v.seed = seed
	v.sim.Reset(seed)
	v.log.Info("reset", "sim", v.sim.Name(), "seed", seed)
}

// handleMouse paints with the primary button and erases with the secondary
// one. Consecutive drag events are joined with a line.
func (v *View) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	if v.setter == nil || buttons&(tcell.Button1|tcell.Button2) == 0 {
		v.drag = false
		return
	}
	value := uint8(v.tool.Material)
	if buttons&tcell.Button2 != 0 {
		value = uint8(sand.Air)
	}
	fromX, fromY := x, y
	if v.drag {
		fromX, fromY = v.lastX, v.lastY
	}
	if _, err := brush.Line(v.setter, fromX, fromY, x, y, v.tool.Radius, value); err != nil {
		v.log.Warn("paint failed", "err", err)
	}
	v.lastX, v.lastY, v.drag = x, y, true
}

// Draw paints the visible part of the grid and the status line, then shows
// the screen.
func (v *View) Draw() {
	v.screen.Clear()
	cols, rows := v.screen.Size()
	size := v.sim.Size()
	cells := v.sim.Cells()
	var falling []bool
	if p, ok := v.sim.(fallingMaskProvider); ok && v.marks {
		falling = p.FallingMask()
	}
	h := min(size.H, rows-1)
	w := min(size.W, cols)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*size.W + x
			glyph := ' '
			if i < len(falling) && falling[i] {
				glyph = '*'
			}
			v.screen.SetContent(x, y, glyph, nil, v.style(cells[i]))
		}
	}
	if rows > 0 {
		v.drawStatus(rows - 1)
	}
	v.screen.Show()
}

func (v *View) style(tag uint8) tcell.Style {
	if int(tag) < len(v.styles) {
		return v.styles[tag]
	}
	return tcell.StyleDefault
}

func (v *View) drawStatus(row int) {
	state := "running"
	if v.paused {
		state = "paused"
	}
	line := fmt.Sprintf(" %s | %s | %s | 1-4 material [ ] size space pause n step f moved r reset q quit", v.sim.Name(), v.tool, state)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)
	cols, _ := v.screen.Size()
	for x, r := range []rune(line) {
		if x >= cols {
			break
		}
		v.screen.SetContent(x, row, r, nil, style)
	}
}

// Run drives the view until ctx is cancelled or the user quits. Events are
// read on a separate goroutine and handed over a channel so input, stepping
// and drawing all happen on the calling goroutine.
func (v *View) Run(ctx context.Context, tps int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan tcell.Event, 64)
	go pumpEvents(ctx, v.screen, events)

	clock := core.NewFixedStep(tps)
	ticker := time.NewTicker(clock.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return ctx.Err()
			}
			if !v.Handle(ev) {
				return nil
			}
		case <-ticker.C:
			for n := clock.Due(); n > 0; n-- {
				v.Tick()
			}
			v.Draw()
		}
	}
}

// pumpEvents forwards screen events until the screen is finalized or ctx is
// done. It never blocks on a send once ctx is cancelled.
func pumpEvents(ctx context.Context, screen tcell.Screen, events chan<- tcell.Event) {
	defer close(events)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}
