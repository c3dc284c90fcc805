//go:build ebiten

package ui

import (
	"image/color"

	"pixsand/internal/core"
	"pixsand/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type fallingProvider interface {
	FallingMask() []bool
}

// Overlay draws optional debugging visuals and the brush cursor on top of the
// base simulation.
type Overlay struct {
	sim         core.Sim
	scale       int
	showFalling bool
	mask        *render.GridPainter
	pixel       *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	if scale <= 0 {
		scale = 1
	}
	o := &Overlay{sim: sim, scale: scale}
	if _, ok := sim.(fallingProvider); ok {
		size := sim.Size()
		o.mask = render.NewGridPainter(size.W, size.H)
	}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// ShowFalling reports whether the moved-cell highlight is enabled.
func (o *Overlay) ShowFalling() bool { return o.showFalling }

// Update toggles overlays from keyboard input.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		o.showFalling = !o.showFalling
	}
}

// Draw renders the overlay onto the provided screen. cx, cy and radius
// describe the brush in grid cells; a negative radius hides the cursor.
func (o *Overlay) Draw(screen *ebiten.Image, cx, cy, radius int) {
	if o.showFalling && o.mask != nil {
		if provider, ok := o.sim.(fallingProvider); ok {
			o.mask.BlitMask(screen, provider.FallingMask(), color.RGBA{R: 255, G: 60, B: 60, A: 140}, o.scale)
		}
	}
	if radius >= 0 {
		o.drawCursor(screen, cx, cy, radius)
	}
}

// drawCursor outlines the brush footprint as a square frame.
func (o *Overlay) drawCursor(screen *ebiten.Image, cx, cy, radius int) {
	s := float64(o.scale)
	left := float64(cx-radius) * s
	top := float64(cy-radius) * s
	side := float64(2*radius+1) * s
	col := color.RGBA{R: 255, G: 40, B: 40, A: 255}
	o.rect(screen, left, top, side, 1, col)
	o.rect(screen, left, top+side-1, side, 1, col)
	o.rect(screen, left, top, 1, side, col)
	o.rect(screen, left+side-1, top, 1, side, col)
}

func (o *Overlay) rect(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
