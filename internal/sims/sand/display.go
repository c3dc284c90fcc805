package sand

import (
	"image/color"
	"math"
)

// rgba holds the normalized display colors, indexed by material.
var rgba = [materialCount][4]float64{
	Air:   {0, 0, 0, 1},
	Sand:  {0.99, 0.98, 0, 1},
	Water: {0, 0, 0.8, 1},
	Stone: {0.502, 0.502, 0.502, 1},
}

var sandPalette = buildPalette()

// RGBA returns the normalized display color of m. Unknown materials render as
// transparent black.
func RGBA(m Material) (r, g, b, a float64) {
	if !m.Valid() {
		return 0, 0, 0, 0
	}
	c := rgba[m]
	return c[0], c[1], c[2], c[3]
}

// ColorOf returns the 8-bit display color of m.
func ColorOf(m Material) color.RGBA {
	r, g, b, a := RGBA(m)
	return color.RGBA{R: to8(r), G: to8(g), B: to8(b), A: to8(a)}
}

// Palette returns the 8-bit colors indexed by material tag.
func Palette() []color.RGBA { return sandPalette }

// Palette exposes the color palette used for rendering the world.
func (w *World) Palette() []color.RGBA { return sandPalette }

func buildPalette() []color.RGBA {
	palette := make([]color.RGBA, materialCount)
	for _, m := range Materials() {
		palette[m] = ColorOf(m)
	}
	return palette
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
