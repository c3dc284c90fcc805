package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions is returned when a grid is requested with a
	// non-positive width or height.
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	// ErrOutOfBounds is returned for coordinates outside the grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
)

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a zeroed grid with the given dimensions.
func NewByteGrid(w, h int) (*ByteGrid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}, nil
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g *ByteGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// At returns the value at (x, y) or ErrOutOfBounds.
func (g *ByteGrid) At(x, y int) (uint8, error) {
	if !g.InBounds(x, y) {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, g.W, g.H)
	}
	return g.data[g.Index(x, y)], nil
}

// Put writes v at (x, y) or returns ErrOutOfBounds leaving the grid untouched.
func (g *ByteGrid) Put(x, y int, v uint8) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, g.W, g.H)
	}
	g.data[g.Index(x, y)] = v
	return nil
}

// Clamp maps the provided coordinates onto the nearest in-range cell.
func (g *ByteGrid) Clamp(x, y int) (int, int) {
	return clampInt(x, 0, g.W-1), clampInt(y, 0, g.H-1)
}

// Fill sets every cell to v.
func (g *ByteGrid) Fill(v uint8) {
	for i := range g.data {
		g.data[i] = v
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
