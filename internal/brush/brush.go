// Package brush paints filled discs of a material into a world.
package brush

import (
	"errors"

	"pixsand/internal/core"
)

// MaxRadius bounds the brush size frontends can select.
const MaxRadius = 32

// Stamp writes v into every cell within radius of (cx, cy). Cells outside the
// grid are skipped so painting near an edge never fails. It returns the number
// of cells written.
func Stamp(dst core.CellSetter, cx, cy, radius int, v uint8) (int, error) {
	if radius < 0 {
		radius = 0
	}
	if radius > MaxRadius {
		radius = MaxRadius
	}
	r2 := radius * radius
	written := 0
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			err := dst.SetCell(cx+dx, cy+dy, v)
			if errors.Is(err, core.ErrOutOfBounds) {
				continue
			}
			if err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}

// Line stamps discs along the segment between two points so fast mouse drags
// leave a continuous stroke.
func Line(dst core.CellSetter, x0, y0, x1, y1, radius int, v uint8) (int, error) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	errTerm := dx + dy
	total := 0
	for {
		n, err := Stamp(dst, x0, y0, radius, v)
		total += n
		if err != nil {
			return total, err
		}
		if x0 == x1 && y0 == y1 {
			return total, nil
		}
		e2 := 2 * errTerm
		if e2 >= dy {
			errTerm += dy
			x0 += sx
		}
		if e2 <= dx {
			errTerm += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
