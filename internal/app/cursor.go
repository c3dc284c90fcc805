package app

import "pixsand/internal/core"

// cellAt maps a screen pixel to the grid cell under it at the given scale.
// It reports false for pixels outside the grid view, including the partial
// cell band left and above the origin that integer division rounds to zero.
func cellAt(mx, my, scale int, size core.Size) (x, y int, ok bool) {
	if scale <= 0 {
		scale = 1
	}
	if mx < 0 || my < 0 {
		return 0, 0, false
	}
	x, y = mx/scale, my/scale
	return x, y, x < size.W && y < size.H
}
