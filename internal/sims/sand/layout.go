package sand

import "pixsand/internal/core"

// paintBasin lays out a stone basin: floor, side walls, a few sloped ledges,
// a sand pile in the left third and a block of water in the right third.
func (w *World) paintBasin(rng *core.RNG) {
	width, height := w.grid.W, w.grid.H
	for x := 0; x < width; x++ {
		w.put(x, height-1, Stone)
	}
	for y := 0; y < height; y++ {
		w.put(0, y, Stone)
		w.put(width-1, y, Stone)
	}
	if width < 8 || height < 8 {
		return
	}

	ledges := 2 + rng.IntN(3)
	spacing := width / (ledges + 1)
	for i := 0; i < ledges; i++ {
		length := max(2, spacing/2+rng.IntN(max(1, spacing/3)))
		startX := (i+1)*spacing - length/2
		startY := height/3 + rng.IntN(max(1, height/3))
		slope := 1
		if rng.Bool() {
			slope = -1
		}
		for j := 0; j < length; j++ {
			// Drop one row every four cells so grains can roll off.
			w.put(startX+j, startY+slope*(j/4), Stone)
		}
	}

	pileW := max(2, width/6)
	pileH := max(2, height/5)
	pileX := width/6 - pileW/2
	for x := pileX; x < pileX+pileW; x++ {
		for y := 1; y <= pileH; y++ {
			w.fill(x, y, Sand)
		}
	}

	poolW := max(2, width/5)
	poolH := max(2, height/6)
	poolX := width - width/4 - poolW/2
	for x := poolX; x < poolX+poolW; x++ {
		for y := 1; y <= poolH; y++ {
			w.fill(x, y, Water)
		}
	}
}

// put writes m without reporting out-of-range coordinates.
func (w *World) put(x, y int, m Material) {
	if w.grid.InBounds(x, y) {
		w.grid.Cells()[w.grid.Index(x, y)] = uint8(m)
	}
}

// fill writes m only over Air so the basin walls survive.
func (w *World) fill(x, y int, m Material) {
	if w.grid.InBounds(x, y) && Material(w.grid.Cells()[w.grid.Index(x, y)]) == Air {
		w.grid.Cells()[w.grid.Index(x, y)] = uint8(m)
	}
}
