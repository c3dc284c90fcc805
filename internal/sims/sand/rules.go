package sand

// Step advances the world by one tick. Columns are scanned left to right and
// each column top to bottom. Neighbor reads see moves already committed
// earlier in the same scan.
func (w *World) Step() {
	for i := range w.falling {
		w.falling[i] = false
	}
	w.moved = 0

	cells := w.grid.Cells()
	dispatch := cells
	if w.cfg.Mode == StepModeSnapshot {
		copy(w.start, cells)
		dispatch = w.start
	}

	width, height := w.grid.W, w.grid.H
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			idx := y*width + x
			m := Material(dispatch[idx])
			if cells[idx] != dispatch[idx] {
				// Only reachable in snapshot mode: something already
				// moved into or out of this cell during the scan.
				continue
			}
			switch m {
			case Sand:
				w.updateSand(x, y)
			case Water:
				w.updateWater(x, y)
			case Air, Stone:
			}
		}
	}
	w.tick++
}

// Sample returns the material at (x+dx, y+dy) after clamping the coordinate
// into the grid. Cells on the edge therefore see the edge cell, possibly
// themselves, where a neighbor would be.
func (w *World) Sample(x, y, dx, dy int) Material {
	cx, cy := w.grid.Clamp(x+dx, y+dy)
	return Material(w.grid.Cells()[w.grid.Index(cx, cy)])
}

func (w *World) updateSand(x, y int) {
	if w.Sample(x, y, 0, 1) == Air {
		w.move(x, y, x, y+1)
		return
	}
	if y+1 >= w.grid.H {
		// Bottom row: the clamped diagonal would be a sideways move.
		return
	}
	dx := w.lateral()
	if w.Sample(x, y, dx, 1) != Air {
		return
	}
	tx, ty := w.grid.Clamp(x+dx, y+1)
	w.move(x, y, tx, ty)
}

func (w *World) updateWater(x, y int) {
	if w.Sample(x, y, 0, 1) == Air {
		w.move(x, y, x, y+1)
		return
	}
	if w.Sample(x, y, -1, 0) != Air && w.Sample(x, y, 1, 0) != Air {
		return
	}
	p := w.cfg.Params
	dist := p.WaterSlideMin + w.rng.IntN(p.WaterSlideMax-p.WaterSlideMin)
	dx := w.lateral() * dist
	if w.Sample(x, y, dx, 0) != Air {
		return
	}
	tx, ty := w.grid.Clamp(x+dx, y)
	w.move(x, y, tx, ty)
}

// lateral draws a direction: +1 (right) when the draw exceeds the bias
// threshold, -1 (left) otherwise.
func (w *World) lateral() int {
	if w.rng.IntN(directionRange) > w.cfg.Params.LateralBiasThreshold {
		return 1
	}
	return -1
}

// move commits a swap of the source material into an Air target. The target
// is re-checked here because earlier commits in the scan may have filled it.
func (w *World) move(x, y, tx, ty int) bool {
	cells := w.grid.Cells()
	dst := w.grid.Index(tx, ty)
	if Material(cells[dst]) != Air {
		return false
	}
	src := w.grid.Index(x, y)
	cells[dst] = cells[src]
	cells[src] = uint8(Air)
	w.falling[src] = false
	w.falling[dst] = true
	w.moved++
	return true
}
