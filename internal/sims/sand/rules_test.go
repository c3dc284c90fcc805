package sand

import (
	"math"
	"slices"
	"testing"

	"pixsand/internal/core"
)

// scriptedSource replays fixed draws and fails the test on any extra draw.
type scriptedSource struct {
	t     *testing.T
	draws []int
	next  int
}

func script(t *testing.T, draws ...int) *scriptedSource {
	return &scriptedSource{t: t, draws: draws}
}

func (s *scriptedSource) IntN(n int) int {
	s.t.Helper()
	if s.next >= len(s.draws) {
		s.t.Fatalf("unexpected draw IntN(%d) after %d scripted draws", n, len(s.draws))
	}
	v := s.draws[s.next]
	s.next++
	if v < 0 || v >= n {
		s.t.Fatalf("scripted draw %d outside [0,%d)", v, n)
	}
	return v
}

func (s *scriptedSource) exhausted() bool { return s.next == len(s.draws) }

func newTestWorld(t *testing.T, w, h int, mode StepMode) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	cfg.Mode = mode
	world, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig(%dx%d): %v", w, h, err)
	}
	return world
}

func mustSet(t *testing.T, w *World, x, y int, m Material) {
	t.Helper()
	if err := w.Set(x, y, m); err != nil {
		t.Fatalf("Set(%d,%d,%v): %v", x, y, m, err)
	}
}

func expectAt(t *testing.T, w *World, x, y int, want Material) {
	t.Helper()
	got, err := w.Get(x, y)
	if err != nil {
		t.Fatalf("Get(%d,%d): %v", x, y, err)
	}
	if got != want {
		t.Fatalf("cell (%d,%d) = %v, expected %v", x, y, got, want)
	}
}

func TestSandFallsOneCellPerTickInSnapshotMode(t *testing.T) {
	world := newTestWorld(t, 3, 3, StepModeSnapshot)
	world.rng = script(t)
	mustSet(t, world, 1, 0, Sand)

	world.Step()

	expectAt(t, world, 1, 0, Air)
	expectAt(t, world, 1, 1, Sand)
	expectAt(t, world, 1, 2, Air)
	if world.Moved() != 1 {
		t.Fatalf("expected 1 move, got %d", world.Moved())
	}
}

func TestInPlaceStepRevisitsFallenGrain(t *testing.T) {
	world := newTestWorld(t, 3, 3, StepModeInPlace)
	world.rng = script(t)
	mustSet(t, world, 1, 0, Sand)

	world.Step()

	// The grain lands on (1,1), is scanned again and keeps falling.
	expectAt(t, world, 1, 0, Air)
	expectAt(t, world, 1, 1, Air)
	expectAt(t, world, 1, 2, Sand)
	if world.Moved() != 2 {
		t.Fatalf("expected 2 moves, got %d", world.Moved())
	}
}

func TestInPlaceRightwardSlideIsRevisited(t *testing.T) {
	world := newTestWorld(t, 12, 2, StepModeInPlace)
	for x := 0; x < 12; x++ {
		mustSet(t, world, x, 1, Stone)
	}
	mustSet(t, world, 2, 0, Water)
	// First visit: distance 2+0, right. Second visit at x=4: distance 2+1, right.
	// Third visit at x=7: distance 2+0, left, back onto the vacated (5,0).
	world.rng = script(t, 0, 9, 1, 9, 0, 0)

	world.Step()

	expectAt(t, world, 5, 0, Water)
	if !world.rng.(*scriptedSource).exhausted() {
		t.Fatal("expected every scripted draw to be consumed")
	}
	if world.Moved() != 3 {
		t.Fatalf("expected 3 moves, got %d", world.Moved())
	}
}

func TestBlockedSandMovesDiagonallyOrStalls(t *testing.T) {
	for _, mode := range []StepMode{StepModeInPlace, StepModeSnapshot} {
		for seed := int64(1); seed <= 40; seed++ {
			world := newTestWorld(t, 3, 2, mode)
			world.rng = core.NewRNG(seed)
			mustSet(t, world, 1, 0, Sand)
			mustSet(t, world, 1, 1, Sand)

			world.Step()

			expectAt(t, world, 1, 1, Sand)
			census := world.Census()
			if census.Of(Sand) != 2 {
				t.Fatalf("mode %s seed %d: sand count %d, expected 2", mode, seed, census.Of(Sand))
			}
			var moved []int
			for _, pos := range [][2]int{{0, 1}, {2, 1}, {1, 0}} {
				if m, _ := world.Get(pos[0], pos[1]); m == Sand {
					moved = append(moved, pos[0])
				}
			}
			if len(moved) != 1 {
				t.Fatalf("mode %s seed %d: mover found at %d candidate cells", mode, seed, len(moved))
			}
		}
	}
}

func TestBlockedSandDirectionFollowsDraw(t *testing.T) {
	cases := []struct {
		name      string
		threshold int
		draw      int
		wantX     int
	}{
		{name: "draw above threshold goes right", threshold: 5, draw: 6, wantX: 2},
		{name: "draw at threshold goes left", threshold: 5, draw: 5, wantX: 0},
		{name: "zero goes left", threshold: 5, draw: 0, wantX: 0},
		{name: "fair threshold sends five right", threshold: 4, draw: 5, wantX: 2},
		{name: "fair threshold sends four left", threshold: 4, draw: 4, wantX: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			world := newTestWorld(t, 3, 2, StepModeSnapshot)
			world.cfg.Params.LateralBiasThreshold = tc.threshold
			world.rng = script(t, tc.draw)
			mustSet(t, world, 1, 0, Sand)
			mustSet(t, world, 1, 1, Stone)

			world.Step()

			expectAt(t, world, tc.wantX, 1, Sand)
			expectAt(t, world, 1, 0, Air)
		})
	}
}

func TestBlockedSandStallsWhenDiagonalOccupied(t *testing.T) {
	world := newTestWorld(t, 3, 2, StepModeSnapshot)
	world.rng = script(t, 9)
	mustSet(t, world, 1, 0, Sand)
	for x := 0; x < 3; x++ {
		mustSet(t, world, x, 1, Stone)
	}

	world.Step()

	expectAt(t, world, 1, 0, Sand)
	if world.Moved() != 0 {
		t.Fatalf("expected no moves, got %d", world.Moved())
	}
}

func TestLateralBiasSplit(t *testing.T) {
	cases := []struct {
		threshold int
		wantRight float64
	}{
		{threshold: 5, wantRight: 0.4},
		{threshold: 4, wantRight: 0.5},
	}
	for _, tc := range cases {
		world := newTestWorld(t, 2, 2, StepModeInPlace)
		world.cfg.Params.LateralBiasThreshold = tc.threshold
		world.rng = core.NewRNG(42)
		const draws = 20000
		right := 0
		for i := 0; i < draws; i++ {
			if world.lateral() > 0 {
				right++
			}
		}
		got := float64(right) / draws
		if math.Abs(got-tc.wantRight) > 0.02 {
			t.Fatalf("threshold %d: right fraction %.3f, expected about %.2f", tc.threshold, got, tc.wantRight)
		}
	}
}

func TestSandOnLeftEdgeFallsStraightDown(t *testing.T) {
	cases := []struct {
		mode  StepMode
		wantY int
	}{
		{mode: StepModeSnapshot, wantY: 1},
		{mode: StepModeInPlace, wantY: 2},
	}
	for _, tc := range cases {
		world := newTestWorld(t, 3, 3, tc.mode)
		world.rng = script(t)
		mustSet(t, world, 0, 0, Sand)

		world.Step()

		expectAt(t, world, 0, 0, Air)
		expectAt(t, world, 0, tc.wantY, Sand)
	}
}

func TestSandOnLeftEdgeReadsItselfThroughClamp(t *testing.T) {
	world := newTestWorld(t, 3, 2, StepModeSnapshot)
	mustSet(t, world, 0, 0, Sand)
	mustSet(t, world, 0, 1, Stone)

	if got := world.Sample(0, 0, -1, 0); got != Sand {
		t.Fatalf("left neighbor of edge cell sampled as %v, expected the cell itself", got)
	}

	// Left draw: the clamped diagonal is the stone below, so the grain stalls
	// even though (1,1) is open.
	world.rng = script(t, 0)
	world.Step()
	expectAt(t, world, 0, 0, Sand)
	expectAt(t, world, 1, 1, Air)

	world.rng = script(t, 9)
	world.Step()
	expectAt(t, world, 0, 0, Air)
	expectAt(t, world, 1, 1, Sand)
}

func TestSandOnBottomRowNeverMoves(t *testing.T) {
	world := newTestWorld(t, 3, 2, StepModeInPlace)
	world.rng = script(t)
	mustSet(t, world, 1, 1, Sand)

	world.Step()

	expectAt(t, world, 1, 1, Sand)
}

func TestWaterSlidesFurtherThanOneCell(t *testing.T) {
	const width = 11
	for seed := int64(1); seed <= 10; seed++ {
		world := newTestWorld(t, width, 2, StepModeSnapshot)
		world.rng = core.NewRNG(seed)
		for x := 0; x < width; x++ {
			mustSet(t, world, x, 1, Stone)
		}
		mustSet(t, world, 5, 0, Water)

		jumped := false
		pos := 5
		for step := 0; step < 50 && !jumped; step++ {
			world.Step()
			next := -1
			for x := 0; x < width; x++ {
				if m, _ := world.Get(x, 0); m == Water {
					next = x
				}
			}
			if next < 0 {
				t.Fatalf("seed %d: water vanished", seed)
			}
			if d := next - pos; d > 1 || d < -1 {
				jumped = true
			}
			pos = next
		}
		if !jumped {
			t.Fatalf("seed %d: water never slid more than one cell", seed)
		}
	}
}

func TestWaterSlideUsesScriptedDistance(t *testing.T) {
	world := newTestWorld(t, 11, 2, StepModeSnapshot)
	for x := 0; x < 11; x++ {
		mustSet(t, world, x, 1, Stone)
	}
	mustSet(t, world, 5, 0, Water)
	// Distance 2+2 to the left.
	world.rng = script(t, 2, 3)

	world.Step()

	expectAt(t, world, 1, 0, Water)
	expectAt(t, world, 5, 0, Air)
}

func TestWaterSlideTruncatesAtEdge(t *testing.T) {
	cases := []struct {
		name  string
		draws []int
		wantX int
	}{
		{name: "right", draws: []int{3, 9}, wantX: 5},
		{name: "left", draws: []int{3, 0}, wantX: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			world := newTestWorld(t, 6, 2, StepModeSnapshot)
			for x := 0; x < 6; x++ {
				mustSet(t, world, x, 1, Stone)
			}
			mustSet(t, world, 3, 0, Water)
			world.rng = script(t, tc.draws...)

			world.Step()

			expectAt(t, world, tc.wantX, 0, Water)
			expectAt(t, world, 3, 0, Air)
		})
	}
}

func TestWaterBlockedTargetDoesNotMove(t *testing.T) {
	world := newTestWorld(t, 8, 2, StepModeSnapshot)
	for x := 0; x < 8; x++ {
		mustSet(t, world, x, 1, Stone)
	}
	mustSet(t, world, 3, 0, Water)
	mustSet(t, world, 6, 0, Stone)
	// Distance 3 to the right lands on the stone at (6,0).
	world.rng = script(t, 1, 9)

	world.Step()

	expectAt(t, world, 3, 0, Water)
	expectAt(t, world, 6, 0, Stone)
}

func TestEnclosedWaterDoesNotDraw(t *testing.T) {
	world := newTestWorld(t, 3, 2, StepModeInPlace)
	world.rng = script(t)
	for x := 0; x < 3; x++ {
		mustSet(t, world, x, 1, Stone)
	}
	mustSet(t, world, 0, 0, Stone)
	mustSet(t, world, 2, 0, Stone)
	mustSet(t, world, 1, 0, Water)

	world.Step()

	expectAt(t, world, 1, 0, Water)
}

func TestWaterFallsBeforeSliding(t *testing.T) {
	world := newTestWorld(t, 5, 3, StepModeSnapshot)
	world.rng = script(t)
	mustSet(t, world, 2, 0, Water)

	world.Step()

	expectAt(t, world, 2, 1, Water)
}

func randomWorld(t *testing.T, w, h int, mode StepMode, seed int64) *World {
	t.Helper()
	world := newTestWorld(t, w, h, mode)
	rng := core.NewRNG(seed)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mustSet(t, world, x, y, Material(rng.IntN(materialCount)))
		}
	}
	world.rng = core.NewRNG(seed + 1)
	return world
}

func TestStepConservesMaterial(t *testing.T) {
	for _, mode := range []StepMode{StepModeInPlace, StepModeSnapshot} {
		for seed := int64(1); seed <= 5; seed++ {
			world := randomWorld(t, 24, 16, mode, seed)
			want := world.Census()
			for step := 0; step < 60; step++ {
				world.Step()
				if got := world.Census(); got != want {
					t.Fatalf("mode %s seed %d step %d: census %v, expected %v", mode, seed, step, got, want)
				}
			}
		}
	}
}

func TestStoneNeverMoves(t *testing.T) {
	for _, mode := range []StepMode{StepModeInPlace, StepModeSnapshot} {
		world := randomWorld(t, 20, 20, mode, 7)
		var stones []int
		for i, v := range world.Cells() {
			if Material(v) == Stone {
				stones = append(stones, i)
			}
		}
		for step := 0; step < 100; step++ {
			world.Step()
		}
		for _, i := range stones {
			if Material(world.Cells()[i]) != Stone {
				t.Fatalf("mode %s: stone at index %d became %v", mode, i, Material(world.Cells()[i]))
			}
		}
	}
}

func TestFullStoneGridIsUnchanged(t *testing.T) {
	world := newTestWorld(t, 8, 5, StepModeInPlace)
	world.rng = script(t)
	for y := 0; y < 5; y++ {
		for x := 0; x < 8; x++ {
			mustSet(t, world, x, y, Stone)
		}
	}
	before := append([]uint8(nil), world.Cells()...)

	for i := 0; i < 25; i++ {
		world.Step()
	}

	if !slices.Equal(before, world.Cells()) {
		t.Fatal("full stone grid changed after stepping")
	}
	if world.Moved() != 0 {
		t.Fatalf("expected no moves, got %d", world.Moved())
	}
}

func TestFallingFlagTracksLastStep(t *testing.T) {
	world := newTestWorld(t, 3, 2, StepModeSnapshot)
	world.rng = script(t)
	mustSet(t, world, 1, 0, Sand)

	world.Step()
	if falling, _ := world.Falling(1, 1); !falling {
		t.Fatal("expected landed grain to be flagged as falling")
	}
	if falling, _ := world.Falling(1, 0); falling {
		t.Fatal("vacated cell must not be flagged")
	}

	world.Step()
	if falling, _ := world.Falling(1, 1); falling {
		t.Fatal("resting grain must not be flagged after a still step")
	}

	if _, err := world.Falling(3, 0); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}
