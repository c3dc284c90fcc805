package sand

import (
	"errors"
	"slices"
	"testing"

	"pixsand/internal/core"
)

func TestNewRejectsInvalidDimensions(t *testing.T) {
	cases := [][2]int{{0, 3}, {3, 0}, {-1, 4}, {0, 0}}
	for _, dims := range cases {
		if _, err := New(dims[0], dims[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Fatalf("New(%d,%d) error = %v, expected ErrInvalidDimensions", dims[0], dims[1], err)
		}
	}
}

func TestNewStartsFilledWithAir(t *testing.T) {
	world, err := New(7, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if size := world.Size(); size.W != 7 || size.H != 4 {
		t.Fatalf("unexpected size %+v", size)
	}
	if got := world.Census().Of(Air); got != 28 {
		t.Fatalf("expected 28 air cells, got %d", got)
	}
}

func TestGetAndSetAreBoundsChecked(t *testing.T) {
	world, err := New(4, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	before := append([]uint8(nil), world.Cells()...)

	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {10, 10}} {
		if _, err := world.Get(pos[0], pos[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("Get(%d,%d) error = %v, expected ErrOutOfBounds", pos[0], pos[1], err)
		}
		if err := world.Set(pos[0], pos[1], Sand); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("Set(%d,%d) error = %v, expected ErrOutOfBounds", pos[0], pos[1], err)
		}
	}
	if !slices.Equal(before, world.Cells()) {
		t.Fatal("out-of-bounds writes must leave the grid untouched")
	}

	if err := world.Set(1, 1, Material(9)); !errors.Is(err, ErrUnknownMaterial) {
		t.Fatalf("expected ErrUnknownMaterial, got %v", err)
	}

	if err := world.Set(3, 2, Water); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, _ := world.Get(3, 2); got != Water {
		t.Fatalf("expected water at (3,2), got %v", got)
	}
	if got := world.Cells()[2*4+3]; Material(got) != Water {
		t.Fatalf("cells buffer not row-major: got %v", Material(got))
	}

	if err := world.SetCell(0, 0, uint8(Stone)); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if got, _ := world.Get(0, 0); got != Stone {
		t.Fatalf("expected stone at (0,0), got %v", got)
	}
}

func TestSampleClampsToGrid(t *testing.T) {
	world, err := New(3, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := world.Set(2, 2, Stone); err != nil {
		t.Fatalf("Set: %v", err)
	}
	cases := []struct {
		x, y, dx, dy int
		want         Material
	}{
		{x: 2, y: 2, dx: 1, dy: 1, want: Stone},
		{x: 2, y: 2, dx: 5, dy: 0, want: Stone},
		{x: 1, y: 1, dx: 1, dy: 1, want: Stone},
		{x: 0, y: 0, dx: -3, dy: -3, want: Air},
		{x: 0, y: 2, dx: 9, dy: 0, want: Stone},
	}
	for _, tc := range cases {
		if got := world.Sample(tc.x, tc.y, tc.dx, tc.dy); got != tc.want {
			t.Fatalf("Sample(%d,%d,%d,%d) = %v, expected %v", tc.x, tc.y, tc.dx, tc.dy, got, tc.want)
		}
	}
}

func TestResetClearsAndReseeds(t *testing.T) {
	world, err := New(6, 6)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := world.Set(2, 0, Sand); err != nil {
		t.Fatalf("Set: %v", err)
	}
	world.Step()
	if world.Tick() != 1 {
		t.Fatalf("expected tick 1, got %d", world.Tick())
	}

	world.Reset(0)

	if got := world.Census().Of(Air); got != 36 {
		t.Fatalf("expected empty world after reset, got %d air cells", got)
	}
	if world.Tick() != 0 || world.Moved() != 0 {
		t.Fatalf("expected counters cleared, tick=%d moved=%d", world.Tick(), world.Moved())
	}
}

func TestResetBasinLayoutDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 64
	cfg.Height = 48
	cfg.Layout = LayoutBasin
	world, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}

	world.Reset(7)
	first := append([]uint8(nil), world.Cells()...)
	census := world.Census()

	for i := 0; i < 10; i++ {
		world.Step()
	}
	world.Reset(7)

	if !slices.Equal(first, world.Cells()) {
		t.Fatal("Reset with the same seed must rebuild the same basin")
	}
	if census.Of(Sand) == 0 || census.Of(Water) == 0 {
		t.Fatalf("basin should contain sand and water, census %v", census)
	}
	for y := 0; y < cfg.Height; y++ {
		for _, x := range []int{0, cfg.Width - 1} {
			if m, _ := world.Get(x, y); m != Stone {
				t.Fatalf("wall cell (%d,%d) = %v, expected stone", x, y, m)
			}
		}
	}
	for x := 0; x < cfg.Width; x++ {
		if m, _ := world.Get(x, cfg.Height-1); m != Stone {
			t.Fatalf("floor cell (%d,%d) = %v, expected stone", x, cfg.Height-1, m)
		}
	}
}

func TestBasinLayoutOnTinyWorld(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 4
	cfg.Height = 3
	cfg.Layout = LayoutBasin
	world, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	world.Reset(1)
	if got := world.Census().Of(Stone); got != 4+2+2 {
		t.Fatalf("expected only floor and walls, got %d stone cells", got)
	}
}

func TestRegisteredFactory(t *testing.T) {
	sim, err := core.New("sand", map[string]string{"w": "12", "h": "9", "mode": "snapshot"})
	if err != nil {
		t.Fatalf("core.New: %v", err)
	}
	if sim.Name() != "sand" {
		t.Fatalf("unexpected name %q", sim.Name())
	}
	if size := sim.Size(); size.W != 12 || size.H != 9 {
		t.Fatalf("unexpected size %+v", size)
	}
	world, ok := sim.(*World)
	if !ok {
		t.Fatalf("expected *World, got %T", sim)
	}
	if world.Config().Mode != StepModeSnapshot {
		t.Fatalf("expected snapshot mode, got %q", world.Config().Mode)
	}
	if _, ok := sim.(core.CellSetter); !ok {
		t.Fatal("sand world must accept painted cells")
	}
}

func TestSetIntParameter(t *testing.T) {
	world, err := New(4, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !world.SetIntParameter("lateral_bias_threshold", 4) {
		t.Fatal("expected threshold to be adjustable")
	}
	if world.Config().Params.LateralBiasThreshold != 4 {
		t.Fatalf("threshold not applied: %+v", world.Config().Params)
	}
	if world.SetIntParameter("lateral_bias_threshold", 10) {
		t.Fatal("threshold 10 leaves no right-hand draws and must be refused")
	}
	if world.SetIntParameter("water_slide_min", 6) {
		t.Fatal("slide min equal to max must be refused")
	}
	if world.SetIntParameter("water_slide_max", 2) {
		t.Fatal("slide max equal to min must be refused")
	}
	if !world.SetIntParameter("water_slide_max", 9) {
		t.Fatal("expected slide max to grow")
	}
	if world.SetIntParameter("unknown", 1) {
		t.Fatal("unknown keys must be refused")
	}

	param, ok := world.Parameters().Lookup("water_slide_max")
	if !ok || param.Value != "9" {
		t.Fatalf("snapshot did not reflect update: %+v", param)
	}
	if mode, ok := world.Parameters().Lookup("mode"); !ok || mode.Value != string(StepModeInPlace) {
		t.Fatalf("unexpected mode parameter %+v", mode)
	}
}
