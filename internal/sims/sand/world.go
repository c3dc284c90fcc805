package sand

import (
	"errors"
	"fmt"

	"pixsand/internal/core"
)

var (
	// ErrInvalidDimensions is returned by New for non-positive sizes.
	ErrInvalidDimensions = core.ErrInvalidDimensions
	// ErrOutOfBounds is returned by Get and Set outside the grid.
	ErrOutOfBounds = core.ErrOutOfBounds
	// ErrUnknownMaterial is returned when a tag outside the material set is written.
	ErrUnknownMaterial = errors.New("unknown material")
)

// Source supplies the uniform integer draws used by the movement rules.
// *core.RNG and *rand.Rand both satisfy it.
type Source interface {
	IntN(n int) int
}

// Census counts cells per material.
type Census [materialCount]int

// Of returns the number of cells holding m.
func (c Census) Of(m Material) int {
	if !m.Valid() {
		return 0
	}
	return c[m]
}

// World is a falling sand grid. It is not safe for concurrent use: callers
// must not paint while Step is running.
type World struct {
	cfg Config

	grid    *core.ByteGrid
	start   []uint8
	falling []bool
	moved   int
	tick    uint64
	seed    int64

	rng Source
}

// New returns an all-Air world with the provided dimensions using defaults.
func New(w, h int) (*World, error) {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns a world configured from the provided options. The
// grid starts filled with Air; the configured layout is only painted by Reset.
func NewWithConfig(cfg Config) (*World, error) {
	if cfg.Mode == "" {
		cfg.Mode = StepModeInPlace
	}
	if cfg.Layout == "" {
		cfg.Layout = LayoutEmpty
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sand: %w", err)
	}
	grid, err := core.NewByteGrid(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("sand: %w", err)
	}
	total := cfg.Width * cfg.Height
	return &World{
		cfg:     cfg,
		grid:    grid,
		start:   make([]uint8, total),
		falling: make([]bool, total),
		seed:    cfg.Seed,
		rng:     core.NewRNG(cfg.Seed),
	}, nil
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "sand" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.grid.W, H: w.grid.H} }

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Cells exposes the material buffer in row-major order. Each byte is a
// Material tag, which doubles as the palette index for rendering.
func (w *World) Cells() []uint8 { return w.grid.Cells() }

// Get returns the material at (x, y).
func (w *World) Get(x, y int) (Material, error) {
	v, err := w.grid.At(x, y)
	if err != nil {
		return Air, err
	}
	return Material(v), nil
}

// Set paints m at (x, y). Out-of-range coordinates return ErrOutOfBounds and
// leave the grid untouched.
func (w *World) Set(x, y int, m Material) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownMaterial, uint8(m))
	}
	if err := w.grid.Put(x, y, uint8(m)); err != nil {
		return err
	}
	w.falling[w.grid.Index(x, y)] = false
	return nil
}

// SetCell implements core.CellSetter.
func (w *World) SetCell(x, y int, v uint8) error {
	return w.Set(x, y, Material(v))
}

// Falling reports whether the cell at (x, y) moved during the last Step.
func (w *World) Falling(x, y int) (bool, error) {
	if !w.grid.InBounds(x, y) {
		return false, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	return w.falling[w.grid.Index(x, y)], nil
}

// FallingMask exposes the per-cell moved-last-step flags in row-major order.
func (w *World) FallingMask() []bool { return w.falling }

// Moved returns how many commits the last Step performed.
func (w *World) Moved() int { return w.moved }

// Seed returns the seed of the last Reset, or the configured seed before one.
func (w *World) Seed() int64 { return w.seed }

// Tick returns the number of steps taken since creation or the last Reset.
func (w *World) Tick() uint64 { return w.tick }

// Census counts the cells of each material.
func (w *World) Census() Census {
	var c Census
	for _, v := range w.grid.Cells() {
		if int(v) < materialCount {
			c[v]++
		}
	}
	return c
}

// Reset clears the world to Air, reseeds the random source and paints the
// configured layout. A zero seed falls back to the configured seed.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	rng := core.NewRNG(effective)
	w.rng = rng
	w.seed = effective
	w.grid.Fill(uint8(Air))
	for i := range w.falling {
		w.falling[i] = false
	}
	w.moved = 0
	w.tick = 0

	if w.cfg.Layout == LayoutBasin {
		w.paintBasin(rng)
	}
}

func init() {
	core.Register("sand", func(cfg map[string]string) (core.Sim, error) {
		return NewWithConfig(FromMap(cfg))
	})
}
