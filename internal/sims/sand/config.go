package sand

import (
	"fmt"
	"strconv"
	"strings"
)

// StepMode selects how Step decides which cells to visit.
type StepMode string

const (
	// StepModeInPlace dispatches on the live grid: a cell that moves to a
	// position later in the scan is visited again within the same tick.
	StepModeInPlace StepMode = "inplace"
	// StepModeSnapshot dispatches on the materials present when the tick
	// started. Neighbor reads and commits still use the live grid, so every
	// cell moves at most once per tick.
	StepModeSnapshot StepMode = "snapshot"
)

// ParseStepMode maps a mode name to a StepMode.
func ParseStepMode(s string) (StepMode, error) {
	switch StepMode(strings.ToLower(strings.TrimSpace(s))) {
	case StepModeInPlace, "":
		return StepModeInPlace, nil
	case StepModeSnapshot:
		return StepModeSnapshot, nil
	}
	return "", fmt.Errorf("unknown step mode %q", s)
}

const (
	// LayoutEmpty leaves the world filled with Air on reset.
	LayoutEmpty = "empty"
	// LayoutBasin paints a stone basin with ledges, a sand pile and a pool.
	LayoutBasin = "basin"
)

// directionRange is the size of the [0, n) draw used to pick a lateral
// direction. Draws above Params.LateralBiasThreshold go right.
const directionRange = 10

// Params holds the tunable movement constants.
type Params struct {
	// LateralBiasThreshold splits the direction draw. 5 reproduces the
	// classic 40/60 right/left split, 4 is a fair coin.
	LateralBiasThreshold int
	// WaterSlideMin and WaterSlideMax bound the half-open range a blocked
	// water cell draws its slide distance from.
	WaterSlideMin int
	WaterSlideMax int
}

// Config controls the sand world dimensions and rules.
type Config struct {
	Width  int
	Height int

	Seed   int64
	Mode   StepMode
	Layout string

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  240,
		Height: 160,
		Seed:   1337,
		Mode:   StepModeInPlace,
		Layout: LayoutEmpty,
		Params: Params{
			LateralBiasThreshold: 5,
			WaterSlideMin:        2,
			WaterSlideMax:        6,
		},
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.Width, c.Height)
	}
	if _, err := ParseStepMode(string(c.Mode)); err != nil {
		return err
	}
	switch c.Layout {
	case "", LayoutEmpty, LayoutBasin:
	default:
		return fmt.Errorf("unknown layout %q", c.Layout)
	}
	p := c.Params
	if p.LateralBiasThreshold < 0 || p.LateralBiasThreshold >= directionRange {
		return fmt.Errorf("lateral_bias_threshold %d outside [0,%d)", p.LateralBiasThreshold, directionRange)
	}
	if p.WaterSlideMin < 1 || p.WaterSlideMax <= p.WaterSlideMin {
		return fmt.Errorf("water slide range [%d,%d) is empty or non-positive", p.WaterSlideMin, p.WaterSlideMax)
	}
	return nil
}

// FromMap populates a Config from a string map. Malformed or out-of-range
// values are ignored and the defaults kept.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["mode"]; ok {
		if mode, err := ParseStepMode(v); err == nil {
			c.Mode = mode
		}
	}
	if v, ok := cfg["layout"]; ok {
		switch v {
		case LayoutEmpty, LayoutBasin:
			c.Layout = v
		}
	}
	if v, ok := cfg["lateral_bias_threshold"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed < directionRange {
			c.Params.LateralBiasThreshold = parsed
		}
	}
	if v, ok := cfg["water_slide_min"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 1 {
			c.Params.WaterSlideMin = parsed
		}
	}
	if v, ok := cfg["water_slide_max"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 1 {
			c.Params.WaterSlideMax = parsed
		}
	}
	if c.Params.WaterSlideMax <= c.Params.WaterSlideMin {
		c.Params.WaterSlideMax = c.Params.WaterSlideMin + 1
	}
	return c
}
