// Package report summarizes a sand world after a headless run.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"pixsand/internal/sims/sand"

	"github.com/dustin/go-humanize"
)

// Report is the machine-readable result of a run. Its JSON form is described
// by schemas/report.schema.json.
type Report struct {
	Sim    string `json:"sim"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Seed   int64  `json:"seed"`
	Mode   string `json:"mode"`
	Layout string `json:"layout"`

	Steps     int            `json:"steps"`
	Tick      uint64         `json:"tick"`
	MovedLast int            `json:"moved_last_step"`
	Census    map[string]int `json:"census"`

	ElapsedMS      float64 `json:"elapsed_ms"`
	CellsPerSecond float64 `json:"cells_per_second"`
}

// Build captures the state of w after steps ticks that took elapsed.
func Build(w *sand.World, steps int, elapsed time.Duration) Report {
	cfg := w.Config()
	size := w.Size()
	census := w.Census()
	r := Report{
		Sim:       w.Name(),
		Width:     size.W,
		Height:    size.H,
		Seed:      w.Seed(),
		Mode:      string(cfg.Mode),
		Layout:    cfg.Layout,
		Steps:     steps,
		Tick:      w.Tick(),
		MovedLast: w.Moved(),
		Census:    make(map[string]int, len(sand.Materials())),
		ElapsedMS: float64(elapsed.Microseconds()) / 1000,
	}
	for _, m := range sand.Materials() {
		r.Census[strings.ToLower(m.String())] = census.Of(m)
	}
	if elapsed > 0 {
		r.CellsPerSecond = float64(size.W*size.H*steps) / elapsed.Seconds()
	}
	return r
}

// WriteJSON encodes r as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText prints a short human summary.
func (r Report) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s %dx%d seed=%d mode=%s layout=%s\n", r.Sim, r.Width, r.Height, r.Seed, r.Mode, r.Layout)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "steps=%s moved_last_step=%s\n", humanize.Comma(int64(r.Steps)), humanize.Comma(int64(r.MovedLast)))
	if err != nil {
		return err
	}
	for _, m := range sand.Materials() {
		name := strings.ToLower(m.String())
		if _, err := fmt.Fprintf(w, "  %-6s %s\n", name, humanize.Comma(int64(r.Census[name]))); err != nil {
			return err
		}
	}
	if r.CellsPerSecond > 0 {
		_, err = fmt.Fprintf(w, "%s cells/s over %s ms\n", humanize.Commaf(float64(int64(r.CellsPerSecond))), humanize.Ftoa(r.ElapsedMS))
	}
	return err
}

// glyphs maps each material to its ASCII rendering.
var glyphs = map[sand.Material]byte{
	sand.Air:   ' ',
	sand.Sand:  '.',
	sand.Water: '~',
	sand.Stone: '#',
}

// WriteASCII draws the grid one character per cell, framed by a border.
func WriteASCII(out io.Writer, w *sand.World) error {
	size := w.Size()
	cells := w.Cells()
	border := "+" + strings.Repeat("-", size.W) + "+\n"
	var b strings.Builder
	b.Grow((size.W + 3) * (size.H + 2))
	b.WriteString(border)
	for y := 0; y < size.H; y++ {
		b.WriteByte('|')
		for x := 0; x < size.W; x++ {
			g, ok := glyphs[sand.Material(cells[y*size.W+x])]
			if !ok {
				g = '?'
			}
			b.WriteByte(g)
		}
		b.WriteString("|\n")
	}
	b.WriteString(border)
	_, err := io.WriteString(out, b.String())
	return err
}
