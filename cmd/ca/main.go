//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"pixsand/internal/app"
	"pixsand/internal/brush"
	"pixsand/internal/core"
	"pixsand/internal/logging"
	_ "pixsand/internal/sims/sand"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	settings, err := cfg.Resolve(flag.CommandLine)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := logging.NewLogger(settings.LogLevel, os.Stderr)

	sim, err := core.New(settings.Sim, settings.SimMap())
	if err != nil {
		logger.Error("create sim", "sim", settings.Sim, "err", err)
		os.Exit(1)
	}
	sim.Reset(settings.Seed)

	game := app.New(sim, settings.Scale, settings.Seed, brush.NewTool(cfg.Brush), cfg.HUDWidth, logger)
	size := sim.Size()
	logger.Info("starting", "sim", sim.Name(), "w", size.W, "h", size.H, "tps", settings.TPS)

	ebiten.SetWindowTitle("pixsand - " + sim.Name())
	ebiten.SetTPS(settings.TPS)
	ebiten.SetWindowSize(size.W*settings.Scale+max(cfg.HUDWidth, 0), size.H*settings.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("run", "err", err)
		os.Exit(1)
	}
}
