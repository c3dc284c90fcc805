// Command sandtui runs the falling sand world inside a terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"pixsand/internal/app"
	"pixsand/internal/brush"
	"pixsand/internal/core"
	"pixsand/internal/logging"
	_ "pixsand/internal/sims/sand"
	"pixsand/internal/term"

	"github.com/gdamore/tcell/v2"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	logPath := flag.String("log", "", "write logs to this file (the terminal is in use)")
	flag.Parse()

	settings, err := cfg.Resolve(flag.CommandLine)
	if err != nil {
		return err
	}

	logOut := os.Stderr
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logOut = f
	} else {
		settings.LogLevel = "error"
	}
	logger := logging.NewLogger(settings.LogLevel, logOut)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	// Size the world to the terminal unless dimensions were given.
	cols, rows := screen.Size()
	if settings.Width == 0 {
		settings.Width = cols
	}
	if settings.Height == 0 {
		settings.Height = max(rows-1, 1)
	}

	sim, err := core.New(settings.Sim, settings.SimMap())
	if err != nil {
		return err
	}
	sim.Reset(settings.Seed)
	logger.Info("starting", "sim", sim.Name(), "w", settings.Width, "h", settings.Height, "tps", settings.TPS)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	view := term.NewView(screen, sim, settings.Seed, brush.NewTool(cfg.Brush), logger)
	if err := view.Run(ctx, settings.TPS); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
