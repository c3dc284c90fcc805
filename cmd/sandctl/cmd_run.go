package main

import (
	"context"
	"time"

	"pixsand/internal/logging"
	"pixsand/internal/report"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Step a world and print the result",
		Long: `Build a world from the layout, advance it --steps ticks and print a
census report. --ascii also draws the final grid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			jsonOut, _ := cmd.Flags().GetBool("json")
			ascii, _ := cmd.Flags().GetBool("ascii")

			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cmd, s)
			world, err := newWorld(s)
			if err != nil {
				return err
			}
			size := world.Size()
			log.Info("run", "w", size.W, "h", size.H, "seed", world.Seed(), "steps", steps, "mode", world.Config().Mode)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			start := time.Now()
			for i := 0; i < steps; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				world.Step()
				log.Log(ctx, logging.LevelTrace, "step", "tick", world.Tick(), "moved", world.Moved())
			}
			r := report.Build(world, steps, time.Since(start))

			out := cmd.OutOrStdout()
			if ascii {
				if err := report.WriteASCII(out, world); err != nil {
					return err
				}
			}
			if jsonOut {
				return r.WriteJSON(out)
			}
			return r.WriteText(out)
		},
	}

	addWorldFlags(cmd)
	cmd.Flags().Int("steps", 100, "number of ticks to run")
	cmd.Flags().Bool("json", false, "print the report as JSON")
	cmd.Flags().Bool("ascii", false, "draw the final grid")
	return cmd
}
