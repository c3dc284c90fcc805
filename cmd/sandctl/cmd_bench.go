package main

import (
	"fmt"
	"time"

	"pixsand/internal/report"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure step throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			rounds, _ := cmd.Flags().GetInt("rounds")
			jsonOut, _ := cmd.Flags().GetBool("json")
			if steps <= 0 || rounds <= 0 {
				return fmt.Errorf("steps and rounds must be positive")
			}

			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cmd, s)

			// Each round rebuilds the world so every round measures the same
			// workload from the same layout.
			var best report.Report
			for round := 0; round < rounds; round++ {
				world, err := newWorld(s)
				if err != nil {
					return err
				}
				start := time.Now()
				for i := 0; i < steps; i++ {
					world.Step()
				}
				r := report.Build(world, steps, time.Since(start))
				log.Debug("bench round", "round", round, "cells_per_second", r.CellsPerSecond)
				if round == 0 || r.CellsPerSecond > best.CellsPerSecond {
					best = r
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return best.WriteJSON(out)
			}
			cells := int64(best.Width * best.Height * best.Steps)
			_, err = fmt.Fprintf(out, "%s cells in %s ms, best of %d: %s cells/s\n",
				humanize.Comma(cells), humanize.Ftoa(best.ElapsedMS), rounds, humanize.Comma(int64(best.CellsPerSecond)))
			return err
		},
	}

	addWorldFlags(cmd)
	cmd.Flags().Int("steps", 500, "ticks per round")
	cmd.Flags().Int("rounds", 3, "number of rounds; the fastest is reported")
	cmd.Flags().Bool("json", false, "print the fastest round as JSON")
	return cmd
}
