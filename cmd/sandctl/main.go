// Command sandctl runs the falling sand world without a display.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"pixsand/internal/config"
	"pixsand/internal/logging"
	"pixsand/internal/sims/sand"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sandctl",
		Short: "Headless falling sand runner",
		Long: `sandctl steps a falling sand world without opening a window.

It prints the resulting grid, a census report, or throughput numbers.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML settings file")
	rootCmd.PersistentFlags().String("log-level", "", "log level: error, warn, info, debug, trace")

	rootCmd.AddCommand(
		newRunCmd(),
		newBenchCmd(),
		newMaterialsCmd(),
		newSweepCmd(),
	)
	return rootCmd
}

// addWorldFlags registers the flags that shape the world a command builds.
func addWorldFlags(cmd *cobra.Command) {
	cmd.Flags().Int("w", 0, "grid width in cells")
	cmd.Flags().Int("h", 0, "grid height in cells")
	cmd.Flags().Int64("seed", 0, "reset seed")
	cmd.Flags().String("layout", sand.LayoutBasin, "starting layout: empty or basin")
	cmd.Flags().String("mode", "", "step mode: inplace or snapshot")
}

// loadSettings reads the settings file and overlays the flags the user set.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	s, err := config.Load(path)
	if err != nil {
		return s, err
	}
	if path == "" || cmd.Flags().Changed("layout") {
		s.Layout, _ = cmd.Flags().GetString("layout")
	}
	if cmd.Flags().Changed("w") {
		s.Width, _ = cmd.Flags().GetInt("w")
	}
	if cmd.Flags().Changed("h") {
		s.Height, _ = cmd.Flags().GetInt("h")
	}
	if cmd.Flags().Changed("seed") {
		s.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	if cmd.Flags().Changed("mode") {
		s.Mode, _ = cmd.Flags().GetString("mode")
	}
	if cmd.Flags().Changed("log-level") {
		s.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	return s, s.Validate()
}

// newWorld builds and resets a world from settings already checked by
// loadSettings.
func newWorld(s config.Settings) (*sand.World, error) {
	w, err := sand.NewWithConfig(sand.FromMap(s.SimMap()))
	if err != nil {
		return nil, err
	}
	w.Reset(s.Seed)
	return w, nil
}

func newLogger(cmd *cobra.Command, s config.Settings) *slog.Logger {
	return logging.NewLogger(s.LogLevel, cmd.ErrOrStderr())
}
