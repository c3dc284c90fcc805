package app

import (
	"flag"

	"pixsand/internal/config"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Sim        string
	Scale      int
	TPS        int
	Seed       int64
	Width      int
	Height     int
	Layout     string
	Mode       string
	Brush      int
	HUDWidth   int
	LogLevel   string
	ConfigPath string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	d := config.Default()
	return &Config{
		Sim:      d.Sim,
		Scale:    d.Scale,
		TPS:      d.TPS,
		Seed:     d.Seed,
		Layout:   "basin",
		Brush:    2,
		HUDWidth: 240,
		LogLevel: d.LogLevel,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.Width, "w", c.Width, "grid width in cells (0 keeps the sim default)")
	fs.IntVar(&c.Height, "h", c.Height, "grid height in cells (0 keeps the sim default)")
	fs.StringVar(&c.Layout, "layout", c.Layout, "starting layout: empty or basin")
	fs.StringVar(&c.Mode, "mode", c.Mode, "step mode: inplace or snapshot")
	fs.IntVar(&c.Brush, "brush", c.Brush, "initial brush radius in cells")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "HUD panel width in pixels (0 hides it)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: error, warn, info, debug, trace")
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "optional YAML settings file")
}

// Resolve loads the settings file named by -config and overlays every flag
// that was set explicitly on the command line. Flags left at their defaults
// yield to the file, and the file yields to the defaults for keys it omits.
func (c *Config) Resolve(fs *flag.FlagSet) (config.Settings, error) {
	s, err := config.Load(c.ConfigPath)
	if err != nil {
		return s, err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	fromFlag := func(name string) bool { return set[name] || c.ConfigPath == "" }
	if fromFlag("sim") {
		s.Sim = c.Sim
	}
	if fromFlag("scale") {
		s.Scale = c.Scale
	}
	if fromFlag("tps") {
		s.TPS = c.TPS
	}
	if fromFlag("seed") {
		s.Seed = c.Seed
	}
	if fromFlag("w") && c.Width > 0 {
		s.Width = c.Width
	}
	if fromFlag("h") && c.Height > 0 {
		s.Height = c.Height
	}
	if fromFlag("layout") && c.Layout != "" {
		s.Layout = c.Layout
	}
	if fromFlag("mode") && c.Mode != "" {
		s.Mode = c.Mode
	}
	if fromFlag("log-level") {
		s.LogLevel = c.LogLevel
	}
	return s, s.Validate()
}
