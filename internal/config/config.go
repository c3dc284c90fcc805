// Package config loads the optional YAML settings file shared by the pixsand
// frontends. The file holds run settings only, never grid contents.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"pixsand/internal/sims/sand"

	"gopkg.in/yaml.v3"
)

// Settings are the frontend and sim options a settings file may carry. Zero
// values mean "not set" so flags and defaults fill the gaps.
type Settings struct {
	Sim      string `yaml:"sim"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Seed     int64  `yaml:"seed"`
	Scale    int    `yaml:"scale"`
	TPS      int    `yaml:"tps"`
	Layout   string `yaml:"layout"`
	Mode     string `yaml:"mode"`
	LogLevel string `yaml:"log_level"`

	Rules Rules `yaml:"rules"`
}

// Rules mirrors the sand movement constants.
type Rules struct {
	LateralBiasThreshold *int `yaml:"lateral_bias_threshold"`
	WaterSlideMin        int  `yaml:"water_slide_min"`
	WaterSlideMax        int  `yaml:"water_slide_max"`
}

// Default returns the settings used when no file is given.
func Default() Settings {
	return Settings{Sim: "sand", Scale: 3, TPS: 60, Seed: 42, LogLevel: "info"}
}

// Load reads path and overlays it on Default. An empty path returns the
// defaults.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("config: %w", err)
	}
	if err := Parse(raw, &s); err != nil {
		return s, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes YAML into s, rejecting unknown keys.
func Parse(raw []byte, s *Settings) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return s.Validate()
}

// Validate checks the frontend ranges and that the sim settings form a valid
// sand configuration as given, before any defaults repair them.
func (s Settings) Validate() error {
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("negative dimensions %dx%d", s.Width, s.Height)
	}
	if s.Scale < 0 || s.TPS < 0 {
		return fmt.Errorf("scale and tps must not be negative")
	}
	return s.sandConfig().Validate()
}

// sandConfig overlays the set fields on the sand defaults without the
// clamping FromMap applies.
func (s Settings) sandConfig() sand.Config {
	cfg := sand.DefaultConfig()
	if s.Width > 0 {
		cfg.Width = s.Width
	}
	if s.Height > 0 {
		cfg.Height = s.Height
	}
	cfg.Mode = sand.StepMode(s.Mode)
	cfg.Layout = s.Layout
	if s.Rules.LateralBiasThreshold != nil {
		cfg.Params.LateralBiasThreshold = *s.Rules.LateralBiasThreshold
	}
	if s.Rules.WaterSlideMin != 0 {
		cfg.Params.WaterSlideMin = s.Rules.WaterSlideMin
	}
	if s.Rules.WaterSlideMax != 0 {
		cfg.Params.WaterSlideMax = s.Rules.WaterSlideMax
	}
	return cfg
}

// SimMap converts the set fields into the string map sim factories accept.
func (s Settings) SimMap() map[string]string {
	m := map[string]string{}
	if s.Width > 0 {
		m["w"] = strconv.Itoa(s.Width)
	}
	if s.Height > 0 {
		m["h"] = strconv.Itoa(s.Height)
	}
	if s.Seed != 0 {
		m["seed"] = strconv.FormatInt(s.Seed, 10)
	}
	if s.Layout != "" {
		m["layout"] = s.Layout
	}
	if s.Mode != "" {
		m["mode"] = s.Mode
	}
	if s.Rules.LateralBiasThreshold != nil {
		m["lateral_bias_threshold"] = strconv.Itoa(*s.Rules.LateralBiasThreshold)
	}
	if s.Rules.WaterSlideMin > 0 {
		m["water_slide_min"] = strconv.Itoa(s.Rules.WaterSlideMin)
	}
	if s.Rules.WaterSlideMax > 0 {
		m["water_slide_max"] = strconv.Itoa(s.Rules.WaterSlideMax)
	}
	return m
}
