package sand

import (
	"strconv"

	"pixsand/internal/core"
)

// Parameters reports the world settings and live diagnostics.
func (w *World) Parameters() core.ParameterSnapshot {
	params := w.cfg.Params
	census := w.Census()
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.seed),
				stringParam("mode", "Step mode", string(w.cfg.Mode)),
				stringParam("layout", "Layout", w.cfg.Layout),
			},
		},
		{
			Name: "Rules",
			Params: []core.Parameter{
				intParam("lateral_bias_threshold", "Lateral bias", params.LateralBiasThreshold),
				intParam("water_slide_min", "Water slide min", params.WaterSlideMin),
				intParam("water_slide_max", "Water slide max", params.WaterSlideMax),
			},
		},
		{
			Name: "Census",
			Params: []core.Parameter{
				int64Param("tick", "Tick", int64(w.tick)),
				intParam("moved", "Moved last tick", w.moved),
				intParam("sand", "Sand", census.Of(Sand)),
				intParam("water", "Water", census.Of(Water)),
				intParam("stone", "Stone", census.Of(Stone)),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the rule constants adjustable from the HUD.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "lateral_bias_threshold", Label: "Lateral bias", Step: 1, Min: 0, Max: directionRange - 1, HasMin: true, HasMax: true},
		{Key: "water_slide_min", Label: "Water slide min", Step: 1, Min: 1, HasMin: true},
		{Key: "water_slide_max", Label: "Water slide max", Step: 1, Min: 2, Max: 64, HasMin: true, HasMax: true},
	}
}

// SetIntParameter updates a rule constant. It refuses values that would make
// the water slide range empty.
func (w *World) SetIntParameter(key string, value int) bool {
	p := &w.cfg.Params
	switch key {
	case "lateral_bias_threshold":
		if value < 0 || value >= directionRange {
			return false
		}
		p.LateralBiasThreshold = value
	case "water_slide_min":
		if value < 1 || value >= p.WaterSlideMax {
			return false
		}
		p.WaterSlideMin = value
	case "water_slide_max":
		if value <= p.WaterSlideMin {
			return false
		}
		p.WaterSlideMax = value
	default:
		return false
	}
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}
