package ripples

import (
	"ripples/internal/core"
)

// Parameters reports the current tunables grouped for the HUD.
func (w *World) Parameters() core.ParameterSnapshot {
	p := w.cfg.Params
	c := w.waves.Coefficients()
	courant := p.Speed * w.cfg.TimeStep / w.cfg.Spacing
	groups := []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				core.IntParam("rows", "Rows", w.cfg.Rows),
				core.IntParam("cols", "Columns", w.cfg.Cols),
				core.FloatParam("spacing", "Spacing", w.cfg.Spacing),
				core.FloatParam("time_step", "Time step", w.cfg.TimeStep),
				core.Int64Param("seed", "Seed", w.cfg.Seed),
			},
		},
		{
			Name: "Dynamics",
			Params: []core.Parameter{
				core.FloatParam("speed", "Wave speed", p.Speed),
				core.FloatParam("damping", "Damping", p.Damping),
				core.FloatParam("courant", "Courant number", courant),
				core.FloatParam("k1", "K1", float64(c.K1)),
				core.FloatParam("k2", "K2", float64(c.K2)),
				core.FloatParam("k3", "K3", float64(c.K3)),
			},
			Summary: w.waves.Backend(),
		},
		{
			Name: "Disturbances",
			Params: []core.Parameter{
				core.FloatParam("disturb_interval", "Interval (s)", p.DisturbInterval),
				core.FloatParam("magnitude_min", "Magnitude min", p.MagnitudeMin),
				core.FloatParam("magnitude_max", "Magnitude max", p.MagnitudeMax),
				core.IntParam("spawn_border", "Spawn border", p.SpawnBorder),
				core.IntParam("disturbances", "Count", w.disturbances),
			},
		},
		{
			Name: "Display",
			Params: []core.Parameter{
				core.FloatParam("display_scale", "Height scale", p.DisplayScale),
				core.FloatParam("scroll_u", "Scroll U", p.ScrollU),
				core.FloatParam("scroll_v", "Scroll V", p.ScrollV),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

var controls = []core.ParameterControl{
	{Key: "speed", Label: "Speed", Type: core.ParamTypeFloat, Step: 0.25, Min: 0, Max: 20, HasMin: true, HasMax: true},
	{Key: "damping", Label: "Damping", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 5, HasMin: true, HasMax: true},
	{Key: "disturb_interval", Label: "Interval", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 5, HasMin: true, HasMax: true},
	{Key: "magnitude_min", Label: "Mag min", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 2, HasMin: true, HasMax: true},
	{Key: "magnitude_max", Label: "Mag max", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 2, HasMin: true, HasMax: true},
	{Key: "spawn_border", Label: "Border", Type: core.ParamTypeInt, Step: 1, Min: 4, Max: 64, HasMin: true, HasMax: true},
	{Key: "display_scale", Label: "Scale", Type: core.ParamTypeFloat, Step: 0.25, Min: 0.25, Max: 20, HasMin: true, HasMax: true},
}

// ParameterControls lists the HUD-adjustable tunables.
func (w *World) ParameterControls() []core.ParameterControl {
	return append([]core.ParameterControl(nil), controls...)
}

func controlFor(key string) (core.ParameterControl, bool) {
	for _, c := range controls {
		if c.Key == key {
			return c, true
		}
	}
	return core.ParameterControl{}, false
}

// SetFloatParameter updates a floating point tunable, clamping it to the
// control bounds. It reports false for unknown keys and for dynamics the
// solver rejects as unstable.
func (w *World) SetFloatParameter(key string, value float64) bool {
	ctrl, ok := controlFor(key)
	if !ok || ctrl.Type != core.ParamTypeFloat {
		return false
	}
	value = ctrl.Clamp(value)
	p := &w.cfg.Params
	switch key {
	case "speed":
		if err := w.waves.SetDynamics(float32(value), float32(p.Damping)); err != nil {
			return false
		}
		p.Speed = value
	case "damping":
		if err := w.waves.SetDynamics(float32(p.Speed), float32(value)); err != nil {
			return false
		}
		p.Damping = value
	case "disturb_interval":
		p.DisturbInterval = value
		w.spawner.SetStep(value)
	case "magnitude_min":
		p.MagnitudeMin = value
		if p.MagnitudeMax < value {
			p.MagnitudeMax = value
		}
	case "magnitude_max":
		p.MagnitudeMax = value
		if p.MagnitudeMin > value {
			p.MagnitudeMin = value
		}
	case "display_scale":
		p.DisplayScale = value
		w.rebuildDisplay()
	}
	return true
}

// SetIntParameter updates an integer tunable.
func (w *World) SetIntParameter(key string, value int) bool {
	ctrl, ok := controlFor(key)
	if !ok || ctrl.Type != core.ParamTypeInt {
		return false
	}
	switch key {
	case "spawn_border":
		w.cfg.Params.SpawnBorder = int(ctrl.Clamp(float64(value)))
	}
	return true
}

// Apply copies the runtime tunables of cfg into the world and returns the
// keys it could not apply: grid shape, spacing, time step and seed need a
// rebuild, and dynamics the solver rejects are reported as "speed".
func (w *World) Apply(cfg Config) []string {
	var restart []string
	if cfg.Rows != w.cfg.Rows {
		restart = append(restart, "rows")
	}
	if cfg.Cols != w.cfg.Cols {
		restart = append(restart, "cols")
	}
	if cfg.Spacing != w.cfg.Spacing {
		restart = append(restart, "spacing")
	}
	if cfg.TimeStep != w.cfg.TimeStep {
		restart = append(restart, "time_step")
	}
	if cfg.Seed != w.cfg.Seed {
		restart = append(restart, "seed")
	}
	p := cfg.Params
	if p.Speed != w.cfg.Params.Speed || p.Damping != w.cfg.Params.Damping {
		if err := w.waves.SetDynamics(float32(p.Speed), float32(p.Damping)); err == nil {
			w.cfg.Params.Speed = p.Speed
			w.cfg.Params.Damping = p.Damping
		} else {
			restart = append(restart, "speed")
		}
	}
	w.cfg.Params.DisturbInterval = p.DisturbInterval
	w.spawner.SetStep(p.DisturbInterval)
	w.cfg.Params.MagnitudeMin = p.MagnitudeMin
	w.cfg.Params.MagnitudeMax = p.MagnitudeMax
	w.cfg.Params.SpawnBorder = p.SpawnBorder
	w.cfg.Params.DisplayScale = p.DisplayScale
	w.cfg.Params.ScrollU = p.ScrollU
	w.cfg.Params.ScrollV = p.ScrollV
	w.scroll.RateU = float32(p.ScrollU)
	w.scroll.RateV = float32(p.ScrollV)
	w.cfg.normalize()
	w.rebuildDisplay()
	return restart
}
