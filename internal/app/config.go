package app

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// Config represents the command-line parameters for the viewer.
type Config struct {
	Sim   string
	Scale int
	TPS   int
	Seed  int64

	ConfigFile string
	Watch      bool
	HUD        bool
	Audio      bool
	Probe      string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "ripples", Scale: 3, TPS: 60, HUD: true}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset (0 keeps the configured seed)")
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "surface config file (.toml, .yaml)")
	fs.BoolVar(&c.Watch, "watch", c.Watch, "reload -config when it changes")
	fs.BoolVar(&c.HUD, "hud", c.HUD, "show the parameter panel")
	fs.BoolVar(&c.Audio, "audio", c.Audio, "play the probe vertex as sound")
	fs.StringVar(&c.Probe, "probe", c.Probe, "probe vertex as row,col (default: grid centre)")
}

// ProbeCell parses Probe, falling back to the centre of a rows x cols grid.
func (c *Config) ProbeCell(rows, cols int) (row, col int) {
	row, col = rows/2, cols/2
	r, cc, ok := strings.Cut(c.Probe, ",")
	if !ok {
		return row, col
	}
	pr, err1 := parseIndex(r)
	pc, err2 := parseIndex(cc)
	if err1 != nil || err2 != nil || pr >= rows || pc >= cols {
		return row, col
	}
	return pr, pc
}

func parseIndex(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative index %d", v)
	}
	return v, nil
}
