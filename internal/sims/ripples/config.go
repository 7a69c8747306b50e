package ripples

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"ripples/internal/mesh"
	"ripples/internal/waves"
)

// Params holds the tunables that may change while the simulation runs.
type Params struct {
	Speed   float64 `toml:"speed" yaml:"speed"`
	Damping float64 `toml:"damping" yaml:"damping"`

	// DisturbInterval is the simulated time between random disturbances in
	// seconds; zero disables them.
	DisturbInterval float64 `toml:"disturb_interval" yaml:"disturb_interval"`
	MagnitudeMin    float64 `toml:"magnitude_min" yaml:"magnitude_min"`
	MagnitudeMax    float64 `toml:"magnitude_max" yaml:"magnitude_max"`
	// SpawnBorder keeps random disturbances this many cells from the top and
	// left borders; the far side uses rows-5 and cols-5.
	SpawnBorder int `toml:"spawn_border" yaml:"spawn_border"`

	// DisplayScale maps heights onto the display buffer; a height of
	// 1/DisplayScale saturates.
	DisplayScale float64 `toml:"display_scale" yaml:"display_scale"`

	// ScrollU and ScrollV drift the water texture in texture units per
	// second.
	ScrollU float64 `toml:"scroll_u" yaml:"scroll_u"`
	ScrollV float64 `toml:"scroll_v" yaml:"scroll_v"`
}

// Config controls the ripples surface.
type Config struct {
	Rows     int     `toml:"rows" yaml:"rows"`
	Cols     int     `toml:"cols" yaml:"cols"`
	Spacing  float64 `toml:"spacing" yaml:"spacing"`
	TimeStep float64 `toml:"time_step" yaml:"time_step"`

	Seed int64 `toml:"seed" yaml:"seed"`

	Params Params `toml:"params" yaml:"params"`
}

// DefaultConfig returns a 200x200 pond with a drop every quarter second.
func DefaultConfig() Config {
	return Config{
		Rows:     200,
		Cols:     200,
		Spacing:  2.0,
		TimeStep: 0.03,
		Seed:     1337,
		Params: Params{
			Speed:           4.0,
			Damping:         0.2,
			DisturbInterval: 0.25,
			MagnitudeMin:    0.1,
			MagnitudeMax:    0.3,
			SpawnBorder:     6,
			DisplayScale:    2.5,
			ScrollU:         mesh.DefaultScrollU,
			ScrollV:         mesh.DefaultScrollV,
		},
	}
}

// normalize repairs inverted bounds the way the flag parsers expect.
func (c *Config) normalize() {
	if c.Params.MagnitudeMax < c.Params.MagnitudeMin {
		c.Params.MagnitudeMax = c.Params.MagnitudeMin
	}
	if c.Params.DisplayScale <= 0 {
		c.Params.DisplayScale = DefaultConfig().Params.DisplayScale
	}
}

// Validate reports values no surface can be built from.
func (c Config) Validate() error {
	var errs []error
	if c.Rows < 3 || c.Cols < 3 {
		errs = append(errs, fmt.Errorf("grid %dx%d needs at least 3x3 vertices", c.Rows, c.Cols))
	}
	if c.Spacing <= 0 {
		errs = append(errs, fmt.Errorf("spacing %g must be positive", c.Spacing))
	}
	if c.TimeStep <= 0 {
		errs = append(errs, fmt.Errorf("time step %g must be positive", c.TimeStep))
	}
	if c.Spacing > 0 && c.TimeStep > 0 {
		if err := waves.CheckDynamics(float32(c.Spacing), float32(c.TimeStep), float32(c.Params.Speed), float32(c.Params.Damping)); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Params.DisturbInterval < 0 {
		errs = append(errs, fmt.Errorf("disturb interval %g must not be negative", c.Params.DisturbInterval))
	}
	return errors.Join(errs...)
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Keys are applied in sorted order and an override that would leave the config
// invalid, such as an unstable speed, is dropped.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		trial := c
		if trial.set(k, cfg[k]) && trial.Validate() == nil {
			c = trial
		}
	}
	c.normalize()
	return c
}

// Set applies one key=value override and reports whether the key was known
// and the value parsed.
func (c *Config) Set(key, value string) bool {
	ok := c.set(key, value)
	c.normalize()
	return ok
}

func (c *Config) set(key, value string) bool {
	gridSize := func(dst *int) bool {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 3 {
			return false
		}
		*dst = parsed
		return true
	}
	positive := func(dst *float64) bool {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || parsed <= 0 {
			return false
		}
		*dst = parsed
		return true
	}
	nonNegative := func(dst *float64) bool {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || parsed < 0 {
			return false
		}
		*dst = parsed
		return true
	}
	switch key {
	case "rows", "h":
		return gridSize(&c.Rows)
	case "cols", "w":
		return gridSize(&c.Cols)
	case "spacing":
		return positive(&c.Spacing)
	case "time_step", "dt":
		return positive(&c.TimeStep)
	case "seed":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return false
		}
		c.Seed = parsed
		return true
	case "speed":
		return nonNegative(&c.Params.Speed)
	case "damping":
		return nonNegative(&c.Params.Damping)
	case "disturb_interval":
		return nonNegative(&c.Params.DisturbInterval)
	case "magnitude_min":
		return nonNegative(&c.Params.MagnitudeMin)
	case "magnitude_max":
		return nonNegative(&c.Params.MagnitudeMax)
	case "spawn_border":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			return false
		}
		c.Params.SpawnBorder = parsed
		return true
	case "display_scale":
		return nonNegative(&c.Params.DisplayScale)
	case "scroll_u", "scroll_v":
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		if key == "scroll_u" {
			c.Params.ScrollU = parsed
		} else {
			c.Params.ScrollV = parsed
		}
		return true
	}
	return false
}

// LoadFile reads a .toml, .yaml or .yml config on top of DefaultConfig.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses data in the format named by ext (".toml", ".yaml", ".yml").
func Decode(data []byte, ext string) (Config, error) {
	c := DefaultConfig()
	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		err = toml.Unmarshal(data, &c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("decoding %s config: %w", strings.TrimPrefix(ext, "."), err)
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// EncodeTOML renders the config in the format LoadFile reads.
func (c Config) EncodeTOML() ([]byte, error) {
	return toml.Marshal(c)
}
