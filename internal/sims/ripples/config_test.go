package ripples

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ripples/internal/waves"
)

func TestFromMapOverrides(t *testing.T) {
	c := FromMap(map[string]string{
		"rows":          "64",
		"w":             "48",
		"speed":         "2.5",
		"magnitude_min": "0.4",
		"magnitude_max": "0.2",
		"damping":       "-1",
		"seed":          "9",
		"bogus":         "1",
	})
	assert.Equal(t, 64, c.Rows)
	assert.Equal(t, 48, c.Cols)
	assert.Equal(t, 2.5, c.Params.Speed)
	assert.Equal(t, DefaultConfig().Params.Damping, c.Params.Damping, "negative damping must be ignored")
	assert.Equal(t, 0.4, c.Params.MagnitudeMax, "max is raised to min")
	assert.EqualValues(t, 9, c.Seed)

	assert.Equal(t, DefaultConfig(), FromMap(nil))
}

func TestConfigSetReportsUnknownKeys(t *testing.T) {
	c := DefaultConfig()
	assert.True(t, c.Set("dt", "0.02"))
	assert.False(t, c.Set("dt", "abc"))
	assert.False(t, c.Set("nope", "1"))
	assert.Equal(t, 0.02, c.TimeStep)
}

func TestDecodeTOMLAndYAML(t *testing.T) {
	tomlData := []byte(`
rows = 120
cols = 80
[params]
speed = 3.0
disturb_interval = 0.5
`)
	c, err := Decode(tomlData, ".toml")
	require.NoError(t, err)
	assert.Equal(t, 120, c.Rows)
	assert.Equal(t, 80, c.Cols)
	assert.Equal(t, 3.0, c.Params.Speed)
	assert.Equal(t, 0.5, c.Params.DisturbInterval)
	assert.Equal(t, DefaultConfig().Params.Damping, c.Params.Damping, "unset keys keep defaults")

	yamlData := []byte("rows: 50\nparams:\n  damping: 0.75\n")
	c, err = Decode(yamlData, ".yml")
	require.NoError(t, err)
	assert.Equal(t, 50, c.Rows)
	assert.Equal(t, 0.75, c.Params.Damping)

	_, err = Decode([]byte("rows = 2"), ".toml")
	assert.Error(t, err)
	_, err = Decode(nil, ".ini")
	assert.Error(t, err)
}

func TestLoadFileRoundTripsEncodedTOML(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows = 90
	cfg.Params.Speed = 1.5
	data, err := cfg.EncodeTOML()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "surface.toml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestFromMapDropsOverridesThatCannotBuild(t *testing.T) {
	def := DefaultConfig()
	c := FromMap(map[string]string{
		"rows":      "2",
		"cols":      "0",
		"spacing":   "0",
		"time_step": "0",
		"speed":     "1000",
	})
	assert.Equal(t, def.Rows, c.Rows)
	assert.Equal(t, def.Cols, c.Cols)
	assert.Equal(t, def.Spacing, c.Spacing)
	assert.Equal(t, def.TimeStep, c.TimeStep)
	assert.Equal(t, def.Params.Speed, c.Params.Speed, "unstable speed is dropped")
	require.NoError(t, c.Validate())

	// A wider spacing makes the faster speed stable again.
	c = FromMap(map[string]string{"spacing": "10", "speed": "20"})
	assert.Equal(t, 10.0, c.Spacing)
	assert.Equal(t, 20.0, c.Params.Speed)

	c = FromMap(map[string]string{"rows": "3", "cols": "3"})
	assert.Equal(t, 3, c.Rows)
	assert.Equal(t, 3, c.Cols)
}

func TestValidateRejectsUnstableDynamics(t *testing.T) {
	c := DefaultConfig()
	c.Params.Speed = 100
	assert.ErrorIs(t, c.Validate(), waves.ErrUnstable)
}
