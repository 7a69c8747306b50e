package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"ripples/internal/vmath"
)

func TestFillPaletteClampsIndex(t *testing.T) {
	palette := []color.RGBA{{R: 1, G: 2, B: 3, A: 4}, {R: 9, G: 8, B: 7, A: 6}}
	buf := make([]byte, 12)
	fillPaletteRGBA(buf, []uint8{0, 1, 200}, palette)
	assert.Equal(t, []byte{1, 2, 3, 4, 9, 8, 7, 6, 9, 8, 7, 6}, buf)

	fillPaletteRGBA(buf, []uint8{0, 1, 2}, nil)
	assert.Equal(t, make([]byte, 12), buf)
}

func TestLambertRange(t *testing.T) {
	flat := Lambert(vmath.Up)
	assert.Greater(t, flat, float32(Ambient))
	assert.Less(t, flat, float32(1))

	facing := Lambert(LightDir.Scale(-1).Normalize())
	assert.InDelta(t, 1, facing, 1e-5)

	away := Lambert(LightDir.Normalize())
	assert.InDelta(t, Ambient, away, 1e-6)
}

func TestFillRGBAShadesColourOnly(t *testing.T) {
	palette := []color.RGBA{{R: 200, G: 100, B: 50, A: 255}}
	buf := make([]byte, 8)
	away := LightDir.Normalize()
	FillRGBA(buf, []uint8{0, 0}, palette, []vmath.Vec3{away, vmath.Up})

	assert.Equal(t, uint8(65), buf[0], "200 * ambient")
	assert.EqualValues(t, 255, buf[3])
	assert.EqualValues(t, 255, buf[7])
	assert.Greater(t, buf[4], buf[0], "an upward normal catches more light")

	plain := make([]byte, 8)
	FillRGBA(plain, []uint8{0, 0}, palette, nil)
	assert.Equal(t, []byte{200, 100, 50, 255, 200, 100, 50, 255}, plain)
}
