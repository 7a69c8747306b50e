package render

import (
	"image/color"

	"ripples/internal/vmath"
)

// LightDir is the direction the scene's key light travels.
var LightDir = vmath.Vec3{X: 0, Y: -0.27735, Z: 0.57735}

// Ambient is the light every face receives regardless of orientation.
const Ambient = 0.325

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Lambert returns the brightness of a surface with normal n lit by LightDir,
// in [Ambient, 1].
func Lambert(n vmath.Vec3) float32 {
	toLight := LightDir.Scale(-1).Normalize()
	diffuse := n.Dot(toLight)
	if diffuse < 0 {
		diffuse = 0
	}
	v := Ambient + (1-Ambient)*diffuse
	if v > 1 {
		return 1
	}
	return v
}

// shadeRGBA scales the RGB channels already in buf by the Lambert term of the
// matching normal. Alpha is left alone.
func shadeRGBA(buf []byte, normals []vmath.Vec3) {
	for i, n := range normals {
		base := i * 4
		if base+3 >= len(buf) {
			return
		}
		k := Lambert(n)
		buf[base+0] = uint8(float32(buf[base+0])*k + 0.5)
		buf[base+1] = uint8(float32(buf[base+1])*k + 0.5)
		buf[base+2] = uint8(float32(buf[base+2])*k + 0.5)
	}
}

// FillRGBA writes cells through the palette into buf and, when normals is
// non-nil, applies directional shading. buf must hold 4 bytes per cell.
func FillRGBA(buf []byte, cells []uint8, palette []color.RGBA, normals []vmath.Vec3) {
	fillPaletteRGBA(buf, cells, palette)
	if normals != nil && len(palette) > 0 {
		shadeRGBA(buf, normals)
	}
}
