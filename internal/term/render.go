// Package term draws a wave surface into a character terminal.
package term

import (
	"image/color"

	"github.com/gdamore/tcell/v2"

	"ripples/internal/core"
	"ripples/internal/render"
	"ripples/internal/vmath"
)

// Canvas is the drawing surface the renderer needs; tcell.Screen satisfies it.
type Canvas interface {
	Size() (int, int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// ramp orders glyphs by how far a cell sits from the rest level.
var ramp = []rune(" .:-=+*#%@")

const restLevel = 128

// Renderer maps display cells onto terminal cells.
type Renderer struct {
	palette []color.RGBA
	glyph   tcell.Color
}

// NewRenderer colours cells through palette.
func NewRenderer(palette []color.RGBA) *Renderer {
	return &Renderer{palette: palette, glyph: tcell.NewRGBColor(235, 245, 255)}
}

// Glyph returns the ramp character for a display value.
func Glyph(v uint8) rune {
	d := int(v) - restLevel
	if d < 0 {
		d = -d
	}
	idx := d * len(ramp) / (restLevel + 1)
	if idx >= len(ramp) {
		idx = len(ramp) - 1
	}
	return ramp[idx]
}

// Style returns the terminal style for a display value lit by normal. A zero
// normal disables shading.
func (r *Renderer) Style(v uint8, normal vmath.Vec3) tcell.Style {
	var bg color.RGBA
	if len(r.palette) > 0 {
		bg = r.palette[min(int(v), len(r.palette)-1)]
	}
	if normal != (vmath.Vec3{}) {
		k := render.Lambert(normal)
		bg.R = uint8(float32(bg.R)*k + 0.5)
		bg.G = uint8(float32(bg.G)*k + 0.5)
		bg.B = uint8(float32(bg.B)*k + 0.5)
	}
	return tcell.StyleDefault.
		Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B))).
		Foreground(r.glyph)
}

// Draw samples the grid onto the canvas, leaving the last row for status.
// normals may be nil.
func (r *Renderer) Draw(c Canvas, cells []uint8, size core.Size, normals []vmath.Vec3, status string) {
	sw, sh := c.Size()
	if sw <= 0 || sh <= 0 || size.W <= 0 || size.H <= 0 || len(cells) != size.W*size.H {
		return
	}
	if normals != nil && len(normals) != len(cells) {
		normals = nil
	}
	rows := sh - 1
	if rows < 1 {
		rows = sh
	}
	for y := 0; y < rows; y++ {
		gy := y * size.H / rows
		for x := 0; x < sw; x++ {
			gx := x * size.W / sw
			i := gy*size.W + gx
			var n vmath.Vec3
			if normals != nil {
				n = normals[i]
			}
			c.SetContent(x, y, Glyph(cells[i]), nil, r.Style(cells[i], n))
		}
	}
	if rows == sh {
		return
	}
	statusStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	text := []rune(status)
	for x := 0; x < sw; x++ {
		ch := ' '
		if x < len(text) {
			ch = text[x]
		}
		c.SetContent(x, sh-1, ch, nil, statusStyle)
	}
}
