//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"ripples/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type spawnRangeProvider interface {
	SpawnRange() (rowLo, rowHi, colLo, colHi int)
}

// Overlay owns the view toggles and draws debugging marks over the surface.
// Key 1 toggles normal shading, 2 the probe marker and 3 the outline of the
// region random disturbances land in.
type Overlay struct {
	sim   core.Sim
	scale int

	shaded     bool
	showProbe  bool
	showSpawn  bool
	probeRow   int
	probeCol   int
	probeLevel float32

	pixel *ebiten.Image
}

// NewOverlay constructs an overlay with shading on and the markers hidden.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: max(scale, 1), shaded: true, probeRow: -1, probeCol: -1}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Shaded reports whether the surface should be lit by its normals.
func (o *Overlay) Shaded() bool { return o.shaded }

// SetProbe places the probe marker on (row, col). level is the latest probe
// value in [-1, 1] and sizes the marker. The marker is shown the first time a
// probe is placed.
func (o *Overlay) SetProbe(row, col int, level float32) {
	if o.probeRow < 0 && row >= 0 {
		o.showProbe = true
	}
	o.probeRow, o.probeCol, o.probeLevel = row, col, level
}

// Update reads the toggle keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.shaded = !o.shaded
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showProbe = !o.showProbe
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showSpawn = !o.showSpawn
	}
}

// Draw renders the enabled marks onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	if o.showSpawn {
		if provider, ok := o.sim.(spawnRangeProvider); ok {
			rowLo, rowHi, colLo, colHi := provider.SpawnRange()
			if rowHi >= rowLo && colHi >= colLo {
				o.drawRect(screen, colLo, rowLo, colHi+1, rowHi+1, color.RGBA{R: 255, G: 190, B: 90, A: 180})
			}
		}
	}
	if o.showProbe && o.probeRow >= 0 && o.probeRow < size.H && o.probeCol >= 0 && o.probeCol < size.W {
		o.drawProbe(screen)
	}
}

func (o *Overlay) drawProbe(screen *ebiten.Image) {
	s := float64(o.scale)
	cx := (float64(o.probeCol) + 0.5) * s
	cy := (float64(o.probeRow) + 0.5) * s
	level := math.Min(math.Abs(float64(o.probeLevel)), 1)
	arm := s*3 + s*4*level
	col := color.RGBA{R: 255, G: 80, B: 80, A: 220}
	thickness := math.Max(1, s*0.5)
	o.drawLine(screen, cx-arm, cy, cx+arm, cy, thickness, col)
	o.drawLine(screen, cx, cy-arm, cx, cy+arm, thickness, col)
}

func (o *Overlay) drawRect(screen *ebiten.Image, x0, y0, x1, y1 int, col color.RGBA) {
	s := float64(o.scale)
	l, t, r, b := float64(x0)*s, float64(y0)*s, float64(x1)*s, float64(y1)*s
	thickness := math.Max(1, s*0.5)
	o.drawLine(screen, l, t, r, t, thickness, col)
	o.drawLine(screen, l, b, r, b, thickness, col)
	o.drawLine(screen, l, t, l, b, thickness, col)
	o.drawLine(screen, r, t, r, b, thickness, col)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 || thickness <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
