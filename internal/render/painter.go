//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"ripples/internal/vmath"
)

// SurfacePainter uploads a display buffer into a single RGBA image, one pixel
// per vertex.
type SurfacePainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewSurfacePainter allocates a painter for a grid of size w*h.
func NewSurfacePainter(w, h int) *SurfacePainter {
	sp := &SurfacePainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	sp.img = ebiten.NewImage(w, h)
	return sp
}

// Blit colours cells through the palette, optionally shades them with the
// surface normals, and draws the result scaled onto dst.
func (sp *SurfacePainter) Blit(dst *ebiten.Image, cells []uint8, palette []color.RGBA, normals []vmath.Vec3, scale int) {
	if len(cells) != sp.w*sp.h {
		return
	}
	if normals != nil && len(normals) != len(cells) {
		normals = nil
	}
	FillRGBA(sp.buf, cells, palette, normals)
	sp.img.WritePixels(sp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(sp.img, op)
}

// Size returns the dimensions of the underlying image.
func (sp *SurfacePainter) Size() (int, int) { return sp.w, sp.h }
