// Package mesh turns a simulated surface into renderer-ready vertex and index
// data and cycles the per-frame copies a GPU may still be reading.
package mesh

import "ripples/internal/vmath"

// Vertex is the per-vertex layout uploaded for the water surface.
type Vertex struct {
	Pos    vmath.Vec3
	Normal vmath.Vec3
	TexC   [2]float32
}

// Surface is the read-only view of a height field the snapshot needs.
type Surface interface {
	VertexCount() int
	Position(i int) vmath.Vec3
	Normal(i int) vmath.Vec3
	Width() float32
	Depth() float32
}

// CopySurface writes positions and normals of s into dst and derives texture
// coordinates by mapping [-w/2, w/2] to [0, 1], then translating them by
// offset (see TexScroll). It returns the number of vertices written, which is
// the smaller of len(dst) and s.VertexCount().
func CopySurface(dst []Vertex, s Surface, offset [2]float32) int {
	n := s.VertexCount()
	if len(dst) < n {
		n = len(dst)
	}
	width, depth := s.Width(), s.Depth()
	for i := 0; i < n; i++ {
		p := s.Position(i)
		dst[i] = Vertex{
			Pos:    p,
			Normal: s.Normal(i),
			TexC:   [2]float32{0.5 + p.X/width + offset[0], 0.5 - p.Z/depth + offset[1]},
		}
	}
	return n
}
