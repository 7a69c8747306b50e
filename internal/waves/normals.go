package waves

import "ripples/internal/vmath"

// computeNormals estimates normals and +X tangents of interior vertices with
// central differences of the current height field. Border vertices keep the
// values set at construction.
func (w *Waves) computeNormals() {
	rows, cols := w.grid.Rows, w.grid.Cols
	twoDx := 2 * w.spatialStep
	for i := 1; i < rows-1; i++ {
		for j := 1; j < cols-1; j++ {
			idx := i*cols + j
			l := w.curr[idx-1]
			r := w.curr[idx+1]
			t := w.curr[idx-cols]
			b := w.curr[idx+cols]
			w.normals[idx] = vmath.Vec3{X: l - r, Y: twoDx, Z: b - t}.Normalize()
			w.tangentX[idx] = vmath.Vec3{X: twoDx, Y: r - l, Z: 0}.Normalize()
		}
	}
}
