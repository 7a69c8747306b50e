package mesh

import (
	"errors"
	"fmt"
)

// ErrTooManyVertices reports a grid whose vertices cannot be addressed by
// 16-bit indices.
var ErrTooManyVertices = errors.New("mesh: grid exceeds 16-bit index range")

// GridIndices builds a triangle list covering a rows x cols vertex grid, two
// triangles per quad.
func GridIndices(rows, cols int) ([]uint16, error) {
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("mesh: %dx%d grid has no quads", rows, cols)
	}
	if rows*cols >= 0xffff {
		return nil, fmt.Errorf("%w: %d vertices", ErrTooManyVertices, rows*cols)
	}
	indices := make([]uint16, 0, 6*(rows-1)*(cols-1))
	for i := 0; i < rows-1; i++ {
		for j := 0; j < cols-1; j++ {
			a := uint16(i*cols + j)
			b := uint16(i*cols + j + 1)
			c := uint16((i+1)*cols + j)
			d := uint16((i+1)*cols + j + 1)
			indices = append(indices, a, b, c, c, b, d)
		}
	}
	return indices, nil
}
