package core

// Grid describes a row-major lattice of Rows x Cols vertices.
type Grid struct {
	Rows, Cols int
}

// NewGrid returns a grid with the given dimensions, clamped to at least 1x1.
func NewGrid(rows, cols int) Grid {
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	return Grid{Rows: rows, Cols: cols}
}

// Len returns the number of vertices in the grid.
func (g Grid) Len() int { return g.Rows * g.Cols }

// Index returns the linear slice index for (row, col).
func (g Grid) Index(row, col int) int { return row*g.Cols + col }

// Coords converts a linear index back to (row, col).
func (g Grid) Coords(i int) (int, int) { return i / g.Cols, i % g.Cols }

// Inside reports whether (row, col) keeps at least margin cells between
// itself and every border.
func (g Grid) Inside(row, col, margin int) bool {
	return row >= margin && row <= g.Rows-1-margin &&
		col >= margin && col <= g.Cols-1-margin
}

// Interior reports whether (row, col) is not on the outer border.
func (g Grid) Interior(row, col int) bool { return g.Inside(row, col, 1) }
