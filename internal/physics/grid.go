package physics

import "math"

// SpatialGrid is a uniform grid over a bounded area for broad-phase proximity queries.
// Items are inserted by position and index; QueryAround visits the 3x3 cell
// neighborhood of a point, so cell size must be >= the largest distance any
// caller will test against.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of items that fall within a cell.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a grid covering width x height.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = math.Max(width, height)
	}
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([]gridCell, cols*rows),
	}
}

// Insert adds an item at the given position. Positions outside the area
// land in the nearest edge cell.
func (g *SpatialGrid) Insert(x, y float64, index int) {
	col, row := g.posToCell(x, y)
	idx := row*g.cols + col
	g.cells[idx].items = append(g.cells[idx].items, index)
}

// QueryAround calls fn for each item in the 3x3 neighborhood of (x, y).
// Neighbors past the area edge are skipped; the area does not wrap.
// Iteration stops early when fn returns true.
func (g *SpatialGrid) QueryAround(x, y float64, fn func(index int) bool) {
	col, row := g.posToCell(x, y)

	for r := row - 1; r <= row+1; r++ {
		if r < 0 || r >= g.rows {
			continue
		}
		rowOffset := r * g.cols
		for c := col - 1; c <= col+1; c++ {
			if c < 0 || c >= g.cols {
				continue
			}
			for _, itemIdx := range g.cells[rowOffset+c].items {
				if fn(itemIdx) {
					return
				}
			}
		}
	}
}

// posToCell converts a position to cell coordinates, clamped to the grid.
func (g *SpatialGrid) posToCell(x, y float64) (col, row int) {
	col = int(math.Floor(x * g.invCellSize))
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row = int(math.Floor(y * g.invCellSize))
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
