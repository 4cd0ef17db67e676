// Package board implements the 2048 rule engine: move resolution, merge
// policy, random tile spawning and terminal-state detection on a 4x4 grid.
//
// The package has no UI or I/O dependencies. Renderers and input layers read
// the board through the Engine's read-only view and drive it with Move.
package board

// Size is the board dimension.
const Size = 4

// CellCount is the number of cells on the board.
const CellCount = Size * Size

// Empty marks a cell without a tile.
const Empty = 0

// Grid holds the cell values in row-major order (index = row*Size + col).
// Empty cells are 0; occupied cells hold a power of two >= 2.
type Grid [CellCount]int

// Index converts a row/column pair to a cell index.
func Index(row, col int) int {
	return row*Size + col
}

// Coord converts a cell index to its row and column.
func Coord(index int) (row, col int) {
	return index / Size, index % Size
}

// At returns the value at row/col.
func (g Grid) At(row, col int) int {
	return g[Index(row, col)]
}

// EmptyIndices returns the indices of all empty cells in ascending order.
func (g Grid) EmptyIndices() []int {
	var out []int
	for i, v := range g {
		if v == Empty {
			out = append(out, i)
		}
	}
	return out
}

// Full reports whether no cell is empty.
func (g Grid) Full() bool {
	for _, v := range g {
		if v == Empty {
			return false
		}
	}
	return true
}

// MaxTile returns the highest tile value, or 0 on an empty grid.
func (g Grid) MaxTile() int {
	maxVal := 0
	for _, v := range g {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// Sum returns the total of all tile values.
func (g Grid) Sum() int {
	total := 0
	for _, v := range g {
		total += v
	}
	return total
}

// Rows returns the grid as a 4x4 matrix, mostly for display and JSON.
func (g Grid) Rows() [Size][Size]int {
	var rows [Size][Size]int
	for i, v := range g {
		r, c := Coord(i)
		rows[r][c] = v
	}
	return rows
}

// FromRows builds a Grid from a 4x4 matrix.
func FromRows(rows [Size][Size]int) Grid {
	var g Grid
	for r := range Size {
		for c := range Size {
			g[Index(r, c)] = rows[r][c]
		}
	}
	return g
}

// Terminal reports whether the grid is full and no two horizontally or
// vertically adjacent cells hold equal values. Only the right and down
// neighbours are checked; together they cover every adjacent pair once.
func (g Grid) Terminal() bool {
	for i, v := range g {
		if v == Empty {
			return false
		}
		r, c := Coord(i)
		if c < Size-1 && g[Index(r, c+1)] == v {
			return false
		}
		if r < Size-1 && g[Index(r+1, c)] == v {
			return false
		}
	}
	return true
}
