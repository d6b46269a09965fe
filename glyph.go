package typeface

import (
	"fmt"
	"iter"
)

// MaxDimension bounds the rows and columns a glyph may have.
const MaxDimension = 32

// Pos addresses a cell inside a glyph.
type Pos struct {
	Row, Col int
}

// Glyph is the grid drawing of one character.
// The zero value is an empty 0x0 grid; use NewGlyph.
type Glyph struct {
	cols, rows int
	grid       [][]Cell
}

// NewGlyph returns a cols x rows glyph of empty cells.
func NewGlyph(cols, rows int) *Glyph {
	g := &Glyph{}
	g.Resize(cols, rows)
	return g
}

// GlyphFromGrid builds a glyph from rows of cells. The grid must be
// rectangular and within MaxDimension. Rotations are normalized.
func GlyphFromGrid(grid [][]Cell) (*Glyph, error) {
	rows := len(grid)
	if rows == 0 || rows > MaxDimension {
		return nil, fmt.Errorf("%w: %d rows", ErrInvalid, rows)
	}
	cols := len(grid[0])
	if cols == 0 || cols > MaxDimension {
		return nil, fmt.Errorf("%w: %d columns", ErrInvalid, cols)
	}
	g := &Glyph{cols: cols, rows: rows, grid: make([][]Cell, rows)}
	for r, row := range grid {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalid, r, len(row), cols)
		}
		g.grid[r] = make([]Cell, cols)
		for c, cell := range row {
			g.grid[r][c] = cell.normalize()
		}
	}
	return g, nil
}

// Cols returns the column count.
func (g *Glyph) Cols() int { return g.cols }

// Rows returns the row count.
func (g *Glyph) Rows() int { return g.rows }

func (g *Glyph) inBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// Cell returns the cell at (row, col).
func (g *Glyph) Cell(row, col int) (Cell, error) {
	if !g.inBounds(row, col) {
		return Cell{}, fmt.Errorf("%w: (%d, %d) in %dx%d grid", ErrOutOfRange, row, col, g.cols, g.rows)
	}
	return g.grid[row][col], nil
}

// SetCell stores cell at (row, col). A rotation that is invalid for the
// cell's shape is normalized to 0. The second result reports whether the
// stored content changed.
func (g *Glyph) SetCell(row, col int, cell Cell) (bool, error) {
	if !g.inBounds(row, col) {
		return false, fmt.Errorf("%w: (%d, %d) in %dx%d grid", ErrOutOfRange, row, col, g.cols, g.rows)
	}
	cell = cell.normalize()
	if g.grid[row][col] == cell {
		return false, nil
	}
	g.grid[row][col] = cell
	return true, nil
}

// Resize changes the grid to cols x rows. Cells inside both the old and the
// new bounds are kept, newly exposed cells are empty and cells outside the
// new bounds are dropped. Resizing to the current size is a no-op.
func (g *Glyph) Resize(cols, rows int) {
	cols = clampDim(cols)
	rows = clampDim(rows)
	if cols == g.cols && rows == g.rows && g.grid != nil {
		return
	}
	grid := make([][]Cell, rows)
	for r := range grid {
		grid[r] = make([]Cell, cols)
		for c := range grid[r] {
			if r < g.rows && c < g.cols {
				grid[r][c] = g.grid[r][c]
			} else {
				grid[r][c] = EmptyCell()
			}
		}
	}
	g.grid, g.cols, g.rows = grid, cols, rows
}

func clampDim(n int) int {
	return max(1, min(n, MaxDimension))
}

// Clear empties every cell, keeping the dimensions.
func (g *Glyph) Clear() {
	for r := range g.grid {
		for c := range g.grid[r] {
			g.grid[r][c] = EmptyCell()
		}
	}
}

// IsEmpty reports whether no cell holds a shape.
func (g *Glyph) IsEmpty() bool {
	for _, cell := range g.Cells() {
		if !cell.IsEmpty() {
			return false
		}
	}
	return true
}

// Cells iterates the grid in row-major order.
func (g *Glyph) Cells() iter.Seq2[Pos, Cell] {
	return func(yield func(Pos, Cell) bool) {
		for r, row := range g.grid {
			for c, cell := range row {
				if !yield(Pos{Row: r, Col: c}, cell) {
					return
				}
			}
		}
	}
}

// Grid returns a copy of the cells as rows.
func (g *Glyph) Grid() [][]Cell {
	out := make([][]Cell, len(g.grid))
	for r, row := range g.grid {
		out[r] = append([]Cell(nil), row...)
	}
	return out
}

// Clone returns a deep copy of g.
func (g *Glyph) Clone() *Glyph {
	return &Glyph{cols: g.cols, rows: g.rows, grid: g.Grid()}
}

// Equal reports whether g and o have the same dimensions and cells.
func (g *Glyph) Equal(o *Glyph) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.cols != o.cols || g.rows != o.rows {
		return false
	}
	for r := range g.grid {
		for c := range g.grid[r] {
			if g.grid[r][c] != o.grid[r][c] {
				return false
			}
		}
	}
	return true
}

// Validate checks that the stored dimensions match the grid.
func (g *Glyph) Validate() error {
	if len(g.grid) != g.rows {
		return fmt.Errorf("%w: grid has %d rows, want %d", ErrInvalid, len(g.grid), g.rows)
	}
	for r, row := range g.grid {
		if len(row) != g.cols {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalid, r, len(row), g.cols)
		}
		for c, cell := range row {
			if cell.Rotation != cell.Shape.Normalize(cell.Rotation) {
				return fmt.Errorf("%w: cell (%d, %d) rotation %d for %v", ErrInvalid, r, c, cell.Rotation, cell.Shape)
			}
		}
	}
	return nil
}
