package tetris

import "github.com/vovakirdan/blockfall/internal/core"

// Cell is a board cell. core.ColorDefault (Empty) means unoccupied.
type Cell = core.Color

// Empty is the unoccupied cell value.
const Empty Cell = core.ColorDefault

// Board is a fixed-size grid of cells. Row 0 is the top.
// Boards are values: Merge and ClearLines return new boards and never
// modify the receiver.
type Board struct {
	width  int
	height int
	rows   [][]Cell
}

// NewBoard returns an empty width x height board.
func NewBoard(width, height int) Board {
	b := Board{width: width, height: height, rows: make([][]Cell, height)}
	for y := range b.rows {
		b.rows[y] = make([]Cell, width)
	}
	return b
}

// BoardFromRows builds a board from a copy of rows.
// Every row must have the width of the first.
func BoardFromRows(rows [][]Cell) Board {
	if len(rows) == 0 {
		return Board{}
	}
	b := NewBoard(len(rows[0]), len(rows))
	for y := range rows {
		copy(b.rows[y], rows[y])
	}
	return b
}

// Width returns the number of columns.
func (b Board) Width() int { return b.width }

// Height returns the number of rows.
func (b Board) Height() int { return b.height }

// At returns the cell at (x, y), or Empty outside the grid.
func (b Board) At(x, y int) Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Empty
	}
	return b.rows[y][x]
}

// Filled reports whether (x, y) is an occupied in-bounds cell.
func (b Board) Filled(x, y int) bool {
	return b.At(x, y) != Empty
}

// Rows returns a deep copy of the grid.
func (b Board) Rows() [][]Cell {
	out := make([][]Cell, len(b.rows))
	for y, row := range b.rows {
		out[y] = append([]Cell(nil), row...)
	}
	return out
}

// IsEmpty reports whether no cell is occupied.
func (b Board) IsEmpty() bool {
	for _, row := range b.rows {
		for _, c := range row {
			if c != Empty {
				return false
			}
		}
	}
	return true
}

// Equal reports whether both boards have the same size and contents.
func (b Board) Equal(o Board) bool {
	if b.width != o.width || b.height != o.height {
		return false
	}
	for y := range b.rows {
		for x := range b.rows[y] {
			if b.rows[y][x] != o.rows[y][x] {
				return false
			}
		}
	}
	return true
}

// Collides reports whether p anchored at pos overlaps a wall, the floor, or
// an occupied cell. Cells above the top row never collide.
func (b Board) Collides(p Piece, pos core.Point) bool {
	for _, c := range p.Shape.Cells() {
		x, y := pos.X+c.X, pos.Y+c.Y
		if x < 0 || x >= b.width || y >= b.height {
			return true
		}
		if y >= 0 && b.rows[y][x] != Empty {
			return true
		}
	}
	return false
}

// Merge returns a copy of b with p written at its anchor in p.Color.
// Cells falling outside the grid are dropped.
func (b Board) Merge(p Piece) Board {
	if b.height == 0 {
		return b
	}
	out := BoardFromRows(b.rows)
	for _, c := range p.Shape.Cells() {
		x, y := p.Pos.X+c.X, p.Pos.Y+c.Y
		if x < 0 || x >= out.width || y < 0 || y >= out.height {
			continue
		}
		out.rows[y][x] = p.Color
	}
	return out
}

// ClearLines removes every full row, shifts the rest down, and refills the
// top with empty rows. It returns the new board and the number of rows removed.
func (b Board) ClearLines() (Board, int) {
	kept := make([][]Cell, 0, b.height)
	for _, row := range b.rows {
		if !rowFull(row) {
			kept = append(kept, append([]Cell(nil), row...))
		}
	}
	cleared := b.height - len(kept)

	out := Board{width: b.width, height: b.height, rows: make([][]Cell, 0, b.height)}
	for i := 0; i < cleared; i++ {
		out.rows = append(out.rows, make([]Cell, b.width))
	}
	out.rows = append(out.rows, kept...)
	return out, cleared
}

func rowFull(row []Cell) bool {
	for _, c := range row {
		if c == Empty {
			return false
		}
	}
	return true
}
