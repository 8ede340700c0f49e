package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/core"
)

func TestCollides(t *testing.T) {
	b := boardWithBottom(
		"#.........",
		"##########",
	)
	o := NewPiece(KindO)

	tests := []struct {
		name string
		pos  core.Point
		want bool
	}{
		{"open space", core.Point{X: 4, Y: 5}, false},
		{"left wall", core.Point{X: -1, Y: 5}, true},
		{"right wall", core.Point{X: 9, Y: 5}, true},
		{"floor", core.Point{X: 4, Y: 19}, true},
		{"occupied cell", core.Point{X: 0, Y: 17}, true},
		{"resting on stack", core.Point{X: 1, Y: 17}, false},
		{"above the top", core.Point{X: 4, Y: -1}, false},
		{"above the top but outside", core.Point{X: -1, Y: -2}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, b.Collides(o, tc.pos))
		})
	}
}

func TestCollidesIgnoresEmptyMatrixCells(t *testing.T) {
	b := NewBoard(10, 20)
	// Vertical I only occupies matrix column 2, so anchor -2 is flush with the wall.
	vertical := NewPiece(KindI).Rotated()
	assert.False(t, b.Collides(vertical, core.Point{X: -2, Y: 0}))
	assert.True(t, b.Collides(vertical, core.Point{X: -3, Y: 0}))
}

func TestMergeContainment(t *testing.T) {
	b := NewBoard(10, 20)
	p := NewPiece(KindT).At(core.Point{X: 4, Y: 10})

	merged := b.Merge(p)

	for _, c := range p.Shape.Cells() {
		assert.Equal(t, core.ColorMagenta, merged.At(p.Pos.X+c.X, p.Pos.Y+c.Y))
	}
	assert.True(t, b.IsEmpty(), "Merge must not modify the receiver")
}

func TestMergeClipsOutOfBounds(t *testing.T) {
	b := NewBoard(10, 20)
	p := NewPiece(KindO).At(core.Point{X: 9, Y: -1})

	merged := b.Merge(p)

	assert.Equal(t, core.ColorYellow, merged.At(9, 0))
	count := 0
	for _, row := range merged.Rows() {
		for _, c := range row {
			if c != Empty {
				count++
			}
		}
	}
	assert.Equal(t, 1, count)
}

func TestClearLinesNoFullRows(t *testing.T) {
	b := boardWithBottom(
		"#.#.#.#.#.",
		"#########.",
	)

	cleared, n := b.ClearLines()

	assert.Equal(t, 0, n)
	assert.True(t, cleared.Equal(b))

	again, n := cleared.ClearLines()
	assert.Equal(t, 0, n)
	assert.True(t, again.Equal(b))
}

func TestClearLinesShiftsRowsDown(t *testing.T) {
	b := boardWithBottom(
		"#.........",
		"##########",
		"..#.......",
		"##########",
	)

	cleared, n := b.ClearLines()

	require.Equal(t, 2, n)
	assert.Equal(t, 20, cleared.Height())
	for _, row := range cleared.Rows() {
		assert.Len(t, row, 10)
	}
	assert.True(t, cleared.Filled(0, 18))
	assert.True(t, cleared.Filled(2, 19))
	assert.False(t, cleared.Filled(0, 19))
	assert.Equal(t, 2, countFilled(cleared))
}

func TestClearLinesKeepsDimensions(t *testing.T) {
	for n := 0; n <= 4; n++ {
		bottom := make([]string, n)
		for i := range bottom {
			bottom[i] = "##########"
		}
		b := boardWithBottom(bottom...)

		cleared, got := b.ClearLines()

		assert.Equal(t, n, got)
		assert.Equal(t, b.Height(), cleared.Height())
		assert.Equal(t, b.Width(), cleared.Width())
		assert.True(t, cleared.IsEmpty())
	}
}

func TestBoardFromRowsCopies(t *testing.T) {
	rows := rowsFrom("#.", "..")
	b := BoardFromRows(rows)
	rows[0][0] = Empty

	assert.True(t, b.Filled(0, 0))
	assert.Equal(t, Empty, b.At(5, 5))
}

func countFilled(b Board) int {
	n := 0
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if b.Filled(x, y) {
				n++
			}
		}
	}
	return n
}
