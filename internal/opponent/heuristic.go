// Package opponent implements the computer player: an exhaustive one-piece
// search over every rotation and column, scored by a fixed linear heuristic,
// committed to the session as a single placement.
package opponent

import (
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

// Weights are the coefficients of the board evaluation.
type Weights struct {
	Hole   float64 // per covered empty cell
	Height float64 // per unit of column height
	Line   float64 // per cleared line
}

// DefaultWeights returns the reference coefficients.
func DefaultWeights() Weights {
	return Weights{Hole: -5, Height: -0.5, Line: 100}
}

// Plan is a chosen placement.
type Plan struct {
	Rotations int
	Column    int
	Row       int // resting anchor row
	Score     float64
}

// Holes counts empty cells with an occupied cell somewhere above them.
func Holes(b tetris.Board) int {
	holes := 0
	for x := 0; x < b.Width(); x++ {
		covered := false
		for y := 0; y < b.Height(); y++ {
			if b.Filled(x, y) {
				covered = true
			} else if covered {
				holes++
			}
		}
	}
	return holes
}

// ColumnHeight is the distance from the floor to the highest filled cell
// of column x, zero for an empty column.
func ColumnHeight(b tetris.Board, x int) int {
	for y := 0; y < b.Height(); y++ {
		if b.Filled(x, y) {
			return b.Height() - y
		}
	}
	return 0
}

// AggregateHeight sums ColumnHeight over every column.
func AggregateHeight(b tetris.Board) int {
	total := 0
	for x := 0; x < b.Width(); x++ {
		total += ColumnHeight(b, x)
	}
	return total
}

// Evaluate scores the result of locking p (already at its resting anchor)
// on b. Holes are counted before line clearing, heights after.
func Evaluate(b tetris.Board, p tetris.Piece, w Weights) float64 {
	merged := b.Merge(p)
	holes := Holes(merged)
	cleared, lines := merged.ClearLines()
	return w.Hole*float64(holes) + w.Height*float64(AggregateHeight(cleared)) + w.Line*float64(lines)
}

// Search tries all four rotations against every column and returns the
// highest-scoring legal placement. The first candidate wins ties. It reports
// false when no placement is legal.
func Search(b tetris.Board, p tetris.Piece, w Weights) (Plan, bool) {
	var best Plan
	found := false

	shape := p
	for r := 0; r < 4; r++ {
		for x := 0; x < b.Width(); x++ {
			candidate := shape.At(core.Point{X: x, Y: p.Pos.Y})
			if b.Collides(candidate, candidate.Pos) {
				continue
			}
			candidate.Pos.Y = tetris.RestingY(b, candidate)

			score := Evaluate(b, candidate, w)
			if !found || score > best.Score {
				best = Plan{Rotations: r, Column: x, Row: candidate.Pos.Y, Score: score}
				found = true
			}
		}
		shape = shape.Rotated()
	}
	return best, found
}
