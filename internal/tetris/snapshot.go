package tetris

import "github.com/vovakirdan/blockfall/internal/core"

// PieceState is the observable part of a piece.
type PieceState struct {
	Kind  Kind
	Shape Shape
	Color core.Color
	X, Y  int
}

func pieceState(p Piece) PieceState {
	return PieceState{Kind: p.Kind, Shape: p.Shape.Clone(), Color: p.Color, X: p.Pos.X, Y: p.Pos.Y}
}

// Piece converts the state back into an engine piece.
func (p PieceState) Piece() Piece {
	return Piece{Kind: p.Kind, Shape: p.Shape.Clone(), Color: p.Color, Pos: core.Point{X: p.X, Y: p.Y}}
}

// Snapshot is an immutable deep copy of a session's observable state.
// It is what renderers, the opponent and the remote relay consume.
type Snapshot struct {
	Width    int
	Height   int
	Board    [][]Cell
	Current  *PieceState
	Next     PieceState
	Score    int
	Level    int
	Lines    int
	Paused   bool
	GameOver bool
	Revision uint64 // bumped on every state change
}

// Status derives the state-machine state.
func (s Snapshot) Status() Status {
	switch {
	case s.GameOver:
		return StatusGameOver
	case s.Paused:
		return StatusPaused
	default:
		return StatusActive
	}
}

// CellAt returns the settled cell at (x, y), or Empty outside the grid.
func (s Snapshot) CellAt(x, y int) Cell {
	if y < 0 || y >= len(s.Board) || x < 0 || x >= len(s.Board[y]) {
		return Empty
	}
	return s.Board[y][x]
}

// Clone returns a deep copy that shares no memory with s.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Board = make([][]Cell, len(s.Board))
	for y, row := range s.Board {
		out.Board[y] = append([]Cell(nil), row...)
	}
	if s.Current != nil {
		cur := *s.Current
		cur.Shape = cur.Shape.Clone()
		out.Current = &cur
	}
	out.Next.Shape = s.Next.Shape.Clone()
	return out
}

// BoardValue rebuilds an engine Board from the snapshot grid.
func (s Snapshot) BoardValue() Board {
	if len(s.Board) == 0 {
		return NewBoard(s.Width, s.Height)
	}
	return BoardFromRows(s.Board)
}
