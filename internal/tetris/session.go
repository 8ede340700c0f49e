package tetris

import "github.com/vovakirdan/blockfall/internal/core"

// Status is the state-machine state of a session.
type Status int

const (
	StatusActive Status = iota
	StatusPaused
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusPaused:
		return "paused"
	case StatusGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Landing describes the most recent piece lock.
type Landing struct {
	Cleared int // rows removed
	Points  int // line points awarded
	Bonus   int // drop bonus awarded
}

// Session is one player's game: the board, the falling and next pieces,
// and the score counters. All commands run synchronously and return the
// resulting snapshot. Commands that are not allowed in the current state
// leave the session untouched.
//
// A Session is not safe for concurrent use.
type Session struct {
	rules    Rules
	rng      Randomizer
	board    Board
	current  *Piece
	next     Piece
	score    int
	level    int
	lines    int
	paused   bool
	over     bool
	revision uint64
	last     Landing
}

// NewSession starts an Active session drawing pieces from rng.
func NewSession(rules Rules, rng Randomizer) *Session {
	s := &Session{rules: rules.normalized(), rng: rng}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.board = NewBoard(s.rules.Width, s.rules.Height)
	cur := s.draw()
	s.current = &cur
	s.next = s.draw()
	s.score = 0
	s.lines = 0
	s.level = 1
	s.paused = false
	s.over = false
	s.last = Landing{}
}

func (s *Session) draw() Piece {
	return RandomPiece(s.rng).At(s.rules.Spawn)
}

// Rules returns the normalized rules the session runs with.
func (s *Session) Rules() Rules { return s.rules }

// Board returns the settled board. Boards are values, so the caller may keep it.
func (s *Session) Board() Board { return s.board }

// Current returns the falling piece, if any.
func (s *Session) Current() (Piece, bool) {
	if s.current == nil {
		return Piece{}, false
	}
	return s.current.Clone(), true
}

// Status returns the state-machine state.
func (s *Session) Status() Status {
	switch {
	case s.over:
		return StatusGameOver
	case s.paused:
		return StatusPaused
	default:
		return StatusActive
	}
}

// LastLanding reports the most recent lock, zero before the first one.
func (s *Session) LastLanding() Landing { return s.last }

// Snapshot returns a deep copy of the observable state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Width:    s.board.Width(),
		Height:   s.board.Height(),
		Board:    s.board.Rows(),
		Next:     pieceState(s.next),
		Score:    s.score,
		Level:    s.level,
		Lines:    s.lines,
		Paused:   s.paused,
		GameOver: s.over,
		Revision: s.revision,
	}
	if s.current != nil {
		cur := pieceState(*s.current)
		snap.Current = &cur
	}
	return snap
}

func (s *Session) canAct() bool {
	return !s.paused && !s.over && s.current != nil
}

// TogglePause flips between Active and Paused. No-op once the game is over.
func (s *Session) TogglePause() Snapshot {
	if !s.over {
		s.paused = !s.paused
		s.revision++
	}
	return s.Snapshot()
}

// Reset starts a fresh game from any state.
func (s *Session) Reset() Snapshot {
	s.reset()
	s.revision++
	return s.Snapshot()
}

// MoveLeft shifts the falling piece one column left if it fits.
func (s *Session) MoveLeft() Snapshot {
	s.shift(-1, 0)
	return s.Snapshot()
}

// MoveRight shifts the falling piece one column right if it fits.
func (s *Session) MoveRight() Snapshot {
	s.shift(1, 0)
	return s.Snapshot()
}

// SoftDrop moves the falling piece one row down, or locks it when blocked.
// Gravity uses the same step.
func (s *Session) SoftDrop() Snapshot {
	if s.canAct() && !s.shift(0, 1) {
		s.land(0)
	}
	return s.Snapshot()
}

// MoveDown is the gravity step. It is SoftDrop.
func (s *Session) MoveDown() Snapshot {
	return s.SoftDrop()
}

// Rotate turns the falling piece clockwise in place if the result fits.
// There is no wall kick.
func (s *Session) Rotate() Snapshot {
	if s.canAct() {
		r := s.current.Rotated()
		if !s.board.Collides(r, r.Pos) {
			*s.current = r
			s.revision++
		}
	}
	return s.Snapshot()
}

// HardDrop drops the falling piece to its resting row and locks it,
// scoring one point per row fallen.
func (s *Session) HardDrop() Snapshot {
	if s.canAct() {
		start := s.current.Pos.Y
		s.current.Pos.Y = s.restingY(*s.current)
		s.land(s.current.Pos.Y - start)
	}
	return s.Snapshot()
}

// Place applies rotations clockwise turns, moves the piece to column, drops
// it to its resting row, and locks it. The bonus is the landing row. This is
// the computer opponent's single atomic commit. A placement that does not fit
// at the current row is rejected and the state is left unchanged.
func (s *Session) Place(rotations, column int) Snapshot {
	if s.canAct() {
		p := *s.current
		for i := 0; i < ((rotations%4)+4)%4; i++ {
			p = p.Rotated()
		}
		p.Pos.X = column
		if s.board.Collides(p, p.Pos) {
			return s.Snapshot()
		}
		p.Pos.Y = s.restingY(p)
		*s.current = p
		s.land(p.Pos.Y)
	}
	return s.Snapshot()
}

func (s *Session) shift(dx, dy int) bool {
	if !s.canAct() {
		return false
	}
	pos := s.current.Pos.Add(dx, dy)
	if s.board.Collides(*s.current, pos) {
		return false
	}
	s.current.Pos = pos
	s.revision++
	return true
}

// restingY returns the lowest row p can reach by falling straight down.
func (s *Session) restingY(p Piece) int {
	return RestingY(s.board, p)
}

// RestingY steps downward from p's anchor and returns the last row before
// the next step would collide.
func RestingY(b Board, p Piece) int {
	y := p.Pos.Y
	for !b.Collides(p, core.Point{X: p.Pos.X, Y: y + 1}) {
		y++
	}
	return y
}

// land locks the current piece and advances to the next one.
func (s *Session) land(bonus int) {
	merged := s.board.Merge(*s.current)
	board, cleared := merged.ClearLines()
	points := cleared * s.rules.LinePoints * s.level

	s.board = board
	s.score += points + bonus
	s.lines += cleared
	s.level = s.rules.LevelFor(s.lines)
	s.last = Landing{Cleared: cleared, Points: points, Bonus: bonus}

	next := s.next
	s.current = &next
	s.next = s.draw()
	if s.board.Collides(next, next.Pos) {
		s.over = true
	}
	s.revision++
}
