package opponent

import "github.com/vovakirdan/blockfall/internal/tetris"

// Opponent plays a session one whole placement at a time.
type Opponent struct {
	weights Weights
}

// New returns an opponent using w.
func New(w Weights) *Opponent {
	return &Opponent{weights: w}
}

// Weights returns the evaluation coefficients.
func (o *Opponent) Weights() Weights { return o.weights }

// Decide returns the placement the opponent would make for the current piece.
func (o *Opponent) Decide(s *tetris.Session) (Plan, bool) {
	if s.Status() != tetris.StatusActive {
		return Plan{}, false
	}
	p, ok := s.Current()
	if !ok {
		return Plan{}, false
	}
	return Search(s.Board(), p, o.weights)
}

// Play runs one decide-and-commit cycle. When no placement is legal the
// piece is hard-dropped where it is. Paused or finished sessions are left alone.
func (o *Opponent) Play(s *tetris.Session) tetris.Snapshot {
	if s.Status() != tetris.StatusActive {
		return s.Snapshot()
	}
	plan, ok := o.Decide(s)
	if !ok {
		return s.HardDrop()
	}
	return s.Place(plan.Rotations, plan.Column)
}
