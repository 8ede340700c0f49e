package versus

import (
	"time"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

// Duel runs two local sides. Pause and restart always apply to both.
type Duel struct {
	p1, p2 *Player
}

// NewDuel pairs two players.
func NewDuel(p1, p2 *Player) *Duel {
	return &Duel{p1: p1, p2: p2}
}

// Player returns the side for id, nil for an unknown id.
func (d *Duel) Player(id core.PlayerID) *Player {
	switch id {
	case core.Player1:
		return d.p1
	case core.Player2:
		return d.p2
	default:
		return nil
	}
}

// Players returns both sides in order.
func (d *Duel) Players() [2]*Player {
	return [2]*Player{d.p1, d.p2}
}

// Step handles shared commands from either player, then steps both sides.
// A decided duel is frozen until restarted.
func (d *Duel) Step(in core.MultiInputFrame, elapsed time.Duration) {
	if in.Any(core.ActionRestart) {
		d.Reset()
	} else if in.Any(core.ActionPause) {
		d.TogglePause()
	}
	if d.Outcome().Decided {
		return
	}
	d.p1.Step(in.Player(core.Player1), elapsed)
	d.p2.Step(in.Player(core.Player2), elapsed)
}

// TogglePause pauses or resumes both sides.
// Once the match is decided it does nothing.
func (d *Duel) TogglePause() {
	if d.Outcome().Decided {
		return
	}
	d.p1.TogglePause()
	d.p2.TogglePause()
}

// Reset restarts both sides.
func (d *Duel) Reset() {
	d.p1.Reset()
	d.p2.Reset()
}

// Snapshots returns both sides' current state.
func (d *Duel) Snapshots() (tetris.Snapshot, tetris.Snapshot) {
	return d.p1.Snapshot(), d.p2.Snapshot()
}

// Outcome applies Decide to the current snapshots.
func (d *Duel) Outcome() Outcome {
	return Decide(d.Snapshots())
}

// Paused reports whether the duel is paused.
func (d *Duel) Paused() bool {
	return d.p1.Session().Status() == tetris.StatusPaused
}
