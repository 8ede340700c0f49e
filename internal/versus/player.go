package versus

import (
	"time"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

// Player is one side: a session, its gravity timer and its controller.
type Player struct {
	id      core.PlayerID
	session *tetris.Session
	gravity *tetris.Gravity
	ctrl    Controller
}

// NewPlayer wires a session to a controller and arms its gravity.
func NewPlayer(id core.PlayerID, s *tetris.Session, ctrl Controller) *Player {
	p := &Player{
		id:      id,
		session: s,
		gravity: tetris.NewGravity(ctrl.Gravity()),
		ctrl:    ctrl,
	}
	p.gravity.Sync(s.Snapshot())
	return p
}

func (p *Player) ID() core.PlayerID         { return p.id }
func (p *Player) Session() *tetris.Session  { return p.session }
func (p *Player) Gravity() *tetris.Gravity  { return p.gravity }
func (p *Player) Controller() Controller    { return p.ctrl }
func (p *Player) Snapshot() tetris.Snapshot { return p.session.Snapshot() }

// Step applies one input frame, then lets gravity catch up with elapsed time.
// Pause and restart are not handled here; compositions fan them out.
func (p *Player) Step(in core.InputFrame, elapsed time.Duration) tetris.Snapshot {
	snap := p.ctrl.Apply(p.session, in)
	p.gravity.Sync(snap)

	due := p.gravity.Advance(elapsed)
	for i := 0; i < due && p.gravity.Armed(); i++ {
		gen := p.gravity.Generation()
		snap = p.ctrl.Fall(p.session)
		p.gravity.Sync(snap)
		if p.gravity.Generation() != gen {
			// New period or disarmed: pending ticks belong to the old timer.
			break
		}
	}
	return snap
}

// TogglePause pauses or resumes the side and its timer.
func (p *Player) TogglePause() tetris.Snapshot {
	snap := p.session.TogglePause()
	p.gravity.Sync(snap)
	return snap
}

// Reset restarts the side with a fresh timer phase.
func (p *Player) Reset() tetris.Snapshot {
	snap := p.session.Reset()
	p.gravity.Arm(snap.Level)
	return snap
}
