package versus

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

// Transport carries local snapshots to the remote peer.
type Transport interface {
	Publish(snap tetris.Snapshot) error
}

// Relay runs the local side of a remote match. The local session is
// authoritative for itself; the peer is only ever a received snapshot.
type Relay struct {
	local     *Player
	transport Transport
	logger    *log.Logger

	connected bool
	peer      *tetris.Snapshot
	sent      bool
	sentRev   uint64
}

// NewRelay wraps a local player. A nil logger uses the default logger.
func NewRelay(local *Player, t Transport, logger *log.Logger) *Relay {
	if logger == nil {
		logger = log.Default()
	}
	return &Relay{local: local, transport: t, logger: logger}
}

func (r *Relay) Local() *Player { return r.local }

// Connected reports the peer presence flag.
func (r *Relay) Connected() bool { return r.connected }

// SetPeerConnected updates presence. A new connection gets the full current
// state right away.
func (r *Relay) SetPeerConnected(connected bool) {
	was := r.connected
	r.connected = connected
	if connected && !was {
		r.sent = false
		r.flush(r.local.Snapshot())
	}
}

// Receive replaces the peer snapshot wholesale. Last write wins.
func (r *Relay) Receive(snap tetris.Snapshot) {
	c := snap.Clone()
	r.peer = &c
}

// Peer returns the last received peer snapshot.
func (r *Relay) Peer() (tetris.Snapshot, bool) {
	if r.peer == nil {
		return tetris.Snapshot{}, false
	}
	return *r.peer, true
}

// Step runs the local side for one frame and publishes any change.
// Pause and restart are local; the peer's session is not ours to touch.
func (r *Relay) Step(in core.InputFrame, elapsed time.Duration) tetris.Snapshot {
	if in.Has(core.ActionRestart) {
		r.local.Reset()
	} else if in.Has(core.ActionPause) {
		r.local.TogglePause()
	}
	snap := r.local.Step(in, elapsed)
	r.flush(snap)
	return snap
}

// flush publishes snap if connected and it differs from the last one sent.
// A failed publish drops the connection flag.
func (r *Relay) flush(snap tetris.Snapshot) {
	if !r.connected || r.transport == nil {
		return
	}
	if r.sent && snap.Revision == r.sentRev {
		return
	}
	if err := r.transport.Publish(snap); err != nil {
		r.logger.Warn("publish snapshot failed", "err", err)
		r.connected = false
		return
	}
	r.sent = true
	r.sentRev = snap.Revision
}

// Outcome decides the match with the local side as Player1.
// Without a peer snapshot nothing is decided.
func (r *Relay) Outcome() Outcome {
	peer, ok := r.Peer()
	if !ok {
		return Outcome{}
	}
	return Decide(r.local.Snapshot(), peer)
}
