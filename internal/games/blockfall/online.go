package blockfall

import (
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/tetris"
	"github.com/vovakirdan/blockfall/internal/versus"
)

// OnlineGame is the local half of a remote match. It runs its own session
// and shows the peer from received snapshots. It is not registered: it
// needs a transport, which only the online screen can provide.
type OnlineGame struct {
	runtime   core.RuntimeConfig
	cfg       config.BlockfallConfig
	transport versus.Transport
	logger    *log.Logger

	relay  *versus.Relay
	side   core.PlayerID
	result *versus.Outcome // set once the room is closed
}

// NewOnline creates an online game publishing through t.
func NewOnline(t versus.Transport, logger *log.Logger) *OnlineGame {
	return &OnlineGame{transport: t, logger: logger, side: core.Player1}
}

func (g *OnlineGame) ID() string    { return IDOnline }
func (g *OnlineGame) Title() string { return "Blockfall Online" }

// Reset starts a fresh local session. Presence and the peer snapshot
// survive a reset; the result does not.
func (g *OnlineGame) Reset(runtime core.RuntimeConfig) {
	g.ResetWithConfig(runtime, LoadConfig())
}

// ResetWithConfig is Reset with an explicit config.
func (g *OnlineGame) ResetWithConfig(runtime core.RuntimeConfig, cfg config.BlockfallConfig) {
	g.runtime = runtime
	g.cfg = cfg

	var connected bool
	var peer tetris.Snapshot
	var hasPeer bool
	if g.relay != nil {
		connected = g.relay.Connected()
		peer, hasPeer = g.relay.Peer()
	}

	session := tetris.NewSession(cfg.Rules(), rand.New(rand.NewSource(runtime.Seed)))
	local := versus.NewPlayer(core.Player1, session, versus.NewKeyboard(cfg.Gravity.Human.Profile()))
	g.relay = versus.NewRelay(local, g.transport, g.logger)
	if hasPeer {
		g.relay.Receive(peer)
	}
	g.relay.SetPeerConnected(connected)
	g.result = nil
}

// SetSide records which room side the local player holds.
func (g *OnlineGame) SetSide(side core.PlayerID) { g.side = side }

// Side returns the local player's room side.
func (g *OnlineGame) Side() core.PlayerID { return g.side }

// SetPeerConnected updates the opponent presence flag.
func (g *OnlineGame) SetPeerConnected(connected bool) {
	if g.relay != nil {
		g.relay.SetPeerConnected(connected)
	}
}

// Connected reports whether the opponent is present.
func (g *OnlineGame) Connected() bool {
	return g.relay != nil && g.relay.Connected()
}

// ReceivePeer replaces the opponent's state.
func (g *OnlineGame) ReceivePeer(snap tetris.Snapshot) {
	if g.relay != nil {
		g.relay.Receive(snap)
	}
}

// Close freezes the game with the room's outcome. Winner is given in room
// sides and converted so the local player is Player1.
func (g *OnlineGame) Close(o versus.Outcome) {
	if g.side == core.Player2 && o.Winner != core.PlayerNone {
		o.Winner = o.Winner.Other()
	}
	g.result = &o
	if g.relay != nil {
		g.relay.SetPeerConnected(false)
	}
}

// Closed reports whether the room has closed.
func (g *OnlineGame) Closed() bool { return g.result != nil }

// Outcome is the result with the local player as Player1.
func (g *OnlineGame) Outcome() versus.Outcome {
	if g.result != nil {
		return *g.result
	}
	if g.relay == nil {
		return versus.Outcome{}
	}
	return g.relay.Outcome()
}

// Step runs the local side and publishes changes. A closed room is frozen.
func (g *OnlineGame) Step(in core.InputFrame) core.StepResult {
	if g.relay != nil && g.result == nil {
		g.relay.Step(in, g.runtime.TickDuration())
	}
	return core.StepResult{State: g.State()}
}

func (g *OnlineGame) State() core.GameState {
	if g.relay == nil {
		return core.GameState{}
	}
	s := g.relay.Local().Snapshot()
	return core.GameState{Score: s.Score, GameOver: s.GameOver || g.result != nil, Paused: s.Paused}
}

// LocalSnapshot returns the local side's state.
func (g *OnlineGame) LocalSnapshot() tetris.Snapshot {
	if g.relay == nil {
		return tetris.Snapshot{}
	}
	return g.relay.Local().Snapshot()
}

func (g *OnlineGame) Render(dst *core.Screen) {
	dst.Clear()
	if g.relay == nil {
		return
	}
	local := g.relay.Local().Snapshot()
	left := sideView{
		title:  "You",
		color:  core.ColorBrightCyan,
		snap:   local,
		width:  local.Width,
		height: local.Height,
		ready:  true,

		landing: g.relay.Local().Session().LastLanding(),
	}
	peer, ok := g.relay.Peer()
	right := sideView{
		title:  "Opponent",
		color:  core.ColorBrightMagenta,
		snap:   peer,
		width:  local.Width,
		height: local.Height,
		ready:  ok,
	}
	switch {
	case !ok && !g.relay.Connected():
		right.note = "Waiting..."
	case !g.relay.Connected() && g.result == nil:
		right.note = "Disconnected"
	}

	title := g.Title()
	if o := g.Outcome(); o.Decided {
		left.banner, right.banner = banners(o)
		if g.result != nil {
			title = closedLine(o)
		} else {
			title = outcomeLine(o, "You", "Opponent")
		}
	}
	drawSides(dst, title, left, right)
}

func closedLine(o versus.Outcome) string {
	switch {
	case o.Tie():
		return "Tie game! Press B to leave"
	case o.Winner == core.Player1:
		return "You win by " + string(o.Reason) + "! Press B to leave"
	default:
		return "You lose by " + string(o.Reason) + ". Press B to leave"
	}
}
