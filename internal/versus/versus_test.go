package versus

import (
	"errors"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/opponent"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

func humanPlayer(id core.PlayerID, seed int64) *Player {
	s := tetris.NewSession(tetris.DefaultRules(), rand.New(rand.NewSource(seed)))
	return NewPlayer(id, s, NewKeyboard(tetris.HumanGravity))
}

func computerPlayer(id core.PlayerID, seed int64) *Player {
	s := tetris.NewSession(tetris.DefaultRules(), rand.New(rand.NewSource(seed)))
	return NewPlayer(id, s, NewHeuristic(tetris.ComputerGravity, opponent.New(opponent.DefaultWeights())))
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		a, b tetris.Snapshot
		want Outcome
	}{
		{"both playing", tetris.Snapshot{Score: 10}, tetris.Snapshot{Score: 0}, Outcome{}},
		{"p1 over with higher score", tetris.Snapshot{Score: 900, GameOver: true}, tetris.Snapshot{Score: 10},
			Outcome{Decided: true, Winner: core.Player2, Reason: ReasonSurvival}},
		{"p2 over", tetris.Snapshot{Score: 0}, tetris.Snapshot{Score: 500, GameOver: true},
			Outcome{Decided: true, Winner: core.Player1, Reason: ReasonSurvival}},
		{"both over p1 higher", tetris.Snapshot{Score: 300, GameOver: true}, tetris.Snapshot{Score: 200, GameOver: true},
			Outcome{Decided: true, Winner: core.Player1, Reason: ReasonScore}},
		{"both over p2 higher", tetris.Snapshot{Score: 100, GameOver: true}, tetris.Snapshot{Score: 200, GameOver: true},
			Outcome{Decided: true, Winner: core.Player2, Reason: ReasonScore}},
		{"both over tie", tetris.Snapshot{Score: 200, GameOver: true}, tetris.Snapshot{Score: 200, GameOver: true},
			Outcome{Decided: true, Winner: core.PlayerNone, Reason: ReasonTie}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(tc.a, tc.b)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want.Reason == ReasonTie, got.Tie())
		})
	}
}

func TestPlayerGravityFalls(t *testing.T) {
	p := humanPlayer(core.Player1, 1)

	snap := p.Step(core.NewInputFrame(), 999*time.Millisecond)
	require.NotNil(t, snap.Current)
	assert.Equal(t, 0, snap.Current.Y)

	snap = p.Step(core.NewInputFrame(), time.Millisecond)
	assert.Equal(t, 1, snap.Current.Y)
}

func TestPausedPlayerDoesNotFall(t *testing.T) {
	p := humanPlayer(core.Player1, 1)
	before := p.TogglePause()

	after := p.Step(core.NewInputFrame(), 2*tetris.HumanGravity.Interval(1))

	assert.Equal(t, before, after)
	assert.False(t, p.Gravity().Armed())
}

func TestPlayerInput(t *testing.T) {
	p := humanPlayer(core.Player1, 1)

	snap := p.Step(frame(core.ActionLeft), 0)
	assert.Equal(t, 2, snap.Current.X)

	snap = p.Step(frame(core.ActionHardDrop), 0)
	assert.Positive(t, snap.Score)
	assert.Equal(t, 0, snap.Current.Y)
}

func TestComputerPlacesOncePerTick(t *testing.T) {
	p := computerPlayer(core.Player2, 5)

	snap := p.Step(frame(core.ActionHardDrop), 0)
	assert.Equal(t, 0, snap.Score, "computer ignores input")

	snap = p.Step(core.NewInputFrame(), tetris.ComputerGravity.Interval(1))
	assert.False(t, p.Session().Board().IsEmpty())
	assert.Equal(t, 0, snap.Current.Y)
}

func TestPlayerResetRearms(t *testing.T) {
	p := humanPlayer(core.Player1, 1)
	p.TogglePause()

	snap := p.Reset()

	assert.Equal(t, tetris.StatusActive, snap.Status())
	assert.True(t, p.Gravity().Armed())
}

func TestDuelFansOutPause(t *testing.T) {
	d := NewDuel(humanPlayer(core.Player1, 1), humanPlayer(core.Player2, 2))

	in := core.NewMultiInputFrame()
	in.Set(core.Player2, core.ActionPause)
	d.Step(in, 0)

	a, b := d.Snapshots()
	assert.True(t, a.Paused)
	assert.True(t, b.Paused)
	assert.True(t, d.Paused())

	d.TogglePause()
	a, b = d.Snapshots()
	assert.False(t, a.Paused)
	assert.False(t, b.Paused)
}

func TestDuelRoutesInputPerPlayer(t *testing.T) {
	d := NewDuel(humanPlayer(core.Player1, 1), humanPlayer(core.Player2, 2))

	in := core.NewMultiInputFrame()
	in.Set(core.Player1, core.ActionLeft)
	in.Set(core.Player2, core.ActionRight)
	d.Step(in, 0)

	a, b := d.Snapshots()
	assert.Equal(t, 2, a.Current.X)
	assert.Equal(t, 4, b.Current.X)
}

func TestDuelSurvivalAndReset(t *testing.T) {
	d := NewDuel(humanPlayer(core.Player1, 1), computerPlayer(core.Player2, 2))

	drop := core.NewMultiInputFrame()
	drop.Set(core.Player1, core.ActionHardDrop)
	for i := 0; i < 200 && !d.Outcome().Decided; i++ {
		d.Step(drop, 0)
	}

	out := d.Outcome()
	require.True(t, out.Decided)
	assert.Equal(t, core.Player2, out.Winner)
	assert.Equal(t, ReasonSurvival, out.Reason)

	_, before := d.Snapshots()
	d.Step(core.NewMultiInputFrame(), 10*time.Second)
	_, after := d.Snapshots()
	assert.Equal(t, before, after, "decided duel is frozen")

	restart := core.NewMultiInputFrame()
	restart.Set(core.Player1, core.ActionRestart)
	d.Step(restart, 0)

	a, b := d.Snapshots()
	assert.False(t, a.GameOver)
	assert.Equal(t, 0, a.Score)
	assert.Equal(t, 0, b.Score)
	assert.False(t, d.Outcome().Decided)
}

type recordingTransport struct {
	sent []tetris.Snapshot
	err  error
}

func (r *recordingTransport) Publish(s tetris.Snapshot) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, s)
	return nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRelayPublishesOnChangeOnly(t *testing.T) {
	tr := &recordingTransport{}
	r := NewRelay(humanPlayer(core.Player1, 1), tr, quietLogger())

	r.Step(frame(core.ActionLeft), 0)
	assert.Empty(t, tr.sent, "nothing is sent before the peer connects")

	r.SetPeerConnected(true)
	require.Len(t, tr.sent, 1, "connecting sends the current state")

	r.Step(core.NewInputFrame(), 0)
	assert.Len(t, tr.sent, 1, "unchanged state is not resent")

	snap := r.Step(frame(core.ActionRight), 0)
	require.Len(t, tr.sent, 2)
	assert.Equal(t, snap, tr.sent[1])
}

func TestRelayPublishFailureDisconnects(t *testing.T) {
	tr := &recordingTransport{err: errors.New("broken pipe")}
	r := NewRelay(humanPlayer(core.Player1, 1), tr, quietLogger())

	r.SetPeerConnected(true)

	assert.False(t, r.Connected())
	snap := r.Step(frame(core.ActionLeft), 0)
	assert.Equal(t, 2, snap.Current.X, "local play continues")
}

func TestRelayReceiveLastWriteWins(t *testing.T) {
	r := NewRelay(humanPlayer(core.Player1, 1), nil, quietLogger())

	_, ok := r.Peer()
	assert.False(t, ok)
	assert.False(t, r.Outcome().Decided)

	first := tetris.Snapshot{Score: 10, Board: [][]tetris.Cell{{core.ColorRed}}}
	r.Receive(first)
	first.Board[0][0] = core.ColorBlue
	r.Receive(tetris.Snapshot{Score: 40, GameOver: true})

	peer, ok := r.Peer()
	require.True(t, ok)
	assert.Equal(t, 40, peer.Score)

	out := r.Outcome()
	assert.Equal(t, Outcome{Decided: true, Winner: core.Player1, Reason: ReasonSurvival}, out)
}

func TestRelayPauseIsLocal(t *testing.T) {
	tr := &recordingTransport{}
	r := NewRelay(humanPlayer(core.Player1, 1), tr, quietLogger())
	r.SetPeerConnected(true)

	snap := r.Step(frame(core.ActionPause), time.Second)

	assert.True(t, snap.Paused)
	require.Len(t, tr.sent, 2)
	assert.True(t, tr.sent[1].Paused)
}
