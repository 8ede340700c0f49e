package blockfall

import (
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/tetris"
	"github.com/vovakirdan/blockfall/internal/versus"
)

// 10 Hz makes every tick exactly 100ms.
func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 10, Seed: 42}
}

func frame(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func filledCells(s tetris.Snapshot) int {
	n := 0
	for _, row := range s.Board {
		for _, c := range row {
			if c != tetris.Empty {
				n++
			}
		}
	}
	return n
}

func render(g registry.Game) string {
	dst := core.NewScreen(80, 24)
	g.Render(dst)
	return dst.String()
}

func TestModesRegistered(t *testing.T) {
	for _, id := range []string{IDSolo, IDVsCPU, IDDuo} {
		g, err := registry.Create(id)
		require.NoError(t, err, id)
		assert.Equal(t, id, g.ID())
		assert.NotEmpty(t, g.Title())
	}

	duo, _ := registry.Create(IDDuo)
	_, ok := duo.(registry.MultiPlayerGame)
	assert.True(t, ok, "duo takes per-player input")

	solo, _ := registry.Create(IDSolo)
	_, ok = solo.(registry.MultiPlayerGame)
	assert.False(t, ok)
	assert.False(t, registry.Exists(IDOnline))
}

func TestSetDifficultyPreset(t *testing.T) {
	defer SetDifficultyPreset("normal")

	SetDifficultyPreset("hard")
	assert.Equal(t, config.DifficultyHard, difficultyPreset)

	SetDifficultyPreset("bogus")
	assert.Equal(t, config.DifficultyNormal, difficultyPreset)
}

func TestSoloPauseAndRestart(t *testing.T) {
	g := New()
	g.ResetWithConfig(testRuntime(), config.DefaultBlockfallConfig())

	g.Step(frame(core.ActionHardDrop))
	assert.Positive(t, g.State().Score)

	res := g.Step(frame(core.ActionPause))
	assert.True(t, res.State.Paused)
	res = g.Step(frame(core.ActionHardDrop))
	assert.True(t, res.State.Paused)

	res = g.Step(frame(core.ActionPause))
	assert.False(t, res.State.Paused)

	res = g.Step(frame(core.ActionRestart))
	assert.Equal(t, 0, res.State.Score)
	assert.False(t, res.State.GameOver)
}

func TestSoloGravity(t *testing.T) {
	g := New()
	g.ResetWithConfig(testRuntime(), config.DefaultBlockfallConfig())
	s, _, _ := g.Snapshots()
	require.NotNil(t, s.Current)
	startY := s.Current.Y

	for range 9 {
		g.Step(frame())
	}
	s, _, _ = g.Snapshots()
	assert.Equal(t, startY, s.Current.Y, "not yet a full second")

	g.Step(frame())
	s, _, _ = g.Snapshots()
	assert.Equal(t, startY+1, s.Current.Y)
}

func TestSoloGameOver(t *testing.T) {
	g := New()
	g.ResetWithConfig(testRuntime(), config.DefaultBlockfallConfig())

	for i := 0; i < 200 && !g.State().GameOver; i++ {
		g.Step(frame(core.ActionHardDrop))
	}
	require.True(t, g.State().GameOver)
	assert.Contains(t, render(g), "GAME OVER")
}

func TestVsCPUComputerPlacesOnItsOwnClock(t *testing.T) {
	g := NewVsCPU()
	g.ResetWithConfig(testRuntime(), config.DefaultBlockfallConfig())

	for range 14 {
		g.Step(frame())
	}
	_, cpu, ok := g.Snapshots()
	require.True(t, ok)
	assert.Zero(t, filledCells(cpu))

	g.Step(frame())
	_, cpu, _ = g.Snapshots()
	assert.Equal(t, 4, filledCells(cpu))
}

func TestVsCPUPerGameDifficulty(t *testing.T) {
	g := NewVsCPU()
	g.SetDifficulty(config.DifficultyHard)
	g.Reset(testRuntime())

	for range 9 {
		g.Step(frame())
	}
	_, cpu, _ := g.Snapshots()
	assert.Zero(t, filledCells(cpu))

	g.Step(frame())
	_, cpu, _ = g.Snapshots()
	assert.Equal(t, 4, filledCells(cpu), "hard plays once a second")
	assert.Equal(t, config.DifficultyNormal, difficultyPreset, "package preset untouched")
}

func TestVsCPUInputOnlyMovesPlayerOne(t *testing.T) {
	g := NewVsCPU()
	g.ResetWithConfig(testRuntime(), config.DefaultBlockfallConfig())

	g.Step(frame(core.ActionHardDrop))
	you, cpu, _ := g.Snapshots()
	assert.Positive(t, you.Score)
	assert.Zero(t, cpu.Score)
}

func TestDuoRoutesInputPerPlayer(t *testing.T) {
	g := NewDuo()
	g.ResetWithConfig(testRuntime(), config.DefaultBlockfallConfig())

	in := core.NewMultiInputFrame()
	in.Set(core.Player2, core.ActionHardDrop)
	g.StepMulti(in)

	p1, p2, _ := g.Snapshots()
	assert.Zero(t, p1.Score)
	assert.Positive(t, p2.Score)

	pause := core.NewMultiInputFrame()
	pause.Set(core.Player2, core.ActionPause)
	res := g.StepMulti(pause)
	assert.True(t, res.State.Paused)
	p1, p2, _ = g.Snapshots()
	assert.True(t, p1.Paused)
	assert.True(t, p2.Paused)
}

func TestDuoSurvivalWinFreezesUntilRestart(t *testing.T) {
	g := NewDuo()
	g.ResetWithConfig(testRuntime(), config.DefaultBlockfallConfig())

	drop := core.NewMultiInputFrame()
	drop.Set(core.Player1, core.ActionHardDrop)
	for i := 0; i < 200 && !g.State().GameOver; i++ {
		g.StepMulti(drop)
	}
	require.True(t, g.State().GameOver)

	o := g.Outcome()
	assert.Equal(t, core.Player2, o.Winner)
	assert.Equal(t, versus.ReasonSurvival, o.Reason)

	_, before, _ := g.Snapshots()
	p2 := core.NewMultiInputFrame()
	p2.Set(core.Player2, core.ActionHardDrop)
	g.StepMulti(p2)
	_, after, _ := g.Snapshots()
	assert.Equal(t, before.Revision, after.Revision, "decided match is frozen")

	out := render(g)
	assert.Contains(t, out, "WINNER")
	assert.Contains(t, out, "LOSER")

	restart := core.NewMultiInputFrame()
	restart.Set(core.Player2, core.ActionRestart)
	res := g.StepMulti(restart)
	assert.False(t, res.State.GameOver)
	assert.False(t, g.Outcome().Decided)
}

func TestRenderSolo(t *testing.T) {
	g := New()
	g.ResetWithConfig(testRuntime(), config.DefaultBlockfallConfig())

	out := render(g)
	for _, want := range []string{"Score", "Level", "Lines", "Next", "┌", "█"} {
		assert.Contains(t, out, want)
	}

	g.Step(frame(core.ActionPause))
	assert.Contains(t, render(g), "PAUSED")
}

func TestRenderTooSmall(t *testing.T) {
	g := NewDuo()
	g.ResetWithConfig(testRuntime(), config.DefaultBlockfallConfig())

	dst := core.NewScreen(30, 10)
	g.Render(dst)
	assert.Contains(t, dst.String(), "Window too small")
}

func TestRenderBeforeReset(t *testing.T) {
	dst := core.NewScreen(80, 24)
	assert.NotPanics(t, func() { New().Render(dst) })
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

func newOnline(t *testing.T, tr *recordingTransport) *OnlineGame {
	t.Helper()
	g := NewOnline(tr, log.New(io.Discard))
	g.ResetWithConfig(testRuntime(), config.DefaultBlockfallConfig())
	return g
}

func TestOnlinePublishesOnlyWhenConnected(t *testing.T) {
	tr := &recordingTransport{}
	g := newOnline(t, tr)

	g.Step(frame(core.ActionHardDrop))
	assert.Empty(t, tr.sent)
	assert.Contains(t, render(g), "Waiting...")

	g.SetPeerConnected(true)
	require.Len(t, tr.sent, 1)
	assert.Positive(t, tr.sent[0].Score)

	g.Step(frame())
	assert.Len(t, tr.sent, 1, "unchanged state is not republished")

	g.Step(frame(core.ActionLeft))
	assert.Len(t, tr.sent, 2)
}

func TestOnlinePublishFailureDisconnects(t *testing.T) {
	tr := &recordingTransport{err: errors.New("closed")}
	g := newOnline(t, tr)

	g.SetPeerConnected(true)
	assert.False(t, g.Connected())
}

func TestOnlinePeerShown(t *testing.T) {
	tr := &recordingTransport{}
	g := newOnline(t, tr)
	g.SetPeerConnected(true)

	peer := g.LocalSnapshot()
	peer.Score = 4321
	g.ReceivePeer(peer)

	assert.Contains(t, render(g), "4321")
}

func TestOnlineCloseFromGuestSide(t *testing.T) {
	tr := &recordingTransport{}
	g := newOnline(t, tr)
	g.SetSide(core.Player2)
	g.SetPeerConnected(true)

	g.Close(versus.Outcome{Decided: true, Winner: core.Player1, Reason: versus.ReasonSurvival})

	assert.True(t, g.Closed())
	assert.Equal(t, core.Player2, g.Outcome().Winner, "host won, so the local guest lost")
	assert.True(t, g.State().GameOver)

	before := g.LocalSnapshot().Revision
	g.Step(frame(core.ActionHardDrop))
	assert.Equal(t, before, g.LocalSnapshot().Revision)
	assert.True(t, strings.Contains(render(g), "You lose"))
}

func TestOnlineResetKeepsPresence(t *testing.T) {
	tr := &recordingTransport{}
	g := newOnline(t, tr)
	g.SetPeerConnected(true)
	g.ReceivePeer(g.LocalSnapshot())

	g.ResetWithConfig(testRuntime(), config.DefaultBlockfallConfig())
	assert.True(t, g.Connected())
	assert.Len(t, tr.sent, 2, "reset republishes the fresh state")
}

func TestClearLabel(t *testing.T) {
	playing := tetris.NewSession(tetris.DefaultRules(), rand.New(rand.NewSource(1)))
	playing.HardDrop()
	busy := playing.Snapshot()
	empty := tetris.NewSession(tetris.DefaultRules(), rand.New(rand.NewSource(1))).Snapshot()

	tests := []struct {
		name    string
		landing tetris.Landing
		snap    tetris.Snapshot
		want    string
	}{
		{"nothing cleared", tetris.Landing{Bonus: 18}, busy, ""},
		{"single", tetris.Landing{Cleared: 1, Points: 100}, busy, "SINGLE"},
		{"tetris", tetris.Landing{Cleared: 4, Points: 400}, busy, "TETRIS"},
		{"board emptied", tetris.Landing{Cleared: 2, Points: 200}, empty, "ALL CLEAR"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, clearLabel(tc.landing, tc.snap))
		})
	}
}

func TestRenderLineClearFeedback(t *testing.T) {
	snap := tetris.NewSession(tetris.DefaultRules(), rand.New(rand.NewSource(1))).Snapshot()
	v := sideView{
		title:   "P1",
		snap:    snap,
		width:   snap.Width,
		height:  snap.Height,
		ready:   true,
		landing: tetris.Landing{Cleared: 3, Points: 600},
	}

	dst := core.NewScreen(80, 24)
	drawSides(dst, "Blockfall", v)

	assert.Contains(t, dst.String(), "TRIPLE")
	assert.Contains(t, dst.String(), "+600")
}

func TestRenderNamesComputerSide(t *testing.T) {
	cpu := NewVsCPU()
	cpu.ResetWithConfig(testRuntime(), config.DefaultBlockfallConfig())
	assert.Contains(t, render(cpu), "CPU")

	duo := NewDuo()
	duo.ResetWithConfig(testRuntime(), config.DefaultBlockfallConfig())
	out := render(duo)
	assert.NotContains(t, out, "CPU")
	assert.Contains(t, out, "P2")
}
