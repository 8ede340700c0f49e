package tui

import (
	"bytes"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/storage"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

// scriptGame ends with score after overAt steps and records its input.
type scriptGame struct {
	steps  int
	overAt int
	score  int
	paused bool
	inputs []core.InputFrame
}

func (g *scriptGame) ID() string               { return "script" }
func (g *scriptGame) Title() string            { return "Script" }
func (g *scriptGame) Reset(core.RuntimeConfig) { g.steps = 0 }
func (g *scriptGame) Render(dst *core.Screen)  { dst.DrawText(0, 0, "script") }
func (g *scriptGame) over() bool               { return g.overAt > 0 && g.steps >= g.overAt }
func (g *scriptGame) Snapshots() (tetris.Snapshot, tetris.Snapshot, bool) {
	return tetris.Snapshot{Lines: 7, Level: 2, Score: g.score}, tetris.Snapshot{}, false
}

func (g *scriptGame) Step(in core.InputFrame) core.StepResult {
	g.inputs = append(g.inputs, in.Clone())
	if in.Has(core.ActionRestart) {
		g.steps = 0
	} else if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if !g.over() && !g.paused {
		g.steps++
	}
	return core.StepResult{State: g.State()}
}

func (g *scriptGame) State() core.GameState {
	return core.GameState{Score: g.score, GameOver: g.over(), Paused: g.paused}
}

// duoScript records multi-player frames.
type duoScript struct {
	scriptGame
	frames []core.MultiInputFrame
}

func (g *duoScript) StepMulti(in core.MultiInputFrame) core.StepResult {
	f := core.NewMultiInputFrame()
	for _, id := range []core.PlayerID{core.Player1, core.Player2} {
		for a := core.ActionLeft; a <= core.ActionHardDrop; a++ {
			if in.Player(id).Has(a) {
				f.Set(id, a)
			}
		}
	}
	g.frames = append(g.frames, f)
	return core.StepResult{State: g.State()}
}

type memScores struct {
	entries []storage.ScoreEntry
}

func (m *memScores) SaveScore(e storage.ScoreEntry) (int64, error) {
	m.entries = append(m.entries, e)
	return int64(len(m.entries)), nil
}

type failingScores struct{}

func (failingScores) SaveScore(storage.ScoreEntry) (int64, error) {
	return 0, errors.New("disk full")
}

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 10, Seed: 42}
}

func update(t *testing.T, m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	gm, ok := next.(GameModel)
	require.True(t, ok)
	return gm, cmd
}

func TestGameModelRoutesPlayerOneInput(t *testing.T) {
	g := &scriptGame{}
	m := NewGameModel(g, nil, testRuntime())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = update(t, m, runes("a")) // Player2 keys are off for single-input modes
	m, cmd := update(t, m, TickMsg{})

	require.NotNil(t, cmd)
	require.Len(t, g.inputs, 1)
	assert.True(t, g.inputs[0].Has(core.ActionLeft))

	m, _ = update(t, m, TickMsg{})
	require.Len(t, g.inputs, 2)
	assert.True(t, g.inputs[1].Empty(), "input is cleared after each tick")
	_ = m
}

func TestGameModelRoutesBothPlayers(t *testing.T) {
	g := &duoScript{}
	m := NewGameModel(g, nil, testRuntime())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = update(t, m, runes("d"))
	_, _ = update(t, m, TickMsg{})

	require.Len(t, g.frames, 1)
	assert.True(t, g.frames[0].Player(core.Player1).Has(core.ActionRotate))
	assert.True(t, g.frames[0].Player(core.Player2).Has(core.ActionRight))
	assert.Empty(t, g.inputs, "multi-player modes step through StepMulti")
}

func TestGameModelSavesScoreOnce(t *testing.T) {
	g := &scriptGame{overAt: 2, score: 300}
	scores := &memScores{}
	m := NewGameModel(g, scores, testRuntime())

	for range 5 {
		m, _ = update(t, m, TickMsg{})
	}
	require.True(t, m.State().GameOver)
	require.Len(t, scores.entries, 1)
	assert.Equal(t, storage.ScoreEntry{GameID: "script", Score: 300, Lines: 7, Level: 2}, scores.entries[0])

	// A restart starts a fresh game that saves again when it ends.
	m, _ = update(t, m, runes("r"))
	for range 5 {
		m, _ = update(t, m, TickMsg{})
	}
	assert.Len(t, scores.entries, 2)
}

func TestGameModelLogsScoreSaveFailure(t *testing.T) {
	g := &scriptGame{overAt: 1, score: 120}
	var buf bytes.Buffer
	m := NewGameModel(g, failingScores{}, testRuntime())
	m.SetLogger(log.New(&buf))

	for range 3 {
		m, _ = update(t, m, TickMsg{})
	}

	assert.True(t, m.State().GameOver)
	assert.Contains(t, buf.String(), "save score")
	assert.Contains(t, buf.String(), "disk full")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("save score")), "logged once per game over")
}

func TestGameModelSkipsZeroScore(t *testing.T) {
	g := &scriptGame{overAt: 1}
	scores := &memScores{}
	m := NewGameModel(g, scores, testRuntime())

	for range 3 {
		m, _ = update(t, m, TickMsg{})
	}
	assert.True(t, m.State().GameOver)
	assert.Empty(t, scores.entries)
}

func TestGameModelBackOnlyWhenPausedOrOver(t *testing.T) {
	g := &scriptGame{}
	m := NewGameModel(g, nil, testRuntime())

	m, _ = update(t, m, runes("b"))
	assert.False(t, m.BackToMenu())

	m, _ = update(t, m, runes("p"))
	m, _ = update(t, m, TickMsg{})
	require.True(t, m.State().Paused)

	m, cmd := update(t, m, runes("b"))
	assert.True(t, m.BackToMenu())
	assert.Nil(t, cmd, "an embedded model leaves quitting to its session")
}

func TestGameModelQuit(t *testing.T) {
	m := NewGameModel(&scriptGame{}, nil, testRuntime())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.IsQuitting())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestGameModelResize(t *testing.T) {
	m := NewGameModel(&scriptGame{}, nil, testRuntime())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 100, m.screen.Width())
	assert.Equal(t, 29, m.screen.Height())
	assert.Contains(t, m.View(), "script")
}
