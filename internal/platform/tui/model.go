package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

// ScoreSaver is the part of the store a game screen needs.
type ScoreSaver interface {
	SaveScore(e storage.ScoreEntry) (int64, error)
}

// snapshotter is implemented by modes that expose per-side state; the
// first snapshot supplies lines and level for the score record.
type snapshotter interface {
	Snapshots() (tetris.Snapshot, tetris.Snapshot, bool)
}

// GameModel runs one mode on the tick loop. It is used standalone by
// `play` and embedded in the menu session.
type GameModel struct {
	game     registry.Game
	multi    registry.MultiPlayerGame // nil for single-input modes
	screen   *core.Screen
	store    ScoreSaver
	logger   *log.Logger
	config   core.RuntimeConfig
	keys     GameKeyMap
	help     help.Model
	input    core.MultiInputFrame
	state    core.GameState
	saved    bool
	quitting bool
	back     bool

	// standalone models quit the program on back instead of handing
	// control to a parent session.
	standalone bool
}

// NewGameModel creates a game screen. A zero seed is replaced with one
// from the clock.
func NewGameModel(game registry.Game, store ScoreSaver, cfg core.RuntimeConfig) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	multi, _ := game.(registry.MultiPlayerGame)

	h := help.New()
	h.Width = cfg.ScreenW

	m := GameModel{
		game:   game,
		multi:  multi,
		screen: core.NewScreen(cfg.ScreenW, screenRows(cfg.ScreenH)),
		store:  store,
		logger: log.Default(),
		config: cfg,
		keys:   DefaultGameKeyMap().WithPlayerTwo(multi != nil),
		help:   h,
		input:  core.NewMultiInputFrame(),
	}
	game.Reset(cfg)
	m.state = game.State()
	return m
}

func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, screenRows(msg.Height))
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	k := m.keys.Map(msg)
	switch k.Action {
	case core.ActionNone:
		return m, nil
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		if !m.state.GameOver && !m.state.Paused {
			return m, nil
		}
		m.back = true
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil
	}
	m.input.Set(k.Player, k.Action)
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	var res core.StepResult
	if m.multi != nil {
		res = m.multi.StepMulti(m.input)
	} else {
		res = m.game.Step(m.input.Player(core.Player1))
	}

	if !res.State.GameOver {
		m.saved = false
	}
	m.state = res.State
	m.saveScoreOnce()

	m.input.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveScoreOnce records Player1's result the first tick the game is over.
func (m *GameModel) saveScoreOnce() {
	if !m.state.GameOver || m.saved {
		return
	}
	m.saved = true
	if m.store == nil || m.state.Score <= 0 {
		return
	}
	entry := storage.ScoreEntry{GameID: m.game.ID(), Score: m.state.Score, Level: 1}
	if s, ok := m.game.(snapshotter); ok {
		p1, _, _ := s.Snapshots()
		entry.Lines, entry.Level = p1.Lines, p1.Level
	}
	if _, err := m.store.SaveScore(entry); err != nil {
		m.logger.Error("save score", "game", entry.GameID, "score", entry.Score, "err", err)
	}
}

// SetLogger replaces the default logger. A nil logger is ignored.
func (m *GameModel) SetLogger(l *log.Logger) {
	if l != nil {
		m.logger = l
	}
}

// saveScreenshot writes the character screen to the data directory.
func (m *GameModel) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)
	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path, err := config.DataPath(filepath.Join("screenshots", name))
	if err != nil {
		return
	}
	//nolint:errcheck // best effort
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// helpRows is the terminal height from which the key help gets its own row.
const helpRows = 26

func screenRows(h int) int {
	if h >= helpRows {
		return h - 1
	}
	return max(1, h)
}

func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.screen.Clear()
	m.game.Render(m.screen)
	out := RenderScreen(m.screen)
	if m.config.ScreenH >= helpRows {
		out += "\n" + helpStyle.Render(m.help.View(m.keys))
	}
	return out
}

// State returns the last reported game state.
func (m GameModel) State() core.GameState { return m.state }

// IsQuitting reports whether the user asked to quit entirely.
func (m GameModel) IsQuitting() bool { return m.quitting }

// BackToMenu reports whether the user asked to return to the menu.
func (m GameModel) BackToMenu() bool { return m.back }

// Run plays game in its own Bubble Tea program until the user leaves.
// A nil store disables score saving.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	var saver ScoreSaver
	if store != nil {
		saver = store
	}
	m := NewGameModel(game, saver, cfg)
	m.standalone = true
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
