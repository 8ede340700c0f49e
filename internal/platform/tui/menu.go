package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// MenuItem is one selectable entry.
type MenuItem struct {
	GameID string
	Title  string
	Online bool // opens the room lobby instead of a local game
}

var difficulties = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// MenuModel picks a mode and the computer difficulty.
type MenuModel struct {
	items      []MenuItem
	cursor     int
	difficulty int
	width      int
	height     int
	config     core.RuntimeConfig
	keys       MenuKeyMap
	help       help.Model

	quitting   bool
	selected   *MenuItem
	scoreboard bool
	standalone bool
}

// NewMenuModel lists every registered mode, plus the online lobby when
// online is true.
func NewMenuModel(cfg core.RuntimeConfig, online bool) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games)+1)
	for _, g := range games {
		items = append(items, MenuItem{GameID: g.ID, Title: g.Title})
	}
	if online {
		items = append(items, MenuItem{Title: "Online Match", Online: true})
	}

	h := help.New()
	h.Width = cfg.ScreenW
	return MenuModel{
		items:      items,
		difficulty: 1,
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
		config:     cfg,
		keys:       DefaultMenuKeyMap(),
		help:       h,
	}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.Map(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case MenuActionLeft:
		m.difficulty = (m.difficulty + len(difficulties) - 1) % len(difficulties)
	case MenuActionRight:
		m.difficulty = (m.difficulty + 1) % len(difficulties)
	case MenuActionSelect:
		if len(m.items) > 0 {
			item := m.items[m.cursor]
			m.selected = &item
			return m, m.done()
		}
	case MenuActionScoreboard:
		m.scoreboard = true
		return m, m.done()
	}
	return m, nil
}

// done ends a standalone menu program. An embedded menu reports its result
// through Selected and WantsScoreboard instead.
func (m MenuModel) done() tea.Cmd {
	if m.standalone {
		return tea.Quit
	}
	return nil
}

func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("B L O C K F A L L"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(dimStyle.Render("Select a mode"), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = selectedStyle.Render("> " + item.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	diff := fmt.Sprintf("Computer: < %s >", m.Difficulty())
	b.WriteString(centerText(dimStyle.Render(diff), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.help.View(m.keys), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen item, or nil.
func (m MenuModel) Selected() *MenuItem { return m.selected }

func (m MenuModel) IsQuitting() bool { return m.quitting }

func (m MenuModel) WantsScoreboard() bool { return m.scoreboard }

// Difficulty returns the preset shown in the menu.
func (m MenuModel) Difficulty() config.DifficultyPreset {
	return difficulties[m.difficulty]
}

// SetDifficulty moves the selector to p. Unknown presets are ignored.
func (m *MenuModel) SetDifficulty(p config.DifficultyPreset) {
	for i, d := range difficulties {
		if d == p {
			m.difficulty = i
		}
	}
}

// Config returns the runtime config, updated by resizes.
func (m MenuModel) Config() core.RuntimeConfig { return m.config }

// centerText pads text to sit in the middle of width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult is what a standalone menu run chose.
type MenuResult struct {
	GameID          string
	Difficulty      config.DifficultyPreset
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu shows the local menu, starting at difficulty, and returns the
// choice.
func RunMenu(cfg core.RuntimeConfig, difficulty config.DifficultyPreset) (MenuResult, error) {
	model := NewMenuModel(cfg, false)
	model.SetDifficulty(difficulty)
	model.standalone = true

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return MenuResult{Config: cfg, Difficulty: difficulty}, err
	}
	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Difficulty: difficulty, Quit: true}, nil
	}

	res := MenuResult{Config: m.Config(), Difficulty: m.Difficulty()}
	switch {
	case m.WantsScoreboard():
		res.WantsScoreboard = true
	case m.IsQuitting(), m.Selected() == nil:
		res.Quit = true
	default:
		res.GameID = m.Selected().GameID
	}
	return res, nil
}
