package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

const (
	minWidthForSidebar = 90
	sidebarWidth       = 26
	maxScores          = 100
	onlineTabID        = "tetris_online"
)

// ScoreSource is the read side of the store used by the scoreboard.
type ScoreSource interface {
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
	GetGameStats(gameID string) (*storage.GameStats, error)
	RecentOnlineMatches(limit int) ([]storage.OnlineMatchResult, error)
}

// ScoreboardKeyMap defines the scoreboard bindings.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.PrevMode, k.Back, k.Quit}
}

func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.Back, k.Quit},
	}
}

func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab/→", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab/←", "prev mode"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type scoreTab struct {
	id    string
	title string
}

// ScoreboardModel shows high scores per mode and the recent online matches.
type ScoreboardModel struct {
	tabs        []scoreTab
	cursor      int
	store       ScoreSource
	rows        []table.Row
	stats       *storage.GameStats
	loadErr     error
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
	standalone  bool
}

// NewScoreboardModel lists every registered mode plus the online tab.
func NewScoreboardModel(store ScoreSource, width, height int) ScoreboardModel {
	games := registry.List()
	tabs := make([]scoreTab, 0, len(games)+1)
	for _, g := range games {
		tabs = append(tabs, scoreTab{id: g.ID, title: g.Title})
	}
	tabs = append(tabs, scoreTab{id: onlineTabID, title: "Online Matches"})

	m := ScoreboardModel{
		tabs:        tabs,
		store:       store,
		keys:        DefaultScoreboardKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.load()
	return m
}

func (m *ScoreboardModel) online() bool {
	return m.tabs[m.cursor].id == onlineTabID
}

func (m *ScoreboardModel) columns() []table.Column {
	avail := m.width - 6
	if m.showSidebar {
		avail -= sidebarWidth + 4
	}
	date := core.Clamp(avail-42, 12, 18)
	if m.online() {
		return []table.Column{
			{Title: "Match", Width: 10},
			{Title: "Score", Width: 13},
			{Title: "Winner", Width: 7},
			{Title: "Reason", Width: 11},
			{Title: "Date", Width: date},
		}
	}
	return []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 10},
		{Title: "Lines", Width: 7},
		{Title: "Level", Width: 6},
		{Title: "Date", Width: date},
	}
}

func (m *ScoreboardModel) newTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithRows(m.rows),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-10)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load fetches the rows of the current tab and rebuilds the table.
func (m *ScoreboardModel) load() {
	m.rows, m.stats, m.loadErr = nil, nil, nil
	if m.store != nil {
		if m.online() {
			m.loadMatches()
		} else {
			m.loadScores()
		}
	}
	m.table = m.newTable()
	m.table.GotoTop()
}

func (m *ScoreboardModel) loadScores() {
	id := m.tabs[m.cursor].id
	scores, err := m.store.TopScores(id, maxScores)
	if err != nil {
		m.loadErr = err
		return
	}
	for i, s := range scores {
		m.rows = append(m.rows, table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.Lines),
			fmt.Sprintf("%d", s.Level),
			s.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	m.stats, m.loadErr = m.store.GetGameStats(id)
}

func (m *ScoreboardModel) loadMatches() {
	matches, err := m.store.RecentOnlineMatches(maxScores)
	if err != nil {
		m.loadErr = err
		return
	}
	for _, r := range matches {
		m.rows = append(m.rows, table.Row{
			shortID(r.MatchID),
			fmt.Sprintf("%d - %d", r.Score1, r.Score2),
			matchWinner(r),
			r.EndReason,
			r.CreatedAt.Format("Jan 02 15:04"),
		})
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func matchWinner(r storage.OnlineMatchResult) string {
	switch r.WinnerSession {
	case "":
		return "tie"
	case r.Player1Session:
		return "P1"
	case r.Player2Session:
		return "P2"
	default:
		return "?"
	}
}

func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil
		case key.Matches(msg, m.keys.NextMode):
			m.cursor = (m.cursor + 1) % len(m.tabs)
			m.load()
			return m, nil
		case key.Matches(msg, m.keys.PrevMode):
			m.cursor = (m.cursor + len(m.tabs) - 1) % len(m.tabs)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.help.Width = msg.Width
		m.table = m.newTable()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

var emptyStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241")).
	Italic(true).
	Padding(1, 2)

func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	title := "HIGH SCORES - " + m.tabs[m.cursor].title
	b.WriteString(centerText(boardTitleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) renderWideLayout() string {
	var side strings.Builder
	side.WriteString("Modes\n")
	side.WriteString(strings.Repeat("-", sidebarWidth-4))
	side.WriteString("\n")
	for i, t := range m.tabs {
		line := "  " + t.title
		if i == m.cursor {
			line = selectedStyle.Render("> " + t.title)
		}
		side.WriteString(line)
		side.WriteString("\n")
	}
	if s := m.statsLine(); s != "" {
		side.WriteString("\n")
		side.WriteString(dimStyle.Render(s))
	}

	sidebar := panelStyle.Width(sidebarWidth).Render(side.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", panelStyle.Render(m.renderTableContent()))
}

func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder
	b.WriteString(centerText(fmt.Sprintf("< %s >", m.tabs[m.cursor].title), m.width))
	b.WriteString("\n")
	if s := m.statsLine(); s != "" {
		b.WriteString(centerText(dimStyle.Render(strings.ReplaceAll(s, "\n", "  ")), m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(m.renderTableContent()))
	return b.String()
}

// statsLine summarizes the current mode; empty when nothing was played.
func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return ""
	}
	return fmt.Sprintf("Games: %d\nBest: %d\nAvg: %.0f\nLines: %d",
		m.stats.GamesCount, m.stats.HighScore, m.stats.AvgScore, m.stats.TotalLines)
}

func (m ScoreboardModel) renderTableContent() string {
	switch {
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load scores: " + m.loadErr.Error())
	case len(m.rows) == 0 && m.online():
		return emptyStyle.Render("No online matches yet.")
	case len(m.rows) == 0:
		return emptyStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	}
	return m.table.View()
}

func (m ScoreboardModel) IsGoingBack() bool { return m.goingBack }
func (m ScoreboardModel) IsQuitting() bool  { return m.quitting }

// RunScoreboard shows the scoreboard in its own program. It reports
// whether the user went back to the menu rather than quitting.
func RunScoreboard(store ScoreSource, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(store, width, height)
	model.standalone = true

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
