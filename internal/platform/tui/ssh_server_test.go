package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/multiplayer"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

func newSession(coord *recordingCoord) (SessionModel, *multiplayer.ChannelSession) {
	events := multiplayer.NewChannelSession("me", 8)
	m := NewSessionModel(SessionDeps{
		ID:     "me",
		Coord:  coord,
		Events: events,
		Logger: quietLogger(),
	}, testRuntime())
	return m, events
}

func send(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SessionModel)
	require.True(t, ok)
	return sm, cmd
}

// selectItem moves the menu cursor to title and presses enter.
func selectItem(t *testing.T, m SessionModel, title string) SessionModel {
	t.Helper()
	for i, item := range m.menu.items {
		if item.Title == title {
			for range i {
				m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
			}
			m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
			return m
		}
	}
	t.Fatalf("menu has no %q", title)
	return m
}

func TestSessionMenuListsOnline(t *testing.T) {
	m, _ := newSession(&recordingCoord{})
	titles := make([]string, 0, len(m.menu.items))
	for _, item := range m.menu.items {
		titles = append(titles, item.Title)
	}
	assert.Contains(t, titles, "Blockfall")
	assert.Contains(t, titles, "Online Match")

	local := NewSessionModel(SessionDeps{Logger: quietLogger()}, testRuntime())
	for _, item := range local.menu.items {
		assert.False(t, item.Online)
	}
}

func TestSessionPlaysLocalGameAndReturns(t *testing.T) {
	m, _ := newSession(&recordingCoord{})

	m = selectItem(t, m, "Blockfall vs Computer")
	require.Equal(t, screenGame, m.screen)
	assert.Equal(t, blockfall.IDVsCPU, m.game.game.ID())

	m, _ = send(t, m, runes("p"))
	m, _ = send(t, m, TickMsg{})
	m, _ = send(t, m, runes("b"))
	assert.Equal(t, screenMenu, m.screen)
}

func TestSessionCarriesDifficultyIntoGame(t *testing.T) {
	m, _ := newSession(&recordingCoord{})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, "hard", string(m.menu.Difficulty()))

	m = selectItem(t, m, "Blockfall vs Computer")
	require.Equal(t, screenGame, m.screen)

	// hard: the computer places its first piece on the tenth 100ms tick
	g, ok := m.game.game.(*blockfall.Game)
	require.True(t, ok)
	for range 10 {
		m, _ = send(t, m, TickMsg{})
	}
	_, cpu, _ := g.Snapshots()
	filled := 0
	for _, row := range cpu.Board {
		for _, c := range row {
			if c != tetris.Empty {
				filled++
			}
		}
	}
	assert.Equal(t, 4, filled)
}

func TestSessionRoutesEventsOnlyToOnlineScreen(t *testing.T) {
	coord := &recordingCoord{}
	m, _ := newSession(coord)

	m, cmd := send(t, m, multiplayer.RoomCreatedEvent{Code: "STALE1"})
	assert.NotNil(t, cmd, "the pump is re-armed")
	assert.Equal(t, screenMenu, m.screen)

	m = selectItem(t, m, "Online Match")
	require.Equal(t, screenOnline, m.screen)

	m, _ = send(t, m, runes("h"))
	assert.Equal(t, multiplayer.CreateRoomMsg{SessionID: "me"}, coord.last())

	m, cmd = send(t, m, multiplayer.RoomCreatedEvent{Code: "ABC234"})
	assert.NotNil(t, cmd)
	assert.Equal(t, OnlineStateHosting, m.online.State())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = send(t, m, runes("b"))
	assert.Equal(t, screenMenu, m.screen)
}

func TestSessionEndsWithConnection(t *testing.T) {
	m, _ := newSession(&recordingCoord{})
	m, cmd := send(t, m, sessionEndedMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestSessionScoreboardRoundTrip(t *testing.T) {
	m, _ := newSession(&recordingCoord{})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, screenScoreboard, m.screen)
	assert.Contains(t, m.View(), "No scores recorded yet")

	m, _ = send(t, m, runes("b"))
	assert.Equal(t, screenMenu, m.screen)
}

func TestSessionModelInit(t *testing.T) {
	m, _ := newSession(&recordingCoord{})
	assert.NotNil(t, m.Init())

	local := NewSessionModel(SessionDeps{Logger: quietLogger()}, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	assert.Nil(t, local.Init())
}
