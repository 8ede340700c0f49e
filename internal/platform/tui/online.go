package tui

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/multiplayer"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

// OnlineState is a step of the room flow.
type OnlineState int

const (
	OnlineStateChoose    OnlineState = iota // host or join
	OnlineStateHosting                      // room created, waiting for a guest
	OnlineStateEnterCode                    // typing a join code
	OnlineStateJoining                      // join sent, waiting for the answer
	OnlineStateInMatch
)

// Sender is the coordinator's inbound side.
type Sender interface {
	Send(msg multiplayer.CoordinatorMessage)
}

// EventSource is the session's event stream.
type EventSource interface {
	Events() <-chan multiplayer.SessionEvent
	Done() <-chan struct{}
}

// coordinatorTransport publishes local snapshots through the coordinator.
type coordinatorTransport struct {
	coord Sender
	id    multiplayer.SessionID
}

func (t coordinatorTransport) Publish(snap tetris.Snapshot) error {
	t.coord.Send(multiplayer.PublishSnapshotMsg{SessionID: t.id, Snapshot: snap})
	return nil
}

// sessionEndedMsg reports that the event stream is gone.
type sessionEndedMsg struct{}

// OnlineModel runs the room lobby and then the match itself.
type OnlineModel struct {
	state   OnlineState
	width   int
	height  int
	config  core.RuntimeConfig
	id      multiplayer.SessionID
	coord   Sender
	logger  *log.Logger
	keys    GameKeyMap
	back    key.Binding
	code    string
	codeIn  textinput.Model
	errMsg  string
	game    *blockfall.OnlineGame
	screen  *core.Screen
	input   core.InputFrame
	matchID multiplayer.MatchID

	backToMenu bool
	quitting   bool
}

// NewOnlineModel creates the lobby for session id.
func NewOnlineModel(id multiplayer.SessionID, coord Sender, cfg core.RuntimeConfig, logger *log.Logger) OnlineModel {
	if logger == nil {
		logger = log.Default()
	}
	ti := textinput.New()
	ti.Placeholder = "ABC234"
	ti.CharLimit = 6
	ti.Width = 8
	return OnlineModel{
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		config: cfg,
		id:     id,
		coord:  coord,
		logger: logger,
		keys:   DefaultGameKeyMap().WithPlayerTwo(false),
		back:   key.NewBinding(key.WithKeys("esc", "b")),
		codeIn: ti,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		input:  core.NewInputFrame(),
	}
}

// Init starts nothing: the owner of the connection pumps session events
// in with waitForEvent and forwards them here.
func (m OnlineModel) Init() tea.Cmd {
	return nil
}

// waitForEvent delivers the next coordinator event as a message.
func waitForEvent(src EventSource) tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-src.Events():
			return evt
		case <-src.Done():
			return sessionEndedMsg{}
		}
	}
}

// matchSeed derives the piece seed from the match so both sides draw the
// same sequence.
func matchSeed(id multiplayer.MatchID) int64 {
	h := fnv.New64a()
	h.Write([]byte(id)) //nolint:errcheck // never fails
	return int64(h.Sum64() >> 1)
}

func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		if m.state != OnlineStateInMatch || m.game == nil {
			return m, nil
		}
		m.game.Step(m.input)
		m.input.Clear()
		return m, tickCmd(m.config.TickRate)
	case multiplayer.SessionEvent:
		return m, m.handleEvent(msg)
	}
	return m, nil
}

func (m *OnlineModel) handleEvent(evt multiplayer.SessionEvent) tea.Cmd {
	switch evt := evt.(type) {
	case multiplayer.RoomCreatedEvent:
		m.code = evt.Code
		m.state = OnlineStateHosting
	case multiplayer.RoomErrorEvent:
		m.errMsg = evt.Message
		switch m.state {
		case OnlineStateJoining:
			m.state = OnlineStateEnterCode
			return m.codeIn.Focus()
		case OnlineStateHosting:
			m.state = OnlineStateChoose
		}
	case multiplayer.RoomJoinedEvent:
		return m.startMatch(evt)
	case multiplayer.PeerPresenceEvent:
		if m.game != nil {
			m.game.SetPeerConnected(evt.Connected)
		}
	case multiplayer.PeerSnapshotEvent:
		if m.game != nil {
			m.game.ReceivePeer(evt.Snapshot)
		}
	case multiplayer.RoomClosedEvent:
		if m.game != nil {
			m.game.Close(evt.Outcome)
		}
		m.logger.Debug("room closed", "code", evt.Code, "match", evt.MatchID, "reason", evt.Outcome.Reason)
	}
	return nil
}

func (m *OnlineModel) startMatch(evt multiplayer.RoomJoinedEvent) tea.Cmd {
	m.code = evt.Code
	m.matchID = evt.MatchID
	m.errMsg = ""
	m.codeIn.Blur()

	cfg := m.config
	cfg.Seed = matchSeed(evt.MatchID)
	m.game = blockfall.NewOnline(coordinatorTransport{coord: m.coord, id: m.id}, m.logger)
	m.game.SetSide(evt.Side)
	m.game.Reset(cfg)
	m.state = OnlineStateInMatch
	return tickCmd(m.config.TickRate)
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChoose:
		switch msg.String() {
		case "h", "H", "1":
			m.errMsg = ""
			m.coord.Send(multiplayer.CreateRoomMsg{SessionID: m.id})
		case "j", "J", "2":
			m.errMsg = ""
			m.state = OnlineStateEnterCode
			m.codeIn.SetValue("")
			return m, m.codeIn.Focus()
		case "esc", "b":
			m.backToMenu = true
		case "q":
			m.quitting = true
			return m, tea.Quit
		}

	case OnlineStateHosting, OnlineStateJoining:
		if key.Matches(msg, m.back) {
			m.leave()
			m.state = OnlineStateChoose
		}

	case OnlineStateEnterCode:
		switch msg.Type {
		case tea.KeyEsc:
			m.codeIn.Blur()
			m.state = OnlineStateChoose
			return m, nil
		case tea.KeyEnter:
			code := strings.TrimSpace(m.codeIn.Value())
			if code == "" {
				return m, nil
			}
			m.errMsg = ""
			m.state = OnlineStateJoining
			m.coord.Send(multiplayer.JoinRoomMsg{SessionID: m.id, Code: code})
			return m, nil
		}
		var cmd tea.Cmd
		m.codeIn, cmd = m.codeIn.Update(msg)
		m.codeIn.SetValue(strings.ToUpper(m.codeIn.Value()))
		return m, cmd

	case OnlineStateInMatch:
		return m.handleMatchKey(msg)
	}
	return m, nil
}

func (m OnlineModel) handleMatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.Map(msg)
	switch k.Action {
	case core.ActionNone:
		return m, nil
	case core.ActionQuit:
		m.leave()
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		st := m.game.State()
		if m.game.Closed() || st.Paused || st.GameOver {
			m.leave()
			m.backToMenu = true
		}
		return m, nil
	}
	m.input.Set(k.Action)
	return m, nil
}

// leave gives up the current room, if any. A closed room is already gone.
func (m *OnlineModel) leave() {
	if m.state == OnlineStateChoose || m.state == OnlineStateEnterCode {
		return
	}
	if m.game != nil && m.game.Closed() {
		return
	}
	m.coord.Send(multiplayer.LeaveRoomMsg{SessionID: m.id})
}

func (m OnlineModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	if m.state == OnlineStateInMatch && m.game != nil {
		m.game.Render(m.screen)
		return RenderScreen(m.screen)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("ONLINE MATCH"), m.width))
	b.WriteString("\n\n")

	switch m.state {
	case OnlineStateChoose:
		b.WriteString(centerText("[H] Host a room", m.width))
		b.WriteString("\n")
		b.WriteString(centerText("[J] Join a room", m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(dimStyle.Render("Esc: Back  |  Q: Quit"), m.width))
	case OnlineStateHosting:
		b.WriteString(centerText("Share this code with your opponent:", m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(selectedStyle.Render(m.code), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(dimStyle.Render("Waiting for opponent...  Esc: Cancel"), m.width))
	case OnlineStateEnterCode:
		b.WriteString(centerText("Enter room code:", m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(m.codeIn.View(), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(dimStyle.Render("Enter: Join  |  Esc: Back"), m.width))
	case OnlineStateJoining:
		b.WriteString(centerText(fmt.Sprintf("Joining %s...", strings.ToUpper(m.codeIn.Value())), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(dimStyle.Render("Esc: Cancel"), m.width))
	}

	if m.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(centerText(errorStyle.Render(m.errMsg), m.width))
	}
	return b.String()
}

// State returns the current step of the flow.
func (m OnlineModel) State() OnlineState { return m.state }

// Game returns the match in progress, or nil before one starts.
func (m OnlineModel) Game() *blockfall.OnlineGame { return m.game }

func (m OnlineModel) BackToMenu() bool { return m.backToMenu }
func (m OnlineModel) IsQuitting() bool { return m.quitting }
