package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/multiplayer"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

const sessionEventBuffer = 64

// SSHServer serves the menu, local games and online rooms over SSH.
type SSHServer struct {
	config   config.ServerConfig
	server   *ssh.Server
	store    *storage.Store
	sessions *multiplayer.SessionRegistry
	coord    *multiplayer.Coordinator
	logger   *log.Logger
}

// NewSSHServer opens the store, prepares the room coordinator and builds
// the Wish server. The server runs without persistence if the store
// cannot be opened.
func NewSSHServer(cfg config.ServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "blockfall-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open database", "path", cfg.DBPath, "error", err)
		store = nil
	} else if err := store.ClearRooms(); err != nil {
		// rooms never outlive the process that hosted them
		logger.Warn("could not clear stale rooms", "error", err)
	}

	sessions := multiplayer.NewSessionRegistry()
	coordCfg := multiplayer.DefaultCoordinatorConfig()
	if cfg.RoomTimeout > 0 {
		coordCfg.RoomTimeout = cfg.RoomTimeout
	}
	coord := multiplayer.NewCoordinator(coordCfg, sessions, logger.WithPrefix("rooms"))
	if store != nil {
		coord.SetResultSaver(store)
		coord.SetRoomStore(store)
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		sessions: sessions,
		coord:    coord,
		logger:   logger,
	}

	if err := os.MkdirAll(filepath.Dir(cfg.HostKeyPath), 0o700); err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	srv.server = server
	return srv, nil
}

// teaHandler gives every connection its own coordinator session and
// session model. The session is torn down when the connection closes.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	session := multiplayer.NewChannelSession(multiplayer.NewSessionID(), sessionEventBuffer)
	s.sessions.Register(session)
	go func() {
		<-sshSession.Context().Done()
		s.coord.Send(multiplayer.SessionDisconnectedMsg{SessionID: session.ID()})
		s.sessions.Unregister(session.ID())
		session.Close()
	}()

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 60,
		Seed:     time.Now().UnixNano(),
	}
	s.logger.Debug("session registered", "user", sshSession.User(), "session", session.ID())

	var scores ScoreSaver
	var source ScoreSource
	if s.store != nil {
		scores, source = s.store, s.store
	}
	model := NewSessionModel(SessionDeps{
		ID:     session.ID(),
		Coord:  s.coord,
		Events: session,
		Scores: scores,
		Source: source,
		Logger: s.logger,
	}, cfg)
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the coordinator and the SSH server and blocks
// until SIGINT or SIGTERM.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coord.Start()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown stops the server, the coordinator and the store.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.coord.Stop()
	s.closeStore()
	return err
}

func (s *SSHServer) closeStore() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("could not close database", "error", err)
	}
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionDeps is what a session model needs from its server.
type SessionDeps struct {
	ID     multiplayer.SessionID
	Coord  Sender
	Events EventSource
	Scores ScoreSaver  // nil disables score saving
	Source ScoreSource // nil shows an empty scoreboard
	Logger *log.Logger
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenOnline
	screenScoreboard
)

// difficultySetter is implemented by modes with a computer opponent.
type difficultySetter interface {
	SetDifficulty(p config.DifficultyPreset)
}

// SessionModel is the top-level model of an SSH connection:
// menu, then a local game, an online room or the scoreboard, then back.
type SessionModel struct {
	deps       SessionDeps
	config     core.RuntimeConfig
	screen     sessionScreen
	menu       MenuModel
	game       GameModel
	online     OnlineModel
	scoreboard ScoreboardModel
	quitting   bool
}

// NewSessionModel starts a session at the menu.
func NewSessionModel(deps SessionDeps, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		deps:   deps,
		config: cfg,
		menu:   NewMenuModel(cfg, deps.Coord != nil && deps.Events != nil),
	}
}

// Init shows the menu and starts the one pump of coordinator events.
func (m SessionModel) Init() tea.Cmd {
	if m.deps.Events == nil {
		return m.menu.Init()
	}
	return tea.Batch(m.menu.Init(), waitForEvent(m.deps.Events))
}

func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	case sessionEndedMsg:
		m.quitting = true
		return m, tea.Quit
	case multiplayer.SessionEvent:
		// events for a room the user already left are dropped
		rearm := waitForEvent(m.deps.Events)
		if m.screen != screenOnline {
			return m, rearm
		}
		next, cmd := m.updateOnline(msg)
		return next, tea.Batch(cmd, rearm)
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenOnline:
		return m.updateOnline(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.menu.WantsScoreboard():
		m.scoreboard = NewScoreboardModel(m.deps.Source, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenScoreboard
		return m, nil
	}

	item := m.menu.Selected()
	if item == nil {
		return m, cmd
	}
	if item.Online {
		m.online = NewOnlineModel(m.deps.ID, m.deps.Coord, m.config, m.deps.Logger)
		m.screen = screenOnline
		return m, m.online.Init()
	}

	game, err := registry.Create(item.GameID)
	if err != nil {
		m.deps.Logger.Error("cannot create game", "game", item.GameID, "error", err)
		return m.toMenu()
	}
	if d, ok := game.(difficultySetter); ok {
		d.SetDifficulty(m.menu.Difficulty())
	}
	m.game = NewGameModel(game, m.deps.Scores, m.config)
	m.game.SetLogger(m.deps.Logger)
	m.screen = screenGame
	return m, m.game.Init()
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	m.game = next.(GameModel)

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.game.BackToMenu():
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateOnline(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.online.Update(msg)
	m.online = next.(OnlineModel)

	switch {
	case m.online.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.online.BackToMenu():
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	m.scoreboard = next.(ScoreboardModel)

	switch {
	case m.scoreboard.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scoreboard.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

// toMenu returns to a fresh menu that keeps the chosen difficulty.
func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	difficulty := m.menu.Difficulty()
	m.menu = NewMenuModel(m.config, m.deps.Coord != nil && m.deps.Events != nil)
	m.menu.SetDifficulty(difficulty)
	m.screen = screenMenu
	return m, m.menu.Init()
}

func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenOnline:
		return m.online.View()
	case screenScoreboard:
		return m.scoreboard.View()
	default:
		return m.menu.View()
	}
}
