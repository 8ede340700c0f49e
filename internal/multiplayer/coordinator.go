package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/tetris"
	"github.com/vovakirdan/blockfall/internal/versus"
)

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	RoomTimeout   time.Duration // how long a room may wait for a guest
	CleanupPeriod time.Duration // how often expired rooms are swept
	GameID        string        // recorded with every match result
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		RoomTimeout:   10 * time.Minute,
		CleanupPeriod: 30 * time.Second,
		GameID:        "tetris_online",
	}
}

// Coordinator pairs sessions into rooms and relays snapshots between them.
type Coordinator struct {
	config   CoordinatorConfig
	sessions *SessionRegistry
	logger   *log.Logger
	now      func() time.Time

	resultSaver MatchResultSaver // optional
	roomStore   RoomStore        // optional

	mu          sync.RWMutex
	rooms       map[string]*Room     // code -> room
	sessionRoom map[SessionID]string // session -> room code

	msgChan chan CoordinatorMessage
	done    chan struct{}
	stop    sync.Once
}

// NewCoordinator creates a coordinator. A nil logger uses log.Default().
func NewCoordinator(cfg CoordinatorConfig, sessions *SessionRegistry, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = DefaultCoordinatorConfig().CleanupPeriod
	}
	if cfg.GameID == "" {
		cfg.GameID = DefaultCoordinatorConfig().GameID
	}
	return &Coordinator{
		config:      cfg,
		sessions:    sessions,
		logger:      logger,
		now:         time.Now,
		rooms:       make(map[string]*Room),
		sessionRoom: make(map[SessionID]string),
		msgChan:     make(chan CoordinatorMessage, 256),
		done:        make(chan struct{}),
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// SetRoomStore sets the optional room store.
func (c *Coordinator) SetRoomStore(store RoomStore) {
	c.roomStore = store
}

// Start begins background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts down the coordinator. Safe to call more than once.
func (c *Coordinator) Stop() {
	c.stop.Do(func() { close(c.done) })
}

// Send queues a message for processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateRoomMsg:
		c.handleCreateRoom(m)
	case JoinRoomMsg:
		c.handleJoinRoom(m)
	case PublishSnapshotMsg:
		c.handlePublish(m)
	case LeaveRoomMsg:
		c.handleLeave(m.SessionID)
	case SessionDisconnectedMsg:
		c.handleLeave(m.SessionID)
	}
}

func (c *Coordinator) handleCreateRoom(msg CreateRoomMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, inRoom := c.sessionRoom[msg.SessionID]; inRoom {
		session.Send(RoomErrorEvent{Message: "Already in a room"})
		return
	}

	room := newRoom(c.generateUniqueCode(), session, c.now())
	c.rooms[room.Code] = room
	c.sessionRoom[msg.SessionID] = room.Code
	c.saveRoom(room)

	c.logger.Info("room created", "code", room.Code, "host", msg.SessionID)
	session.Send(RoomCreatedEvent{Code: room.Code})
}

func (c *Coordinator) handleJoinRoom(msg JoinRoomMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, inRoom := c.sessionRoom[msg.SessionID]; inRoom {
		session.Send(RoomErrorEvent{Message: "Already in a room"})
		return
	}

	code := normalizeCode(msg.Code)
	room, exists := c.rooms[code]
	switch {
	case !exists:
		session.Send(RoomErrorEvent{Message: "Room not found"})
		return
	case room.Host.ID() == msg.SessionID:
		session.Send(RoomErrorEvent{Message: "Cannot join your own room"})
		return
	case room.Guest != nil:
		session.Send(RoomErrorEvent{Message: "Room is full"})
		return
	}

	room.Guest = session
	room.Status = RoomPlaying
	room.StartedAt = c.now()
	room.MatchID = newMatchID()
	c.sessionRoom[msg.SessionID] = code
	c.saveRoom(room)

	c.logger.Info("room started", "code", code, "match", room.MatchID,
		"host", room.Host.ID(), "guest", msg.SessionID)

	room.Host.Send(RoomJoinedEvent{Code: code, MatchID: room.MatchID, Side: core.Player1, Peer: msg.SessionID})
	session.Send(RoomJoinedEvent{Code: code, MatchID: room.MatchID, Side: core.Player2, Peer: room.Host.ID()})
	room.sendAll(PeerPresenceEvent{Connected: true})
}

func (c *Coordinator) handlePublish(msg PublishSnapshotMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.roomOf(msg.SessionID)
	if !ok || room.Status != RoomPlaying {
		return
	}
	side := room.Side(msg.SessionID)
	snap := msg.Snapshot.Clone()
	room.latest[side] = snap

	if peer := room.session(side.Other()); peer != nil {
		peer.Send(PeerSnapshotEvent{Snapshot: snap})
	}

	if !snap.GameOver {
		return
	}
	c.finish(room, room.outcome())
}

// handleLeave covers both an explicit leave and a dropped connection.
func (c *Coordinator) handleLeave(id SessionID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.roomOf(id)
	if !ok {
		return
	}

	if room.Status == RoomWaiting {
		c.logger.Info("room abandoned", "code", room.Code)
		c.removeRoom(room)
		return
	}

	side := room.Side(id)
	if peer := room.session(side.Other()); peer != nil {
		peer.Send(PeerPresenceEvent{Connected: false})
	}
	c.finish(room, versus.Outcome{
		Decided: true,
		Winner:  side.Other(),
		Reason:  versus.ReasonDisconnect,
	})
}

// finish records the result and closes the room. Must be called with the
// lock held.
func (c *Coordinator) finish(room *Room, outcome versus.Outcome) {
	room.Status = RoomFinished
	score1 := room.latest[core.Player1].Score
	score2 := room.latest[core.Player2].Score

	c.logger.Info("match finished", "code", room.Code, "match", room.MatchID,
		"winner", outcome.Winner, "reason", outcome.Reason,
		"score1", score1, "score2", score2)

	if c.resultSaver != nil {
		result := MatchResultData{
			MatchID:        string(room.MatchID),
			GameID:         c.config.GameID,
			Player1Session: string(room.Host.ID()),
			Player2Session: string(room.Guest.ID()),
			Score1:         score1,
			Score2:         score2,
			EndReason:      string(outcome.Reason),
			DurationSecs:   int(c.now().Sub(room.StartedAt).Seconds()),
		}
		if winner := room.session(outcome.Winner); winner != nil {
			result.WinnerSession = string(winner.ID())
		}
		if err := c.resultSaver.SaveMatchResult(result); err != nil {
			c.logger.Error("save match result", "match", room.MatchID, "err", err)
		}
	}

	room.sendAll(RoomClosedEvent{
		Code:    room.Code,
		MatchID: room.MatchID,
		Outcome: outcome,
		Score1:  score1,
		Score2:  score2,
	})
	c.removeRoom(room)
}

func (c *Coordinator) removeRoom(room *Room) {
	delete(c.rooms, room.Code)
	if room.Host != nil {
		delete(c.sessionRoom, room.Host.ID())
	}
	if room.Guest != nil {
		delete(c.sessionRoom, room.Guest.ID())
	}
	if c.roomStore != nil {
		if err := c.roomStore.DeleteRoom(room.Code); err != nil {
			c.logger.Warn("delete room", "code", room.Code, "err", err)
		}
	}
}

func (c *Coordinator) saveRoom(room *Room) {
	if c.roomStore == nil {
		return
	}
	if err := c.roomStore.SaveRoom(room.record()); err != nil {
		c.logger.Warn("save room", "code", room.Code, "err", err)
	}
}

func (c *Coordinator) roomOf(id SessionID) (*Room, bool) {
	code, ok := c.sessionRoom[id]
	if !ok {
		return nil, false
	}
	room, ok := c.rooms[code]
	return room, ok
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredRooms()
		case <-c.done:
			return
		}
	}
}

// cleanupExpiredRooms closes rooms that waited too long for a guest.
func (c *Coordinator) cleanupExpiredRooms() {
	if c.config.RoomTimeout <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for _, room := range c.rooms {
		if room.Status == RoomWaiting && now.Sub(room.CreatedAt) > c.config.RoomTimeout {
			c.logger.Info("room expired", "code", room.Code)
			room.Host.Send(RoomErrorEvent{Message: "Room expired"})
			c.removeRoom(room)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.rooms[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character code from the base32 alphabet.
func generateJoinCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GetRoom returns a room by code.
func (c *Coordinator) GetRoom(code string) (*Room, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.rooms[normalizeCode(code)]
	return r, ok
}

// RoomCount returns the number of open rooms.
func (c *Coordinator) RoomCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rooms)
}

// PeerSnapshot returns the last snapshot the peer of id published.
func (c *Coordinator) PeerSnapshot(id SessionID) (tetris.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	room, ok := c.roomOf(id)
	if !ok {
		return tetris.Snapshot{}, false
	}
	return room.Latest(room.Side(id).Other())
}
