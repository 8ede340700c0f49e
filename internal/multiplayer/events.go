package multiplayer

import (
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/tetris"
	"github.com/vovakirdan/blockfall/internal/versus"
)

// SessionEvent is sent from the coordinator to a session.
type SessionEvent interface {
	sessionEvent()
}

// RoomCreatedEvent tells the host its room code.
type RoomCreatedEvent struct {
	Code string
}

func (RoomCreatedEvent) sessionEvent() {}

// RoomErrorEvent reports a failed room operation or an expired room.
type RoomErrorEvent struct {
	Message string
}

func (RoomErrorEvent) sessionEvent() {}

// RoomJoinedEvent is sent to both sides when the guest joins.
type RoomJoinedEvent struct {
	Code    string
	MatchID MatchID
	Side    core.PlayerID // Player1 for the host, Player2 for the guest
	Peer    SessionID
}

func (RoomJoinedEvent) sessionEvent() {}

// PeerPresenceEvent flips the receiver's "opponent connected" flag.
type PeerPresenceEvent struct {
	Connected bool
}

func (PeerPresenceEvent) sessionEvent() {}

// PeerSnapshotEvent carries the opponent's full state.
type PeerSnapshotEvent struct {
	Snapshot tetris.Snapshot
}

func (PeerSnapshotEvent) sessionEvent() {}

// RoomClosedEvent ends the room. Outcome.Winner uses room sides.
type RoomClosedEvent struct {
	Code    string
	MatchID MatchID
	Outcome versus.Outcome
	Score1  int
	Score2  int
}

func (RoomClosedEvent) sessionEvent() {}

// CoordinatorMessage is sent from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateRoomMsg asks for a new room hosted by SessionID.
type CreateRoomMsg struct {
	SessionID SessionID
}

func (CreateRoomMsg) coordinatorMessage() {}

// JoinRoomMsg asks to join the room with Code as guest.
type JoinRoomMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinRoomMsg) coordinatorMessage() {}

// LeaveRoomMsg leaves whatever room the session is in.
type LeaveRoomMsg struct {
	SessionID SessionID
}

func (LeaveRoomMsg) coordinatorMessage() {}

// PublishSnapshotMsg carries the sender's latest state.
type PublishSnapshotMsg struct {
	SessionID SessionID
	Snapshot  tetris.Snapshot
}

func (PublishSnapshotMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when the connection goes away.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
