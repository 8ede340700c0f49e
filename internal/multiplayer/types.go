// Package multiplayer pairs SSH sessions into two-player rooms and relays
// game snapshots between them. It never simulates a game: each side runs its
// own session and publishes snapshots; the coordinator forwards them, tracks
// presence and records the result.
package multiplayer

import (
	"time"

	"github.com/google/uuid"
)

// SessionID uniquely identifies a connected player session.
type SessionID string

// NewSessionID returns a fresh random session identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// MatchID identifies one played match in a room.
type MatchID string

func newMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// RoomStatus is the lifecycle state of a room.
type RoomStatus string

const (
	RoomWaiting  RoomStatus = "waiting"  // host is alone
	RoomPlaying  RoomStatus = "playing"  // both sides connected
	RoomFinished RoomStatus = "finished" // outcome decided
)

// RoomRecord is the persisted view of a room.
type RoomRecord struct {
	Code         string
	Status       RoomStatus
	HostSession  string
	GuestSession string
	CreatedAt    time.Time
	StartedAt    time.Time // zero until a guest joins
}

// RoomStore persists room records. Implementations must be safe for
// concurrent use.
type RoomStore interface {
	SaveRoom(rec RoomRecord) error
	DeleteRoom(code string) error
}

// MatchResultSaver persists finished matches.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData is a finished match ready for persistence.
type MatchResultData struct {
	MatchID        string
	GameID         string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	WinnerSession  string // empty on a tie
	EndReason      string
	DurationSecs   int
}
