package multiplayer

import (
	"time"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/tetris"
	"github.com/vovakirdan/blockfall/internal/versus"
)

// Room pairs a host with a guest. All fields are guarded by the
// coordinator's mutex.
type Room struct {
	Code      string
	Host      SessionHandle
	Guest     SessionHandle
	Status    RoomStatus
	MatchID   MatchID
	CreatedAt time.Time
	StartedAt time.Time

	latest map[core.PlayerID]tetris.Snapshot
}

func newRoom(code string, host SessionHandle, now time.Time) *Room {
	return &Room{
		Code:      code,
		Host:      host,
		Status:    RoomWaiting,
		CreatedAt: now,
		latest:    make(map[core.PlayerID]tetris.Snapshot),
	}
}

// Side returns which side id plays in the room.
func (r *Room) Side(id SessionID) core.PlayerID {
	switch {
	case r.Host != nil && r.Host.ID() == id:
		return core.Player1
	case r.Guest != nil && r.Guest.ID() == id:
		return core.Player2
	default:
		return core.PlayerNone
	}
}

// session returns the handle playing side.
func (r *Room) session(side core.PlayerID) SessionHandle {
	switch side {
	case core.Player1:
		return r.Host
	case core.Player2:
		return r.Guest
	default:
		return nil
	}
}

// Latest returns the last snapshot published by side.
func (r *Room) Latest(side core.PlayerID) (tetris.Snapshot, bool) {
	s, ok := r.latest[side]
	return s, ok
}

// outcome applies the match rule to the latest snapshots. A side that has
// not published yet counts as still playing.
func (r *Room) outcome() versus.Outcome {
	return versus.Decide(r.latest[core.Player1], r.latest[core.Player2])
}

func (r *Room) record() RoomRecord {
	rec := RoomRecord{
		Code:      r.Code,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		StartedAt: r.StartedAt,
	}
	if r.Host != nil {
		rec.HostSession = string(r.Host.ID())
	}
	if r.Guest != nil {
		rec.GuestSession = string(r.Guest.ID())
	}
	return rec
}

func (r *Room) sendAll(evt SessionEvent) {
	if r.Host != nil {
		r.Host.Send(evt)
	}
	if r.Guest != nil {
		r.Guest.Send(evt)
	}
}
