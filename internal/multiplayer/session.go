package multiplayer

import "sync"

// SessionHandle is how the coordinator reaches a connected player.
type SessionHandle interface {
	ID() SessionID

	// Send delivers an event without blocking.
	Send(evt SessionEvent)

	// Done is closed when the session ends.
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle backed by a buffered channel, read by
// the Bubble Tea program that owns the connection. When the buffer is full
// the oldest event is dropped; snapshots are full state, so only the latest
// one matters.
type ChannelSession struct {
	id     SessionID
	events chan SessionEvent
	done   chan struct{}
	once   sync.Once
}

// NewChannelSession creates a session with room for bufferSize pending events.
func NewChannelSession(id SessionID, bufferSize int) *ChannelSession {
	if bufferSize < 1 {
		bufferSize = 64
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, bufferSize),
		done:   make(chan struct{}),
	}
}

func (s *ChannelSession) ID() SessionID { return s.id }

// Send enqueues evt, evicting the oldest pending event if needed.
// Events sent after Close are discarded.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}
	for {
		select {
		case s.events <- evt:
			return
		default:
		}
		select {
		case <-s.events:
		default:
		}
	}
}

// Events is the receive side for the session owner.
func (s *ChannelSession) Events() <-chan SessionEvent { return s.events }

func (s *ChannelSession) Done() <-chan struct{} { return s.done }

// Close ends the session. Safe to call more than once.
func (s *ChannelSession) Close() {
	s.once.Do(func() { close(s.done) })
}

// SessionRegistry tracks connected sessions. Safe for concurrent use.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[SessionID]SessionHandle)}
}

func (r *SessionRegistry) Register(s SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of connected sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
