package session

import (
	"sync"

	backdropmetrics "github.com/AltairaLabs/BackdropKit/metrics/prometheus"
)

// ConnRegistry is the process-wide set of live sessions. It exists for
// accounting and shutdown only; it never drives message handling.
type ConnRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewConnRegistry creates an empty connection registry.
func NewConnRegistry() *ConnRegistry {
	return &ConnRegistry{
		sessions: make(map[string]*Session),
	}
}

// Add registers a live session and returns the new connection count.
func (r *ConnRegistry) Add(s *Session) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID()] = s
	backdropmetrics.RecordConnectionOpened()
	return len(r.sessions)
}

// Remove deregisters a session by id and returns the remaining count.
// Removing an id that is absent is a no-op, so a disconnect detected both by
// the read loop and by shutdown deregisters exactly once.
func (r *ConnRegistry) Remove(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; ok {
		delete(r.sessions, id)
		backdropmetrics.RecordConnectionClosed()
	}
	return len(r.sessions)
}

// Count returns the number of live sessions.
func (r *ConnRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CloseAll tears down every live session's transport. Each session's own
// cleanup then removes it from the registry.
func (r *ConnRegistry) CloseAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
