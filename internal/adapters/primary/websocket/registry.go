package websocket

import (
	"log/slog"
	"sync"

	"github.com/lorrc/scan-relay/internal/infrastructure/metrics"
)

// Session is one live viewer connection.
type Session interface {
	// ID returns a stable identifier for the session.
	ID() string
	// Deliver queues an encoded message for the session without blocking.
	Deliver(message []byte) error
	// Close releases the session. It is safe to call more than once.
	Close()
}

// Registry tracks the currently connected viewer sessions. All methods are
// safe for concurrent use.
type Registry struct {
	// sessions maps session IDs to their connection
	sessions map[string]Session

	// mu protects sessions
	mu sync.RWMutex

	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewRegistry creates an empty session registry.
func NewRegistry(m *metrics.Metrics, logger *slog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]Session),
		metrics:  m,
		logger:   logger.With("component", "session_registry"),
	}
}

// Register adds a session. Registering an ID that is already present is a
// no-op.
func (r *Registry) Register(session Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := session.ID()
	if _, exists := r.sessions[id]; exists {
		return
	}
	r.sessions[id] = session
	r.metrics.SetConnectedSessions(len(r.sessions))

	r.logger.Info("session registered",
		"session_id", id,
		"total_sessions", len(r.sessions),
	)
}

// Unregister removes the session with the given ID and reports whether it
// was present.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; !exists {
		return false
	}
	delete(r.sessions, id)
	r.metrics.SetConnectedSessions(len(r.sessions))

	r.logger.Info("session unregistered",
		"session_id", id,
		"total_sessions", len(r.sessions),
	)
	return true
}

// Snapshot returns a point-in-time copy of the registered sessions. Callers
// iterate the copy, never the live map.
func (r *Registry) Snapshot() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll closes and removes every session. Used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]Session)
	r.metrics.SetConnectedSessions(0)
	r.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}
