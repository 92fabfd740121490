package search

import (
	"sync"
	"time"
)

// Manager hands out one aggregator per client session, so each active
// view owns its own debounce state and result cache.
type Manager struct {
	factory func() *Aggregator
	idleTTL time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	aggregator *Aggregator
	lastSeen   time.Time
}

// NewManager creates a session manager. Sessions idle longer than idleTTL
// are pruned lazily on the next access.
func NewManager(factory func() *Aggregator, idleTTL time.Duration) *Manager {
	return &Manager{
		factory:  factory,
		idleTTL:  idleTTL,
		sessions: make(map[string]*session),
	}
}

// Get returns the aggregator for a session id, creating it on first use.
func (m *Manager) Get(sessionID string) *Aggregator {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.idleTTL {
			delete(m.sessions, id)
		}
	}

	s, ok := m.sessions[sessionID]
	if !ok {
		s = &session{aggregator: m.factory()}
		m.sessions[sessionID] = s
	}
	s.lastSeen = now
	return s.aggregator
}
