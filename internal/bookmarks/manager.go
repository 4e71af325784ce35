package bookmarks

import (
	"sync"
	"time"

	"showshelf/internal/credentials"
)

// Factory builds a coordinator for one owner's session. The manager owns
// the credential source and rotates its token as requests come in.
type Factory func(owner string, creds credentials.Source) *Coordinator

type session struct {
	coord     *Coordinator
	creds     *credentials.RotatingSource
	lastTouch time.Time
}

// Manager keeps one live coordinator per authenticated owner, created on
// first touch and evicted on sign-out or after idling.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	factory  Factory
}

// NewManager creates an empty session registry.
func NewManager(factory Factory) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		factory:  factory,
	}
}

// Coordinator returns the owner's coordinator, creating it on first use,
// and rotates the session's bearer token to the one just presented.
func (m *Manager) Coordinator(owner, token string) *Coordinator {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[owner]
	if !ok {
		creds := credentials.NewRotatingSource(token)
		s = &session{
			coord: m.factory(owner, creds),
			creds: creds,
		}
		m.sessions[owner] = s
	} else {
		s.creds.Set(token)
	}
	s.lastTouch = time.Now()
	return s.coord
}

// Evict drops the owner's session, resetting its coordinator so any
// in-flight load result is discarded. Used on sign-out.
func (m *Manager) Evict(owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[owner]; ok {
		s.coord.Reset()
		delete(m.sessions, owner)
	}
}

// Sweep evicts sessions idle for longer than idleFor. Returns the number
// evicted.
func (m *Manager) Sweep(idleFor time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-idleFor)
	evicted := 0
	for owner, s := range m.sessions {
		if s.lastTouch.Before(cutoff) {
			s.coord.Reset()
			delete(m.sessions, owner)
			evicted++
		}
	}
	return evicted
}

// Each calls fn for every live session's coordinator.
func (m *Manager) Each(fn func(owner string, c *Coordinator)) {
	m.mu.Lock()
	live := make(map[string]*Coordinator, len(m.sessions))
	for owner, s := range m.sessions {
		live[owner] = s.coord
	}
	m.mu.Unlock()

	for owner, c := range live {
		fn(owner, c)
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}
