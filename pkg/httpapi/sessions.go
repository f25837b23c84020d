package httpapi

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-docwizard/pkg/orchestrator"
)

// Session is one in-progress wizard. The mutex serialises every request
// touching the wizard, which is not safe for concurrent use.
type Session struct {
	ID         uuid.UUID
	DocumentID int
	CreatedAt  time.Time

	mu           sync.Mutex
	wizard       *orchestrator.Wizard
	lastActiveAt time.Time
	now          func() time.Time
}

// Do runs fn with exclusive access to the wizard.
func (s *Session) Do(fn func(w *orchestrator.Wizard) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActiveAt = s.now()
	return fn(s.wizard)
}

func (s *Session) expired(now time.Time, maxAge, idle time.Duration) bool {
	s.mu.Lock()
	last := s.lastActiveAt
	s.mu.Unlock()
	if maxAge > 0 && now.Sub(s.CreatedAt) > maxAge {
		return true
	}
	return idle > 0 && now.Sub(last) > idle
}

// Sessions is the in-memory session registry. Sessions do not survive a
// restart.
type Sessions struct {
	mu          sync.RWMutex
	sessions    map[uuid.UUID]*Session
	maxAge      time.Duration
	idleTimeout time.Duration
	now         func() time.Time
}

// NewSessions creates a registry with the given timeouts; zero disables a
// limit.
func NewSessions(maxAge, idleTimeout time.Duration) *Sessions {
	return &Sessions{
		sessions:    make(map[uuid.UUID]*Session),
		maxAge:      maxAge,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Create registers a session for a wizard built by build. The session id is
// allocated first so the wizard's cancel handler can refer to it.
func (m *Sessions) Create(documentID int, build func(id uuid.UUID) (*orchestrator.Wizard, error)) (*Session, error) {
	id := uuid.New()
	w, err := build(id)
	if err != nil {
		return nil, err
	}
	now := m.now()
	s := &Session{ID: id, DocumentID: documentID, CreatedAt: now, wizard: w, lastActiveAt: now, now: m.now}
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s, nil
}

// Get retrieves a live session. Expired sessions are removed and reported as
// missing.
func (m *Sessions) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.expired(m.now(), m.maxAge, m.idleTimeout) {
		m.Remove(id)
		return nil, false
	}
	return s, true
}

// Remove deletes a session.
func (m *Sessions) Remove(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len reports the number of registered sessions.
func (m *Sessions) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Cleanup removes expired and idle sessions and returns how many were
// dropped.
// The registry lock is never held while a session lock is taken, since
// Session.Do may call back into Remove.
func (m *Sessions) Cleanup() int {
	now := m.now()
	m.mu.RLock()
	live := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		live = append(live, s)
	}
	m.mu.RUnlock()

	var stale []uuid.UUID
	for _, s := range live {
		if s.expired(now, m.maxAge, m.idleTimeout) {
			stale = append(stale, s.ID)
		}
	}
	if len(stale) == 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := 0
	for _, id := range stale {
		if _, ok := m.sessions[id]; ok {
			delete(m.sessions, id)
			dropped++
		}
	}
	return dropped
}
