package memory

import (
	"context"
	"sync"
	"time"

	"probability-quiz-service/internal/app"
	"probability-quiz-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Sessions idle for longer than the TTL are evicted on lookup and by Sweep.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
	ttl      time.Duration
	now      func() time.Time
}

// StoreOption customises a SessionStore.
type StoreOption func(*SessionStore)

// WithIdleTTL expires sessions that saw no command for ttl. Zero keeps them forever.
func WithIdleTTL(ttl time.Duration) StoreOption {
	return func(s *SessionStore) { s.ttl = ttl }
}

// WithStoreClock overrides time.Now for expiry checks.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *SessionStore) { s.now = now }
}

func NewSessionStore(opts ...StoreOption) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*app.Session),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) GetOrCreate(sessionID string, catalog domain.Catalog, opts ...app.SessionOption) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[sessionID]; ok {
		if !s.expired(session) {
			return session
		}
		s.evictLocked(sessionID, session)
	}
	session := app.NewSession(sessionID, catalog, opts...)
	s.sessions[sessionID] = session
	return session
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.expired(session) {
		s.mu.Lock()
		if current, ok := s.sessions[sessionID]; ok && current == session {
			s.evictLocked(sessionID, session)
		}
		s.mu.Unlock()
		return nil, false
	}
	return session, true
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Sync is a no-op: the map already holds the live session.
func (s *SessionStore) Sync(context.Context, *app.Session) error {
	return nil
}

// Sweep evicts every idle session.
func (s *SessionStore) Sweep(context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, session := range s.sessions {
		if s.expired(session) {
			s.evictLocked(id, session)
			evicted++
		}
	}
	return evicted
}

// Len reports how many sessions are live.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(session *app.Session) bool {
	return s.ttl > 0 && s.now().Sub(session.UpdatedAt()) > s.ttl
}

func (s *SessionStore) evictLocked(sessionID string, session *app.Session) {
	delete(s.sessions, sessionID)
	session.Close()
}
