package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"probability-quiz-service/internal/app"
	"probability-quiz-service/internal/domain"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Live sessions stay in a local map so subscribers keep receiving in-process events.
//   - Each session's state is mirrored to quiz:session:{id} with a TTL, refreshed on
//     every command. The key is the session's lease: once it expires the local
//     session is evicted on lookup or by Sweep.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

// Snapshot is the mirrored form of a session.
type Snapshot struct {
	SessionID string       `json:"sessionId"`
	CatalogID string       `json:"catalogId"`
	State     domain.State `json:"state"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(sessionID string, catalog domain.Catalog, opts ...app.SessionOption) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[sessionID]; ok {
		return session
	}
	session := app.NewSession(sessionID, catalog, opts...)
	s.sessions[sessionID] = session
	// best-effort: take the lease now so a lookup before the first Sync keeps it
	_ = s.Sync(context.Background(), session)
	return session
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	n, err := s.client.Exists(context.Background(), s.key(sessionID)).Result()
	if err != nil || n > 0 {
		// Redis being unreachable is not a reason to drop a live attempt.
		return session, true
	}
	s.evict(sessionID, session)
	return nil, false
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	// best-effort cleanup
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

// Sync writes the session's current state to Redis.
func (s *SessionStore) Sync(ctx context.Context, session *app.Session) error {
	view := session.View()
	data, err := json.Marshal(Snapshot{
		SessionID: session.ID(),
		CatalogID: view.CatalogID,
		State:     session.State(),
		CreatedAt: session.CreatedAt(),
		UpdatedAt: view.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.ID()), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("mirror session %s: %w", session.ID(), err)
	}
	return nil
}

// Sweep evicts every local session whose mirror key has expired.
func (s *SessionStore) Sweep(ctx context.Context) int {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	if len(ids) == 0 {
		return 0
	}

	cmds := make([]*redis.IntCmd, len(ids))
	pipe := s.client.Pipeline()
	for i, id := range ids {
		cmds[i] = pipe.Exists(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0
	}

	evicted := 0
	for i, id := range ids {
		if cmds[i].Val() > 0 {
			continue
		}
		s.mu.RLock()
		session, ok := s.sessions[id]
		s.mu.RUnlock()
		if ok && s.evict(id, session) {
			evicted++
		}
	}
	return evicted
}

// evict drops session if it is still the one stored under sessionID.
func (s *SessionStore) evict(sessionID string, session *app.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.sessions[sessionID]; !ok || current != session {
		return false
	}
	delete(s.sessions, sessionID)
	session.Close()
	return true
}

// Snapshot reads back the mirrored state of a session.
func (s *SessionStore) Snapshot(ctx context.Context, sessionID string) (Snapshot, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err == redis.Nil {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal session snapshot: %w", err)
	}
	return snap, nil
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
