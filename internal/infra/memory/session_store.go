package memory

import (
	"context"
	"sync"
	"time"

	"quiz-platform/internal/domain"
	"github.com/google/uuid"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	ttl      time.Duration
	clock    func() time.Time
	mu       sync.RWMutex
	sessions map[string]session
}

type session struct {
	userID    int64
	expiresAt time.Time
}

// NewSessionStore creates a store whose sessions expire after ttl; ttl <= 0 never expires.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]session),
	}
}

func (s *SessionStore) Create(_ context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	var expires time.Time
	if s.ttl > 0 {
		expires = s.clock().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{userID: userID, expiresAt: expires}
	return token, nil
}

func (s *SessionStore) Resolve(_ context.Context, token string) (int64, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	if !sess.expiresAt.IsZero() && !sess.expiresAt.After(s.clock()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return 0, domain.ErrSessionNotFound
	}
	return sess.userID, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
