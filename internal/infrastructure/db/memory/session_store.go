// Package memory holds process-local stores for development and tests.
package memory

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	token   string
	expires time.Time
}

// SessionStore is an in-process session token store. Entries vanish on
// restart.
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{entries: make(map[string]entry), now: time.Now}
}

func (s *SessionStore) Get(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		return "", nil
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		delete(s.entries, sessionID)
		return "", nil
	}
	return e.token, nil
}

func (s *SessionStore) Set(_ context.Context, sessionID, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{token: token}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.entries[sessionID] = e
	return nil
}

func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

// Len reports the number of live entries, dropping expired ones.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.entries {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(s.entries, id)
		}
	}
	return len(s.entries)
}
