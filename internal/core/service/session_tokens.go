package service

import (
	"context"
	"time"

	"github.com/cedarcrest-hospital/portal/internal/core/ports"
)

// SessionTokens binds a SessionStore to one session id so it can serve as
// the single-key TokenStore of that browser session.
type SessionTokens struct {
	store ports.SessionStore
	id    string
	ttl   time.Duration

	// expiry, when set, shortens ttl to the token's own lifetime.
	expiry func(token string) (time.Time, bool)
	now    func() time.Time
}

// NewSessionTokens returns the token store of session id. Tokens written
// through it live for ttl.
func NewSessionTokens(store ports.SessionStore, id string, ttl time.Duration) *SessionTokens {
	return &SessionTokens{store: store, id: id, ttl: ttl, now: time.Now}
}

// WithTokenExpiry caps the stored lifetime at the exp claim reported by fn.
func (s *SessionTokens) WithTokenExpiry(fn func(token string) (time.Time, bool)) *SessionTokens {
	s.expiry = fn
	return s
}

// ID is the session id the store is bound to.
func (s *SessionTokens) ID() string { return s.id }

func (s *SessionTokens) Token(ctx context.Context) (string, error) {
	return s.store.Get(ctx, s.id)
}

func (s *SessionTokens) SetToken(ctx context.Context, token string) error {
	return s.store.Set(ctx, s.id, token, s.lifetime(token))
}

func (s *SessionTokens) ClearToken(ctx context.Context) error {
	return s.store.Delete(ctx, s.id)
}

func (s *SessionTokens) lifetime(token string) time.Duration {
	ttl := s.ttl
	if s.expiry == nil {
		return ttl
	}
	if exp, ok := s.expiry(token); ok {
		if left := exp.Sub(s.now()); left > 0 && (ttl <= 0 || left < ttl) {
			return left
		}
	}
	return ttl
}

var _ ports.TokenStore = (*SessionTokens)(nil)
