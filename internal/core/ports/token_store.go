package ports

import (
	"context"
	"time"
)

// TokenSource yields the bearer token to attach to an outgoing request.
// An empty string means no credential.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenStore is a single-key store holding the bearer token of one browser
// session. Absence of a token means logged out.
type TokenStore interface {
	TokenSource
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// SessionStore keeps bearer tokens keyed by opaque session id.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (string, error)
	Set(ctx context.Context, sessionID, token string, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}
