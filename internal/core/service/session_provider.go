package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
	"github.com/cedarcrest-hospital/portal/internal/core/ports"
)

// SessionState is the lifecycle of a SessionProvider.
type SessionState int

const (
	SessionLoading SessionState = iota
	SessionReady
)

func (s SessionState) String() string {
	if s == SessionReady {
		return "ready"
	}
	return "loading"
}

// Decision is the outcome of a route guard check.
type Decision int

const (
	DecisionAllow Decision = iota
	// DecisionLogin sends the visitor to the login route.
	DecisionLogin
	// DecisionHome sends an authenticated user without the required role home.
	DecisionHome
)

// SessionProvider holds the authentication state of one browser session.
// It starts in SessionLoading and becomes SessionReady once Init returns.
type SessionProvider struct {
	auth   ports.AuthBackend
	tokens ports.TokenStore
	log    zerolog.Logger

	mu    sync.RWMutex
	state SessionState
	user  *domain.User
	token string
}

// NewSessionProvider builds a provider over the given backend and token store.
func NewSessionProvider(auth ports.AuthBackend, tokens ports.TokenStore, log zerolog.Logger) *SessionProvider {
	return &SessionProvider{auth: auth, tokens: tokens, log: log, state: SessionLoading}
}

// Init re-validates a stored token. Any failure, including a store read
// error, leaves the session anonymous and discards the stored token.
// It reports whether a stored token was rejected.
func (p *SessionProvider) Init(ctx context.Context) (purged bool) {
	defer p.setState(SessionReady)

	token, err := p.tokens.Token(ctx)
	if err != nil {
		p.log.Debug().Err(err).Msg("session: token read failed")
		p.discard(ctx)
		return true
	}
	if token == "" {
		return false
	}

	user, err := p.auth.Me(ctx, token)
	if err != nil {
		p.log.Debug().Err(err).Msg("session: stored token rejected")
		p.discard(ctx)
		return true
	}

	p.mu.Lock()
	p.user, p.token = user, token
	p.mu.Unlock()
	return false
}

// Login authenticates against the backend and persists the returned token.
// On failure nothing is written and the backend error is returned as is.
func (p *SessionProvider) Login(ctx context.Context, email, password string) (*domain.User, error) {
	res, err := p.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return p.adopt(ctx, res)
}

// Register creates an account and signs it in.
func (p *SessionProvider) Register(ctx context.Context, fullName, email, password string) (*domain.User, error) {
	res, err := p.auth.Register(ctx, fullName, email, password)
	if err != nil {
		return nil, err
	}
	return p.adopt(ctx, res)
}

// Logout forgets the session locally. The backend is not contacted.
func (p *SessionProvider) Logout(ctx context.Context) error {
	p.mu.Lock()
	p.user, p.token = nil, ""
	p.mu.Unlock()

	if err := p.tokens.ClearToken(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (p *SessionProvider) User() *domain.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.user
}

func (p *SessionProvider) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

func (p *SessionProvider) IsAuthenticated() bool {
	return p.User() != nil
}

// Loading is true only while Init is verifying a stored token.
func (p *SessionProvider) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state == SessionLoading
}

func (p *SessionProvider) State() SessionState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Authorize decides whether the session may enter a route restricted to
// roles. An empty roles set only requires authentication.
func (p *SessionProvider) Authorize(roles ...domain.Role) Decision {
	user := p.User()
	if user == nil {
		return DecisionLogin
	}
	if !user.HasRole(roles...) {
		return DecisionHome
	}
	return DecisionAllow
}

// TokenExpiry returns the exp claim of the current token without verifying
// its signature. ok is false when there is no token or no exp claim.
func (p *SessionProvider) TokenExpiry() (exp time.Time, ok bool) {
	return TokenExpiry(p.Token())
}

// TokenExpiry reads the exp claim of a JWT without verifying it.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	nd, err := claims.GetExpirationTime()
	if err != nil || nd == nil {
		return time.Time{}, false
	}
	return nd.Time, true
}

func (p *SessionProvider) adopt(ctx context.Context, res *ports.AuthResult) (*domain.User, error) {
	if err := p.tokens.SetToken(ctx, res.Token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	p.mu.Lock()
	p.user, p.token = res.User, res.Token
	p.state = SessionReady
	p.mu.Unlock()
	return res.User, nil
}

func (p *SessionProvider) discard(ctx context.Context) {
	if err := p.tokens.ClearToken(ctx); err != nil {
		p.log.Warn().Err(err).Msg("session: failed to clear stored token")
	}
}

func (p *SessionProvider) setState(s SessionState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}
