package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cedarcrest-hospital/portal/internal/api/metrics"
	"github.com/cedarcrest-hospital/portal/internal/core/domain"
	"github.com/cedarcrest-hospital/portal/internal/core/ports"
	"github.com/cedarcrest-hospital/portal/internal/core/service"
)

const sessionKey = "session"

// SessionConfig wires the per-request session.
type SessionConfig struct {
	Store  ports.SessionStore
	Auth   ports.AuthBackend
	Cookie string
	TTL    time.Duration
	// Secure marks the cookie Secure; set it behind TLS.
	Secure bool
	Log    zerolog.Logger
}

// Session is the authentication context of one request.
type Session struct {
	*service.SessionProvider

	// Tokens is the session's token store, suitable as a backend token source.
	Tokens ports.TokenStore
	// ID is empty for bearer-authenticated requests, which carry no cookie.
	ID string

	cfg *SessionConfig
}

// LoadSession resolves the caller's session before the handler runs. The
// session id travels in an HttpOnly cookie; requests with an Authorization
// bearer header use that token instead and never get a cookie.
func LoadSession(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := &Session{cfg: &cfg}

			if token, ok := bearerToken(c.Request()); ok {
				s.Tokens = &headerTokens{token: token}
			} else {
				id := cookieSessionID(c, cfg.Cookie)
				if id == "" {
					id = uuid.NewString()
				}
				s.bind(id)
			}
			if s.SessionProvider == nil {
				s.SessionProvider = service.NewSessionProvider(cfg.Auth, s.Tokens, cfg.Log)
			}

			purged := s.Init(c.Request().Context())
			switch {
			case purged:
				metrics.SessionsResolvedTotal.WithLabelValues("purged").Inc()
				s.ExpireCookie(c)
			case s.IsAuthenticated():
				metrics.SessionsResolvedTotal.WithLabelValues("authenticated").Inc()
			default:
				metrics.SessionsResolvedTotal.WithLabelValues("anonymous").Inc()
			}

			c.Set(sessionKey, s)
			return next(c)
		}
	}
}

// SignIn runs fn against a fresh session id and switches to it only when fn
// succeeds, dropping any token held under the old id. A failed attempt leaves
// the current session untouched. Header sessions sign in in place.
func (s *Session) SignIn(ctx context.Context, fn func(*service.SessionProvider) (*domain.User, error)) (*domain.User, error) {
	if s.ID == "" {
		return fn(s.SessionProvider)
	}

	fresh := &Session{cfg: s.cfg}
	fresh.bind(uuid.NewString())
	user, err := fn(fresh.SessionProvider)
	if err != nil {
		return nil, err
	}

	if err := s.Tokens.ClearToken(ctx); err != nil {
		s.cfg.Log.Warn().Err(err).Msg("session: failed to drop token of replaced session")
	}
	s.ID, s.Tokens, s.SessionProvider = fresh.ID, fresh.Tokens, fresh.SessionProvider
	return user, nil
}

func (s *Session) bind(id string) {
	s.ID = id
	s.Tokens = service.NewSessionTokens(s.cfg.Store, id, s.cfg.TTL).WithTokenExpiry(service.TokenExpiry)
	s.SessionProvider = service.NewSessionProvider(s.cfg.Auth, s.Tokens, s.cfg.Log)
}

// SessionFrom returns the session resolved by the Session middleware, or nil.
func SessionFrom(c echo.Context) *Session {
	s, _ := c.Get(sessionKey).(*Session)
	return s
}

// PersistCookie writes the session cookie. Its lifetime follows the token's
// exp claim when shorter than the configured TTL.
func (s *Session) PersistCookie(c echo.Context) {
	if s.ID == "" {
		return
	}
	expires := time.Now().Add(s.cfg.TTL)
	if exp, ok := s.TokenExpiry(); ok && exp.Before(expires) {
		expires = exp
	}
	c.SetCookie(&http.Cookie{
		Name:     s.cfg.Cookie,
		Value:    s.ID,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ExpireCookie tells the browser to drop the session cookie.
func (s *Session) ExpireCookie(c echo.Context) {
	if s.ID == "" {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     s.cfg.Cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func cookieSessionID(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(ck.Value); err != nil {
		return ""
	}
	return ck.Value
}
