package backend

import (
	"context"
	"net/http"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
	"github.com/cedarcrest-hospital/portal/internal/core/ports"
)

// AuthService covers /auth/*.
type AuthService struct{ c *Client }

var _ ports.AuthBackend = (*AuthService)(nil)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type meResponse struct {
	User *domain.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	var out authResponse
	if err := s.c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: loginRequest{Email: email, Password: password}}, &out); err != nil {
		return nil, err
	}
	return toAuthResult(out)
}

func (s *AuthService) Register(ctx context.Context, fullName, email, password string) (*ports.AuthResult, error) {
	var out authResponse
	body := registerRequest{FullName: fullName, Email: email, Password: password}
	if err := s.c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: body}, &out); err != nil {
		return nil, err
	}
	return toAuthResult(out)
}

// Me resolves the user for token. The token is sent explicitly so a stored
// credential can be checked before it is trusted.
func (s *AuthService) Me(ctx context.Context, token string) (*domain.User, error) {
	var out meResponse
	if err := s.c.do(ctx, request{method: http.MethodGet, path: "/auth/me", token: token}, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, &Error{Kind: KindUnauthorized, Status: http.StatusOK, Message: "session is no longer valid"}
	}
	return out.User, nil
}

func toAuthResult(out authResponse) (*ports.AuthResult, error) {
	if out.Token == "" || out.User == nil {
		return nil, &Error{Kind: KindServer, Status: http.StatusOK, Message: fallbackMessage}
	}
	return &ports.AuthResult{Token: out.Token, User: out.User}, nil
}
