package ports

import (
	"context"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
)

// AuthResult is what the auth backend returns for a successful login or
// registration.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthBackend is the remote authority for credentials and sessions.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, fullName, email, password string) (*AuthResult, error)
	// Me resolves the user behind token, sent as a bearer credential.
	Me(ctx context.Context, token string) (*domain.User, error)
}
