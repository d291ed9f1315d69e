package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var errReadOnlyToken = errors.New("bearer token comes from the request header and cannot be stored")

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// headerTokens serves a token presented in the request header. Clearing it
// only forgets it for the rest of the request.
type headerTokens struct {
	token string
}

func (h *headerTokens) Token(context.Context) (string, error) { return h.token, nil }

func (h *headerTokens) SetToken(context.Context, string) error { return errReadOnlyToken }

func (h *headerTokens) ClearToken(context.Context) error {
	h.token = ""
	return nil
}
