package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cedarcrest-hospital/portal/internal/api/middleware"
	"github.com/cedarcrest-hospital/portal/internal/infrastructure/backend"
)

// messageResponse drives the banner shown after a form submission.
type messageResponse struct {
	Message string `json:"message"`
}

// dataResponse wraps a payload, optionally with a banner message.
type dataResponse struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// bindAndValidate decodes the request body into req and runs the validator.
// Decoding failures are 400, validation failures 422.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

// requireSession returns the request's session. Routes are mounted behind
// LoadSession, so a missing session is a wiring fault reported as 401.
func requireSession(c echo.Context) (*middleware.Session, error) {
	s := middleware.SessionFrom(c)
	if s == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return s, nil
}

// backendFor returns the backend client bound to the caller's token, or the
// anonymous client when the request has no session.
func backendFor(c echo.Context, client *backend.Client) *backend.Client {
	if s := middleware.SessionFrom(c); s != nil {
		return client.WithTokens(s.Tokens)
	}
	return client
}
