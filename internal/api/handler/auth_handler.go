package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cedarcrest-hospital/portal/internal/api/metrics"
	"github.com/cedarcrest-hospital/portal/internal/core/domain"
	"github.com/cedarcrest-hospital/portal/internal/core/service"
)

// AuthHandler exposes the session's sign-in lifecycle to the site.
type AuthHandler struct {
	log zerolog.Logger
}

func NewAuthHandler(log zerolog.Logger) *AuthHandler {
	return &AuthHandler{log: log}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type userResponse struct {
	Message string       `json:"message,omitempty"`
	Data    *domain.User `json:"data"`
}

// Login authenticates against the backend and starts a session cookie.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := requireSession(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := s.SignIn(ctx, func(p *service.SessionProvider) (*domain.User, error) {
		return p.Login(ctx, req.Email, req.Password)
	})
	metrics.LoginsTotal.WithLabelValues("login", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	s.PersistCookie(c)

	h.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user signed in")
	return c.JSON(http.StatusOK, userResponse{Message: "Login successful", Data: user})
}

// Register creates an account and signs it in.
//
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	s, err := requireSession(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := s.SignIn(ctx, func(p *service.SessionProvider) (*domain.User, error) {
		return p.Register(ctx, req.FullName, req.Email, req.Password)
	})
	metrics.LoginsTotal.WithLabelValues("register", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	s.PersistCookie(c)

	h.log.Info().Str("user_id", user.ID).Msg("user registered")
	return c.JSON(http.StatusCreated, userResponse{Message: "Registration successful", Data: user})
}

// Logout forgets the session. The backend is not contacted.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	s, err := requireSession(c)
	if err != nil {
		return err
	}
	if err := s.Logout(c.Request().Context()); err != nil {
		return err
	}
	s.ExpireCookie(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out"})
}

// Me reports the signed-in user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	s, err := requireSession(c)
	if err != nil {
		return err
	}
	if !s.IsAuthenticated() {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(http.StatusOK, userResponse{Data: s.User()})
}
