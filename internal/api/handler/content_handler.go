package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cedarcrest-hospital/portal/internal/infrastructure/backend"
)

// ContentHandler serves the public page data: doctors, testimonials,
// events and the newsletter form.
type ContentHandler struct {
	client *backend.Client
	log    zerolog.Logger
}

func NewContentHandler(client *backend.Client, log zerolog.Logger) *ContentHandler {
	return &ContentHandler{client: client, log: log}
}

type newsletterRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Doctors lists the hospital's doctors.
//
// @Summary      List doctors
// @Tags         content
// @Produce      json
// @Success      200  {object}  dataResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/doctors [get]
func (h *ContentHandler) Doctors(c echo.Context) error {
	items, err := h.client.Doctors().List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: items})
}

// Testimonials lists patient testimonials.
//
// @Summary      List testimonials
// @Tags         content
// @Produce      json
// @Success      200  {object}  dataResponse
// @Router       /api/testimonials [get]
func (h *ContentHandler) Testimonials(c echo.Context) error {
	items, err := h.client.Testimonials().List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: items})
}

// Events lists upcoming hospital events.
//
// @Summary      List events
// @Tags         content
// @Produce      json
// @Success      200  {object}  dataResponse
// @Router       /api/events [get]
func (h *ContentHandler) Events(c echo.Context) error {
	items, err := h.client.Events().List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: items})
}

// Newsletter subscribes an email address.
//
// @Summary      Subscribe to the newsletter
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        body  body      newsletterRequest  true  "Subscriber"
// @Success      201   {object}  messageResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/newsletter [post]
func (h *ContentHandler) Newsletter(c echo.Context) error {
	var req newsletterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := h.client.Newsletter().Subscribe(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Thank you for subscribing to our newsletter!"
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: msg})
}
