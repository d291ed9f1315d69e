package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cedarcrest-hospital/portal/internal/api/metrics"
	"github.com/cedarcrest-hospital/portal/internal/core/domain"
	"github.com/cedarcrest-hospital/portal/internal/core/ports"
	"github.com/cedarcrest-hospital/portal/internal/core/service"
	"github.com/cedarcrest-hospital/portal/internal/infrastructure/backend"
)

// AppointmentHandler handles booking and the dashboard appointment list.
type AppointmentHandler struct {
	client *backend.Client
	log    zerolog.Logger
	// newService builds the request-scoped service; replaced in tests.
	newService func(ports.AppointmentBackend, zerolog.Logger) ports.AppointmentService
}

func NewAppointmentHandler(client *backend.Client, log zerolog.Logger) *AppointmentHandler {
	return &AppointmentHandler{client: client, log: log, newService: service.NewAppointmentService}
}

type bookAppointmentRequest struct {
	FullName      string `json:"fullName" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required"`
	HasHMO        bool   `json:"hasHMO"`
	HMOProvider   string `json:"hmoProvider" validate:"required_if=HasHMO true"`
	VisitedBefore bool   `json:"visitedBefore"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string `json:"time" validate:"required"`
	Physician     string `json:"physician"`
	Reason        string `json:"reason" validate:"max=1000"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
	// Current is the status the dashboard last saw; it enables the local
	// transition check.
	Current string `json:"current" validate:"omitempty,oneof=pending confirmed cancelled"`
}

func (h *AppointmentHandler) svc(c echo.Context) ports.AppointmentService {
	return h.newService(backendFor(c, h.client).Appointments(), h.log)
}

// Book submits an appointment request.
//
// @Summary      Book an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        body  body      bookAppointmentRequest  true  "Booking form"
// @Success      201   {object}  dataResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/appointments [post]
func (h *AppointmentHandler) Book(c echo.Context) error {
	var req bookAppointmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booked, err := h.svc(c).Book(c.Request().Context(), &domain.Appointment{
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		HasHMO:        req.HasHMO,
		HMOProvider:   req.HMOProvider,
		VisitedBefore: req.VisitedBefore,
		Date:          req.Date,
		Time:          req.Time,
		Physician:     req.Physician,
		Reason:        req.Reason,
	})
	if err != nil {
		return err
	}
	metrics.AppointmentsBookedTotal.Inc()
	return c.JSON(http.StatusCreated, dataResponse{Message: "Appointment booked successfully", Data: booked})
}

// List returns the appointments visible to the signed-in admin or doctor.
//
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Success      200  {object}  dataResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	items, err := h.svc(c).List(c.Request().Context())
	if err != nil {
		return err
	}
	if items == nil {
		items = []domain.Appointment{}
	}
	return c.JSON(http.StatusOK, dataResponse{Data: items})
}

// UpdateStatus confirms, cancels or reopens an appointment.
//
// @Summary      Update appointment status
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Appointment ID"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  dataResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/admin/appointments/{id}/status [patch]
func (h *AppointmentHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.svc(c).UpdateStatus(c.Request().Context(), c.Param("id"),
		domain.AppointmentStatus(req.Current), domain.AppointmentStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Message: "Appointment " + req.Status, Data: updated})
}
