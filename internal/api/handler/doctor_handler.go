package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
	"github.com/cedarcrest-hospital/portal/internal/infrastructure/backend"
)

// DoctorHandler serves the doctor's own profile and availability screens.
type DoctorHandler struct {
	client *backend.Client
	log    zerolog.Logger
}

func NewDoctorHandler(client *backend.Client, log zerolog.Logger) *DoctorHandler {
	return &DoctorHandler{client: client, log: log}
}

type updateProfileRequest struct {
	FullName          string `json:"fullName" validate:"required"`
	Specialty         string `json:"specialty" validate:"required"`
	Bio               string `json:"bio" validate:"max=2000"`
	Phone             string `json:"phone"`
	PhotoURL          string `json:"photoUrl" validate:"omitempty,url"`
	YearsOfExperience int    `json:"yearsOfExperience" validate:"min=0"`
}

type timeSlotRequest struct {
	Time      string `json:"time" validate:"required"`
	Available bool   `json:"isAvailable"`
}

type availabilityRequest struct {
	Date  string            `json:"date" validate:"required,datetime=2006-01-02"`
	Slots []timeSlotRequest `json:"timeSlots" validate:"dive"`
}

// Profile returns the signed-in doctor's profile.
//
// @Summary      Get doctor profile
// @Tags         doctor
// @Produce      json
// @Success      200  {object}  dataResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/doctor/profile [get]
func (h *DoctorHandler) Profile(c echo.Context) error {
	p, err := backendFor(c, h.client).Doctors().Profile(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: p})
}

// UpdateProfile saves the signed-in doctor's profile.
//
// @Summary      Update doctor profile
// @Tags         doctor
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Profile"
// @Success      200   {object}  dataResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/doctor/profile [put]
func (h *DoctorHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := backendFor(c, h.client).Doctors().UpdateProfile(c.Request().Context(), &domain.DoctorProfile{
		FullName:          req.FullName,
		Specialty:         req.Specialty,
		Bio:               req.Bio,
		Phone:             req.Phone,
		PhotoURL:          req.PhotoURL,
		YearsOfExperience: req.YearsOfExperience,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Message: "Profile updated", Data: p})
}

// Availability returns the slots of one date, today by default.
//
// @Summary      Get availability
// @Tags         doctor
// @Produce      json
// @Param        date  query     string  false  "Date (YYYY-MM-DD)"
// @Success      200   {object}  dataResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/doctor/availability [get]
func (h *DoctorHandler) Availability(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().Format(domain.DateLayout)
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "date must match the format 2006-01-02")
	}

	a, err := backendFor(c, h.client).Doctors().Availability(c.Request().Context(), date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: a})
}

// ReplaceAvailability overwrites every slot of a date.
//
// @Summary      Replace availability
// @Tags         doctor
// @Accept       json
// @Produce      json
// @Param        body  body      availabilityRequest  true  "Full slot list"
// @Success      200   {object}  dataResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/doctor/availability [put]
func (h *DoctorHandler) ReplaceAvailability(c echo.Context) error {
	var req availabilityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	a := &domain.Availability{Date: req.Date, Slots: make([]domain.TimeSlot, 0, len(req.Slots))}
	for _, s := range req.Slots {
		a.Slots = append(a.Slots, domain.TimeSlot{Time: s.Time, Available: s.Available})
	}
	if err := a.Validate(); err != nil {
		return err
	}

	saved, err := backendFor(c, h.client).Doctors().ReplaceAvailability(c.Request().Context(), a)
	if err != nil {
		return err
	}
	h.log.Info().Str("date", a.Date).Int("slots", len(a.Slots)).Msg("availability replaced")
	return c.JSON(http.StatusOK, dataResponse{Message: "Availability saved", Data: saved})
}
