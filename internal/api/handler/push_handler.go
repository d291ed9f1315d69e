package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cedarcrest-hospital/portal/internal/api/metrics"
	"github.com/cedarcrest-hospital/portal/internal/core/domain"
	"github.com/cedarcrest-hospital/portal/internal/infrastructure/backend"
)

// PushHandler relays the dashboard's push-subscription calls to the backend
// with the staff member's token.
type PushHandler struct {
	client *backend.Client
	log    zerolog.Logger
}

func NewPushHandler(client *backend.Client, log zerolog.Logger) *PushHandler {
	return &PushHandler{client: client, log: log}
}

// successResponse mirrors the backend's {success, message} envelope so the
// browser side can keep treating success=false as a failure.
type successResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	PublicKey string `json:"publicKey,omitempty"`
}

type pushKeysRequest struct {
	P256dh string `json:"p256dh" validate:"required"`
	Auth   string `json:"auth" validate:"required"`
}

type subscriptionRequest struct {
	Endpoint       string          `json:"endpoint" validate:"required,url"`
	ExpirationTime *int64          `json:"expirationTime"`
	Keys           pushKeysRequest `json:"keys" validate:"required"`
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
}

// VAPIDPublicKey returns the application server key.
//
// @Summary      Get VAPID public key
// @Tags         push
// @Produce      json
// @Success      200  {object}  successResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/push/vapid-public-key [get]
func (h *PushHandler) VAPIDPublicKey(c echo.Context) error {
	key, err := backendFor(c, h.client).Push().VAPIDPublicKey(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true, PublicKey: key})
}

// Subscribe stores the browser's push subscription.
//
// @Summary      Save push subscription
// @Tags         push
// @Accept       json
// @Produce      json
// @Param        body  body      subscriptionRequest  true  "PushSubscription JSON"
// @Success      201   {object}  successResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/push/subscription [post]
func (h *PushHandler) Subscribe(c echo.Context) error {
	var req subscriptionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := backendFor(c, h.client).Push().SaveSubscription(c.Request().Context(), &domain.PushSubscription{
		Endpoint:       req.Endpoint,
		ExpirationTime: req.ExpirationTime,
		Keys:           domain.PushKeys{P256dh: req.Keys.P256dh, Auth: req.Keys.Auth},
	})
	metrics.PushSubscriptionsTotal.WithLabelValues("save", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, successResponse{Success: true, Message: "Subscription saved"})
}

// Unsubscribe forgets a push subscription.
//
// @Summary      Delete push subscription
// @Tags         push
// @Accept       json
// @Produce      json
// @Param        body  body      unsubscribeRequest  true  "Endpoint"
// @Success      200   {object}  successResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/push/subscription [delete]
func (h *PushHandler) Unsubscribe(c echo.Context) error {
	var req unsubscribeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := backendFor(c, h.client).Push().DeleteSubscription(c.Request().Context(), req.Endpoint)
	metrics.PushSubscriptionsTotal.WithLabelValues("delete", metrics.Result(err)).Inc()
	if err != nil {
		h.log.Warn().Err(err).Msg("push subscription delete failed")
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true, Message: "Subscription removed"})
}
