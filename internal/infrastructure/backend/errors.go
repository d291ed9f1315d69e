package backend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/cedarcrest-hospital/portal/internal/core/domain"
)

// Kind classifies a backend failure.
type Kind string

const (
	KindTransport    Kind = "transport"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindValidation   Kind = "validation"
	KindServer       Kind = "server"
)

const fallbackMessage = "Something went wrong. Please try again."

// Error is returned for every failed backend call. Message is safe to show
// to the user: it is the backend's own message or a generic fallback.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets callers match on domain sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case domain.ErrForbidden:
		return e.Kind == KindForbidden
	case domain.ErrNotFound:
		return e.Kind == KindNotFound
	case domain.ErrConflict:
		return e.Kind == KindConflict
	case domain.ErrValidation:
		return e.Kind == KindValidation
	case domain.ErrBackend:
		return e.Kind == KindTransport || e.Kind == KindServer
	}
	return false
}

// Message extracts a user-facing string from err, falling back to fallback
// when err is not a backend error or carries no message.
func Message(err error, fallback string) string {
	var be *Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallback
}

type errorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func errorFromResponse(status int, body []byte) *Error {
	e := &Error{Kind: kindForStatus(status), Status: status, Message: fallbackMessage}

	var p errorPayload
	if json.Unmarshal(body, &p) == nil {
		switch {
		case strings.TrimSpace(p.Message) != "":
			e.Message = p.Message
		case strings.TrimSpace(p.Error) != "":
			e.Message = p.Error
		}
	}
	return e
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindServer
	}
}
