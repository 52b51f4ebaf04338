package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrUnavailable indicates that the backend API could not be reached at all.
var ErrUnavailable = errors.New("backend unavailable")

// ErrUpstream indicates that the backend API answered with an unexpected non-2xx status.
var ErrUpstream = errors.New("backend error")

// ErrConfirmationRequired indicates that a destructive operation was issued without explicit confirmation.
var ErrConfirmationRequired = errors.New("confirmation required")

// ErrInProgress indicates that the same operation is already running.
var ErrInProgress = errors.New("operation already in progress")

// User-facing messages shared by the handlers and the API client.
const (
	MsgCannotReachServer   = "No se puede conectar con el servidor"
	MsgUnexpectedServerErr = "Error inesperado del servidor"
)

// APIError is a non-2xx response returned by the backend API.
// Detail is the `detail` field of the JSON body, used verbatim in user-facing messages.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.StatusCode, e.Detail)
}

// Unwrap maps the status code onto the sentinel errors so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrUpstream
	}
}

// UserMessage returns the message to show an operator for err.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	if errors.Is(err, ErrUnavailable) {
		return MsgCannotReachServer
	}
	return err.Error()
}
