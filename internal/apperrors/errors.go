package apperrors

import (
	"errors"
	"net/http"
)

// Sentinel errors shared across services. Routers translate these into HTTP
// status codes; services wrap them with context via fmt.Errorf and %w.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrStorage    = errors.New("storage failure")
)

// HTTPStatus maps a service error to the status code its route responds with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
