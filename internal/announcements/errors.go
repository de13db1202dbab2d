package announcements

import (
	"errors"
	"net/http"
)

// Domain errors for announcement operations.
var (
	ErrNotFound       = errors.New("announcement not found")
	ErrDuplicate      = errors.New("announcement already exists")
	ErrNoDocument     = errors.New("no stored document for announcement")
	ErrInvalidRequest = errors.New("invalid request")
)

// MapHTTPStatus maps announcement domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoDocument) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
