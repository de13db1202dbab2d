package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTimeout indicates the backend did not respond within the configured
// timeout. Distinct from other transport failures so callers can surface a
// timeout-specific message.
var ErrTimeout = errors.New("classification request timed out")

// StatusError carries a non-2xx backend response verbatim: the status code
// and the raw body as an opaque diagnostic.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

// MapHTTPStatus maps backend client errors to gateway status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrTimeout) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}
