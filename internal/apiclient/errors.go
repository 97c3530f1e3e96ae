package apiclient

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNetwork is the cause of every transport-level failure (refused, reset, timeout)
var ErrNetwork = errors.New("network failure")

// StatusError is returned for non-2xx responses
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.Endpoint, e.Code)
}

// IsNetwork reports whether err was caused by a transport failure
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// HTTPStatus returns the status code carried by err, or 0
func HTTPStatus(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
