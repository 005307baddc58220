package gateway

import (
	"errors"
	"fmt"
)

// User-facing failures. These are the only errors the gateway surfaces to
// callers; single-endpoint failures are logged and absorbed by failover or
// degraded results.
var (
	ErrGeocodeFailed        = errors.New("failed to search location, please try again")
	ErrReverseGeocodeFailed = errors.New("failed to get address, please try again")
	ErrLocationUnavailable  = errors.New("current location unavailable")
)

// ServiceExhaustedError reports that every configured endpoint for an
// operation failed. For routing and amenity search it is handled internally
// by degrading the result; geocoding wraps it into a user-facing error.
type ServiceExhaustedError struct {
	Operation string
	Attempts  int
	LastErr   error
}

func (e *ServiceExhaustedError) Error() string {
	return fmt.Sprintf("%s: all %d endpoints failed: %v", e.Operation, e.Attempts, e.LastErr)
}

func (e *ServiceExhaustedError) Unwrap() error {
	return e.LastErr
}
