package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransient marks calls that never produced an API response: network
	// failures, timeouts and an open circuit breaker.
	ErrTransient = errors.New("storefront: transient network failure")
	// ErrUnauthenticated is returned by store mutations while signed out. No request is made.
	ErrUnauthenticated = errors.New("storefront: not signed in")
	// ErrCartReload means the server accepted an add but the refetch that
	// follows it failed. Retrying the add would increment twice; reload instead.
	ErrCartReload = errors.New("storefront: cart reload after add failed")
)

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status    int
	Code      string
	Message   string
	Retryable bool
	Details   json.RawMessage
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("storefront: %d %s", e.Status, e.Code)
	}
	return fmt.Sprintf("storefront: %d %s: %s", e.Status, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
