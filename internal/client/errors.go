package client

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrUnauthorized = errors.New("session expired")

// APIError is returned for every non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Unwrap lets callers test errors.Is(err, ErrUnauthorized) for 401/403.
func (e *APIError) Unwrap() error {
	if isAuthFailure(e.Status) {
		return ErrUnauthorized
	}
	return nil
}

func isAuthFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}
