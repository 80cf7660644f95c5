package shortener

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport wraps failures to reach the backend or decode its reply.
	ErrTransport = errors.New("shortener: transport failure")
	// ErrNoSession is returned by authenticated calls made without a token.
	ErrNoSession = errors.New("shortener: no session token")
)

// APIError is an application error reported by the backend as {"error": "..."}.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// ServerMessage returns the backend's own message, or "" when it sent none.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// IsUnauthorized reports whether err is a 401 from the backend, which is
// what it answers for an expired or revoked token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

type transportError struct {
	op  string
	err error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("%s: %v", e.op, e.err)
}

func (e *transportError) Unwrap() []error {
	return []error{ErrTransport, e.err}
}
