package util

import (
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/linkpop/cli/pkg/shortener"
)

// CleanedUpAPIError turns backend and transport errors into a one-line
// message fit for the terminal.
type CleanedUpAPIError struct {
	Err error
}

func (e CleanedUpAPIError) Error() string {
	var apiErr *shortener.APIError
	if errors.As(e.Err, &apiErr) {
		return apiErr.Error()
	}

	if errors.Is(e.Err, shortener.ErrNoSession) {
		return "not logged in: run `linkpop login` first"
	}

	var opErr *net.OpError
	if errors.As(e.Err, &opErr) {
		return "could not reach the backend: " + opErr.Err.Error()
	}

	var urlErr *url.Error
	if errors.As(e.Err, &urlErr) {
		if urlErr.Timeout() {
			return "request to the backend timed out"
		}
		return strings.TrimSpace(urlErr.Err.Error())
	}

	return e.Err.Error()
}

func (e CleanedUpAPIError) Unwrap() error {
	return e.Err
}
