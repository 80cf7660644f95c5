package util

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linkpop/cli/pkg/shortener"
)

func TestCleanedUpAPIError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "api error",
			err:      fmt.Errorf("wrapped: %w", &shortener.APIError{StatusCode: 409, Message: "Username already exists"}),
			expected: "Username already exists",
		},
		{
			name:     "no session",
			err:      shortener.ErrNoSession,
			expected: "not logged in: run `linkpop login` first",
		},
		{
			name:     "dial failure",
			err:      &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			expected: "could not reach the backend: connection refused",
		},
		{
			name:     "other",
			err:      errors.New("boom"),
			expected: "boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CleanedUpAPIError{Err: tt.err}
			assert.Equal(t, tt.expected, err.Error())
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
