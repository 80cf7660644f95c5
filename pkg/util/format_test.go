package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDashHelpers(t *testing.T) {
	assert.Equal(t, "-", OrDash(""))
	assert.Equal(t, "x", OrDash("x"))
	assert.Equal(t, "b", FirstOrDash("", "b", "c"))
	assert.Equal(t, "-", FirstOrDash("", ""))
	assert.Equal(t, "-", JoinOrDash())
	assert.Equal(t, "a, b", JoinOrDash("a", "b"))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", FormatTime(time.Time{}))

	ts := time.Date(2024, 5, 1, 10, 20, 30, 0, time.Local)
	assert.Equal(t, "2024-05-01 10:20:30", FormatTime(ts))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in       string
		n        int
		expected string
	}{
		{"https://example.com", 100, "https://example.com"},
		{"https://example.com", 8, "https:/…"},
		{"abc", 1, "…"},
		{"abc", 0, "abc"},
		{"héllo", 3, "hé…"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.in, tt.n))
		})
	}
}
