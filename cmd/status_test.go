package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	msg string
	err error
}

func (f fakePinger) Ping(ctx context.Context) (string, error) { return f.msg, f.err }
func (f fakePinger) BaseURL() string                         { return "http://localhost:5000" }

func TestStatus_Operational(t *testing.T) {
	setupStdoutCapture(t)

	err := checkStatus(context.Background(), fakePinger{msg: "URL Shortener Backend is running!"}, "")
	require.NoError(t, err)
	out := outBuf.String()
	assert.Contains(t, out, "Operational")
	assert.Contains(t, out, "URL Shortener Backend is running!")
}

func TestStatus_UnreachableJSON(t *testing.T) {
	setupStdoutCapture(t)

	var err error
	out := captureStdout(t, func() {
		err = checkStatus(context.Background(), fakePinger{err: errors.New("connection refused")}, "json")
	})
	require.Error(t, err)

	assert.Contains(t, out, "\n  \"base_url\": \"http://localhost:5000\"")
	var got statusOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.Reachable)
	assert.Equal(t, "connection refused", got.Error)
	assert.Equal(t, "http://localhost:5000", got.BaseURL)
}
