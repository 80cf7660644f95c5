package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/require"

	"github.com/linkpop/cli/internal/popup"
	"github.com/linkpop/cli/internal/session"
	"github.com/linkpop/cli/pkg/shortener"
)

var outBuf bytes.Buffer

// setupStdoutCapture sends pterm output to outBuf without styling.
func setupStdoutCapture(t *testing.T) {
	t.Helper()
	outBuf.Reset()
	pterm.SetDefaultOutput(&outBuf)
	pterm.DisableStyling()
	t.Cleanup(func() {
		pterm.SetDefaultOutput(os.Stdout)
		pterm.EnableStyling()
	})
}

// captureStdout collects what fn writes to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()
	w.Close()
	return <-done
}

type FakeShortenerAPI struct {
	LoginFunc            func(ctx context.Context, creds shortener.Credentials) (*shortener.AuthResponse, error)
	SignupFunc           func(ctx context.Context, creds shortener.Credentials) (*shortener.AuthResponse, error)
	ShortenFunc          func(ctx context.Context, token, longURL string) (*shortener.ShortenResponse, error)
	ShortenAnonymousFunc func(ctx context.Context, longURL string) (*shortener.ShortenResponse, error)
	URLsFunc             func(ctx context.Context, token string) ([]shortener.Link, error)
	StatsFunc            func(ctx context.Context, token string) (*shortener.Stats, error)
}

func (f *FakeShortenerAPI) Login(ctx context.Context, creds shortener.Credentials) (*shortener.AuthResponse, error) {
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, creds)
	}
	return &shortener.AuthResponse{Token: "tok", UserID: "u1"}, nil
}

func (f *FakeShortenerAPI) Signup(ctx context.Context, creds shortener.Credentials) (*shortener.AuthResponse, error) {
	if f.SignupFunc != nil {
		return f.SignupFunc(ctx, creds)
	}
	return &shortener.AuthResponse{Token: "tok", UserID: "u1"}, nil
}

func (f *FakeShortenerAPI) Shorten(ctx context.Context, token, longURL string) (*shortener.ShortenResponse, error) {
	if f.ShortenFunc != nil {
		return f.ShortenFunc(ctx, token, longURL)
	}
	return &shortener.ShortenResponse{ShortURL: "http://x/auth"}, nil
}

func (f *FakeShortenerAPI) ShortenAnonymous(ctx context.Context, longURL string) (*shortener.ShortenResponse, error) {
	if f.ShortenAnonymousFunc != nil {
		return f.ShortenAnonymousFunc(ctx, longURL)
	}
	return &shortener.ShortenResponse{ShortURL: "http://x/anon"}, nil
}

func (f *FakeShortenerAPI) URLs(ctx context.Context, token string) ([]shortener.Link, error) {
	if f.URLsFunc != nil {
		return f.URLsFunc(ctx, token)
	}
	return []shortener.Link{}, nil
}

func (f *FakeShortenerAPI) Stats(ctx context.Context, token string) (*shortener.Stats, error) {
	if f.StatsFunc != nil {
		return f.StatsFunc(ctx, token)
	}
	return &shortener.Stats{}, nil
}

type recordingClipboard struct {
	text string
}

func (r *recordingClipboard) WriteText(text string) error {
	r.text = text
	return nil
}

func newTestController(t *testing.T, api *FakeShortenerAPI, initial *session.Session) (*popup.Controller, *recordingClipboard) {
	t.Helper()
	clip := &recordingClipboard{}
	ctl, err := popup.New(context.Background(), api, session.NewMemoryStore(initial), clip)
	require.NoError(t, err)
	return ctl, clip
}
