package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkpop/cli/internal/popup"
	"github.com/linkpop/cli/internal/session"
	"github.com/linkpop/cli/pkg/shortener"
)

func TestShorten_AnonymousCopiesAndOpens(t *testing.T) {
	setupStdoutCapture(t)
	api := &FakeShortenerAPI{
		ShortenAnonymousFunc: func(ctx context.Context, longURL string) (*shortener.ShortenResponse, error) {
			assert.Equal(t, "https://example.com", longURL)
			return &shortener.ShortenResponse{ShortURL: "http://x/abc"}, nil
		},
	}
	ctl, clip := newTestController(t, api, nil)

	var opened string
	l := LinksCmd{ctl: ctl, open: func(url string) error {
		opened = url
		return nil
	}}
	err := l.Shorten(context.Background(), ShortenInput{URL: " https://example.com ", Copy: true, Open: true})
	require.NoError(t, err)

	out := outBuf.String()
	assert.Contains(t, out, "http://x/abc")
	assert.Contains(t, out, "Copied to clipboard!")
	assert.Contains(t, out, "Anonymous links expire")
	assert.Equal(t, "http://x/abc", clip.text)
	assert.Equal(t, "http://x/abc", opened)
}

func TestShorten_ErrorMessage(t *testing.T) {
	setupStdoutCapture(t)
	api := &FakeShortenerAPI{
		ShortenAnonymousFunc: func(ctx context.Context, longURL string) (*shortener.ShortenResponse, error) {
			return nil, &shortener.APIError{StatusCode: http.StatusBadRequest, Message: "bad url"}
		},
	}
	ctl, _ := newTestController(t, api, nil)

	err := LinksCmd{ctl: ctl}.Shorten(context.Background(), ShortenInput{URL: "nope"})
	require.Error(t, err)
	assert.Equal(t, "Error: bad url", err.Error())
	assert.False(t, ctl.View().CopyVisible)
}

func TestShorten_JSON(t *testing.T) {
	setupStdoutCapture(t)
	ctl, _ := newTestController(t, &FakeShortenerAPI{}, &session.Session{Token: "tok"})

	out := captureStdout(t, func() {
		require.NoError(t, LinksCmd{ctl: ctl}.Shorten(context.Background(), ShortenInput{URL: "https://example.com", Output: "json"}))
	})

	var got shortenOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "http://x/auth", got.ShortURL)
	assert.True(t, got.Authenticated)
}

func TestHistory_RequiresLogin(t *testing.T) {
	setupStdoutCapture(t)
	ctl, _ := newTestController(t, &FakeShortenerAPI{}, nil)

	err := LinksCmd{ctl: ctl}.History(context.Background(), HistoryInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, popup.ErrLoginRequired))
	assert.Equal(t, popup.LoginRequiredNotice, err.Error())
	assert.Equal(t, popup.PanelShorten, ctl.View().Active)
}

func TestHistory_Table(t *testing.T) {
	setupStdoutCapture(t)
	api := &FakeShortenerAPI{
		URLsFunc: func(ctx context.Context, token string) ([]shortener.Link, error) {
			return []shortener.Link{{
				ShortCode: "abc",
				LongURL:   "https://example.com",
				ShortURL:  "http://x/abc",
				CreatedAt: shortener.Timestamp{Time: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
				Clicks:    4,
			}}, nil
		},
	}
	ctl, _ := newTestController(t, api, &session.Session{Token: "tok"})

	require.NoError(t, LinksCmd{ctl: ctl}.History(context.Background(), HistoryInput{}))
	out := outBuf.String()
	assert.Contains(t, out, "Code")
	assert.Contains(t, out, "abc")
	assert.Contains(t, out, "https://example.com")
	assert.Contains(t, out, "http://x/abc")
}

func TestHistory_Empty(t *testing.T) {
	setupStdoutCapture(t)
	ctl, _ := newTestController(t, &FakeShortenerAPI{}, &session.Session{Token: "tok"})

	require.NoError(t, LinksCmd{ctl: ctl}.History(context.Background(), HistoryInput{}))
	assert.Contains(t, outBuf.String(), popup.NoURLsFound)
}

func TestHistory_JSONEmptyIsArray(t *testing.T) {
	setupStdoutCapture(t)
	ctl, _ := newTestController(t, &FakeShortenerAPI{}, &session.Session{Token: "tok"})

	out := captureStdout(t, func() {
		require.NoError(t, LinksCmd{ctl: ctl}.History(context.Background(), HistoryInput{Output: "json"}))
	})
	assert.Equal(t, "[]\n", out)
}

func TestHistory_BackendError(t *testing.T) {
	setupStdoutCapture(t)
	api := &FakeShortenerAPI{
		URLsFunc: func(ctx context.Context, token string) ([]shortener.Link, error) {
			return nil, &shortener.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid or expired token"}
		},
	}
	ctl, _ := newTestController(t, api, &session.Session{Token: "tok"})

	err := LinksCmd{ctl: ctl}.History(context.Background(), HistoryInput{})
	require.Error(t, err)
	assert.Equal(t, "Error: Invalid or expired token", err.Error())
	assert.True(t, shortener.IsUnauthorized(err))
}

func TestStats_Table(t *testing.T) {
	setupStdoutCapture(t)
	api := &FakeShortenerAPI{
		StatsFunc: func(ctx context.Context, token string) (*shortener.Stats, error) {
			return &shortener.Stats{TotalURLsShortened: 12, UniqueClicks: 5, GeoLocation: "Berlin, Germany"}, nil
		},
	}
	ctl, _ := newTestController(t, api, &session.Session{Token: "tok"})

	require.NoError(t, LinksCmd{ctl: ctl}.Stats(context.Background(), StatsInput{}))
	out := outBuf.String()
	assert.Contains(t, out, "Links Shortened")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "Berlin, Germany")
}

func TestOutputValidation(t *testing.T) {
	ctl, _ := newTestController(t, &FakeShortenerAPI{}, nil)
	l := LinksCmd{ctl: ctl}

	assert.ErrorContains(t, l.Shorten(context.Background(), ShortenInput{URL: "x", Output: "yaml"}), "unsupported --output")
	assert.ErrorContains(t, l.History(context.Background(), HistoryInput{Output: "yaml"}), "unsupported --output")
	assert.ErrorContains(t, l.Stats(context.Background(), StatsInput{Output: "yaml"}), "unsupported --output")
}
