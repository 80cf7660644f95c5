// Package popup implements the session-gated view controller behind every
// linkpop screen: which panel is visible, what the tabs say, and what each
// action leaves on screen.
package popup

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/linkpop/cli/internal/clipboard"
	"github.com/linkpop/cli/internal/logger"
	"github.com/linkpop/cli/internal/session"
	"github.com/linkpop/cli/pkg/shortener"
)

const (
	LoginRequiredNotice = "Please make an account or log in first"
	NoURLsFound         = "No URLs found"
)

var (
	// ErrLoginRequired is returned when a gated panel is requested without a session.
	ErrLoginRequired = errors.New("please make an account or log in first")
	// ErrNothingToCopy is returned by CopyShortURL when no short URL is on screen.
	ErrNothingToCopy = errors.New("no short URL to copy")

	errEmptyToken    = errors.New("backend returned no token")
	errEmptyShortURL = errors.New("backend returned no short URL")
)

// API is the subset of the backend client the controller uses.
type API interface {
	Login(ctx context.Context, creds shortener.Credentials) (*shortener.AuthResponse, error)
	Signup(ctx context.Context, creds shortener.Credentials) (*shortener.AuthResponse, error)
	Shorten(ctx context.Context, token, longURL string) (*shortener.ShortenResponse, error)
	ShortenAnonymous(ctx context.Context, longURL string) (*shortener.ShortenResponse, error)
	URLs(ctx context.Context, token string) ([]shortener.Link, error)
	Stats(ctx context.Context, token string) (*shortener.Stats, error)
}

// Controller owns the active panel and the session. Every operation runs its
// backend and storage calls in order before returning, updates the view, and
// also returns the error it rendered. It is not safe for concurrent use.
type Controller struct {
	api   API
	store session.Store
	clip  clipboard.Writer

	session  *session.Session
	shortURL string
	view     View
}

// New loads the stored session and opens on the default panel. A corrupt
// stored session is discarded and the controller starts signed out.
func New(ctx context.Context, api API, store session.Store, clip clipboard.Writer) (*Controller, error) {
	s, err := store.Load(ctx)
	if errors.Is(err, session.ErrCorrupt) {
		logger.Log.Warnw("discarding unreadable stored session", "error", err)
		if clearErr := store.Clear(ctx); clearErr != nil {
			logger.Log.Warnw("failed to clear stored session", "error", clearErr)
		}
		s, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	c := &Controller{
		api:     api,
		store:   store,
		clip:    clip,
		session: s,
		view:    View{Tabs: initialTabs()},
	}
	c.RefreshAccessibility()
	if err := c.SelectPanel(ctx, DefaultPanel); err != nil {
		return nil, err
	}
	return c, nil
}

// View returns a snapshot of the view-model.
func (c *Controller) View() View {
	return c.view.clone()
}

// Session returns a copy of the current session, or nil.
func (c *Controller) Session() *session.Session {
	if !c.session.Valid() {
		return nil
	}
	s := *c.session
	return &s
}

// SelectPanel makes requested the active panel. A gated panel without a
// session falls back to the default panel and shows the login notice.
// Entering history or stats refreshes it from the backend.
func (c *Controller) SelectPanel(ctx context.Context, requested Panel) error {
	if !requested.Known() {
		return fmt.Errorf("unknown panel %q", requested)
	}

	if requested.RequiresSession() && !c.session.Valid() {
		logger.Log.Debugw("gated panel refused without session", "panel", requested)
		c.view.ShortURL = failure(LoginRequiredNotice)
		c.view.CopyVisible = false
		c.shortURL = ""
		c.activate(DefaultPanel)
		return ErrLoginRequired
	}

	c.activate(requested)

	switch requested {
	case PanelHistory:
		return c.refreshHistory(ctx)
	case PanelStats:
		return c.refreshStats(ctx)
	}
	return nil
}

func (c *Controller) activate(p Panel) {
	c.view.Active = p
	for i := range c.view.Tabs {
		c.view.Tabs[i].Active = c.view.Tabs[i].Panel == p
	}
}

// RefreshAccessibility derives tab visibility and labels from the session.
func (c *Controller) RefreshAccessibility() {
	signedIn := c.session.Valid()
	for i := range c.view.Tabs {
		tab := &c.view.Tabs[i]
		switch {
		case tab.Panel.RequiresSession():
			tab.Hidden = !signedIn
		case tab.Panel == PanelLogin:
			tab.Label = lo.Ternary(signedIn, "Logout", "Login")
		}
	}
	c.view.SignedIn = signedIn
	c.view.UserID = ""
	if signedIn {
		c.view.UserID = c.session.UserID
	}
}

// Activate is the tab-click handler: the login tab logs out when a session
// exists, every other tab goes through SelectPanel.
func (c *Controller) Activate(ctx context.Context, p Panel) error {
	if p == PanelLogin && c.session.Valid() {
		return c.LogOut(ctx)
	}
	return c.SelectPanel(ctx, p)
}

// LogIn exchanges credentials for a session.
func (c *Controller) LogIn(ctx context.Context, username, password string) error {
	return c.authenticate(ctx, c.api.Login, shortener.Credentials{Username: username, Password: password},
		&c.view.LoginMessage, "Login successful!", "Login failed")
}

// SignUp registers a user and signs in as it.
func (c *Controller) SignUp(ctx context.Context, username, password string) error {
	return c.authenticate(ctx, c.api.Signup, shortener.Credentials{Username: username, Password: password},
		&c.view.SignupMessage, "Signup successful! You are now logged in.", "Signup failed")
}

type authFunc func(ctx context.Context, creds shortener.Credentials) (*shortener.AuthResponse, error)

func (c *Controller) authenticate(ctx context.Context, call authFunc, creds shortener.Credentials, msg *Message, okText, failPrefix string) error {
	logger.Log.Debugw("submitting credentials", "action", failPrefix, "username", creds.Username)

	resp, err := call(ctx, creds)
	if err != nil {
		var apiErr *shortener.APIError
		if errors.As(err, &apiErr) {
			*msg = failure(fmt.Sprintf("%s: %s", failPrefix, lo.Ternary(apiErr.Message != "", apiErr.Message, "Unknown error")))
		} else {
			*msg = failure("Error: " + err.Error())
		}
		logger.Log.Debugw("authentication failed", "action", failPrefix, "error", err)
		return err
	}
	if resp.Token == "" {
		*msg = failure(failPrefix + ": Unknown error")
		logger.Log.Warnw("auth response without token", "action", failPrefix)
		return errEmptyToken
	}

	s := session.Session{Token: resp.Token, UserID: resp.UserID}
	if err := c.store.Save(ctx, s); err != nil {
		*msg = failure("Error: " + err.Error())
		return err
	}
	c.session = &s

	*msg = success(okText)
	c.RefreshAccessibility()
	return c.SelectPanel(ctx, PanelShorten)
}

// LogOut forgets the session and returns to the default panel. The
// in-memory session is dropped even when the store fails to clear.
func (c *Controller) LogOut(ctx context.Context) error {
	clearErr := c.store.Clear(ctx)
	if clearErr != nil {
		logger.Log.Warnw("failed to clear stored session", "error", clearErr)
	}

	c.session = nil
	c.view.History = nil
	c.view.Links = nil
	c.view.HistoryPlaceholder = Message{}
	c.view.Stats = nil
	c.view.StatsMessage = Message{}

	c.RefreshAccessibility()
	if err := c.SelectPanel(ctx, PanelShorten); err != nil {
		return err
	}
	if clearErr != nil {
		return fmt.Errorf("failed to clear stored session: %w", clearErr)
	}
	return nil
}

// Shorten shortens longURL through the authenticated endpoint when signed in
// and the anonymous one otherwise.
func (c *Controller) Shorten(ctx context.Context, longURL string) error {
	var (
		resp *shortener.ShortenResponse
		err  error
	)
	if c.session.Valid() {
		logger.Log.Debugw("shortening", "url", longURL, "authenticated", true)
		resp, err = c.api.Shorten(ctx, c.session.Token, longURL)
	} else {
		logger.Log.Debugw("shortening", "url", longURL, "authenticated", false)
		resp, err = c.api.ShortenAnonymous(ctx, longURL)
	}
	if err == nil && resp.ShortURL == "" {
		err = errEmptyShortURL
	}
	if err != nil {
		c.shortURL = ""
		c.view.ShortURL = failure("Error: " + errorText(err, "Failed to shorten URL"))
		c.view.CopyVisible = false
		return err
	}

	c.shortURL = resp.ShortURL
	c.view.ShortURL = neutral(resp.ShortURL)
	c.view.CopyVisible = true
	return nil
}

// ShortURL returns the short URL on screen, or "".
func (c *Controller) ShortURL() string {
	return c.shortURL
}

// CopyShortURL writes the short URL on screen to the clipboard.
func (c *Controller) CopyShortURL() error {
	if !c.view.CopyVisible || c.shortURL == "" {
		return ErrNothingToCopy
	}
	if err := c.clip.WriteText(c.shortURL); err != nil {
		c.view.Notice = failure("Failed to copy to clipboard")
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	c.view.Notice = success("Copied to clipboard!")
	return nil
}

// ClearNotice drops transient feedback once it has been shown.
func (c *Controller) ClearNotice() {
	c.view.Notice = Message{}
}

func (c *Controller) refreshHistory(ctx context.Context) error {
	c.view.History = nil
	c.view.Links = nil
	c.view.HistoryPlaceholder = Message{}

	links, err := c.api.URLs(ctx, c.session.Token)
	if err != nil {
		logger.Log.Debugw("history refresh failed", "error", err)
		c.view.HistoryPlaceholder = failure("Error: " + errorText(err, "Failed to load history"))
		return err
	}
	if len(links) == 0 {
		c.view.HistoryPlaceholder = neutral(NoURLsFound)
		return nil
	}

	c.view.Links = links
	c.view.History = lo.Map(links, func(l shortener.Link, _ int) string {
		return FormatLink(l)
	})
	return nil
}

func (c *Controller) refreshStats(ctx context.Context) error {
	c.view.Stats = nil
	c.view.StatsMessage = Message{}

	stats, err := c.api.Stats(ctx, c.session.Token)
	if err != nil {
		logger.Log.Debugw("stats refresh failed", "error", err)
		c.view.StatsMessage = failure("Error: " + errorText(err, "Failed to load stats"))
		return err
	}
	c.view.Stats = stats
	return nil
}

// errorText prefers the backend's message and falls back when it sent none.
func errorText(err error, fallback string) string {
	var apiErr *shortener.APIError
	if errors.As(err, &apiErr) && apiErr.Message == "" {
		return fallback
	}
	if errors.Is(err, errEmptyShortURL) {
		return fallback
	}
	return err.Error()
}
