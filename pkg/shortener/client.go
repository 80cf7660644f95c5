// Package shortener is a small typed client for the URL-shortening backend.
package shortener

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL   = "http://localhost:5000"
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "linkpop"
)

// Client talks to the backend. Anonymous calls share one resty client;
// authenticated calls get a client whose transport attaches the bearer token.
type Client struct {
	baseURL   string
	timeout   time.Duration
	userAgent string
	transport http.RoundTripper
	logger    resty.Logger

	anon *resty.Client
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTransport replaces the base round tripper (the oauth2 transport wraps it
// for authenticated calls).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.transport = rt
		}
	}
}

// WithLogger routes resty's own warnings and debug output.
func WithLogger(l resty.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New returns a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		transport: http.DefaultTransport,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	c.anon = c.newResty(c.transport)
	return c
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) newResty(rt http.RoundTripper) *resty.Client {
	rc := resty.NewWithClient(&http.Client{Transport: rt, Timeout: c.timeout}).
		SetBaseURL(c.baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", c.userAgent).
		SetError(&errorResponse{})
	if c.logger != nil {
		rc.SetLogger(c.logger)
	}
	return rc
}

func (c *Client) authorized(token string) (*resty.Client, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return c.newResty(&oauth2.Transport{Source: src, Base: c.transport}), nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := do(ctx, c.anon.R().SetBody(creds), http.MethodPost, "/login", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup registers a new user and returns its session token.
func (c *Client) Signup(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := do(ctx, c.anon.R().SetBody(creds), http.MethodPost, "/signup", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Shorten shortens longURL on behalf of the user owning token.
func (c *Client) Shorten(ctx context.Context, token, longURL string) (*ShortenResponse, error) {
	rc, err := c.authorized(token)
	if err != nil {
		return nil, err
	}
	var out ShortenResponse
	if err := do(ctx, rc.R().SetBody(shortenRequest{LongURL: longURL}), http.MethodPost, "/shorten", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ShortenAnonymous shortens longURL without a session. The backend gives
// these links a shorter lifetime.
func (c *Client) ShortenAnonymous(ctx context.Context, longURL string) (*ShortenResponse, error) {
	var out ShortenResponse
	if err := do(ctx, c.anon.R().SetBody(shortenRequest{LongURL: longURL}), http.MethodPost, "/shorten-anonymous", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// URLs lists the user's unexpired links, newest first.
func (c *Client) URLs(ctx context.Context, token string) ([]Link, error) {
	rc, err := c.authorized(token)
	if err != nil {
		return nil, err
	}
	var out urlsResponse
	if err := do(ctx, rc.R(), http.MethodGet, "/urls", &out); err != nil {
		return nil, err
	}
	if out.URLs == nil {
		return []Link{}, nil
	}
	return out.URLs, nil
}

// Stats returns click statistics for the user's links.
func (c *Client) Stats(ctx context.Context, token string) (*Stats, error) {
	rc, err := c.authorized(token)
	if err != nil {
		return nil, err
	}
	var out Stats
	if err := do(ctx, rc.R(), http.MethodGet, "/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping checks that the backend is up and returns its greeting.
func (c *Client) Ping(ctx context.Context) (string, error) {
	var out pingResponse
	if err := do(ctx, c.anon.R(), http.MethodGet, "/test", &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func do(ctx context.Context, req *resty.Request, method, path string, result any) error {
	resp, err := req.SetContext(ctx).SetResult(result).Execute(method, path)
	if err != nil {
		return &transportError{op: method + " " + path, err: err}
	}
	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode()}
		if body, ok := resp.Error().(*errorResponse); ok && body != nil {
			apiErr.Message = body.Error
		}
		return apiErr
	}
	return nil
}
