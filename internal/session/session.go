// Package session holds the signed-in user's bearer token and persists it
// between runs.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the authenticated-user context. A session with an empty Token
// is treated as absent.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// Valid reports whether s carries a token.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}

// Store persists at most one session.
type Store interface {
	// Load returns nil, nil when nothing is stored.
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

var ErrEmptyToken = errors.New("session: refusing to save an empty token")

// ErrCorrupt is returned by Load when the stored entry cannot be decoded.
var ErrCorrupt = errors.New("stored session is corrupt")

// Claims is what the client can read from the token without the server's key.
type Claims struct {
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the claims carry an expiry before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Inspect decodes the token's JWT claims without verifying the signature.
// The backend issues HS256 tokens with user_id and exp; other token formats
// return an error and are still usable as opaque bearer tokens.
func (s Session) Inspect() (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return Claims{}, err
	}

	var out Claims
	if uid, ok := claims["user_id"].(string); ok {
		out.UserID = uid
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return out, err
	}
	if exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
