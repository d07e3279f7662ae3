// Package auth contains domain-level types for authentication and sessions.
// It is free of framework and adapter concerns.
package auth

import (
	"strings"
	"time"
)

// Identity is the authenticated principal returned by an identity provider.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable subject identifier
	Name      string
	Email     string
	ExpiresAt time.Time // absolute expiry from the IdP token, zero when unknown
}

// Session is the server-side record persisted for a signed-in user.
// ID is an opaque session identifier.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DisplayName prefers the name and falls back to the email.
func (s Session) DisplayName() string {
	if n := strings.TrimSpace(s.Name); n != "" {
		return n
	}
	return s.Email
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
