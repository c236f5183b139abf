package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Identity represents the identity provider's authoritative user record.
// It is created once (signup or first Google login) and referenced, never
// mutated, by this system.
type Identity struct {
	ID             string // stable user identifier (provider UUID)
	Email          string
	EmailConfirmed bool
}

// GoogleIdentity carries the verified claims of a Google ID token that
// this system cares about.
type GoogleIdentity struct {
	Email     string
	Name      string
	GivenName string
	Picture   string
}

// ExtraClaims are the display claims merged into a session token beyond
// the subject and email.
type ExtraClaims struct {
	Name      string
	GivenName string
	Picture   string
}

// Claims is the decoded session-token claim set attached to a request as
// the authenticated principal. Validity is determined solely by signature
// and expiry; there is no server-side session state.
type Claims struct {
	Subject   string    `json:"sub"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	GivenName string    `json:"given_name"`
	Picture   string    `json:"picture,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the claim set's validity window has passed.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// EmailLocalPart returns the part of an email address before the "@".
// It is the default display name for profiles created without one.
func EmailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// FirstName returns the leading space-separated word of a display name,
// used for the given_name token claim when Google supplies none.
func FirstName(displayName string) string {
	if i := strings.Index(displayName, " "); i >= 0 {
		return displayName[:i]
	}
	return displayName
}
