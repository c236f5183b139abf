package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DevJWTSecret is the signing-key fallback used when no JWT_SECRET is set
// in development mode. Production startup fails without an explicit secret.
const DevJWTSecret = "dev-secret-change-me"

// LookupMode selects how the identity provider's directory is searched
// when reconciling a Google login for an email without a local profile.
type LookupMode string

const (
	// LookupModeFilter uses the provider-side filtered user query.
	LookupModeFilter LookupMode = "filter"
	// LookupModeScan pages through the provider's full user listing.
	LookupModeScan LookupMode = "scan"
)

// UnmarshalText implements encoding.TextUnmarshaler for LookupMode.
func (m *LookupMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "filter", "scan":
		*m = LookupMode(v)
		return nil
	default:
		return fmt.Errorf("invalid LookupMode: %q (valid options: filter, scan)", v)
	}
}

// IdentityProviderConfig holds the connection surface of the hosted
// auth/user-identity service. The service key is an admin credential and
// must never reach the client.
type IdentityProviderConfig struct {
	URL        string `env:"URL"`
	ServiceKey string `env:"SERVICE_KEY"`

	// Lookup selects the directory-search strategy, fixed at startup.
	Lookup LookupMode `env:"LOOKUP" envDefault:"filter"`

	// ScanPerPage and ScanMaxPages bound the paginated listing scan
	// used when Lookup=scan.
	ScanPerPage  int `env:"SCAN_PER_PAGE"  envDefault:"200"`
	ScanMaxPages int `env:"SCAN_MAX_PAGES" envDefault:"20"`
}

// LoginLimitConfig controls password-signin attempt throttling.
// A zero Limit disables throttling entirely.
type LoginLimitConfig struct {
	Limit  int           `env:"LIMIT"  envDefault:"0"`
	Window time.Duration `env:"WINDOW" envDefault:"1m"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// JWTSecret is the symmetric session-token signing key.
	JWTSecret string `env:"JWT_SECRET"`

	// GoogleClientID enables the Google login route. When empty the
	// route rejects every request with a configuration error.
	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`

	// SessionTTL is the session-token validity window.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// IdentityProvider is the hosted auth service connection.
	IdentityProvider IdentityProviderConfig `envPrefix:"IDP_"`

	// LoginLimit throttles password signin attempts.
	LoginLimit LoginLimitConfig `envPrefix:"LOGIN_ATTEMPT_"`
}

// Sanitize applies guardrails to auth configuration. In development the
// JWT secret falls back to a fixed value; see Validate for production.
func (a *AuthConfig) Sanitize(isDev bool) {
	if a.JWTSecret == "" && isDev {
		a.JWTSecret = DevJWTSecret
	}
	if a.SessionTTL <= 0 {
		a.SessionTTL = 168 * time.Hour
	}
	if a.IdentityProvider.ScanPerPage <= 0 {
		a.IdentityProvider.ScanPerPage = 200
	}
	if a.IdentityProvider.ScanMaxPages <= 0 {
		a.IdentityProvider.ScanMaxPages = 20
	}
	if a.LoginLimit.Window <= 0 {
		a.LoginLimit.Window = time.Minute
	}
}

// Validate reports configuration errors that must stop startup.
func (a *AuthConfig) Validate() error {
	if a.JWTSecret == "" {
		return errors.New("JWT_SECRET is required outside development mode")
	}
	if a.IdentityProvider.URL == "" {
		return errors.New("IDP_URL is required")
	}
	if a.IdentityProvider.ServiceKey == "" {
		return errors.New("IDP_SERVICE_KEY is required")
	}
	return nil
}
