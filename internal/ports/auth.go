package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/data; orchestration
// in internal/service.

import (
	"context"

	domainauth "github.com/studyhall/studyhall-api/internal/domain/auth"
	"github.com/studyhall/studyhall-api/internal/domain/model"
)

// CreateIdentityInput carries the attributes for a new identity-provider
// user. Password may be empty for identities authenticated externally
// (Google); created identities are pre-confirmed either way.
type CreateIdentityInput struct {
	Email    string
	Password string
	FullName string
	Provider string
}

// IdentityProvider verifies and manages user identities on the external
// auth service. All errors are reported as internal/errors AppErrors so
// callers can map them to HTTP statuses without provider knowledge.
type IdentityProvider interface {
	// SignInWithPassword checks an email/password pair and returns the
	// verified identity, or an unauthenticated error on mismatch.
	SignInWithPassword(ctx context.Context, email, password string) (domainauth.Identity, error)

	// CreateIdentity registers a new pre-confirmed identity.
	CreateIdentity(ctx context.Context, in CreateIdentityInput) (domainauth.Identity, error)

	// DeleteIdentity removes an identity. Used only as the compensating
	// step when a profile insert fails after identity creation.
	DeleteIdentity(ctx context.Context, id string) error
}

// DirectoryLookup finds an existing identity by email. The concrete
// strategy (provider-side filtered query vs bounded paginated scan) is
// selected once at startup.
type DirectoryLookup interface {
	// FindByEmail returns the identity and true when found, or false
	// when no identity exists for the email.
	FindByEmail(ctx context.Context, email string) (domainauth.Identity, bool, error)
}

// GoogleVerifier verifies a Google ID token's signature and audience and
// returns the identity claims this system consumes.
type GoogleVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (domainauth.GoogleIdentity, error)
}

// TokenIssuer mints and verifies signed, time-limited session tokens.
// Tokens are stateless: validity is signature plus expiry, nothing else.
type TokenIssuer interface {
	Issue(profile *model.Profile, extra domainauth.ExtraClaims) (string, error)
	Verify(token string) (domainauth.Claims, error)
}

// ProfileRepository persists and retrieves local profile rows.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
	Create(ctx context.Context, params model.CreateProfileParams) (*model.Profile, error)
	// ApplyDiff applies a non-empty reconciliation diff and returns the
	// updated row.
	ApplyDiff(ctx context.Context, id string, diff model.ProfileDiff) (*model.Profile, error)
	UpdateTheme(ctx context.Context, id string, theme model.Theme) (*model.Profile, error)
}

// LoginLimiter throttles password signin attempts per key.
type LoginLimiter interface {
	// Allow reports whether another attempt is permitted for the key.
	Allow(ctx context.Context, key string) (bool, error)
}
