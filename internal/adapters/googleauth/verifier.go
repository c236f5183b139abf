package googleauth

// Package googleauth verifies Google ID tokens for the Google login
// route. Verification is signature + audience against the configured
// OAuth client id; the adapter fails closed when no client id is set.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/studyhall/studyhall-api/internal/domain/auth"
	apperrors "github.com/studyhall/studyhall-api/internal/errors"
)

// GoogleIssuer is Google's OIDC issuer for ID tokens minted by Google
// Identity Services.
const GoogleIssuer = "https://accounts.google.com"

// Verifier checks Google ID tokens against Google's published JWKS.
type Verifier struct {
	verifier *gooidc.IDTokenVerifier
}

// Config holds configuration for the Google verifier.
type Config struct {
	// ClientID is the OAuth client id tokens must be issued for.
	ClientID string
	// Issuer overrides the Google issuer; used by tests.
	Issuer string
	// HTTPClient is optional, defaults to a 30s-timeout client.
	HTTPClient *http.Client
}

// NewVerifier creates a Verifier. It performs a single discovery fetch
// against the issuer at startup, like any OIDC relying party.
func NewVerifier(ctx context.Context, cfg Config) (*Verifier, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("googleauth: client ID is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	issuer := cfg.Issuer
	if issuer == "" {
		issuer = GoogleIssuer
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	provider, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("googleauth: discover issuer: %w", err)
	}

	return &Verifier{
		verifier: provider.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// Verify checks the raw ID token and returns the identity claims. Every
// verification failure (bad signature, wrong audience, expired) maps to
// one uniform unauthenticated error.
func (v *Verifier) Verify(ctx context.Context, rawIDToken string) (domainauth.GoogleIdentity, error) {
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return domainauth.GoogleIdentity{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthenticated, "Invalid Google login.")
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		GivenName     string `json:"given_name"`
		Picture       string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return domainauth.GoogleIdentity{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthenticated, "Invalid Google login.")
	}
	if claims.Email == "" {
		return domainauth.GoogleIdentity{}, apperrors.Unauthenticated("Invalid Google login.")
	}

	return domainauth.GoogleIdentity{
		Email:     claims.Email,
		Name:      claims.Name,
		GivenName: claims.GivenName,
		Picture:   claims.Picture,
	}, nil
}
