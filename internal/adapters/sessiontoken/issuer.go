package sessiontoken

// Package sessiontoken mints and verifies the signed session tokens that
// ride in the auth cookie. Tokens are stateless: there is no server-side
// session record and no revocation list, so validity is signature plus
// expiry and nothing else.

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/studyhall/studyhall-api/internal/errors"

	domainauth "github.com/studyhall/studyhall-api/internal/domain/auth"
	"github.com/studyhall/studyhall-api/internal/domain/model"
)

// DefaultTTL is the session validity window. Re-authentication is
// required after expiry; there is no refresh or sliding expiration.
const DefaultTTL = 7 * 24 * time.Hour

// sessionClaims is the wire claim set: {sub, email, name, given_name,
// picture?, iat, exp}.
type sessionClaims struct {
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	GivenName string `json:"given_name,omitempty"`
	Picture   string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens with a process-wide symmetric
// secret loaded once at startup.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// IssuerOptions configures an Issuer. Secret is required; TTL defaults
// to DefaultTTL and Now to time.Now (override in tests).
type IssuerOptions struct {
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

// NewIssuer constructs an Issuer.
func NewIssuer(opts IssuerOptions) (*Issuer, error) {
	if opts.Secret == "" {
		return nil, errors.New("session token: signing secret is required")
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Issuer{secret: []byte(opts.Secret), ttl: ttl, now: now}, nil
}

// Issue mints a token for the profile. sub is always the profile id and
// email the profile email, regardless of which auth path is issuing.
func (i *Issuer) Issue(profile *model.Profile, extra domainauth.ExtraClaims) (string, error) {
	if profile == nil {
		return "", errors.New("session token: profile is required")
	}

	issuedAt := i.now()
	claims := sessionClaims{
		Email:     profile.Email,
		Name:      extra.Name,
		GivenName: extra.GivenName,
		Picture:   extra.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *Issuer) keyFunc(*jwt.Token) (any, error) {
	return i.secret, nil
}

// Verify checks signature and expiry and returns the decoded claims.
// Any failure is a uniform unauthenticated error to avoid leaking which
// check failed.
func (i *Issuer) Verify(raw string) (domainauth.Claims, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims, i.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domainauth.Claims{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthenticated, "Invalid token.")
	}

	out := domainauth.Claims{
		Subject:   claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		GivenName: claims.GivenName,
		Picture:   claims.Picture,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
