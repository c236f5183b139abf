package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/studyhall/studyhall-api/internal/data"
	domainauth "github.com/studyhall/studyhall-api/internal/domain/auth"
	"github.com/studyhall/studyhall-api/internal/domain/model"
	apperrors "github.com/studyhall/studyhall-api/internal/errors"
	"github.com/studyhall/studyhall-api/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider  ports.IdentityProvider
	Directory ports.DirectoryLookup
	// Google is nil when no Google client ID is configured; the Google
	// login operation then reports a configuration error.
	Google   ports.GoogleVerifier
	Profiles ports.ProfileRepository
	Tokens   ports.TokenIssuer
	// Limiter is nil when signin throttling is disabled.
	Limiter ports.LoginLimiter
	Logger  *slog.Logger
}

// AuthService orchestrates signup, signin, and Google login by
// coordinating the identity provider, the profile store, and the token
// issuer. Sessions are stateless signed tokens; nothing is persisted
// per login.
type AuthService struct {
	provider  ports.IdentityProvider
	directory ports.DirectoryLookup
	google    ports.GoogleVerifier
	profiles  ports.ProfileRepository
	tokens    ports.TokenIssuer
	limiter   ports.LoginLimiter
	logger    *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider:  opts.Provider,
		directory: opts.Directory,
		google:    opts.Google,
		profiles:  opts.Profiles,
		tokens:    opts.Tokens,
		limiter:   opts.Limiter,
		logger:    logger,
	}
}

// SessionResult is a freshly issued session token plus the profile it
// was issued for.
type SessionResult struct {
	Token   string
	Profile *model.Profile
}

// SignupInput groups parameters for creating an account.
type SignupInput struct {
	Email       string
	Password    string
	DisplayName string
}

// Signup registers a new identity with the provider, provisions the
// local profile row, and issues a session. If the profile insert fails
// the freshly created identity is deleted again so the two stores do
// not drift apart.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*SessionResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, apperrors.Validation("Email and password are required.")
	}

	identity, err := s.provider.CreateIdentity(ctx, ports.CreateIdentityInput{
		Email:    email,
		Password: input.Password,
		Provider: string(model.ProviderEmail),
	})
	if err != nil {
		return nil, err
	}

	profile, err := s.provisionProfile(ctx, provisionInput{
		identity:        identity,
		displayName:     strings.TrimSpace(input.DisplayName),
		provider:        model.ProviderEmail,
		deleteOnFailure: true,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "account created", "user_id", profile.ID, "provider", profile.Provider)
	return s.issueSession(ctx, profile, domainauth.GoogleIdentity{})
}

// SignIn verifies an email/password pair against the identity provider
// and issues a session for the matching profile. clientIP scopes the
// attempt throttle and may be empty when the transport has no peer
// address.
func (s *AuthService) SignIn(ctx context.Context, email, password, clientIP string) (*SessionResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.Validation("Email and password are required.")
	}

	if s.limiter != nil {
		ok, limitErr := s.limiter.Allow(ctx, loginLimitKey(email, clientIP))
		if limitErr != nil {
			// A broken limiter backend must not lock everyone out.
			s.logger.WarnContext(ctx, "login limiter unavailable, allowing attempt", "error", limitErr)
		} else if !ok {
			return nil, apperrors.RateLimited("Too many login attempts. Try again later.")
		}
	}

	identity, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, data.ErrProfileNotFound) {
			return nil, apperrors.NotFound("Profile not found.")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Server error during signin.")
	}

	return s.issueSession(ctx, profile, domainauth.GoogleIdentity{})
}

// loginLimitKey scopes the signin throttle to the email plus the
// requesting client, so one client's failed attempts cannot exhaust
// the budget for the account's real owner elsewhere.
func loginLimitKey(email, clientIP string) string {
	if clientIP == "" {
		return email
	}
	return email + "|" + clientIP
}

// GoogleLogin verifies a Google ID token and issues a session for the
// matching profile, provisioning identity and profile on first login
// and reconciling display attributes on later ones.
func (s *AuthService) GoogleLogin(ctx context.Context, credential string) (*SessionResult, error) {
	credential = strings.TrimSpace(credential)
	if s.google == nil || credential == "" {
		return nil, apperrors.Config("Google configuration missing.")
	}

	g, err := s.google.Verify(ctx, credential)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByEmail(ctx, g.Email)
	switch {
	case err == nil:
		profile, err = s.reconcileGoogleProfile(ctx, profile, g)
		if err != nil {
			return nil, err
		}
	case errors.Is(err, data.ErrProfileNotFound):
		profile, err = s.provisionGoogleProfile(ctx, g)
		if err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Server error during Google login.")
	}

	return s.issueSession(ctx, profile, g)
}

// CurrentUser returns the profile for a verified session subject.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, data.ErrProfileNotFound) {
			return nil, apperrors.NotFound("Profile not found.")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to load profile.")
	}
	return profile, nil
}

// VerifyToken validates a session token and returns its claims.
func (s *AuthService) VerifyToken(token string) (domainauth.Claims, error) {
	return s.tokens.Verify(token)
}

// --- provisioning and reconciliation ---

type provisionInput struct {
	identity    domainauth.Identity
	displayName string
	avatarURL   string
	provider    model.ProfileProvider
	// deleteOnFailure removes the identity again when the profile
	// insert fails. Only set when this request created the identity.
	deleteOnFailure bool
}

// provisionProfile inserts the profile row for an identity. A unique
// violation means a concurrent request already provisioned the row, so
// the existing profile is fetched and returned instead.
func (s *AuthService) provisionProfile(ctx context.Context, in provisionInput) (*model.Profile, error) {
	profile, err := s.profiles.Create(ctx, model.CreateProfileParams{
		ID:          in.identity.ID,
		Email:       in.identity.Email,
		DisplayName: in.displayName,
		AvatarURL:   in.avatarURL,
		Provider:    in.provider,
	})
	if err == nil {
		return profile, nil
	}

	if errors.Is(err, data.ErrProfileExists) {
		existing, getErr := s.profiles.GetByEmail(ctx, in.identity.Email)
		if getErr != nil {
			return nil, apperrors.Wrap(getErr, apperrors.ErrCodeInternal, "Server error during signup.")
		}
		return existing, nil
	}

	if in.deleteOnFailure {
		if delErr := s.provider.DeleteIdentity(ctx, in.identity.ID); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to delete identity after profile insert failure",
				"user_id", in.identity.ID, "error", delErr)
		}
	}
	return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Server error during signup.")
}

// provisionGoogleProfile finds or creates the provider identity for a
// verified Google user, then inserts the profile row.
func (s *AuthService) provisionGoogleProfile(ctx context.Context, g domainauth.GoogleIdentity) (*model.Profile, error) {
	identity, found, err := s.directory.FindByEmail(ctx, g.Email)
	if err != nil {
		return nil, err
	}

	created := false
	if !found {
		identity, err = s.provider.CreateIdentity(ctx, ports.CreateIdentityInput{
			Email:    g.Email,
			FullName: g.Name,
			Provider: string(model.ProviderGoogle),
		})
		if err != nil {
			return nil, err
		}
		created = true
	}

	return s.provisionProfile(ctx, provisionInput{
		identity:        identity,
		displayName:     g.Name,
		avatarURL:       g.Picture,
		provider:        model.ProviderGoogle,
		deleteOnFailure: created,
	})
}

// reconcileGoogleProfile folds fresh Google display attributes into an
// existing profile. A display name the user chose themselves is never
// overwritten; only the email local-part default gets replaced.
func (s *AuthService) reconcileGoogleProfile(ctx context.Context, profile *model.Profile, g domainauth.GoogleIdentity) (*model.Profile, error) {
	diff := computeGoogleDiff(profile, g)
	if diff.Empty() {
		return profile, nil
	}

	updated, err := s.profiles.ApplyDiff(ctx, profile.ID, diff)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Server error during Google login.")
	}

	s.logger.InfoContext(ctx, "reconciled profile from google claims", "user_id", profile.ID)
	return updated, nil
}

func computeGoogleDiff(profile *model.Profile, g domainauth.GoogleIdentity) model.ProfileDiff {
	var diff model.ProfileDiff
	if g.Name != "" && g.Name != profile.DisplayName && !profile.HasCustomDisplayName() {
		name := g.Name
		diff.DisplayName = &name
	}
	if g.Picture != "" && g.Picture != profile.Avatar() {
		picture := g.Picture
		diff.AvatarURL = &picture
	}
	return diff
}

// issueSession mints the session token for a profile. Google claims,
// when present, take precedence over stored profile attributes for the
// token's display fields.
func (s *AuthService) issueSession(ctx context.Context, profile *model.Profile, g domainauth.GoogleIdentity) (*SessionResult, error) {
	displayName := profile.DisplayName
	if displayName == "" {
		displayName = domainauth.EmailLocalPart(profile.Email)
	}
	if displayName == "" {
		displayName = "Guest"
	}

	extra := domainauth.ExtraClaims{
		Name:      displayName,
		GivenName: domainauth.FirstName(displayName),
	}
	if g.Name != "" {
		extra.Name = g.Name
	}
	if g.GivenName != "" {
		extra.GivenName = g.GivenName
	}
	if g.Picture != "" {
		extra.Picture = g.Picture
	}

	token, err := s.tokens.Issue(profile, extra)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to issue session token", "user_id", profile.ID, "error", err)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to issue session.")
	}

	return &SessionResult{Token: token, Profile: profile}, nil
}
