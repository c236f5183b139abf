package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight, stateful, and suitable for unit tests without codegen.

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/studyhall/studyhall-api/internal/data"
	domainauth "github.com/studyhall/studyhall-api/internal/domain/auth"
	"github.com/studyhall/studyhall-api/internal/domain/model"
	apperrors "github.com/studyhall/studyhall-api/internal/errors"
	"github.com/studyhall/studyhall-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider  = (*FakeIdentityProvider)(nil)
	_ ports.DirectoryLookup   = (*FakeIdentityProvider)(nil)
	_ ports.GoogleVerifier    = (*FakeGoogleVerifier)(nil)
	_ ports.ProfileRepository = (*MemoryProfileRepo)(nil)
	_ ports.LoginLimiter      = (*FakeLoginLimiter)(nil)
)

type fakeUser struct {
	id       string
	email    string
	password string
}

// FakeIdentityProvider simulates the external identity provider with an
// in-memory user table. It doubles as the directory lookup, the way the
// real provider serves both concerns.
type FakeIdentityProvider struct {
	mu     sync.Mutex
	users  map[string]fakeUser // keyed by lowercased email
	nextID int

	// Deleted records ids passed to DeleteIdentity, in order.
	Deleted []string

	// Optional overrides for error injection.
	SignInFunc func(ctx context.Context, email, password string) (domainauth.Identity, error)
	CreateFunc func(ctx context.Context, in ports.CreateIdentityInput) (domainauth.Identity, error)
	DeleteFunc func(ctx context.Context, id string) error
	FindFunc   func(ctx context.Context, email string) (domainauth.Identity, bool, error)
}

// NewFakeIdentityProvider creates an empty FakeIdentityProvider.
func NewFakeIdentityProvider() *FakeIdentityProvider {
	return &FakeIdentityProvider{users: make(map[string]fakeUser)}
}

// Seed registers a user directly, bypassing CreateIdentity, and returns
// its identity.
func (f *FakeIdentityProvider) Seed(email, password string) domainauth.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(email, password)
}

func (f *FakeIdentityProvider) addLocked(email, password string) domainauth.Identity {
	f.nextID++
	u := fakeUser{
		id:       fmt.Sprintf("00000000-0000-0000-0000-%012d", f.nextID),
		email:    strings.ToLower(strings.TrimSpace(email)),
		password: password,
	}
	f.users[u.email] = u
	return domainauth.Identity{ID: u.id, Email: u.email, EmailConfirmed: true}
}

func (f *FakeIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (domainauth.Identity, error) {
	if f.SignInFunc != nil {
		return f.SignInFunc(ctx, email, password)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok || u.password == "" || u.password != password {
		return domainauth.Identity{}, apperrors.Unauthenticated("Invalid credentials.")
	}
	return domainauth.Identity{ID: u.id, Email: u.email, EmailConfirmed: true}, nil
}

func (f *FakeIdentityProvider) CreateIdentity(ctx context.Context, in ports.CreateIdentityInput) (domainauth.Identity, error) {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, in)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(in.Email))
	if _, exists := f.users[key]; exists {
		return domainauth.Identity{}, apperrors.Validation("A user with this email address has already been registered")
	}
	return f.addLocked(in.Email, in.Password), nil
}

func (f *FakeIdentityProvider) DeleteIdentity(ctx context.Context, id string) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.Deleted = append(f.Deleted, id)
	for email, u := range f.users {
		if u.id == id {
			delete(f.users, email)
			break
		}
	}
	return nil
}

func (f *FakeIdentityProvider) FindByEmail(ctx context.Context, email string) (domainauth.Identity, bool, error) {
	if f.FindFunc != nil {
		return f.FindFunc(ctx, email)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return domainauth.Identity{}, false, nil
	}
	return domainauth.Identity{ID: u.id, Email: u.email, EmailConfirmed: true}, true, nil
}

// FakeGoogleVerifier maps raw credentials to Google identities.
type FakeGoogleVerifier struct {
	// Tokens maps an accepted credential to the identity it proves.
	Tokens map[string]domainauth.GoogleIdentity

	// VerifyFunc overrides Verify entirely when set.
	VerifyFunc func(ctx context.Context, raw string) (domainauth.GoogleIdentity, error)
}

// NewFakeGoogleVerifier creates a verifier accepting the given tokens.
func NewFakeGoogleVerifier() *FakeGoogleVerifier {
	return &FakeGoogleVerifier{Tokens: make(map[string]domainauth.GoogleIdentity)}
}

func (f *FakeGoogleVerifier) Verify(ctx context.Context, raw string) (domainauth.GoogleIdentity, error) {
	if f.VerifyFunc != nil {
		return f.VerifyFunc(ctx, raw)
	}
	g, ok := f.Tokens[raw]
	if !ok {
		return domainauth.GoogleIdentity{}, apperrors.Unauthenticated("Invalid Google login.")
	}
	return g, nil
}

// MemoryProfileRepo is an in-memory profile repository for unit tests.
// It enforces the same id and email uniqueness as the Postgres schema.
type MemoryProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile // keyed by id

	// Optional overrides for error injection.
	CreateFunc      func(ctx context.Context, params model.CreateProfileParams) (*model.Profile, error)
	ApplyDiffFunc   func(ctx context.Context, id string, diff model.ProfileDiff) (*model.Profile, error)
	UpdateThemeFunc func(ctx context.Context, id string, theme model.Theme) (*model.Profile, error)
}

// NewMemoryProfileRepo creates an empty MemoryProfileRepo.
func NewMemoryProfileRepo() *MemoryProfileRepo {
	return &MemoryProfileRepo{profiles: make(map[string]*model.Profile)}
}

// The fakes return the data-layer sentinels so errors.Is checks in the
// services behave the same as against the real repository.
var (
	errProfileNotFound = data.ErrProfileNotFound
	errProfileExists   = data.ErrProfileExists
)

func (f *MemoryProfileRepo) GetByID(_ context.Context, id string) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[id]
	if !ok {
		return nil, errProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *MemoryProfileRepo) GetByEmail(_ context.Context, email string) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(email))
	for _, p := range f.profiles {
		if strings.ToLower(p.Email) == needle {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errProfileNotFound
}

func (f *MemoryProfileRepo) Create(ctx context.Context, params model.CreateProfileParams) (*model.Profile, error) {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, params)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.profiles[params.ID]; exists {
		return nil, errProfileExists
	}
	email := strings.ToLower(strings.TrimSpace(params.Email))
	for _, p := range f.profiles {
		if strings.ToLower(p.Email) == email {
			return nil, errProfileExists
		}
	}

	profile := &model.Profile{
		ID:          params.ID,
		Email:       email,
		DisplayName: params.DisplayName,
		Provider:    params.Provider,
		Theme:       model.ThemeLight,
	}
	if strings.TrimSpace(params.AvatarURL) != "" {
		a := strings.TrimSpace(params.AvatarURL)
		profile.AvatarURL = &a
	}
	f.profiles[params.ID] = profile

	cp := *profile
	return &cp, nil
}

func (f *MemoryProfileRepo) ApplyDiff(ctx context.Context, id string, diff model.ProfileDiff) (*model.Profile, error) {
	if f.ApplyDiffFunc != nil {
		return f.ApplyDiffFunc(ctx, id, diff)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[id]
	if !ok {
		return nil, errProfileNotFound
	}
	if diff.DisplayName != nil {
		p.DisplayName = strings.TrimSpace(*diff.DisplayName)
	}
	if diff.AvatarURL != nil {
		if strings.TrimSpace(*diff.AvatarURL) == "" {
			p.AvatarURL = nil
		} else {
			a := strings.TrimSpace(*diff.AvatarURL)
			p.AvatarURL = &a
		}
	}
	cp := *p
	return &cp, nil
}

func (f *MemoryProfileRepo) UpdateTheme(ctx context.Context, id string, theme model.Theme) (*model.Profile, error) {
	if f.UpdateThemeFunc != nil {
		return f.UpdateThemeFunc(ctx, id, theme)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[id]
	if !ok {
		return nil, errProfileNotFound
	}
	p.Theme = theme
	cp := *p
	return &cp, nil
}

// FakeLoginLimiter records attempts and answers from a script.
type FakeLoginLimiter struct {
	mu       sync.Mutex
	attempts []string

	// Deny rejects every attempt when true.
	Deny bool
	// Err is returned from Allow when set.
	Err error
}

func (f *FakeLoginLimiter) Allow(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.attempts = append(f.attempts, key)
	if f.Err != nil {
		return false, f.Err
	}
	return !f.Deny, nil
}

// Attempts returns the keys passed to Allow, in order.
func (f *FakeLoginLimiter) Attempts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.attempts...)
}
