//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	domainauth "github.com/studyhall/studyhall-api/internal/domain/auth"
)

const maxDisplayNameLen = 255

// Theme is the profile color-scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether the theme is supported.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark:
		return true
	default:
		return false
	}
}

// ParseTheme normalizes a theme string and reports whether it is supported.
func ParseTheme(value string) (Theme, bool) {
	theme := Theme(strings.ToLower(strings.TrimSpace(value)))
	if theme.Valid() {
		return theme, true
	}
	return "", false
}

// ProfileProvider records which authentication path created the profile.
type ProfileProvider string

const (
	ProviderEmail  ProfileProvider = "email"
	ProviderGoogle ProfileProvider = "google"
)

// Profile is this system's local user record extending an Identity with
// display attributes. Exactly one Profile exists per Identity id; the
// id column is the Identity id, not an independent key.
type Profile struct {
	ID          string          `json:"id"                   db:"id"`
	Email       string          `json:"email"                db:"email"`
	DisplayName string          `json:"display_name"         db:"display_name"`
	AvatarURL   *string         `json:"avatar_url,omitempty" db:"avatar_url"`
	Provider    ProfileProvider `json:"provider"             db:"provider"`
	Theme       Theme           `json:"theme"                db:"theme"`
	CreatedAt   time.Time       `json:"created_at"           db:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty" db:"updated_at"`
}

// Avatar returns the avatar URL or "" when none is stored.
func (p *Profile) Avatar() string {
	if p.AvatarURL == nil {
		return ""
	}
	return *p.AvatarURL
}

// HasCustomDisplayName reports whether the user personally set their
// display name, i.e. it differs from the email local-part default.
// Reconciliation must never overwrite a custom name. The comparison is
// case-insensitive: emails are stored lowercased while the default may
// have been derived from the mixed-case input.
func (p *Profile) HasCustomDisplayName() bool {
	return p.DisplayName != "" && !strings.EqualFold(p.DisplayName, domainauth.EmailLocalPart(p.Email))
}

// CreateProfileParams carries the attributes for a new profile row.
type CreateProfileParams struct {
	ID          string
	Email       string
	DisplayName string
	AvatarURL   string
	Provider    ProfileProvider
}

// Validate checks required fields and applies the display-name default.
func (p *CreateProfileParams) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("profile id is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return errors.New("profile email is required")
	}
	if utf8.RuneCountInString(p.DisplayName) > maxDisplayNameLen {
		return errors.New("display name cannot exceed 255 characters")
	}
	if p.DisplayName == "" {
		p.DisplayName = domainauth.EmailLocalPart(p.Email)
	}
	if p.Provider == "" {
		p.Provider = ProviderEmail
	}
	return nil
}

// ProfileDiff is the set of reconciliation updates to apply to a profile.
// Nil fields are left untouched; an empty diff is applied by nobody.
type ProfileDiff struct {
	DisplayName *string
	AvatarURL   *string
}

// Empty reports whether the diff would change nothing.
func (d ProfileDiff) Empty() bool {
	return d.DisplayName == nil && d.AvatarURL == nil
}
