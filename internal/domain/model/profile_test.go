package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in   string
		want Theme
		ok   bool
	}{
		{"light", ThemeLight, true},
		{"DARK", ThemeDark, true},
		{"  dark ", ThemeDark, true},
		{"sepia", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseTheme(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestCreateProfileParams_Validate(t *testing.T) {
	t.Run("defaults display name to email local part", func(t *testing.T) {
		p := CreateProfileParams{ID: "u-1", Email: "a@x.com"}
		require.NoError(t, p.Validate())
		assert.Equal(t, "a", p.DisplayName)
		assert.Equal(t, ProviderEmail, p.Provider)
	})

	t.Run("keeps provided display name", func(t *testing.T) {
		p := CreateProfileParams{ID: "u-1", Email: "a@x.com", DisplayName: "Ada"}
		require.NoError(t, p.Validate())
		assert.Equal(t, "Ada", p.DisplayName)
	})

	t.Run("requires id and email", func(t *testing.T) {
		p := CreateProfileParams{Email: "a@x.com"}
		assert.Error(t, p.Validate())

		p = CreateProfileParams{ID: "u-1"}
		assert.Error(t, p.Validate())
	})

	t.Run("rejects oversized display name", func(t *testing.T) {
		p := CreateProfileParams{ID: "u-1", Email: "a@x.com", DisplayName: strings.Repeat("x", 256)}
		assert.Error(t, p.Validate())
	})
}

func TestProfile_HasCustomDisplayName(t *testing.T) {
	p := Profile{Email: "jane@x.com", DisplayName: "jane"}
	assert.False(t, p.HasCustomDisplayName(), "local-part default is not custom")

	p.DisplayName = ""
	assert.False(t, p.HasCustomDisplayName())

	p.DisplayName = "Jane Doe"
	assert.True(t, p.HasCustomDisplayName())

	// Signup with a mixed-case email stores the email lowercased but
	// defaults the display name from the raw input.
	p = Profile{Email: "alice@example.com", DisplayName: "Alice"}
	assert.False(t, p.HasCustomDisplayName(), "mixed-case default is still the default")
}

func TestProfileDiff_Empty(t *testing.T) {
	assert.True(t, ProfileDiff{}.Empty())

	name := "Jane"
	assert.False(t, ProfileDiff{DisplayName: &name}.Empty())

	avatar := "https://pic"
	assert.False(t, ProfileDiff{AvatarURL: &avatar}.Empty())
}
