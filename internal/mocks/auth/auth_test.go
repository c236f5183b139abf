package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/studyhall-api/internal/data"
	"github.com/studyhall/studyhall-api/internal/domain/model"
	apperrors "github.com/studyhall/studyhall-api/internal/errors"
	"github.com/studyhall/studyhall-api/internal/ports"
)

func TestFakeIdentityProvider_SignInAndCreate(t *testing.T) {
	provider := NewFakeIdentityProvider()
	ctx := context.Background()

	seeded := provider.Seed("seed@example.com", "hunter2")
	assert.NotEmpty(t, seeded.ID)

	got, err := provider.SignInWithPassword(ctx, "SEED@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)

	_, err = provider.SignInWithPassword(ctx, "seed@example.com", "wrong")
	assert.True(t, apperrors.IsUnauthenticated(err))

	created, err := provider.CreateIdentity(ctx, ports.CreateIdentityInput{
		Email: "new@example.com", Password: "pw",
	})
	require.NoError(t, err)
	assert.NotEqual(t, seeded.ID, created.ID)

	_, err = provider.CreateIdentity(ctx, ports.CreateIdentityInput{Email: "new@example.com"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestFakeIdentityProvider_DeleteAndFind(t *testing.T) {
	provider := NewFakeIdentityProvider()
	ctx := context.Background()

	seeded := provider.Seed("gone@example.com", "pw")

	_, found, err := provider.FindByEmail(ctx, "gone@example.com")
	require.NoError(t, err)
	assert.True(t, found)

	require.NoError(t, provider.DeleteIdentity(ctx, seeded.ID))
	assert.Equal(t, []string{seeded.ID}, provider.Deleted)

	_, found, err = provider.FindByEmail(ctx, "gone@example.com")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryProfileRepo_UniquenessAndSentinels(t *testing.T) {
	repo := NewMemoryProfileRepo()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, data.ErrProfileNotFound)

	created, err := repo.Create(ctx, model.CreateProfileParams{ID: "id-1", Email: "A@B.com"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", created.Email)
	assert.Equal(t, "A", created.DisplayName)

	_, err = repo.Create(ctx, model.CreateProfileParams{ID: "id-2", Email: "a@b.com"})
	assert.ErrorIs(t, err, data.ErrProfileExists)

	byEmail, err := repo.GetByEmail(ctx, "A@B.COM")
	require.NoError(t, err)
	assert.Equal(t, "id-1", byEmail.ID)
}

func TestMemoryProfileRepo_Mutations(t *testing.T) {
	repo := NewMemoryProfileRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, model.CreateProfileParams{ID: "id-1", Email: "a@b.com"})
	require.NoError(t, err)

	name := "New Name"
	avatar := "https://img.example.com/a.png"
	updated, err := repo.ApplyDiff(ctx, "id-1", model.ProfileDiff{DisplayName: &name, AvatarURL: &avatar})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.DisplayName)
	require.NotNil(t, updated.AvatarURL)

	themed, err := repo.UpdateTheme(ctx, "id-1", model.ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, themed.Theme)
}

func TestFakeLoginLimiter(t *testing.T) {
	limiter := &FakeLoginLimiter{}

	ok, err := limiter.Allow(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.True(t, ok)

	limiter.Deny = true
	ok, err = limiter.Allow(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, []string{"a@b.com", "a@b.com"}, limiter.Attempts())
}
