package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/studyhall-api/internal/domain/model"
	apperrors "github.com/studyhall/studyhall-api/internal/errors"
	"github.com/studyhall/studyhall-api/internal/testutil"
)

func createTestProfile(t *testing.T, db *sql.DB, email string) *model.Profile {
	t.Helper()
	repo := NewProfileRepo(db)
	p, err := repo.Create(context.Background(), model.CreateProfileParams{
		ID:    uuid.NewString(),
		Email: email,
	})
	require.NoError(t, err)
	return p
}

func TestProfileRepo_Create_Defaults(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewProfileRepo(db)
		id := uuid.NewString()

		p, err := repo.Create(context.Background(), model.CreateProfileParams{
			ID:    id,
			Email: "Alice@Example.com",
		})
		require.NoError(t, err)

		assert.Equal(t, id, p.ID)
		assert.Equal(t, "alice@example.com", p.Email, "email is stored lowercased")
		assert.Equal(t, "Alice", p.DisplayName, "display name defaults to the email local part")
		assert.Nil(t, p.AvatarURL)
		assert.Equal(t, model.ProviderEmail, p.Provider)
		assert.Equal(t, model.ThemeLight, p.Theme)
		assert.False(t, p.CreatedAt.IsZero())
		assert.Nil(t, p.UpdatedAt)
	})
}

func TestProfileRepo_Create_GoogleProfile(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewProfileRepo(db)

		p, err := repo.Create(context.Background(), model.CreateProfileParams{
			ID:          uuid.NewString(),
			Email:       "bob@example.com",
			DisplayName: "Bob Dobbs",
			AvatarURL:   "https://lh3.example.com/bob.png",
			Provider:    model.ProviderGoogle,
		})
		require.NoError(t, err)

		assert.Equal(t, "Bob Dobbs", p.DisplayName)
		require.NotNil(t, p.AvatarURL)
		assert.Equal(t, "https://lh3.example.com/bob.png", *p.AvatarURL)
		assert.Equal(t, model.ProviderGoogle, p.Provider)
	})
}

func TestProfileRepo_Create_DuplicateEmail(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewProfileRepo(db)
		createTestProfile(t, db, "dup@example.com")

		_, err := repo.Create(context.Background(), model.CreateProfileParams{
			ID:    uuid.NewString(),
			Email: "DUP@example.com",
		})
		assert.ErrorIs(t, err, ErrProfileExists, "email uniqueness is case-insensitive")
	})
}

func TestProfileRepo_Create_DuplicateID(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewProfileRepo(db)
		existing := createTestProfile(t, db, "one@example.com")

		_, err := repo.Create(context.Background(), model.CreateProfileParams{
			ID:    existing.ID,
			Email: "two@example.com",
		})
		assert.ErrorIs(t, err, ErrProfileExists)
	})
}

func TestProfileRepo_GetByID(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewProfileRepo(db)
		created := createTestProfile(t, db, "get@example.com")

		got, err := repo.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Email, got.Email)

		_, err = repo.GetByID(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestProfileRepo_GetByEmail_CaseInsensitive(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewProfileRepo(db)
		created := createTestProfile(t, db, "case@example.com")

		got, err := repo.GetByEmail(context.Background(), "CASE@Example.COM")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)

		_, err = repo.GetByEmail(context.Background(), "missing@example.com")
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestProfileRepo_ApplyDiff(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		fixed := testutil.TestTime()
		repo := NewProfileRepoWithTimeProvider(db, NewFixedTimeProvider(fixed))
		created := createTestProfile(t, db, "diff@example.com")

		updated, err := repo.ApplyDiff(context.Background(), created.ID, model.ProfileDiff{
			DisplayName: testutil.StringPtr("Diff Name"),
			AvatarURL:   testutil.StringPtr("https://lh3.example.com/new.png"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Diff Name", updated.DisplayName)
		require.NotNil(t, updated.AvatarURL)
		assert.Equal(t, "https://lh3.example.com/new.png", *updated.AvatarURL)
		require.NotNil(t, updated.UpdatedAt)
		assert.WithinDuration(t, fixed, *updated.UpdatedAt, 0)
	})
}

func TestProfileRepo_ApplyDiff_PartialAndEmpty(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewProfileRepo(db)
		created := createTestProfile(t, db, "partial@example.com")

		// Avatar-only diff leaves the display name alone.
		updated, err := repo.ApplyDiff(context.Background(), created.ID, model.ProfileDiff{
			AvatarURL: testutil.StringPtr("https://lh3.example.com/p.png"),
		})
		require.NoError(t, err)
		assert.Equal(t, created.DisplayName, updated.DisplayName)
		require.NotNil(t, updated.AvatarURL)

		// Empty diff degenerates to a fetch without touching updated_at.
		same, err := repo.ApplyDiff(context.Background(), created.ID, model.ProfileDiff{})
		require.NoError(t, err)
		assert.Equal(t, updated.UpdatedAt, same.UpdatedAt)
	})
}

func TestProfileRepo_ApplyDiff_ClearsAvatar(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewProfileRepo(db)
		created := createTestProfile(t, db, "clear@example.com")

		withAvatar, err := repo.ApplyDiff(context.Background(), created.ID, model.ProfileDiff{
			AvatarURL: testutil.StringPtr("https://lh3.example.com/a.png"),
		})
		require.NoError(t, err)
		require.NotNil(t, withAvatar.AvatarURL)

		cleared, err := repo.ApplyDiff(context.Background(), created.ID, model.ProfileDiff{
			AvatarURL: testutil.StringPtr(""),
		})
		require.NoError(t, err)
		assert.Nil(t, cleared.AvatarURL)
	})
}

func TestProfileRepo_ApplyDiff_NotFound(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewProfileRepo(db)

		_, err := repo.ApplyDiff(context.Background(), uuid.NewString(), model.ProfileDiff{
			DisplayName: testutil.StringPtr("Ghost"),
		})
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestProfileRepo_UpdateTheme(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewProfileRepo(db)
		created := createTestProfile(t, db, "theme@example.com")

		updated, err := repo.UpdateTheme(context.Background(), created.ID, model.ThemeDark)
		require.NoError(t, err)
		assert.Equal(t, model.ThemeDark, updated.Theme)
		require.NotNil(t, updated.UpdatedAt)

		_, err = repo.UpdateTheme(context.Background(), created.ID, model.Theme("sepia"))
		assert.ErrorContains(t, err, "invalid theme")

		_, err = repo.UpdateTheme(context.Background(), uuid.NewString(), model.ThemeLight)
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestProfileRepo_MapWriteErr(t *testing.T) {
	repo := &ProfileRepo{}

	t.Run("unique violation becomes exists sentinel", func(t *testing.T) {
		err := repo.mapWriteErr(&pgconn.PgError{Code: pgerrcode.UniqueViolation}, false)
		assert.ErrorIs(t, err, ErrProfileExists)
	})

	t.Run("no rows becomes not-found sentinel when requested", func(t *testing.T) {
		err := repo.mapWriteErr(pgx.ErrNoRows, true)
		assert.ErrorIs(t, err, ErrProfileNotFound)

		err = repo.mapWriteErr(pgx.ErrNoRows, false)
		assert.NotErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("other database errors keep their classification", func(t *testing.T) {
		err := repo.mapWriteErr(&pgconn.PgError{Code: pgerrcode.CheckViolation, ColumnName: "theme"}, true)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, repo.mapWriteErr(nil, true))
	})
}
