// Package data implements Postgres-backed repositories.
package data

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/studyhall/studyhall-api/internal/data/pgxutil"
	"github.com/studyhall/studyhall-api/internal/domain/model"
	apperrors "github.com/studyhall/studyhall-api/internal/errors"
)

// ProfileRepo provides database operations for profiles. The id column
// is the identity-provider user id, so inserts never generate keys.
type ProfileRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewProfileRepo creates a new ProfileRepo with real time provider.
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewProfileRepoWithTimeProvider creates a new ProfileRepo with a custom time provider (useful for tests).
func NewProfileRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ProfileRepo {
	return &ProfileRepo{DB: db, timeProvider: tp}
}

// SQL query constants for static queries.
const (
	profileGetByIDQuery = `
		SELECT id, email, display_name, avatar_url, provider, theme, created_at, updated_at
		FROM profiles
		WHERE id = $1`

	profileGetByEmailQuery = `
		SELECT id, email, display_name, avatar_url, provider, theme, created_at, updated_at
		FROM profiles
		WHERE lower(email) = lower($1)`
)

// Create inserts a new profile row.
func (r *ProfileRepo) Create(ctx context.Context, params model.CreateProfileParams) (*model.Profile, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var avatar *string
	if strings.TrimSpace(params.AvatarURL) != "" {
		a := strings.TrimSpace(params.AvatarURL)
		avatar = &a
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Profile
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO profiles (
				id, email, display_name, avatar_url, provider, theme, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7
			) RETURNING id, email, display_name, avatar_url, provider, theme, created_at, updated_at
		`,
			params.ID,
			strings.ToLower(strings.TrimSpace(params.Email)),
			params.DisplayName,
			avatar,
			params.Provider,
			model.ThemeLight,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Profile])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a profile by identity id.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	return r.getByQuery(ctx, profileGetByIDQuery, "failed to get profile by ID", id)
}

// GetByEmail retrieves a profile by email, case-insensitively.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	return r.getByQuery(ctx, profileGetByEmailQuery, "failed to get profile by email", strings.TrimSpace(email))
}

// ApplyDiff applies a reconciliation diff and returns the updated row.
// An empty diff degenerates to a plain fetch.
func (r *ProfileRepo) ApplyDiff(ctx context.Context, id string, diff model.ProfileDiff) (*model.Profile, error) {
	if diff.Empty() {
		return r.GetByID(ctx, id)
	}

	setClause, args := r.buildDiffClause(diff)
	args = append(args, id)
	query := "UPDATE profiles SET " + setClause +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING id, email, display_name, avatar_url, provider, theme, created_at, updated_at"

	var out model.Profile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Profile])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// UpdateTheme stores the profile's theme preference.
func (r *ProfileRepo) UpdateTheme(ctx context.Context, id string, theme model.Theme) (*model.Profile, error) {
	if !theme.Valid() {
		return nil, fmt.Errorf("invalid theme %q", theme)
	}

	var out model.Profile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE profiles SET theme = $1, updated_at = $2
			WHERE id = $3
			RETURNING id, email, display_name, avatar_url, provider, theme, created_at, updated_at`,
			theme, r.timeProvider.Now().UTC(), id)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Profile])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// --- helpers ---

// buildDiffClause builds the SQL SET clause and args for a profile diff.
func (r *ProfileRepo) buildDiffClause(diff model.ProfileDiff) (string, []any) {
	setParts := make([]string, 0, 3)
	args := make([]any, 0, 4)
	nextIdx := func() int { return len(args) + 1 }

	if diff.DisplayName != nil {
		setParts = append(setParts, fmt.Sprintf("display_name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*diff.DisplayName))
	}
	if diff.AvatarURL != nil {
		if strings.TrimSpace(*diff.AvatarURL) == "" {
			setParts = append(setParts, "avatar_url = NULL")
		} else {
			setParts = append(setParts, fmt.Sprintf("avatar_url = $%d", nextIdx()))
			args = append(args, strings.TrimSpace(*diff.AvatarURL))
		}
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	return strings.Join(setParts, ", "), args
}

// getByQuery executes a query expected to return a single profile.
func (r *ProfileRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.Profile, error) {
	var profile model.Profile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		profile, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Profile])
		return err
	})
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsNotFound(mapped) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, mapped)
	}
	return &profile, nil
}

// mapWriteErr classifies write failures through the shared database
// error mapping and translates the outcomes this table can produce
// into the package sentinels.
func (r *ProfileRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	mapped := apperrors.MapDBError(err)
	switch {
	case includeNotFound && apperrors.IsNotFound(mapped):
		return ErrProfileNotFound
	case apperrors.IsConflict(mapped):
		return ErrProfileExists
	}
	return mapped
}
