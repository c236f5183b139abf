package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/studyhall/studyhall-api/internal/data"
	"github.com/studyhall/studyhall-api/internal/domain/model"
	apperrors "github.com/studyhall/studyhall-api/internal/errors"
	"github.com/studyhall/studyhall-api/internal/ports"
)

// ProfileServiceOptions groups dependencies for ProfileService.
type ProfileServiceOptions struct {
	Profiles ports.ProfileRepository
	Logger   *slog.Logger
}

// ProfileService handles profile preference updates.
type ProfileService struct {
	profiles ports.ProfileRepository
	logger   *slog.Logger
}

// NewProfileService constructs a new ProfileService.
func NewProfileService(opts ProfileServiceOptions) *ProfileService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{profiles: opts.Profiles, logger: logger}
}

// UpdateTheme stores the user's theme preference and returns the
// updated profile.
func (s *ProfileService) UpdateTheme(ctx context.Context, userID, theme string) (*model.Profile, error) {
	parsed, ok := model.ParseTheme(theme)
	if !ok {
		return nil, apperrors.ValidationField("theme", "Theme must be 'light' or 'dark'.")
	}

	profile, err := s.profiles.UpdateTheme(ctx, userID, parsed)
	if err != nil {
		if errors.Is(err, data.ErrProfileNotFound) {
			return nil, apperrors.NotFound("Profile not found.")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to update theme.")
	}

	s.logger.InfoContext(ctx, "theme updated", "user_id", userID, "theme", parsed)
	return profile, nil
}
