package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/studyhall/studyhall-api/internal/data"
	"github.com/studyhall/studyhall-api/internal/domain/model"
	apperrors "github.com/studyhall/studyhall-api/internal/errors"
	"github.com/studyhall/studyhall-api/internal/mocks"
)

func TestProfileService_UpdateTheme(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockProfileRepository(ctrl)
	svc := NewProfileService(ProfileServiceOptions{Profiles: repo})

	want := &model.Profile{ID: "id-1", Email: "a@x.com", Theme: model.ThemeDark}
	repo.EXPECT().
		UpdateTheme(gomock.Any(), "id-1", model.ThemeDark).
		Return(want, nil)

	got, err := svc.UpdateTheme(context.Background(), "id-1", "Dark")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestProfileService_UpdateTheme_InvalidTheme(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockProfileRepository(ctrl)
	svc := NewProfileService(ProfileServiceOptions{Profiles: repo})

	_, err := svc.UpdateTheme(context.Background(), "id-1", "sepia")
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "theme", apperrors.GetField(err))
}

func TestProfileService_UpdateTheme_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockProfileRepository(ctrl)
	svc := NewProfileService(ProfileServiceOptions{Profiles: repo})

	repo.EXPECT().
		UpdateTheme(gomock.Any(), "ghost", model.ThemeLight).
		Return(nil, data.ErrProfileNotFound)

	_, err := svc.UpdateTheme(context.Background(), "ghost", "light")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Profile not found.", apperrors.GetMessage(err))
}

func TestProfileService_UpdateTheme_RepoFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockProfileRepository(ctrl)
	svc := NewProfileService(ProfileServiceOptions{Profiles: repo})

	repo.EXPECT().
		UpdateTheme(gomock.Any(), "id-1", model.ThemeDark).
		Return(nil, errors.New("connection reset"))

	_, err := svc.UpdateTheme(context.Background(), "id-1", "dark")
	assert.True(t, apperrors.IsInternal(err))
}
