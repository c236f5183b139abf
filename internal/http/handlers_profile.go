package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/studyhall/studyhall-api/internal/domain/model"
	apperrors "github.com/studyhall/studyhall-api/internal/errors"
)

// ProfileServiceInterface defines the interface for profile operations.
type ProfileServiceInterface interface {
	UpdateTheme(ctx context.Context, userID, theme string) (*model.Profile, error)
}

// ProfileHandlers provides HTTP handlers for profile preferences.
type ProfileHandlers struct {
	Svc    ProfileServiceInterface
	Logger *slog.Logger
}

// UpdateTheme stores the authenticated user's theme preference.
// PUT /api/profile/theme {"theme"}.
func (h *ProfileHandlers) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		WriteAppError(w, apperrors.Unauthenticated("Not authenticated."))
		return
	}

	var req struct {
		Theme string `json:"theme"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	profile, err := h.Svc.UpdateTheme(r.Context(), claims.Subject, req.Theme)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"user": profile})
}
