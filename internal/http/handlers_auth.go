package httpx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	domainauth "github.com/studyhall/studyhall-api/internal/domain/auth"
	"github.com/studyhall/studyhall-api/internal/domain/model"
	apperrors "github.com/studyhall/studyhall-api/internal/errors"
	"github.com/studyhall/studyhall-api/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Signup(ctx context.Context, input service.SignupInput) (*service.SessionResult, error)
	SignIn(ctx context.Context, email, password, clientIP string) (*service.SessionResult, error)
	GoogleLogin(ctx context.Context, credential string) (*service.SessionResult, error)
	CurrentUser(ctx context.Context, userID string) (*model.Profile, error)
	VerifyToken(token string) (domainauth.Claims, error)
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc     AuthServiceInterface
	Cookies SessionCookie
	Logger  *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// sessionResponse is the wire shape of a successful auth operation. The
// token is returned in the body as well as the cookie so non-browser
// clients can use bearer-style storage.
type sessionResponse struct {
	Token string         `json:"token"`
	User  *model.Profile `json:"user"`
}

// Signup handles account creation.
// POST /api/auth/signup {"email", "password", "displayName"?}.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Signup(r.Context(), service.SignupInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.writeAuthError(r, w, "signup failed", err)
		return
	}

	h.Cookies.Set(w, result.Token)
	WriteJSON(w, http.StatusCreated, sessionResponse{Token: result.Token, User: result.Profile})
}

// SignIn handles password login.
// POST /api/auth/signin {"email", "password"}.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.SignIn(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		h.writeAuthError(r, w, "signin failed", err)
		return
	}

	h.Cookies.Set(w, result.Token)
	WriteJSON(w, http.StatusOK, sessionResponse{Token: result.Token, User: result.Profile})
}

// Google handles Google ID-token login.
// POST /api/auth/google {"credential"}.
func (h *AuthHandlers) Google(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Credential string `json:"credential"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.GoogleLogin(r.Context(), req.Credential)
	if err != nil {
		h.writeAuthError(r, w, "google login failed", err)
		return
	}

	h.Cookies.Set(w, result.Token)
	WriteJSON(w, http.StatusOK, sessionResponse{Token: result.Token, User: result.Profile})
}

// Logout clears the session cookie. Tokens are stateless, so there is
// nothing to revoke server-side; an already-issued token stays valid
// until it expires.
// POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, _ *http.Request) {
	h.Cookies.Clear(w)
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me returns the profile of the authenticated user.
// GET /api/auth/me (behind RequireAuth).
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		WriteAppError(w, apperrors.Unauthenticated("Not authenticated."))
		return
	}

	profile, err := h.Svc.CurrentUser(r.Context(), claims.Subject)
	if err != nil {
		h.writeAuthError(r, w, "load current user failed", err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"user": profile})
}

// clientIP extracts the requesting client's address for throttle
// scoping, preferring the first hop of X-Forwarded-For when a proxy
// supplied one.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.Index(fwd, ","); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeAuthError logs server-side failures and writes the mapped error
// response. Client-caused errors are not logged to keep noise down.
func (h *AuthHandlers) writeAuthError(r *http.Request, w http.ResponseWriter, msg string, err error) {
	if apperrors.GetCode(err) == apperrors.ErrCodeInternal {
		h.logger().ErrorContext(r.Context(), msg, "error", err)
	}
	WriteAppError(w, err)
}
