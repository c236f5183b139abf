package httpx

import (
	"log/slog"
	"net/http"

	"github.com/studyhall/studyhall-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth    *service.AuthService
	Profile *service.ProfileService
	Cookies SessionCookie
	Logger  *slog.Logger // Logger for handler errors (optional)
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:     services.Auth,
		Cookies: services.Cookies,
		Logger:  services.Logger,
	}
	profileHandlers := &ProfileHandlers{Svc: services.Profile, Logger: services.Logger}

	mux.Handle("GET /api/health", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /api/health", http.HandlerFunc(healthHandler))

	registerAuthRoutes(mux, authHandlers)
	registerProfileRoutes(mux, profileHandlers, services.Auth)

	return mux
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.Handle("POST /api/auth/signup", http.HandlerFunc(h.Signup))
	mux.Handle("POST /api/auth/signin", http.HandlerFunc(h.SignIn))
	mux.Handle("POST /api/auth/google", http.HandlerFunc(h.Google))
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(h.Logout))
	mux.Handle("GET /api/auth/me", RequireAuth(h.Svc)(http.HandlerFunc(h.Me)))
}

func registerProfileRoutes(mux *http.ServeMux, h *ProfileHandlers, verifier TokenVerifier) {
	mux.Handle("PUT /api/profile/theme", RequireAuth(verifier)(http.HandlerFunc(h.UpdateTheme)))
}
