package httpx

import (
	"net/http"
	"time"

	"github.com/studyhall/studyhall-api/internal/adapters/sessiontoken"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "auth_token"

// SessionCookie writes and clears the session cookie. The cookie is
// HttpOnly and SameSite=Lax; Secure is on outside development so local
// plain-HTTP frontends keep working.
type SessionCookie struct {
	// Domain is set on the cookie when non-empty.
	Domain string
	// Secure marks the cookie HTTPS-only.
	Secure bool
	// TTL bounds the cookie lifetime. Defaults to the session token TTL.
	TTL time.Duration
}

func (c SessionCookie) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return sessiontoken.DefaultTTL
}

// Set writes the session cookie with the given token.
func (c SessionCookie) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   int(c.ttl() / time.Second),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie. Both MaxAge and Expires are set so
// clients on either attribute drop it immediately.
func (c SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadSessionToken returns the session token from the request cookie, or "" when absent.
func ReadSessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
