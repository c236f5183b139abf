package config

import "strings"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// ClientOrigins is the comma-separated allow-list of origins
	// permitted to make credentialed cross-origin requests.
	ClientOrigins []string `env:"CLIENT_ORIGIN" envSeparator:"," envDefault:"http://localhost:5173"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	origins := make([]string, 0, len(h.ClientOrigins))
	for _, o := range h.ClientOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	h.ClientOrigins = origins

	if h.Addr == "" {
		h.Addr = ":8080"
	}
}
