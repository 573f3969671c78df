package middleware

import (
	"net/http"
	"strings"
)

// SecurityHeadersMiddleware adds HTTP security headers to all responses.
type SecurityHeadersMiddleware struct {
	isSecure bool // Whether to enable HTTPS-specific headers (true in production)
	csp      string
}

// NewSecurityHeadersMiddleware creates a new security headers middleware.
// Set isSecure to true in production to enable HSTS and other HTTPS-specific
// headers. mediaOrigins are extra image sources, such as the R2 public URL.
func NewSecurityHeadersMiddleware(isSecure bool, mediaOrigins ...string) *SecurityHeadersMiddleware {
	return &SecurityHeadersMiddleware{
		isSecure: isSecure,
		csp:      buildCSP(mediaOrigins),
	}
}

// Handler returns middleware that sets security headers on all responses.
func (m *SecurityHeadersMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent clickjacking - deny all framing
		w.Header().Set("X-Frame-Options", "DENY")

		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Control referrer information
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// XSS protection (legacy but still helpful for older browsers)
		w.Header().Set("X-XSS-Protection", "1; mode=block")

		// HSTS - only in production with HTTPS
		if m.isSecure {
			// max-age=31536000 = 1 year
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		// Content Security Policy. Pages are server-rendered with no
		// third-party scripts; images may come from R2 or a custom domain.
		w.Header().Set("Content-Security-Policy", m.csp)

		// Permissions Policy - disable browser features we don't need
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		next.ServeHTTP(w, r)
	})
}

// buildCSP constructs the Content-Security-Policy header value.
func buildCSP(mediaOrigins []string) string {
	img := "img-src 'self' data:"
	for _, origin := range mediaOrigins {
		if origin = strings.TrimSuffix(strings.TrimSpace(origin), "/"); origin != "" {
			img += " " + origin
		}
	}

	return "default-src 'self'; " +
		"script-src 'self'; " +
		// Styles: self + unsafe-inline for Tailwind's inline styles
		"style-src 'self' 'unsafe-inline'; " +
		img + "; " +
		"font-src 'self'; " +
		"connect-src 'self'; " +
		// Prevent framing by any site
		"frame-ancestors 'none'; " +
		// Restrict base URI to prevent base tag injection
		"base-uri 'self'; " +
		"form-action 'self'"
}
