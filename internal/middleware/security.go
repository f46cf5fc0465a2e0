package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fittrack/fittrack/internal/config"
)

// SecurityHeaders sets the CSP and related headers. It must run after NonceMiddleware.
// Export downloads may redirect to the configured S3 endpoint, so it is allowed as a connect source.
func SecurityHeaders(cfg *config.Config) func(http.Handler) http.Handler {
	connectSrc := []string{"'self'"}
	if cfg.S3Endpoint != "" {
		connectSrc = append(connectSrc, cfg.S3Endpoint)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce := GetNonce(r.Context())

			csp := []string{
				"default-src 'self'",
				fmt.Sprintf("script-src 'self' 'nonce-%s' https://cdn.tailwindcss.com https://unpkg.com", nonce),
				"style-src 'self' 'unsafe-inline'",
				"img-src 'self' data:",
				"connect-src " + strings.Join(connectSrc, " "),
				"frame-ancestors 'none'",
				"base-uri 'self'",
				"form-action 'self'",
			}

			h := w.Header()
			h.Set("Content-Security-Policy", strings.Join(csp, "; "))
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if cfg.IsProduction() {
				h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
