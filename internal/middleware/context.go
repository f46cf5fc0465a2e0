package middleware

import (
	"net/http"

	"github.com/fittrack/fittrack/internal/config"
	"github.com/fittrack/fittrack/internal/ctxkeys"
)

// Config exposes the public part of cfg to handlers and templates.
// Secrets such as JWTSecret and the S3 keys never reach the context.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	public := cfg.Sanitized()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ctxkeys.WithConfig(r.Context(), public)))
		})
	}
}

// WithURLPath records the request path for navigation highlighting.
func WithURLPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(ctxkeys.WithURLPath(r.Context(), r.URL.Path)))
	})
}
