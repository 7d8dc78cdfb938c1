package middleware

import (
	"net/http"

	"github.com/templui/microblog/internal/config"
	"github.com/templui/microblog/internal/ctxkeys"
)

// Config exposes the public part of cfg to handlers and templates.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	public := cfg.Sanitized()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ctxkeys.WithConfig(r.Context(), public)))
		})
	}
}
