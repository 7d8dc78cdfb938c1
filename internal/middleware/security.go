package middleware

import (
	"fmt"
	"net/http"

	"github.com/templui/microblog/internal/ctxkeys"
)

// SecurityHeaders sets the response security headers. The CSP admits
// only scripts carrying the request nonce; NonceMiddleware must run first.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce := GetNonce(r.Context())

		csp := fmt.Sprintf("default-src 'self'; "+
			"script-src 'self' 'nonce-%s' https://cdn.tailwindcss.com; "+
			"style-src 'self' 'unsafe-inline'; "+
			"img-src 'self' data: http://www.gravatar.com https://www.gravatar.com; "+
			"form-action 'self' https:; "+
			"frame-ancestors 'none'; "+
			"base-uri 'self'", nonce)

		h := w.Header()
		h.Set("Content-Security-Policy", csp)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if cfg := ctxkeys.Config(r.Context()); cfg != nil && cfg.IsProduction() {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
