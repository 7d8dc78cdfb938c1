package middleware

import (
	"net/http"

	"github.com/templui/microblog/internal/ctxkeys"
)

// WithURLPath records the request path for the navigation bar. The root
// path is recorded as /index since both serve the same page.
func WithURLPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" {
			path = "/index"
		}
		next.ServeHTTP(w, r.WithContext(ctxkeys.WithURLPath(r.Context(), path)))
	})
}
