package middleware

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/templui/microblog/internal/ctxkeys"
	"github.com/templui/microblog/internal/model"
	"github.com/templui/microblog/internal/service"
)

// AuthMiddleware runs before every request: it attaches the principal to
// the context and records activity for authenticated users.
func AuthMiddleware(sessionService *service.SessionService, userService *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := sessionService.Principal(w, r)

			if user, ok := model.CurrentUser(principal); ok {
				err := userService.Touch(r.Context(), user)
				if err != nil {
					// Losing one last_seen update must not fail the request
					slog.Warn("failed to update last_seen", "error", err, "user_id", user.ID)
				}
			}

			ctx := ctxkeys.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoginURL is the login page that continues to next afterwards.
func LoginURL(next string) string {
	return "/login?next=" + url.QueryEscape(next)
}

// RequireAuth sends anonymous visitors to the login page, remembering
// where they were going.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !model.IsAuthenticated(ctxkeys.Principal(r.Context())) {
			redirect(w, r, LoginURL(r.URL.RequestURI()))
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireGuest ensures the user is not authenticated
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if model.IsAuthenticated(ctxkeys.Principal(r.Context())) {
			redirect(w, r, "/index")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	// For HTMX requests, use HX-Redirect header to force full page redirect
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
