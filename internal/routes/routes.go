package routes

import (
	"net/http"

	"github.com/templui/microblog/internal/app"
	"github.com/templui/microblog/internal/handler"
	"github.com/templui/microblog/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.PostService, app.ErrorReporter)
	auth := handler.NewAuthHandler(app.AuthService, app.SessionService, app.ErrorReporter)
	user := handler.NewUserHandler(app.UserService, app.PostService, app.Markdown, app.ErrorReporter)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", home.Healthz)

	// Auth - login form and provider callback (rate limited per endpoint)
	loginLimiter := middleware.RateLimitAuth(app.Cfg.AuthRateLimit, app.Cfg.AuthRateWindow)
	callbackLimiter := middleware.RateLimitAuth(app.Cfg.AuthRateLimit, app.Cfg.AuthRateWindow)

	mux.HandleFunc("GET /login", middleware.RequireGuest(auth.LoginPage))
	mux.HandleFunc("POST /login", loginLimiter(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("GET /login/{provider}/callback", callbackLimiter(auth.Callback))
	mux.HandleFunc("GET /logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /{$}", middleware.RequireAuth(home.Index))
	mux.HandleFunc("GET /index", middleware.RequireAuth(home.Index))
	mux.HandleFunc("POST /index", middleware.RequireAuth(home.CreatePost))
	mux.HandleFunc("GET /user/{nickname}", middleware.RequireAuth(user.Profile))
	mux.HandleFunc("GET /edit", middleware.RequireAuth(user.EditPage))
	mux.HandleFunc("POST /edit", middleware.RequireAuth(user.Edit))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", home.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.NonceMiddleware, // must precede SecurityHeaders
		middleware.SecurityHeaders,
		middleware.RequestID,
		middleware.RequestLogging,
		middleware.Recover(app.ErrorReporter),
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.SessionService, app.UserService),
		middleware.WithURLPath,
	)

	return handler
}
