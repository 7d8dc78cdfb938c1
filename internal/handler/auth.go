package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/microblog/internal/flash"
	"github.com/templui/microblog/internal/service"
	"github.com/templui/microblog/internal/ui"
	"github.com/templui/microblog/internal/ui/pages"
)

const invalidLoginMessage = "Invalid login. Please try again."

type AuthHandler struct {
	errorHandler
	authService    *service.AuthService
	sessionService *service.SessionService
}

func NewAuthHandler(authService *service.AuthService, sessionService *service.SessionService, reporter *service.ErrorReporter) *AuthHandler {
	return &AuthHandler{
		errorHandler:   errorHandler{reporter: reporter},
		authService:    authService,
		sessionService: sessionService,
	}
}

func (h *AuthHandler) loginProps(next string) pages.LoginProps {
	props := pages.LoginProps{Next: next}
	for _, p := range h.authService.Providers() {
		props.Providers = append(props.Providers, pages.ProviderOption{Name: p.Name, DisplayName: p.DisplayName})
	}
	return props
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Login(h.loginProps(r.URL.Query().Get("next"))))
}

// Login starts a federated login with the chosen provider.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	provider := strings.TrimSpace(r.FormValue("provider"))
	remember := r.FormValue("remember_me") != ""
	next := localPath(r.FormValue("next"))

	props := h.loginProps(r.FormValue("next"))
	props.Selected = provider
	props.Remember = remember

	if provider == "" {
		props.Error = "This field is required."
		ui.Render(w, r, pages.Login(props))
		return
	}

	authURL, err := h.authService.StartLogin(r.Context(), w, provider, remember, next)
	if err != nil {
		if errors.Is(err, service.ErrUnknownProvider) {
			props.Error = "Unknown identity provider."
			ui.Render(w, r, pages.Login(props))
			return
		}
		h.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, authURL, http.StatusSeeOther)
}

// Callback completes the login the provider redirected back with.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")

	_, next, err := h.authService.FinishLogin(r.Context(), w, r, provider)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLoginFlow) ||
			errors.Is(err, service.ErrInvalidIdentityResponse) ||
			errors.Is(err, service.ErrUnknownProvider) {
			slog.Warn("federated login rejected", "error", err, "provider", provider)
			flash.Add(w, r, invalidLoginMessage)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, localPath(next), http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessionService.Logout(w)
	http.Redirect(w, r, defaultRedirect, http.StatusSeeOther)
}
