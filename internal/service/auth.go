package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/templui/microblog/internal/federation"
	"github.com/templui/microblog/internal/model"
)

var ErrUnknownProvider = errors.New("unknown identity provider")

// AuthService drives a federated login from the login form to the session.
type AuthService struct {
	providers       *federation.Registry
	sessionService  *SessionService
	identityService *IdentityService
}

func NewAuthService(providers *federation.Registry, sessionService *SessionService, identityService *IdentityService) *AuthService {
	return &AuthService{
		providers:       providers,
		sessionService:  sessionService,
		identityService: identityService,
	}
}

func (s *AuthService) Providers() []*federation.Provider {
	return s.providers.List()
}

// StartLogin records the pending login and returns the provider URL the
// browser should be sent to.
func (s *AuthService) StartLogin(ctx context.Context, w http.ResponseWriter, providerName string, remember bool, next string) (string, error) {
	provider, ok := s.providers.Get(providerName)
	if !ok {
		return "", fmt.Errorf("%q: %w", providerName, ErrUnknownProvider)
	}

	state, err := s.sessionService.BeginLogin(ctx, w, provider.Name, remember, next)
	if err != nil {
		return "", err
	}

	return provider.AuthCodeURL(state), nil
}

// FinishLogin handles the provider callback: it consumes the pending
// login, resolves the asserted identity to a user and starts the session.
// It returns the user and the path the login form asked to continue to.
func (s *AuthService) FinishLogin(ctx context.Context, w http.ResponseWriter, r *http.Request, providerName string) (*model.User, string, error) {
	provider, ok := s.providers.Get(providerName)
	if !ok {
		return nil, "", fmt.Errorf("%q: %w", providerName, ErrUnknownProvider)
	}

	flow, err := s.sessionService.CompleteLogin(ctx, w, r, provider.Name)
	if err != nil {
		return nil, "", err
	}

	if providerErr := r.URL.Query().Get("error"); providerErr != "" {
		return nil, "", fmt.Errorf("%w: provider reported %q", ErrInvalidIdentityResponse, providerErr)
	}

	identity, err := provider.Identity(ctx, r.URL.Query().Get("code"))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidIdentityResponse, err)
	}

	user, err := s.identityService.ResolveOrCreate(ctx, identity)
	if err != nil {
		return nil, "", err
	}

	err = s.sessionService.Login(w, user, flow.Remember)
	if err != nil {
		return nil, "", err
	}

	slog.Info("user logged in", "user_id", user.ID, "provider", provider.Name)
	return user, flow.Next, nil
}
