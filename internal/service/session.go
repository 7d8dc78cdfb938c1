package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/templui/microblog/internal/model"
	"github.com/templui/microblog/internal/repository"
)

const (
	SessionCookie    = "session"
	LoginStateCookie = "login_state"
)

var ErrInvalidLoginFlow = errors.New("invalid or expired login attempt")

type sessionClaims struct {
	UserID   int64 `json:"user_id"`
	Remember bool  `json:"remember"`
	jwt.RegisteredClaims
}

// SessionService owns the session cookie and pending federated logins.
type SessionService struct {
	userRepository      repository.UserRepository
	loginFlowRepository repository.LoginFlowRepository
	secret              []byte
	isProduction        bool
	sessionExpiry       time.Duration
	rememberExpiry      time.Duration
	loginFlowExpiry     time.Duration
	now                 func() time.Time
}

func NewSessionService(
	userRepository repository.UserRepository,
	loginFlowRepository repository.LoginFlowRepository,
	secret string,
	isProduction bool,
	sessionExpiry time.Duration,
	rememberExpiry time.Duration,
	loginFlowExpiry time.Duration,
) *SessionService {
	return &SessionService{
		userRepository:      userRepository,
		loginFlowRepository: loginFlowRepository,
		secret:              []byte(secret),
		isProduction:        isProduction,
		sessionExpiry:       sessionExpiry,
		rememberExpiry:      rememberExpiry,
		loginFlowExpiry:     loginFlowExpiry,
		now:                 time.Now,
	}
}

// Login starts a session for user. A remembered session survives browser
// restarts until rememberExpiry; otherwise the cookie lives for the
// browser session and the token expires after sessionExpiry.
func (s *SessionService) Login(w http.ResponseWriter, user *model.User, remember bool) error {
	now := s.now()
	expiry := s.sessionExpiry
	if remember {
		expiry = s.rememberExpiry
	}

	claims := sessionClaims{
		UserID:   user.ID,
		Remember: remember,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("failed to sign session: %w", err)
	}

	cookie := s.cookie(SessionCookie, token)
	if remember {
		cookie.Expires = now.Add(expiry)
	}
	http.SetCookie(w, cookie)

	slog.Info("session started", "user_id", user.ID, "remember", remember)
	return nil
}

func (s *SessionService) Logout(w http.ResponseWriter) {
	s.clear(w, SessionCookie)
}

// Principal resolves the request's session. Anything short of a valid
// token for an existing user yields Anonymous, and unusable session
// cookies are cleared.
func (s *SessionService) Principal(w http.ResponseWriter, r *http.Request) model.Principal {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return model.Anonymous{}
	}

	claims, err := s.parse(cookie.Value)
	if err != nil {
		slog.Debug("rejected session cookie", "error", err)
		s.clear(w, SessionCookie)
		return model.Anonymous{}
	}

	user, err := s.userRepository.ByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.clear(w, SessionCookie)
		} else {
			slog.Warn("failed to load session user", "error", err, "user_id", claims.UserID)
		}
		return model.Anonymous{}
	}

	return model.Authenticated{User: user}
}

func (s *SessionService) parse(tokenString string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// BeginLogin records a pending login for provider and binds it to the
// browser with the login_state cookie. The returned state goes into the
// provider's authorization URL.
func (s *SessionService) BeginLogin(ctx context.Context, w http.ResponseWriter, provider string, remember bool, next string) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	now := s.now()
	flow := &model.LoginFlow{
		State:     state,
		Provider:  provider,
		Remember:  remember,
		Next:      next,
		ExpiresAt: now.Add(s.loginFlowExpiry),
		CreatedAt: now,
	}

	err = s.loginFlowRepository.Create(ctx, flow)
	if err != nil {
		return "", fmt.Errorf("failed to store login flow: %w", err)
	}

	cookie := s.cookie(LoginStateCookie, state)
	cookie.MaxAge = int(s.loginFlowExpiry.Seconds())
	http.SetCookie(w, cookie)

	return state, nil
}

// CompleteLogin checks the callback's state against the browser cookie
// and consumes the pending login. Each flow completes at most once.
func (s *SessionService) CompleteLogin(ctx context.Context, w http.ResponseWriter, r *http.Request, provider string) (*model.LoginFlow, error) {
	state := r.URL.Query().Get("state")
	cookie, cookieErr := r.Cookie(LoginStateCookie)
	s.clear(w, LoginStateCookie)

	if state == "" || cookieErr != nil || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		return nil, fmt.Errorf("state mismatch: %w", ErrInvalidLoginFlow)
	}

	flow, err := s.loginFlowRepository.Consume(ctx, state)
	if err != nil {
		if errors.Is(err, repository.ErrLoginFlowNotFound) {
			return nil, fmt.Errorf("no pending login: %w", ErrInvalidLoginFlow)
		}
		return nil, fmt.Errorf("failed to consume login flow: %w", err)
	}

	if flow.Provider != provider {
		return nil, fmt.Errorf("flow started for %q, completed by %q: %w", flow.Provider, provider, ErrInvalidLoginFlow)
	}
	if s.now().After(flow.ExpiresAt) {
		return nil, fmt.Errorf("login flow expired: %w", ErrInvalidLoginFlow)
	}

	return flow, nil
}

func (s *SessionService) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *SessionService) clear(w http.ResponseWriter, name string) {
	cookie := s.cookie(name, "")
	cookie.Expires = time.Unix(0, 0)
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
}

func generateState() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
