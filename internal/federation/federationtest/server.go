// Package federationtest runs an in-process OAuth2 identity provider.
package federationtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/templui/microblog/internal/federation"
	"golang.org/x/oauth2"
)

// Account is what the fake provider reports for a login.
type Account struct {
	Email  string
	Login  string
	Emails []Email
}

type Email struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Server implements the authorize, token, user and emails endpoints.
// The authorize endpoint approves immediately as the account set with Next.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	next     Account
	accounts map[string]Account
	seq      int
}

func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{accounts: make(map[string]Account)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /authorize", s.authorize)
	mux.HandleFunc("POST /token", s.token)
	mux.HandleFunc("GET /user", s.user)
	mux.HandleFunc("GET /user/emails", s.emails)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Next sets the account the authorize endpoint logs in as.
func (s *Server) Next(a Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = a
}

// Issue returns an authorization code that resolves to a.
func (s *Server) Issue(a Account) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	code := fmt.Sprintf("code-%d", s.seq)
	s.accounts[code] = a
	return code
}

// Provider returns a federation provider talking to this server.
func (s *Server) Provider(name, redirectURL string) *federation.Provider {
	p := federation.NewProvider(name, &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   s.URL + "/authorize",
			TokenURL:  s.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}, s.URL+"/user")
	p.EmailsURL = s.URL + "/user/emails"
	return p
}

func (s *Server) authorize(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	next := s.next
	s.mu.Unlock()

	redirect, err := url.Parse(r.URL.Query().Get("redirect_uri"))
	if err != nil || redirect.String() == "" {
		http.Error(w, "missing redirect_uri", http.StatusBadRequest)
		return
	}

	q := redirect.Query()
	q.Set("code", s.Issue(next))
	q.Set("state", r.URL.Query().Get("state"))
	redirect.RawQuery = q.Encode()

	http.Redirect(w, r, redirect.String(), http.StatusFound)
}

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")

	s.mu.Lock()
	_, ok := s.accounts[code]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": "token-" + code,
		"token_type":   "bearer",
		"expires_in":   3600,
	})
}

func (s *Server) account(r *http.Request) (Account, bool) {
	code := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer token-")

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[code]
	return a, ok
}

func (s *Server) user(w http.ResponseWriter, r *http.Request) {
	a, ok := s.account(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": a.Email, "login": a.Login})
}

func (s *Server) emails(w http.ResponseWriter, r *http.Request) {
	a, ok := s.account(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return
	}
	emails := a.Emails
	if emails == nil {
		emails = []Email{}
	}
	writeJSON(w, http.StatusOK, emails)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
