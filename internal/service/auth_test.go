package service

import (
	"context"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/microblog/internal/federation"
	"github.com/templui/microblog/internal/federation/federationtest"
	"github.com/templui/microblog/internal/model"
)

type authFixture struct {
	env      *testEnv
	idp      *federationtest.Server
	sessions *SessionService
	auth     *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	env := newTestEnv(t)
	idp := federationtest.NewServer(t)

	registry := federation.NewRegistry()
	registry.Register(idp.Provider("example", "http://app.test/login/example/callback"))

	sessions := newTestSessionService(env, newTestClock())
	identities := NewIdentityService(env.users, env.emails, 100)

	return &authFixture{
		env:      env,
		idp:      idp,
		sessions: sessions,
		auth:     NewAuthService(registry, sessions, identities),
	}
}

// login runs the login form and the provider callback for account.
func (f *authFixture) login(t *testing.T, account federationtest.Account, remember bool, next string) (*model.User, string, *httptest.ResponseRecorder, error) {
	t.Helper()
	ctx := context.Background()

	start := httptest.NewRecorder()
	authURL, err := f.auth.StartLogin(ctx, start, "example", remember, next)
	require.NoError(t, err)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)

	code := f.idp.Issue(account)
	callback := withCookies("/login/example/callback?state="+state+"&code="+code, start)

	out := httptest.NewRecorder()
	user, gotNext, err := f.auth.FinishLogin(ctx, out, callback, "example")
	return user, gotNext, out, err
}

func TestAuthService_FirstLoginCreatesUser(t *testing.T) {
	f := newAuthFixture(t)

	user, next, out, err := f.login(t, federationtest.Account{Email: "John@Example.com"}, false, "/user/john")
	require.NoError(t, err)
	assert.Equal(t, "john", user.Nickname)
	assert.Equal(t, "john@example.com", user.Email)
	assert.Equal(t, "/user/john", next)

	p := f.sessions.Principal(httptest.NewRecorder(), withCookies("/index", out))
	current, ok := model.CurrentUser(p)
	require.True(t, ok)
	assert.Equal(t, user.ID, current.ID)

	again, _, _, err := f.login(t, federationtest.Account{Email: "john@example.com"}, false, "")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, 1, f.env.countUsers(t))
}

func TestAuthService_NicknameFromProvider(t *testing.T) {
	f := newAuthFixture(t)

	user, _, _, err := f.login(t, federationtest.Account{Email: "x@example.com", Login: "octocat"}, true, "")
	require.NoError(t, err)
	assert.Equal(t, "octocat", user.Nickname)
}

func TestAuthService_NoEmailCreatesNoUser(t *testing.T) {
	f := newAuthFixture(t)

	_, _, out, err := f.login(t, federationtest.Account{Login: "ghost"}, false, "")
	assert.ErrorIs(t, err, ErrInvalidIdentityResponse)
	assert.Equal(t, 0, f.env.countUsers(t))
	assert.Nil(t, findCookie(out, SessionCookie))
}

func TestAuthService_ProviderDenied(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	start := httptest.NewRecorder()
	authURL, err := f.auth.StartLogin(ctx, start, "example", false, "")
	require.NoError(t, err)
	u, _ := url.Parse(authURL)

	callback := withCookies("/login/example/callback?error=access_denied&state="+u.Query().Get("state"), start)
	_, _, err = f.auth.FinishLogin(ctx, httptest.NewRecorder(), callback, "example")
	assert.ErrorIs(t, err, ErrInvalidIdentityResponse)
}

func TestAuthService_UnknownProvider(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.auth.StartLogin(context.Background(), httptest.NewRecorder(), "myspace", false, "")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, _, err = f.auth.FinishLogin(context.Background(), httptest.NewRecorder(), httptest.NewRequest("GET", "/login/myspace/callback", nil), "myspace")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	assert.Len(t, f.auth.Providers(), 1)
}
