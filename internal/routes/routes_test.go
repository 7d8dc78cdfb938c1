package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/microblog/internal/app"
	"github.com/templui/microblog/internal/config"
	"github.com/templui/microblog/internal/federation"
	"github.com/templui/microblog/internal/federation/federationtest"
	"github.com/templui/microblog/internal/model"
)

type testSite struct {
	t      *testing.T
	url    string
	idp    *federationtest.Server
	app    *app.App
	client *http.Client
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()

	idp := federationtest.NewServer(t)

	srv := httptest.NewUnstartedServer(nil)
	siteURL := "http://" + srv.Listener.Addr().String()

	cfg := &config.Config{
		AppName:             "Microblog",
		AppEnv:              "development",
		AppURL:              siteURL,
		DBDriver:            "sqlite",
		DBConnection:        filepath.Join(t.TempDir(), "site.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		SessionSecret:       "test-secret",
		SessionExpiry:       24 * time.Hour,
		RememberExpiry:      365 * 24 * time.Hour,
		LoginFlowExpiry:     10 * time.Minute,
		LoginFlowStore:      "sql",
		AuthRateLimit:       100,
		AuthRateWindow:      time.Minute,
		NicknameMaxAttempts: 100,
		PostsPerPage:        20,
		EmailFrom:           "noreply@example.com",
	}

	providers := federation.NewRegistry()
	providers.Register(idp.Provider("fake", federation.CallbackURL(siteURL, "fake")))

	a, err := app.NewWithProviders(context.Background(), cfg, providers)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	srv.Config.Handler = SetupRoutes(a)
	srv.Start()
	t.Cleanup(srv.Close)

	s := &testSite{t: t, url: siteURL, idp: idp, app: a}
	s.client = s.newClient()
	return s
}

func (s *testSite) newClient() *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(s.t, err)
	return &http.Client{Jar: jar}
}

func (s *testSite) cookie(client *http.Client, name string) *http.Cookie {
	u, err := url.Parse(s.url)
	require.NoError(s.t, err)
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (s *testSite) get(client *http.Client, path string) (*http.Response, string) {
	s.t.Helper()
	resp, err := client.Get(s.url + path)
	require.NoError(s.t, err)
	return resp, readBody(s.t, resp)
}

// post submits a form with the CSRF token from the cookie jar.
func (s *testSite) post(client *http.Client, path string, form url.Values) (*http.Response, string) {
	s.t.Helper()
	if s.cookie(client, "csrf_token") == nil {
		s.get(client, "/healthz")
	}
	csrf := s.cookie(client, "csrf_token")
	require.NotNil(s.t, csrf)
	form.Set("csrf_token", csrf.Value)

	resp, err := client.PostForm(s.url+path, form)
	require.NoError(s.t, err)
	return resp, readBody(s.t, resp)
}

func (s *testSite) login(client *http.Client, account federationtest.Account, next string) (*http.Response, string) {
	s.t.Helper()
	s.idp.Next(account)
	return s.post(client, "/login", url.Values{
		"provider":    {"fake"},
		"remember_me": {"y"},
		"next":        {next},
	})
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

var john = federationtest.Account{Email: "john@example.com", Login: "john"}

func TestProtectedPageRedirectsToLogin(t *testing.T) {
	site := newTestSite(t)

	noFollow := site.newClient()
	noFollow.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	resp, _ := site.get(noFollow, "/user/john?page=2")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fuser%2Fjohn%3Fpage%3D2", resp.Header.Get("Location"))
}

func TestLoginContinuesToNext(t *testing.T) {
	site := newTestSite(t)

	resp, body := site.get(site.client, "/edit")
	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Contains(t, body, `name="next" value="/edit"`)
	assert.Contains(t, body, "Fake")

	resp, body = site.login(site.client, john, "/edit")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/edit", resp.Request.URL.Path)
	assert.Contains(t, body, "Edit Your Profile")
	assert.Contains(t, body, `value="john"`)

	assert.NotNil(t, site.cookie(site.client, "session"))
	assert.Nil(t, site.cookie(site.client, "login_state"))
}

func TestLoginRejectsExternalNext(t *testing.T) {
	site := newTestSite(t)

	resp, body := site.login(site.client, john, "//evil.example.com/")
	assert.Equal(t, "/index", resp.Request.URL.Path)
	assert.Contains(t, body, "Hi, john!")
}

func TestLoginRequiresProvider(t *testing.T) {
	site := newTestSite(t)

	resp, body := site.post(site.client, "/login", url.Values{})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Contains(t, body, "[This field is required.]")

	_, body = site.post(site.client, "/login", url.Values{"provider": {"myspace"}})
	assert.Contains(t, body, "[Unknown identity provider.]")
}

func TestLoginGivesNewUsersUniqueNicknames(t *testing.T) {
	site := newTestSite(t)

	_, body := site.login(site.client, john, "")
	assert.Contains(t, body, "Hi, john!")

	other := site.newClient()
	_, body = site.login(other, federationtest.Account{Email: "john@work.example.com", Login: "john"}, "")
	assert.Contains(t, body, "Hi, john2!")

	again := site.newClient()
	_, body = site.login(again, federationtest.Account{Email: "JOHN@example.com", Login: "someone-else"}, "")
	assert.Contains(t, body, "Hi, john!")
}

func TestLoginUsesEmailLocalPartWithoutLogin(t *testing.T) {
	site := newTestSite(t)

	_, body := site.login(site.client, federationtest.Account{
		Emails: []federationtest.Email{
			{Email: "old@example.com", Verified: true},
			{Email: "susan@example.com", Primary: true, Verified: true},
		},
	}, "")
	assert.Contains(t, body, "Hi, susan!")
}

func TestLoginWithoutEmailFails(t *testing.T) {
	site := newTestSite(t)

	resp, body := site.login(site.client, federationtest.Account{Login: "ghost"}, "")
	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Contains(t, body, "Invalid login. Please try again.")
	assert.Nil(t, site.cookie(site.client, "session"))
}

func TestCallbackRejectsForgedState(t *testing.T) {
	site := newTestSite(t)

	code := site.idp.Issue(john)
	resp, body := site.get(site.client, "/login/fake/callback?code="+code+"&state=forged")
	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Contains(t, body, "Invalid login. Please try again.")
	assert.Nil(t, site.cookie(site.client, "session"))
}

func TestLoggedInUserSkipsLoginPage(t *testing.T) {
	site := newTestSite(t)
	site.login(site.client, john, "")

	resp, _ := site.get(site.client, "/login")
	assert.Equal(t, "/index", resp.Request.URL.Path)
}

func TestLogout(t *testing.T) {
	site := newTestSite(t)
	site.login(site.client, john, "")

	resp, body := site.get(site.client, "/logout")
	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Contains(t, body, "Sign In")
	assert.Nil(t, site.cookie(site.client, "session"))
}

func TestCreatePost(t *testing.T) {
	site := newTestSite(t)
	site.login(site.client, john, "")

	resp, body := site.post(site.client, "/index", url.Values{"body": {"hello **world**"}})
	assert.Equal(t, "/index", resp.Request.URL.Path)
	assert.Contains(t, body, "Your post is now live!")
	assert.Contains(t, body, "<strong>world</strong>")

	_, body = site.get(site.client, "/user/john")
	assert.Contains(t, body, "User: john")
	assert.Contains(t, body, "<strong>world</strong>")
}

func TestCreatePostValidation(t *testing.T) {
	site := newTestSite(t)
	site.login(site.client, john, "")

	resp, body := site.post(site.client, "/index", url.Values{"body": {"   "}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "[This field is required.]")

	_, body = site.post(site.client, "/index", url.Values{"body": {strings.Repeat("x", model.PostBodyMaxLength+1)}})
	assert.Contains(t, body, "[Field cannot be longer than 140 characters.]")
	assert.NotContains(t, body, "Your post is now live!")
}

func TestPostWithoutCSRFTokenIsForbidden(t *testing.T) {
	site := newTestSite(t)
	site.login(site.client, john, "")

	resp, err := site.client.PostForm(site.url+"/index", url.Values{"body": {"sneaky"}})
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUnknownProfileFlashes(t *testing.T) {
	site := newTestSite(t)
	site.login(site.client, john, "")

	resp, body := site.get(site.client, "/user/nobody")
	assert.Equal(t, "/index", resp.Request.URL.Path)
	assert.Contains(t, body, "User nobody not found.")

	_, body = site.get(site.client, "/index")
	assert.NotContains(t, body, "User nobody not found.")
}

func TestProfileUpdatesLastSeen(t *testing.T) {
	site := newTestSite(t)
	site.login(site.client, john, "")

	_, body := site.get(site.client, "/user/john")
	assert.Contains(t, body, "Last seen on:")
	assert.Contains(t, body, `href="/edit"`)
	assert.Contains(t, body, "www.gravatar.com/avatar/")
}

func TestEditProfile(t *testing.T) {
	site := newTestSite(t)
	site.login(site.client, john, "")

	other := site.newClient()
	site.login(other, federationtest.Account{Email: "susan@example.com", Login: "susan"}, "")

	_, body := site.post(site.client, "/edit", url.Values{"nickname": {"susan"}, "about_me": {"hi"}})
	assert.Contains(t, body, "[This nickname is already in use. Please choose another one.]")

	_, body = site.post(site.client, "/edit", url.Values{"nickname": {""}})
	assert.Contains(t, body, "[This field is required.]")

	resp, body := site.post(site.client, "/edit", url.Values{"nickname": {"johnny"}, "about_me": {"I *like* Go"}})
	assert.Equal(t, "/edit", resp.Request.URL.Path)
	assert.Contains(t, body, "Your changes have been saved.")
	assert.Contains(t, body, `value="johnny"`)

	_, body = site.get(other, "/user/johnny")
	assert.Contains(t, body, "<em>like</em>")
	assert.NotContains(t, body, `href="/edit"`)
}

func TestNotFound(t *testing.T) {
	site := newTestSite(t)

	resp, body := site.get(site.client, "/no/such/page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "File Not Found")
}

func TestHealthz(t *testing.T) {
	site := newTestSite(t)

	resp, body := site.get(site.client, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestTimelinePageBeyondLastIsClamped(t *testing.T) {
	site := newTestSite(t)
	site.login(site.client, john, "")
	site.post(site.client, "/index", url.Values{"body": {"only post"}})

	resp, body := site.get(site.client, "/index?page=9223372036854775807")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "only post")
	assert.NotContains(t, body, "Newer posts")
	assert.NotContains(t, body, "An unexpected error has occurred")
}
