package federation_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/microblog/internal/config"
	"github.com/templui/microblog/internal/federation"
	"github.com/templui/microblog/internal/federation/federationtest"
)

func TestProvider_Identity(t *testing.T) {
	srv := federationtest.NewServer(t)
	p := srv.Provider("example", "http://app.test/login/example/callback")

	code := srv.Issue(federationtest.Account{Email: " John@Example.com ", Login: "john"})

	identity, err := p.Identity(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, "example", identity.Provider)
	assert.Equal(t, "John@Example.com", identity.Email)
	assert.Equal(t, "john", identity.Nickname)
}

func TestProvider_Identity_FallsBackToPrimaryEmail(t *testing.T) {
	srv := federationtest.NewServer(t)
	p := srv.Provider("example", "http://app.test/cb")

	code := srv.Issue(federationtest.Account{
		Login: "octocat",
		Emails: []federationtest.Email{
			{Email: "old@example.com", Primary: false, Verified: true},
			{Email: "octo@example.com", Primary: true, Verified: true},
		},
	})

	identity, err := p.Identity(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, "octo@example.com", identity.Email)
}

func TestProvider_Identity_NoEmailIsNotAnError(t *testing.T) {
	srv := federationtest.NewServer(t)
	p := srv.Provider("example", "http://app.test/cb")

	identity, err := p.Identity(context.Background(), srv.Issue(federationtest.Account{}))
	require.NoError(t, err)
	assert.Empty(t, identity.Email)
}

func TestProvider_Identity_BadCode(t *testing.T) {
	srv := federationtest.NewServer(t)
	p := srv.Provider("example", "http://app.test/cb")

	_, err := p.Identity(context.Background(), "unknown")
	assert.Error(t, err)

	_, err = p.Identity(context.Background(), "")
	assert.ErrorIs(t, err, federation.ErrUserInfo)
}

func TestProvider_AuthCodeURL(t *testing.T) {
	p := federation.GitHub("id", "secret", "http://app.test/login/github/callback")

	u, err := url.Parse(p.AuthCodeURL("state-123"))
	require.NoError(t, err)
	assert.Equal(t, "github.com", u.Host)
	assert.Equal(t, "state-123", u.Query().Get("state"))
	assert.Equal(t, "http://app.test/login/github/callback", u.Query().Get("redirect_uri"))
	assert.Equal(t, "GitHub", p.DisplayName)
}

func TestFromConfig(t *testing.T) {
	reg := federation.FromConfig(&config.Config{
		AppURL:         "http://app.test",
		GoogleClientID: "g",
		GitHubClientID: "gh",
	})

	providers := reg.List()
	require.Len(t, providers, 2)
	assert.Equal(t, "google", providers[0].Name)
	assert.Equal(t, "Google", providers[0].DisplayName)
	assert.Equal(t, "github", providers[1].Name)

	_, ok := reg.Get("twitter")
	assert.False(t, ok)

	empty := federation.FromConfig(&config.Config{AppURL: "http://app.test"})
	assert.Empty(t, empty.List())
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	reg := federation.NewRegistry()
	reg.Register(federation.Google("a", "b", "c"))
	reg.Register(federation.GitHub("a", "b", "c"))
	reg.Register(federation.Google("x", "y", "z"))

	providers := reg.List()
	require.Len(t, providers, 2)
	assert.Equal(t, "google", providers[0].Name)
	assert.Equal(t, "x", providers[0].OAuth2.ClientID)
}
