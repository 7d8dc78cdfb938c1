package federation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/microblog/internal/model"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrUserInfo = errors.New("identity provider returned no usable user info")

// Provider is an OAuth2 identity provider that can vouch for an email address.
type Provider struct {
	Name        string
	DisplayName string
	OAuth2      *oauth2.Config
	UserInfoURL string
	// EmailsURL lists the account's addresses. Queried only when the
	// user-info document carries no email (GitHub private emails).
	EmailsURL string
}

// NewProvider builds a provider whose display name is the title-cased name.
func NewProvider(name string, oauthCfg *oauth2.Config, userInfoURL string) *Provider {
	return &Provider{
		Name:        name,
		DisplayName: cases.Title(language.English).String(name),
		OAuth2:      oauthCfg,
		UserInfoURL: userInfoURL,
	}
}

func Google(clientID, clientSecret, redirectURL string) *Provider {
	return NewProvider("google", &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
		Endpoint:     google.Endpoint,
	}, "https://www.googleapis.com/oauth2/v2/userinfo")
}

func GitHub(clientID, clientSecret, redirectURL string) *Provider {
	p := NewProvider("github", &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"user:email"},
		Endpoint:     github.Endpoint,
	}, "https://api.github.com/user")
	p.DisplayName = "GitHub"
	p.EmailsURL = "https://api.github.com/user/emails"
	return p
}

func (p *Provider) AuthCodeURL(state string) string {
	return p.OAuth2.AuthCodeURL(state)
}

type userInfo struct {
	Email string `json:"email"`
	Login string `json:"login"`
}

type accountEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Identity exchanges the authorization code and fetches what the provider
// knows about the user. An empty Email in the result is not an error here;
// callers decide whether the response is usable.
func (p *Provider) Identity(ctx context.Context, code string) (*model.FederatedIdentity, error) {
	if code == "" {
		return nil, fmt.Errorf("%s: missing authorization code: %w", p.Name, ErrUserInfo)
	}

	token, err := p.OAuth2.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: token exchange failed: %w", p.Name, err)
	}

	client := p.OAuth2.Client(ctx, token)

	var info userInfo
	err = getJSON(ctx, client, p.UserInfoURL, &info)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch user info: %w", p.Name, err)
	}

	identity := &model.FederatedIdentity{
		Provider: p.Name,
		Email:    strings.TrimSpace(info.Email),
		Nickname: strings.TrimSpace(info.Login),
	}

	if identity.Email == "" && p.EmailsURL != "" {
		var emails []accountEmail
		err = getJSON(ctx, client, p.EmailsURL, &emails)
		if err != nil {
			slog.Warn("failed to fetch account emails", "error", err, "provider", p.Name)
		}
		identity.Email = primaryEmail(emails)
	}

	return identity, nil
}

func primaryEmail(emails []accountEmail) string {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Primary {
			return e.Email
		}
	}
	return ""
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
