package federation

import (
	"fmt"

	"github.com/templui/microblog/internal/config"
)

// Registry holds the configured providers in registration order.
type Registry struct {
	providers []*Provider
	byName    map[string]*Provider
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Provider)}
}

// FromConfig registers Google and GitHub when their client IDs are set.
func FromConfig(cfg *config.Config) *Registry {
	reg := NewRegistry()
	if cfg.GoogleClientID != "" {
		reg.Register(Google(cfg.GoogleClientID, cfg.GoogleClientSecret, CallbackURL(cfg.AppURL, "google")))
	}
	if cfg.GitHubClientID != "" {
		reg.Register(GitHub(cfg.GitHubClientID, cfg.GitHubClientSecret, CallbackURL(cfg.AppURL, "github")))
	}
	return reg
}

// CallbackURL is where the provider sends the browser back to.
func CallbackURL(appURL, provider string) string {
	return fmt.Sprintf("%s/login/%s/callback", appURL, provider)
}

// Register adds p, replacing any provider with the same name.
func (r *Registry) Register(p *Provider) {
	if _, ok := r.byName[p.Name]; ok {
		for i, existing := range r.providers {
			if existing.Name == p.Name {
				r.providers[i] = p
			}
		}
	} else {
		r.providers = append(r.providers, p)
	}
	r.byName[p.Name] = p
}

func (r *Registry) Get(name string) (*Provider, bool) {
	p, ok := r.byName[name]
	return p, ok
}

func (r *Registry) List() []*Provider {
	out := make([]*Provider, len(r.providers))
	copy(out, r.providers)
	return out
}
