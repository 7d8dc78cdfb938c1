package ctxkeys

import (
	"context"

	"github.com/templui/microblog/internal/config"
	"github.com/templui/microblog/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	PrincipalKey     contextKey = "principal"
	PrincipalSlotKey contextKey = "principal_slot"
	URLPathKey       contextKey = "url_path"
	ConfigKey        contextKey = "config"
	CSRFTokenKey     contextKey = "csrf_token"
	FlashesKey       contextKey = "flashes"
	RequestIDKey     contextKey = "request_id"
)

// principalSlot lets middleware running before the auth gate see the
// principal the gate resolved further down the chain.
type principalSlot struct {
	principal model.Principal
}

// WithPrincipalSlot prepares ctx to remember the principal set by a later
// WithPrincipal call on a derived context.
func WithPrincipalSlot(ctx context.Context) context.Context {
	return context.WithValue(ctx, PrincipalSlotKey, &principalSlot{})
}

// Principal returns the request principal. Requests that never went
// through the auth middleware are anonymous.
func Principal(ctx context.Context) model.Principal {
	if p, ok := ctx.Value(PrincipalKey).(model.Principal); ok && p != nil {
		return p
	}
	if slot, ok := ctx.Value(PrincipalSlotKey).(*principalSlot); ok && slot.principal != nil {
		return slot.principal
	}
	return model.Anonymous{}
}

func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	if slot, ok := ctx.Value(PrincipalSlotKey).(*principalSlot); ok {
		slot.principal = p
	}
	return context.WithValue(ctx, PrincipalKey, p)
}

// User returns the authenticated user or nil.
func User(ctx context.Context) *model.User {
	user, _ := model.CurrentUser(Principal(ctx))
	return user
}

func URLPath(ctx context.Context) string {
	path, _ := ctx.Value(URLPathKey).(string)
	return path
}

func WithURLPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, URLPathKey, path)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}

func Flashes(ctx context.Context) []string {
	flashes, _ := ctx.Value(FlashesKey).([]string)
	return flashes
}

func WithFlashes(ctx context.Context, flashes []string) context.Context {
	return context.WithValue(ctx, FlashesKey, flashes)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
