package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/templui/microblog/internal/model"
)

// LoginFlowKeyPrefix namespaces pending login flows in Redis.
const LoginFlowKeyPrefix = "login_flow:"

// redisLoginFlowRepository keeps flows as JSON strings whose TTL matches
// the flow expiry, so Redis evicts abandoned logins on its own.
type redisLoginFlowRepository struct {
	client *redis.Client
}

func NewRedisLoginFlowRepository(client *redis.Client) LoginFlowRepository {
	return &redisLoginFlowRepository{client: client}
}

func (r *redisLoginFlowRepository) Create(ctx context.Context, flow *model.LoginFlow) error {
	if flow.CreatedAt.IsZero() {
		flow.CreatedAt = time.Now()
	}

	ttl := time.Until(flow.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("login flow already expired")
	}

	data, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("marshal login flow: %w", err)
	}

	ok, err := r.client.SetNX(ctx, LoginFlowKeyPrefix+flow.State, data, ttl).Result()
	if err != nil {
		return fmt.Errorf("store login flow: %w", err)
	}
	if !ok {
		return ErrDuplicateLoginFlow
	}
	return nil
}

// Consume uses GETDEL so that exactly one caller receives the flow.
func (r *redisLoginFlowRepository) Consume(ctx context.Context, state string) (*model.LoginFlow, error) {
	data, err := r.client.GetDel(ctx, LoginFlowKeyPrefix+state).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrLoginFlowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("consume login flow: %w", err)
	}

	var flow model.LoginFlow
	err = json.Unmarshal(data, &flow)
	if err != nil {
		return nil, fmt.Errorf("unmarshal login flow: %w", err)
	}

	if flow.IsExpired() {
		return nil, ErrLoginFlowNotFound
	}

	now := time.Now()
	flow.ConsumedAt = &now
	return &flow, nil
}

// CleanupExpired is a no-op: key TTLs already evict expired flows.
func (r *redisLoginFlowRepository) CleanupExpired(context.Context, time.Duration) (int64, error) {
	return 0, nil
}
