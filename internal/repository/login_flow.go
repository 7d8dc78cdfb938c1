package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/microblog/internal/model"
)

// LoginFlowRepository stores pending federated logins until the provider
// redirects back. Implementations must hand out each flow at most once.
type LoginFlowRepository interface {
	Create(ctx context.Context, flow *model.LoginFlow) error
	Consume(ctx context.Context, state string) (*model.LoginFlow, error)
	CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type loginFlowRepository struct {
	db *sqlx.DB
}

func NewLoginFlowRepository(db *sqlx.DB) LoginFlowRepository {
	return &loginFlowRepository{db: db}
}

func (r *loginFlowRepository) Create(ctx context.Context, flow *model.LoginFlow) error {
	if flow.CreatedAt.IsZero() {
		flow.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO login_flows (state, provider, remember, next, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		flow.State,
		flow.Provider,
		flow.Remember,
		flow.Next,
		flow.ExpiresAt.UTC(),
		flow.CreatedAt.UTC(),
	)
	if err != nil {
		if uniqueViolation(err, "state") || uniqueViolation(err, "login_flows") {
			return ErrDuplicateLoginFlow
		}
		return fmt.Errorf("failed to insert login flow: %w", err)
	}
	return nil
}

// Consume atomically marks the flow as used and returns it.
// The conditional UPDATE is the claim: only the first caller affects the
// row. Replays, unknown states, and expired flows return ErrLoginFlowNotFound.
func (r *loginFlowRepository) Consume(ctx context.Context, state string) (*model.LoginFlow, error) {
	now := time.Now().UTC()

	claim := `
		UPDATE login_flows
		SET consumed_at = $1
		WHERE state = $2
		AND consumed_at IS NULL
		AND expires_at > $3
	`

	result, err := r.db.ExecContext(ctx, claim, now, state, now)
	if err != nil {
		return nil, fmt.Errorf("failed to consume login flow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrLoginFlowNotFound
	}

	var flow model.LoginFlow
	query := `SELECT state, provider, remember, next, expires_at, consumed_at, created_at FROM login_flows WHERE state = $1`

	err = r.db.GetContext(ctx, &flow, query, state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLoginFlowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load login flow: %w", err)
	}

	return &flow, nil
}

// CleanupExpired removes consumed and expired flows older than the given
// duration. Returns the number of rows removed.
func (r *loginFlowRepository) CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC()
	query := `
		DELETE FROM login_flows
		WHERE (consumed_at IS NOT NULL AND consumed_at < $1)
		   OR (expires_at < $2)
	`
	result, err := r.db.ExecContext(ctx, query, cutoff, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
