package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/microblog/internal/model"
)

func TestLoginFlowRepository_ConsumeOnce(t *testing.T) {
	repo := NewLoginFlowRepository(newTestDB(t))
	ctx := context.Background()

	flow := &model.LoginFlow{
		State:     "state-1",
		Provider:  "github",
		Remember:  true,
		Next:      "/edit",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	require.NoError(t, repo.Create(ctx, flow))

	got, err := repo.Consume(ctx, "state-1")
	require.NoError(t, err)
	assert.Equal(t, "github", got.Provider)
	assert.True(t, got.Remember)
	assert.Equal(t, "/edit", got.Next)
	assert.NotNil(t, got.ConsumedAt)

	_, err = repo.Consume(ctx, "state-1")
	assert.ErrorIs(t, err, ErrLoginFlowNotFound)
}

func TestLoginFlowRepository_ConcurrentConsume(t *testing.T) {
	repo := NewLoginFlowRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.LoginFlow{
		State:     "race",
		Provider:  "google",
		ExpiresAt: time.Now().Add(time.Minute),
	}))

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Consume(ctx, "race")
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestLoginFlowRepository_ExpiredAndUnknown(t *testing.T) {
	repo := NewLoginFlowRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.LoginFlow{
		State:     "old",
		Provider:  "google",
		ExpiresAt: time.Now().Add(-time.Second),
	}))

	_, err := repo.Consume(ctx, "old")
	assert.ErrorIs(t, err, ErrLoginFlowNotFound)

	_, err = repo.Consume(ctx, "never-issued")
	assert.ErrorIs(t, err, ErrLoginFlowNotFound)

	removed, err := repo.CleanupExpired(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestLoginFlowRepository_DuplicateState(t *testing.T) {
	repo := NewLoginFlowRepository(newTestDB(t))
	ctx := context.Background()

	flow := &model.LoginFlow{State: "dup", Provider: "google", ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, flow))
	assert.ErrorIs(t, repo.Create(ctx, flow), ErrDuplicateLoginFlow)
}
