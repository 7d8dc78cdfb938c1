package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/microblog/internal/markdown"
	"github.com/templui/microblog/internal/validation"
)

func TestPostService_Create(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPostService(env.posts, markdown.NewParser(), 20)
	author := env.createUser(t, "john", "john@example.com")

	post, err := svc.Create(context.Background(), author, "  hello **world** ")
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
	assert.Equal(t, "hello **world**", post.Body)
	assert.Equal(t, "<p>hello <strong>world</strong></p>", post.BodyHTML)
	assert.Same(t, author, post.Author)
}

func TestPostService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPostService(env.posts, markdown.NewParser(), 20)
	author := env.createUser(t, "john", "john@example.com")

	for _, body := range []string{"", "   ", strings.Repeat("x", 141)} {
		_, err := svc.Create(context.Background(), author, body)

		var errs validation.Errors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs, "body")
	}

	count, err := env.posts.CountByAuthor(context.Background(), author.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPostService_ListByAuthorPages(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPostService(env.posts, markdown.NewParser(), 2)
	ctx := context.Background()

	author := env.createUser(t, "john", "john@example.com")
	other := env.createUser(t, "susan", "susan@example.com")

	for i := 1; i <= 3; i++ {
		_, err := svc.Create(ctx, author, fmt.Sprintf("post %d", i))
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, other, "not john's")
	require.NoError(t, err)

	first, err := svc.ListByAuthor(ctx, author, 1)
	require.NoError(t, err)
	require.Len(t, first.Posts, 2)
	assert.Equal(t, 3, first.Total)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrev)
	assert.Equal(t, "post 3", first.Posts[0].Body)
	assert.Equal(t, "john", first.Posts[0].Author.Nickname)
	assert.NotEmpty(t, first.Posts[0].BodyHTML)

	second, err := svc.ListByAuthor(ctx, author, 2)
	require.NoError(t, err)
	require.Len(t, second.Posts, 1)
	assert.Equal(t, "post 1", second.Posts[0].Body)
	assert.False(t, second.HasNext)
	assert.True(t, second.HasPrev)

	clamped, err := svc.ListByAuthor(ctx, author, -4)
	require.NoError(t, err)
	assert.Equal(t, 1, clamped.Page)
}

func TestPostService_ListByAuthorClampsToLastPage(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPostService(env.posts, markdown.NewParser(), 2)
	ctx := context.Background()

	author := env.createUser(t, "john", "john@example.com")

	empty, err := svc.ListByAuthor(ctx, author, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, 1, empty.Page)
	assert.Empty(t, empty.Posts)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)

	for i := 1; i <= 3; i++ {
		_, err := svc.Create(ctx, author, fmt.Sprintf("post %d", i))
		require.NoError(t, err)
	}

	for _, page := range []int{3, 1000, math.MaxInt} {
		last, err := svc.ListByAuthor(ctx, author, page)
		require.NoError(t, err)
		assert.Equal(t, 2, last.Page)
		require.Len(t, last.Posts, 1)
		assert.Equal(t, "post 1", last.Posts[0].Body)
		assert.False(t, last.HasNext)
		assert.True(t, last.HasPrev)
	}
}
