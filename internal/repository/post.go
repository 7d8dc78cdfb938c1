package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/microblog/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	ListByAuthor(ctx context.Context, userID int64, limit, offset int) ([]*model.Post, error)
	CountByAuthor(ctx context.Context, userID int64) (int, error)
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	if post.Timestamp.IsZero() {
		post.Timestamp = time.Now()
	}
	post.Timestamp = post.Timestamp.UTC()

	query := `INSERT INTO posts (body, timestamp, user_id) VALUES ($1, $2, $3) RETURNING id`

	err := r.db.QueryRowxContext(ctx, query, post.Body, post.Timestamp, post.UserID).Scan(&post.ID)
	if err != nil {
		if foreignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// ListByAuthor returns a page of the author's posts, newest first.
func (r *postRepository) ListByAuthor(ctx context.Context, userID int64, limit, offset int) ([]*model.Post, error) {
	query := `
		SELECT id, body, timestamp, user_id
		FROM posts
		WHERE user_id = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	posts := []*model.Post{}
	err := r.db.SelectContext(ctx, &posts, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}
