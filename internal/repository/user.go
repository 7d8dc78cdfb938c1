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

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id int64) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByNickname(ctx context.Context, nickname string) (*model.User, error)
	NicknameExists(ctx context.Context, nickname string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, nickname string, aboutMe *string) error
	TouchLastSeen(ctx context.Context, id int64, seen time.Time) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, nickname, email, about_me, last_seen, created_at`

// Create inserts the user in a single statement and sets user.ID.
// Unique violations are reported as ErrDuplicateNickname or ErrDuplicateEmail.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.CreatedAt = user.CreatedAt.UTC()

	query := `INSERT INTO users (nickname, email, about_me, created_at) VALUES ($1, $2, $3, $4) RETURNING id`

	err := r.db.QueryRowxContext(ctx, query, user.Nickname, user.Email, user.AboutMe, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		switch {
		case uniqueViolation(err, "nickname"):
			return ErrDuplicateNickname
		case uniqueViolation(err, "email"):
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *userRepository) ByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepository) ByNickname(ctx context.Context, nickname string) (*model.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE nickname = $1`, nickname)
}

func (r *userRepository) getBy(ctx context.Context, query string, arg any) (*model.User, error) {
	user := &model.User{}

	err := r.db.GetContext(ctx, user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (r *userRepository) NicknameExists(ctx context.Context, nickname string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE nickname = $1)`, nickname)
	if err != nil {
		return false, fmt.Errorf("failed to check nickname: %w", err)
	}
	return exists, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, nickname string, aboutMe *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET nickname = $1, about_me = $2 WHERE id = $3`, nickname, aboutMe, id)
	if err != nil {
		if uniqueViolation(err, "nickname") {
			return ErrDuplicateNickname
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// TouchLastSeen moves last_seen forward to seen. The comparison happens
// inside the UPDATE so concurrent requests can never rewind the value.
// Returns false when the stored value was already at or past seen.
func (r *userRepository) TouchLastSeen(ctx context.Context, id int64, seen time.Time) (bool, error) {
	seen = seen.UTC()

	query := `UPDATE users SET last_seen = $1 WHERE id = $2 AND (last_seen IS NULL OR last_seen < $3)`

	result, err := r.db.ExecContext(ctx, query, seen, id, seen)
	if err != nil {
		return false, fmt.Errorf("failed to update last_seen: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// Delete removes a user. Users who still own posts cannot be deleted
// (posts.user_id is ON DELETE RESTRICT); that case returns ErrUserHasPosts.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if foreignKeyViolation(err) {
			return ErrUserHasPosts
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}
