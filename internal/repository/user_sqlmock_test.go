package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/microblog/internal/model"
)

func newMockUserRepository(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestUserRepository_Create_PostgresDuplicateNickname(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users\s*\(nickname,\s*email,\s*about_me,\s*created_at\).*RETURNING\s+id$`).
		WithArgs("john", "john@example.com", nil, sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_nickname"})

	err := repo.Create(context.Background(), &model.User{Nickname: "john", Email: "john@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateNickname)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_PostgresDuplicateEmail(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectQuery(`^INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"})

	err := repo.Create(context.Background(), &model.User{Nickname: "john", Email: "john@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserRepository_TouchLastSeen_DBError(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectExec(`^UPDATE\s+users\s+SET\s+last_seen`).
		WithArgs(sqlmock.AnyArg(), int64(7), sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	_, err := repo.TouchLastSeen(context.Background(), 7, time.Now())
	require.Error(t, err)
	assert.Regexp(t, `failed to update last_seen: .*db down`, err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete_PostgresForeignKey(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectExec(`^DELETE\s+FROM\s+users`).
		WithArgs(int64(3)).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "posts_user_id_fkey"})

	err := repo.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, ErrUserHasPosts)
}

func TestUserRepository_Create_OtherErrorsAreNotDuplicates(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectQuery(`^INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23502", ConstraintName: "", Message: `null value in column "nickname"`})

	err := repo.Create(context.Background(), &model.User{Nickname: "john", Email: "john@example.com"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateNickname)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
}
