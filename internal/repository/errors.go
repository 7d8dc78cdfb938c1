package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateNickname  = errors.New("nickname already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrUserHasPosts       = errors.New("user still owns posts")
	ErrLoginFlowNotFound  = errors.New("login flow not found")
	ErrDuplicateLoginFlow = errors.New("login flow already exists")
)

// PostgreSQL SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// uniqueViolation reports whether err is a unique or primary key violation
// on a constraint that mentions column.
// PostgreSQL names the constraint ("idx_users_nickname"); SQLite names the
// column in the message ("UNIQUE constraint failed: users.nickname").
func uniqueViolation(err error, column string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, column)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code != sqlite3.SQLITE_CONSTRAINT_UNIQUE && code != sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return false
		}
		return strings.Contains(sqliteErr.Error(), column)
	}

	return false
}

func foreignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}

	return false
}
