package repository

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/templui/microblog/internal/db/dbtest"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return dbtest.New(t)
}
