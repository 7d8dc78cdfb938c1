package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/microblog/internal/db/dbtest"
	"github.com/templui/microblog/internal/model"
	"github.com/templui/microblog/internal/repository"
)

// fakeUserRepository overrides selected methods of a real repository.
type fakeUserRepository struct {
	repository.UserRepository

	createFn         func(ctx context.Context, user *model.User) error
	byEmailFn        func(ctx context.Context, email string) (*model.User, error)
	nicknameExistsFn func(ctx context.Context, nickname string) (bool, error)
	touchLastSeenFn  func(ctx context.Context, id int64, seen time.Time) (bool, error)
}

func (f *fakeUserRepository) Create(ctx context.Context, user *model.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	return f.UserRepository.Create(ctx, user)
}

func (f *fakeUserRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.byEmailFn != nil {
		return f.byEmailFn(ctx, email)
	}
	return f.UserRepository.ByEmail(ctx, email)
}

func (f *fakeUserRepository) NicknameExists(ctx context.Context, nickname string) (bool, error) {
	if f.nicknameExistsFn != nil {
		return f.nicknameExistsFn(ctx, nickname)
	}
	return f.UserRepository.NicknameExists(ctx, nickname)
}

func (f *fakeUserRepository) TouchLastSeen(ctx context.Context, id int64, seen time.Time) (bool, error) {
	if f.touchLastSeenFn != nil {
		return f.touchLastSeenFn(ctx, id, seen)
	}
	return f.UserRepository.TouchLastSeen(ctx, id, seen)
}

// testClock is a manually advanced clock starting at the current time.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Now().Truncate(time.Second)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	db     *sqlx.DB
	users  repository.UserRepository
	posts  repository.PostRepository
	flows  repository.LoginFlowRepository
	emails *EmailService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := dbtest.New(t)
	return &testEnv{
		db:     database,
		users:  repository.NewUserRepository(database),
		posts:  repository.NewPostRepository(database),
		flows:  repository.NewLoginFlowRepository(database),
		emails: NewEmailService("", "noreply@example.com", "http://app.test", "Microblog", true),
	}
}

func (e *testEnv) countUsers(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.Get(&n, `SELECT COUNT(*) FROM users`))
	return n
}

func (e *testEnv) createUser(t *testing.T, nickname, email string) *model.User {
	t.Helper()
	u := &model.User{Nickname: nickname, Email: email}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

// withCookies builds a request carrying the cookies set on rec.
func withCookies(target string, rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			continue
		}
		req.AddCookie(c)
	}
	return req
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
