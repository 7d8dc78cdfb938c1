package model

import (
	"time"

	"github.com/templui/microblog/internal/gravatar"
)

const (
	NicknameMaxLength = 64
	EmailMaxLength    = 120
	AboutMeMaxLength  = 140
)

type User struct {
	ID        int64      `db:"id"`
	Nickname  string     `db:"nickname"`
	Email     string     `db:"email"`
	AboutMe   *string    `db:"about_me"`
	LastSeen  *time.Time `db:"last_seen"`
	CreatedAt time.Time  `db:"created_at"`
}

// Avatar returns the Gravatar URL for the user's email at the given pixel size.
func (u *User) Avatar(size int) string {
	return gravatar.URL(u.Email, size)
}

func (u *User) About() string {
	if u.AboutMe == nil {
		return ""
	}
	return *u.AboutMe
}
