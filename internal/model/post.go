package model

import "time"

const PostBodyMaxLength = 140

type Post struct {
	ID        int64     `db:"id"`
	Body      string    `db:"body"`
	Timestamp time.Time `db:"timestamp"`
	UserID    int64     `db:"user_id"`

	// Computed fields (not in database)
	Author   *User  `db:"-"`
	BodyHTML string `db:"-"`
}
