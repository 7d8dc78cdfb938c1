package model

import "time"

// LoginFlow is a federated login that has been started but not yet
// completed. It carries the choices made on the login form across the
// round trip to the identity provider and is consumed exactly once.
type LoginFlow struct {
	State      string     `db:"state" json:"state"`
	Provider   string     `db:"provider" json:"provider"`
	Remember   bool       `db:"remember" json:"remember"`
	Next       string     `db:"next" json:"next"`
	ExpiresAt  time.Time  `db:"expires_at" json:"expires_at"`
	ConsumedAt *time.Time `db:"consumed_at" json:"-"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

func (f *LoginFlow) IsExpired() bool {
	return time.Now().After(f.ExpiresAt)
}
