package model

// Principal is the entity attached to a request: either an authenticated
// user or an anonymous visitor. The set of variants is closed.
type Principal interface {
	principal()
}

// Authenticated is a principal resolved from a valid session.
// Authenticated principals are always active.
type Authenticated struct {
	User *User
}

// Anonymous is the principal of a request without a valid session.
type Anonymous struct{}

func (Authenticated) principal() {}
func (Anonymous) principal()     {}

// CurrentUser returns the user behind an authenticated principal.
func CurrentUser(p Principal) (*User, bool) {
	switch v := p.(type) {
	case Authenticated:
		return v.User, v.User != nil
	default:
		return nil, false
	}
}

func IsAuthenticated(p Principal) bool {
	_, ok := CurrentUser(p)
	return ok
}
