package domain

// Identity is who is making a request: a Guest or a Member.
// It is resolved once per request and passed explicitly to services.
type Identity interface {
	isIdentity()
}

type Guest struct{}

// Member is an authenticated user. Email and Name are the stored profile
// values and may be empty when the profile lookup failed.
type Member struct {
	ID      int64
	Email   string
	Name    string
	IsAdmin bool
}

func (Guest) isIdentity()  {}
func (Member) isIdentity() {}

// AsMember reports whether id is a Member.
func AsMember(id Identity) (Member, bool) {
	switch v := id.(type) {
	case Member:
		return v, true
	case *Member:
		if v != nil {
			return *v, true
		}
	}
	return Member{}, false
}
