package domain

// Identity is the set of claims carried by a session token.
type Identity struct {
	Subject string
	Role    Role
}
