package ports

import "github.com/talentflow/auth-service/internal/core/domain"

// PasswordHasher provides one-way password hashing and verification.
type PasswordHasher interface {
	// Hash returns a salted digest; two calls with the same input differ.
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. A malformed hash never matches.
	Verify(password, hash string) bool
}

// TokenService issues and validates stateless session tokens.
type TokenService interface {
	Issue(identity domain.Identity) (string, error)
	// Validate returns domain.ErrTokenExpired or domain.ErrTokenInvalid on failure.
	Validate(token string) (domain.Identity, error)
}
