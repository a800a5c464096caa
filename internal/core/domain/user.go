package domain

import (
	"strings"
	"time"
)

// Role is the closed set of actor types a user can register as.
type Role string

const (
	RoleFreelancer Role = "FREELANCER"
	RoleClient     Role = "CLIENT"
	RoleAdmin      Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleFreelancer, RoleClient, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole converts a stored or claimed role string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

// User models a registered actor. Role-specific fields are only populated for
// the matching role.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name,omitempty"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Freelancer
	ProfessionalTitle string `json:"professional_title,omitempty"`
	Skills            string `json:"skills,omitempty"`
	PortfolioURL      string `json:"portfolio_url,omitempty"`
	Bio               string `json:"bio,omitempty"`

	// Client
	CompanyName string `json:"company_name,omitempty"`

	// Admin
	AdminCode  string `json:"-"`
	Department string `json:"department,omitempty"`
}

// NormalizeEmail trims and lower-cases an address so lookups and the
// uniqueness constraint treat "Ann@X.com " and "ann@x.com" as one identity.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
