package ports

import (
	"context"

	"github.com/talentflow/auth-service/internal/core/domain"
)

// ProfileInput holds the profile fields shared by every role.
type ProfileInput struct {
	FullName    string
	Email       string
	Password    string
	PhoneNumber string
}

// FreelancerRegistration is the DTO for freelancer sign-up.
type FreelancerRegistration struct {
	ProfileInput
	ProfessionalTitle string
	Skills            string
	PortfolioURL      string
	Bio               string
}

// ClientRegistration is the DTO for client sign-up.
type ClientRegistration struct {
	ProfileInput
	CompanyName string
}

// AdminRegistration is the DTO for admin sign-up. AdminCode must match the
// configured registration secret.
type AdminRegistration struct {
	ProfileInput
	AdminCode  string
	Department string
}

// Credentials carries a login attempt.
type Credentials struct {
	Email    string
	Password string
}

// AuthResult is returned by every successful registration or login.
type AuthResult struct {
	Token string      `json:"token"`
	Role  domain.Role `json:"role"`
}

// AuthService registers users and authenticates them.
type AuthService interface {
	RegisterFreelancer(ctx context.Context, in FreelancerRegistration) (AuthResult, error)
	RegisterClient(ctx context.Context, in ClientRegistration) (AuthResult, error)
	RegisterAdmin(ctx context.Context, in AdminRegistration) (AuthResult, error)
	Login(ctx context.Context, in Credentials) (AuthResult, error)
	ValidateToken(token string) (domain.Identity, error)
}
