package handler

import "github.com/talentflow/auth-service/internal/core/domain"

// Request bodies use the camelCase field names of the web client.
// None of them carries a role: the endpoint decides it.

type freelancerRequest struct {
	FullName          string `json:"fullName"          validate:"omitempty,max=120"`
	Email             string `json:"email"             validate:"required,email,max=254"`
	Password          string `json:"password"          validate:"required,min=8,maxbytes=72"`
	ProfessionalTitle string `json:"professionalTitle" validate:"omitempty,max=120"`
	PhoneNumber       string `json:"phoneNumber"       validate:"omitempty,max=32"`
	Skills            string `json:"skills"            validate:"omitempty,max=500"`
	PortfolioURL      string `json:"portfolioUrl"      validate:"omitempty,url"`
	Bio               string `json:"bio"               validate:"omitempty,max=1000"`
}

type clientRequest struct {
	FullName    string `json:"fullName"    validate:"omitempty,max=120"`
	Email       string `json:"email"       validate:"required,email,max=254"`
	Password    string `json:"password"    validate:"required,min=8,maxbytes=72"`
	CompanyName string `json:"companyName" validate:"omitempty,max=200"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=32"`
}

// adminRequest leaves adminCode unvalidated so a missing code is reported as
// an invalid admin code rather than a malformed payload.
type adminRequest struct {
	FullName    string `json:"fullName"    validate:"omitempty,max=120"`
	Email       string `json:"email"       validate:"required,email,max=254"`
	Password    string `json:"password"    validate:"required,min=8,maxbytes=72"`
	AdminCode   string `json:"adminCode"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=32"`
	Department  string `json:"department"  validate:"omitempty,max=120"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string      `json:"token"`
	Role  domain.Role `json:"role"`
}

type sessionResponse struct {
	Subject string      `json:"subject"`
	Role    domain.Role `json:"role"`
}
