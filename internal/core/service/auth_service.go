package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentflow/auth-service/internal/core/domain"
	"github.com/talentflow/auth-service/internal/core/ports"
)

// dummyPassword is hashed at construction and verified against when a login
// names an unknown email, so both failure paths pay the same hashing cost.
const dummyPassword = "talentflow-timing-equaliser"

// AuthService implements registration and login for every role.
type AuthService struct {
	repo      ports.UserRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenService
	adminCode []byte
	log       zerolog.Logger
	dummyHash string
}

// NewAuthService wires the service. adminCode is the shared secret required by
// RegisterAdmin; an empty value disables admin self-registration.
func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	adminCode string,
	log zerolog.Logger,
) (*AuthService, error) {
	switch {
	case repo == nil:
		return nil, errors.New("auth service: user repository is required")
	case hasher == nil:
		return nil, errors.New("auth service: password hasher is required")
	case tokens == nil:
		return nil, errors.New("auth service: token service is required")
	}
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("auth service: prepare timing hash: %w", err)
	}
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		adminCode: []byte(adminCode),
		log:       log,
		dummyHash: dummyHash,
	}, nil
}

func (s *AuthService) RegisterFreelancer(ctx context.Context, in ports.FreelancerRegistration) (ports.AuthResult, error) {
	user := newUser(in.ProfileInput, domain.RoleFreelancer)
	user.ProfessionalTitle = in.ProfessionalTitle
	user.Skills = in.Skills
	user.PortfolioURL = in.PortfolioURL
	user.Bio = in.Bio

	return s.register(ctx, user, in.Password)
}

func (s *AuthService) RegisterClient(ctx context.Context, in ports.ClientRegistration) (ports.AuthResult, error) {
	user := newUser(in.ProfileInput, domain.RoleClient)
	user.CompanyName = in.CompanyName

	return s.register(ctx, user, in.Password)
}

// RegisterAdmin checks the registration code before anything is hashed or
// written.
func (s *AuthService) RegisterAdmin(ctx context.Context, in ports.AdminRegistration) (ports.AuthResult, error) {
	if !s.adminCodeMatches(in.AdminCode) {
		s.log.Warn().Str("email", domain.NormalizeEmail(in.Email)).Msg("admin registration rejected")
		return ports.AuthResult{}, domain.ErrInvalidAdminCode
	}

	user := newUser(in.ProfileInput, domain.RoleAdmin)
	user.AdminCode = in.AdminCode
	user.Department = in.Department

	return s.register(ctx, user, in.Password)
}

// Login verifies credentials. Unknown emails and wrong passwords both yield
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in ports.Credentials) (ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return ports.AuthResult{}, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return ports.AuthResult{}, fmt.Errorf("login: find user: %w", err)
		}
		s.hasher.Verify(in.Password, s.dummyHash)
		return ports.AuthResult{}, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return ports.AuthResult{}, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(domain.Identity{Subject: user.Email, Role: user.Role})
	if err != nil {
		return ports.AuthResult{}, fmt.Errorf("login: issue token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("user logged in")
	return ports.AuthResult{Token: token, Role: user.Role}, nil
}

func (s *AuthService) ValidateToken(token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.ErrTokenInvalid
	}
	return s.tokens.Validate(token)
}

// register hashes, persists and issues a token. If issuance fails the user
// record stays; a later login recovers a token.
func (s *AuthService) register(ctx context.Context, user *domain.User, password string) (ports.AuthResult, error) {
	if user.Email == "" || password == "" {
		return ports.AuthResult{}, domain.ErrInvalidInput
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyPassword) || errors.Is(err, domain.ErrPasswordTooLong) {
			return ports.AuthResult{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		return ports.AuthResult{}, fmt.Errorf("register: hash password: %w", err)
	}
	user.PasswordHash = hash

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			return ports.AuthResult{}, domain.ErrDuplicateIdentity
		}
		return ports.AuthResult{}, fmt.Errorf("register: create user: %w", err)
	}

	token, err := s.tokens.Issue(domain.Identity{Subject: created.Email, Role: created.Role})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", created.ID).Msg("user created but token issuance failed")
		return ports.AuthResult{}, fmt.Errorf("register: issue token: %w", err)
	}

	s.log.Info().
		Str("user_id", created.ID).
		Str("role", created.Role.String()).
		Msg("user registered")

	return ports.AuthResult{Token: token, Role: created.Role}, nil
}

// adminCodeMatches compares digests so neither content nor length of the
// configured code leaks through timing.
func (s *AuthService) adminCodeMatches(code string) bool {
	if len(s.adminCode) == 0 || code == "" {
		return false
	}
	want := sha256.Sum256(s.adminCode)
	got := sha256.Sum256([]byte(code))
	return subtle.ConstantTimeCompare(want[:], got[:]) == 1
}

// newUser builds the common part of a user; the role always comes from the
// calling operation.
func newUser(p ports.ProfileInput, role domain.Role) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		Email:       domain.NormalizeEmail(p.Email),
		FullName:    p.FullName,
		PhoneNumber: p.PhoneNumber,
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
