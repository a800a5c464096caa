package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/talentflow/auth-service/internal/core/domain"
	"github.com/talentflow/auth-service/internal/core/ports"
	"github.com/talentflow/auth-service/internal/infrastructure/db/memory"
	"github.com/talentflow/auth-service/internal/infrastructure/security"
)

const testAdminCode = "let-me-in-2026"

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

// spyRepo wraps the in-memory store and counts writes.
type spyRepo struct {
	*memory.UserRepository
	mu        sync.Mutex
	creates   int
	findErr   error
	createErr error
}

func newSpyRepo() *spyRepo {
	return &spyRepo{UserRepository: memory.NewUserRepository()}
}

func (r *spyRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	r.creates++
	r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	return r.UserRepository.Create(ctx, u)
}

func (r *spyRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.UserRepository.FindByEmail(ctx, email)
}

// spyHasher wraps bcrypt and records Verify targets.
type spyHasher struct {
	ports.PasswordHasher
	mu       sync.Mutex
	hashes   int
	verified []string
}

func (h *spyHasher) Hash(password string) (string, error) {
	h.mu.Lock()
	h.hashes++
	h.mu.Unlock()
	return h.PasswordHasher.Hash(password)
}

func (h *spyHasher) Verify(password, hash string) bool {
	h.mu.Lock()
	h.verified = append(h.verified, hash)
	h.mu.Unlock()
	return h.PasswordHasher.Verify(password, hash)
}

type failingTokens struct{ err error }

func (f failingTokens) Issue(domain.Identity) (string, error)    { return "", f.err }
func (f failingTokens) Validate(string) (domain.Identity, error) { return domain.Identity{}, f.err }

type fixture struct {
	svc    *AuthService
	repo   *spyRepo
	hasher *spyHasher
	tokens *security.JWTTokenService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo := newSpyRepo()
	hasher := &spyHasher{PasswordHasher: security.NewBcryptHasher(bcrypt.MinCost)}
	tokens, err := security.NewJWTTokenService(security.TokenConfig{Secret: "unit-test-secret", TTL: time.Hour})
	require.NoError(t, err)

	svc, err := NewAuthService(repo, hasher, tokens, testAdminCode, zerolog.Nop())
	require.NoError(t, err)
	return fixture{svc: svc, repo: repo, hasher: hasher, tokens: tokens}
}

func freelancer(email, password string) ports.FreelancerRegistration {
	return ports.FreelancerRegistration{
		ProfileInput:      ports.ProfileInput{FullName: "Ann", Email: email, Password: password},
		ProfessionalTitle: "Dev",
		Skills:            "go",
	}
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNewAuthService_NilDependencies(t *testing.T) {
	repo := newSpyRepo()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	tokens := failingTokens{}

	tests := []struct {
		name   string
		repo   ports.UserRepository
		hasher ports.PasswordHasher
		tokens ports.TokenService
		want   string
	}{
		{"nil repository", nil, hasher, tokens, "user repository is required"},
		{"nil hasher", repo, nil, tokens, "password hasher is required"},
		{"nil token service", repo, hasher, nil, "token service is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewAuthService(tt.repo, tt.hasher, tt.tokens, "", zerolog.Nop())
			require.Error(t, err)
			assert.Nil(t, svc)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

type brokenHasher struct{ err error }

func (h brokenHasher) Hash(string) (string, error) { return "", h.err }
func (h brokenHasher) Verify(string, string) bool  { return false }

func TestNewAuthService_PreparesTimingHash(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, 1, f.hasher.hashes, "timing hash is computed at construction")

	_, err := f.svc.Login(context.Background(), ports.Credentials{Email: "ghost@x.com", Password: "anything"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, 1, f.hasher.hashes, "unknown-email login must not hash")
	require.Len(t, f.hasher.verified, 1)
	assert.Equal(t, f.svc.dummyHash, f.hasher.verified[0])
}

func TestNewAuthService_HasherFailure(t *testing.T) {
	boom := errors.New("entropy exhausted")
	tokens, err := security.NewJWTTokenService(security.TokenConfig{Secret: "unit-test-secret"})
	require.NoError(t, err)

	svc, err := NewAuthService(newSpyRepo(), brokenHasher{err: boom}, tokens, "", zerolog.Nop())
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, boom)
}

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------

func TestAuthService_RegisterFreelancer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.RegisterFreelancer(ctx, freelancer("ann@x.com", "Secret123"))
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.RoleFreelancer, res.Role)

	identity, err := f.tokens.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{Subject: "ann@x.com", Role: domain.RoleFreelancer}, identity)

	stored, err := f.repo.FindByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", stored.PasswordHash)
	assert.True(t, f.hasher.Verify("Secret123", stored.PasswordHash))
	assert.Equal(t, "Dev", stored.ProfessionalTitle)
	assert.Empty(t, stored.CompanyName)
	assert.Empty(t, stored.AdminCode)
}

func TestAuthService_RegisterClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.RegisterClient(ctx, ports.ClientRegistration{
		ProfileInput: ports.ProfileInput{FullName: "Corp", Email: "corp@x.com", Password: "Secret123", PhoneNumber: "555"},
		CompanyName:  "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, res.Role)

	stored, err := f.repo.FindByEmail(ctx, "corp@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, stored.Role)
	assert.Equal(t, "Acme", stored.CompanyName)
	assert.Equal(t, "555", stored.PhoneNumber)
	assert.Empty(t, stored.ProfessionalTitle)
}

func TestAuthService_RegisterAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("matching code registers admin", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.svc.RegisterAdmin(ctx, ports.AdminRegistration{
			ProfileInput: ports.ProfileInput{Email: "root@x.com", Password: "Secret123"},
			AdminCode:    testAdminCode,
			Department:   "Ops",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, res.Role)

		stored, err := f.repo.FindByEmail(ctx, "root@x.com")
		require.NoError(t, err)
		assert.Equal(t, testAdminCode, stored.AdminCode)
		assert.Equal(t, "Ops", stored.Department)
	})

	for _, code := range []string{"", "wrong", testAdminCode + " ", "LET-ME-IN-2026"} {
		t.Run("rejects code "+code, func(t *testing.T) {
			f := newFixture(t)
			res, err := f.svc.RegisterAdmin(ctx, ports.AdminRegistration{
				ProfileInput: ports.ProfileInput{Email: "root@x.com", Password: "Secret123"},
				AdminCode:    code,
			})
			assert.ErrorIs(t, err, domain.ErrInvalidAdminCode)
			assert.Empty(t, res.Token)
			assert.Zero(t, f.repo.creates, "no store writes expected")
			assert.Equal(t, 1, f.hasher.hashes, "only the timing hash expected")
			assert.Zero(t, f.repo.Len())
		})
	}

	t.Run("unconfigured code disables admin registration", func(t *testing.T) {
		f := newFixture(t)
		svc, err := NewAuthService(f.repo, f.hasher, f.tokens, "", zerolog.Nop())
		require.NoError(t, err)

		_, err = svc.RegisterAdmin(ctx, ports.AdminRegistration{
			ProfileInput: ports.ProfileInput{Email: "root@x.com", Password: "Secret123"},
			AdminCode:    "",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidAdminCode)
		assert.Zero(t, f.repo.creates)
	})
}

func TestAuthService_Register_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RegisterFreelancer(ctx, freelancer("", "Secret123"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.RegisterClient(ctx, ports.ClientRegistration{ProfileInput: ports.ProfileInput{Email: "c@x.com"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// 40 runes, 80 bytes.
	_, err = f.svc.RegisterClient(ctx, ports.ClientRegistration{ProfileInput: ports.ProfileInput{
		Email:    "mb@x.com",
		Password: strings.Repeat("é", 40),
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrPasswordTooLong)

	assert.Zero(t, f.repo.creates)
}

func TestAuthService_Register_DuplicateAcrossRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RegisterFreelancer(ctx, freelancer("ann@x.com", "Secret123"))
	require.NoError(t, err)

	_, err = f.svc.RegisterClient(ctx, ports.ClientRegistration{
		ProfileInput: ports.ProfileInput{Email: "ann@x.com", Password: "Other1234"},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)

	_, err = f.svc.RegisterAdmin(ctx, ports.AdminRegistration{
		ProfileInput: ports.ProfileInput{Email: " ANN@x.com", Password: "Other1234"},
		AdminCode:    testAdminCode,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)

	stored, err := f.repo.FindByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFreelancer, stored.Role)
}

func TestAuthService_Register_ConcurrentDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 10
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = f.svc.RegisterFreelancer(ctx, freelancer("race@x.com", "Secret123"))
			} else {
				_, err = f.svc.RegisterClient(ctx, ports.ClientRegistration{
					ProfileInput: ports.ProfileInput{Email: "race@x.com", Password: "Secret123"},
				})
			}
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var ok, dupes int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrDuplicateIdentity):
			dupes++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, dupes)
	assert.Equal(t, 1, f.repo.Len())
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("mongo unavailable")
	f.repo.createErr = boom

	_, err := f.svc.RegisterFreelancer(context.Background(), freelancer("ann@x.com", "Secret123"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, domain.ErrDuplicateIdentity))
}

func TestAuthService_Register_TokenFailureKeepsUser(t *testing.T) {
	repo := newSpyRepo()
	boom := errors.New("signer down")
	svc, err := NewAuthService(repo, security.NewBcryptHasher(bcrypt.MinCost), failingTokens{err: boom}, testAdminCode, zerolog.Nop())
	require.NoError(t, err)

	_, err = svc.RegisterFreelancer(context.Background(), freelancer("ann@x.com", "Secret123"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, repo.Len(), "user record remains after issuance failure")
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RegisterFreelancer(ctx, freelancer("ann@x.com", "Secret123"))
	require.NoError(t, err)

	t.Run("success returns stored role", func(t *testing.T) {
		res, err := f.svc.Login(ctx, ports.Credentials{Email: "ann@x.com", Password: "Secret123"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, domain.RoleFreelancer, res.Role)

		identity, err := f.svc.ValidateToken(res.Token)
		require.NoError(t, err)
		assert.Equal(t, "ann@x.com", identity.Subject)
		assert.Equal(t, domain.RoleFreelancer, identity.Role)
	})

	t.Run("email lookup is normalised", func(t *testing.T) {
		res, err := f.svc.Login(ctx, ports.Credentials{Email: "  Ann@X.COM", Password: "Secret123"})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleFreelancer, res.Role)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, wrongPwErr := f.svc.Login(ctx, ports.Credentials{Email: "ann@x.com", Password: "wrong"})
		_, unknownErr := f.svc.Login(ctx, ports.Credentials{Email: "unknown@x.com", Password: "anything"})

		assert.ErrorIs(t, wrongPwErr, domain.ErrInvalidCredentials)
		assert.ErrorIs(t, unknownErr, domain.ErrInvalidCredentials)
		assert.Equal(t, wrongPwErr.Error(), unknownErr.Error())
	})

	t.Run("unknown email still runs a verification", func(t *testing.T) {
		before := len(f.hasher.verified)
		_, err := f.svc.Login(ctx, ports.Credentials{Email: "ghost@x.com", Password: "anything"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		require.Len(t, f.hasher.verified, before+1)
		assert.NotEmpty(t, f.hasher.verified[before], "verification must use a real bcrypt hash")
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, err := f.svc.Login(ctx, ports.Credentials{})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("connection reset")
	f.repo.findErr = boom

	_, err := f.svc.Login(context.Background(), ports.Credentials{Email: "ann@x.com", Password: "Secret123"})
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, domain.ErrInvalidCredentials))
}

func TestAuthService_ValidateToken_Empty(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ValidateToken("")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
