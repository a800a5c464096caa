package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/talentflow/auth-service/internal/core/domain"
)

const (
	defaultTokenTTL = 24 * time.Hour
	defaultIssuer   = "talentflow"
)

// TokenConfig configures a JWTTokenService.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Leeway time.Duration
	Issuer string
}

// sessionClaims is the JWT payload: sub carries the email.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTTokenService issues HS256 session tokens.
type JWTTokenService struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTTokenService returns a token service signing with cfg.Secret.
func NewJWTTokenService(cfg TokenConfig) (*JWTTokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token service: signing secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTokenTTL
	}
	if cfg.Leeway < 0 {
		cfg.Leeway = 0
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}
	return &JWTTokenService{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		leeway: cfg.Leeway,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// TTL returns the lifetime given to issued tokens.
func (s *JWTTokenService) TTL() time.Duration { return s.ttl }

func (s *JWTTokenService) Issue(identity domain.Identity) (string, error) {
	if identity.Subject == "" || !identity.Role.Valid() {
		return "", fmt.Errorf("issue token: %w", domain.ErrInvalidInput)
	}

	now := s.now()
	claims := sessionClaims{
		Role: identity.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTTokenService) Validate(token string) (domain.Identity, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, domain.ErrTokenExpired
		}
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil || claims.Subject == "" {
		return domain.Identity{}, domain.ErrTokenInvalid
	}
	return domain.Identity{Subject: claims.Subject, Role: role}, nil
}
