package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/talentflow/auth-service/internal/core/domain"
)

const defaultKeyPrefix = "talentflow:"

// UserRepository stores each user as one JSON value under
// <prefix>user:<email>. SETNX on that key is the uniqueness constraint.
type UserRepository struct {
	client *redis.Client
	prefix string
}

func NewUserRepository(client *redis.Client, prefix string) *UserRepository {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &UserRepository{client: client, prefix: prefix}
}

type userRecord struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"password_hash"`
	FullName          string    `json:"full_name,omitempty"`
	PhoneNumber       string    `json:"phone_number,omitempty"`
	Role              string    `json:"role"`
	ProfessionalTitle string    `json:"professional_title,omitempty"`
	Skills            string    `json:"skills,omitempty"`
	PortfolioURL      string    `json:"portfolio_url,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	CompanyName       string    `json:"company_name,omitempty"`
	AdminCode         string    `json:"admin_code,omitempty"`
	Department        string    `json:"department,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	rec := toRecord(user)
	rec.Email = domain.NormalizeEmail(rec.Email)
	rec.ID = ulid.Make().String()

	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.key(rec.Email), payload, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("store user: %w", err)
	}
	if !ok {
		return nil, domain.ErrDuplicateIdentity
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	payload, err := r.client.Get(ctx, r.key(domain.NormalizeEmail(email))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	var rec userRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *UserRepository) key(email string) string {
	return fmt.Sprintf("%suser:%s", r.prefix, email)
}

func toRecord(u *domain.User) userRecord {
	return userRecord{
		ID:                u.ID,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		FullName:          u.FullName,
		PhoneNumber:       u.PhoneNumber,
		Role:              u.Role.String(),
		ProfessionalTitle: u.ProfessionalTitle,
		Skills:            u.Skills,
		PortfolioURL:      u.PortfolioURL,
		Bio:               u.Bio,
		CompanyName:       u.CompanyName,
		AdminCode:         u.AdminCode,
		Department:        u.Department,
		CreatedAt:         u.CreatedAt.UTC(),
		UpdatedAt:         u.UpdatedAt.UTC(),
	}
}

func (rec userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:                rec.ID,
		Email:             rec.Email,
		PasswordHash:      rec.PasswordHash,
		FullName:          rec.FullName,
		PhoneNumber:       rec.PhoneNumber,
		Role:              domain.Role(rec.Role),
		ProfessionalTitle: rec.ProfessionalTitle,
		Skills:            rec.Skills,
		PortfolioURL:      rec.PortfolioURL,
		Bio:               rec.Bio,
		CompanyName:       rec.CompanyName,
		AdminCode:         rec.AdminCode,
		Department:        rec.Department,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
}
