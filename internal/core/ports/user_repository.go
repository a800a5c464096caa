package ports

import (
	"context"

	"github.com/talentflow/auth-service/internal/core/domain"
)

// UserRepository is the durable email -> user mapping.
//
// Create must enforce email uniqueness atomically and report a clash as
// domain.ErrDuplicateIdentity. FindByEmail returns domain.ErrUserNotFound when
// no user matches.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Ping(ctx context.Context) error
}
