// Package memory holds an in-process user store for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/talentflow/auth-service/internal/core/domain"
)

// UserRepository keeps users in a map keyed by normalised email.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	key := domain.NormalizeEmail(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[key]; exists {
		return nil, domain.ErrDuplicateIdentity
	}

	stored := *user
	stored.Email = key
	stored.ID = ulid.Make().String()
	r.users[key] = stored

	out := stored
	return &out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) Ping(context.Context) error { return nil }

// Len reports how many users are stored.
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
