package ports

import (
	"context"

	"github.com/bookstore/bookstore/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create persists user and returns the stored record with its ID set.
	// A duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Ping reports whether the store is reachable right now.
	Ping(ctx context.Context) error
}
