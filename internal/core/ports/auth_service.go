package ports

import (
	"context"
	"time"

	"github.com/bookstore/bookstore/internal/core/domain"
)

type AuthService interface {
	Signup(ctx context.Context, email, password, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Authenticate resolves a bearer token into the caller identity.
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	// Verify never panics; any malformed, expired or forged token yields
	// domain.ErrInvalidToken.
	Verify(token string) (*domain.Identity, error)
}

// LoginLimiter throttles repeated failed logins per email.
type LoginLimiter interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// LoginLimits configures a LoginLimiter.
type LoginLimits struct {
	MaxAttempts int
	Lockout     time.Duration
}
