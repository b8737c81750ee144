package domain

import "errors"

var (
	ErrValidation       = errors.New("validation failed")
	ErrBookNotFound     = errors.New("book not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrForbidden        = errors.New("admin privileges required")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrTooManyAttempts  = errors.New("too many login attempts")

	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUnauthenticated      = errors.New("authentication required")
	ErrInvalidToken         = errors.New("invalid token")
	ErrMissingSigningSecret = errors.New("token signing secret is not configured")
)
