package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookstore/bookstore/internal/core/ports"
)

var _ ports.LoginLimiter = (*LoginLimiter)(nil)

// LoginLimiter counts failed logins per email in Redis.
// Key format: login:attempts:<email>
//
// Every failure pushes the expiry out to Lockout, so an account stays locked
// until it has seen no failures for that long.
type LoginLimiter struct {
	client *redis.Client
	limits ports.LoginLimits
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
func NewLoginLimiter(client *redis.Client, limits ports.LoginLimits) *LoginLimiter {
	if limits.MaxAttempts <= 0 {
		limits.MaxAttempts = 5
	}
	if limits.Lockout <= 0 {
		limits.Lockout = 15 * time.Minute
	}
	return &LoginLimiter{client: client, limits: limits}
}

// Blocked reports whether the email has reached the failure limit.
func (l *LoginLimiter) Blocked(ctx context.Context, email string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(email)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login limiter get: %w", err)
	}
	return n >= l.limits.MaxAttempts, nil
}

// RecordFailure increments the failure counter and refreshes its expiry.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) error {
	key := l.key(email)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, l.limits.Lockout)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login limiter record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	return l.client.Del(ctx, l.key(email)).Err()
}

func (l *LoginLimiter) key(email string) string {
	return "login:attempts:" + strings.ToLower(strings.TrimSpace(email))
}
