package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookstore/bookstore/internal/core/domain"
	"github.com/bookstore/bookstore/internal/core/ports"
)

const (
	// DefaultBcryptCost is the work factor used for new password hashes.
	DefaultBcryptCost   = 12
	defaultProbeTimeout = time.Second
)

// AuthOptions tunes AuthService behaviour.
type AuthOptions struct {
	BcryptCost int
	// TrustClaimsOffline lets Authenticate accept a verified token without a
	// user lookup while the credential store is unreachable.
	TrustClaimsOffline bool
	ProbeTimeout       time.Duration
}

// AuthService implements signup, login and bearer-token authentication.
type AuthService struct {
	repo    ports.UserRepository
	tokens  ports.TokenService
	limiter ports.LoginLimiter
	opts    AuthOptions
	log     zerolog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService wires the auth use cases. limiter may be nil.
func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, limiter ports.LoginLimiter, opts AuthOptions, log zerolog.Logger) *AuthService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = DefaultBcryptCost
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = defaultProbeTimeout
	}
	return &AuthService{repo: repo, tokens: tokens, limiter: limiter, opts: opts, log: log}
}

func (s *AuthService) Signup(ctx context.Context, email, password, role string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: role must be one of: user admin", domain.ErrValidation)
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("signup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	now := domain.StoreTime(time.Now())
	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("signup: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user signed up")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		blocked, err := s.limiter.Blocked(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
		} else if blocked {
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, fmt.Errorf("login: %w", err)
		}
		// Burn a comparison so unknown emails cost the same as wrong passwords.
		_ = bcrypt.CompareHashAndPassword(s.placeholderHash(), []byte(password))
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("login: issue token: %w", err)
	}

	return token, user, nil
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	identity, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	if identity.Source == domain.SourceMock {
		return identity, nil
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.opts.ProbeTimeout)
	pingErr := s.repo.Ping(probeCtx)
	cancel()
	if pingErr != nil {
		if !s.opts.TrustClaimsOffline {
			return nil, fmt.Errorf("authenticate: %w: %v", domain.ErrStoreUnavailable, pingErr)
		}
		s.log.Warn().Err(pingErr).Str("user_id", identity.UserID).Msg("credential store unreachable, trusting token claims")
		identity.Source = domain.SourceClaims
		return identity, nil
	}

	user, err := s.repo.FindByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	return &domain.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Source: domain.SourceStore,
	}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

func (s *AuthService) placeholderHash() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("bookstore-placeholder"), s.opts.BcryptCost)
		if err != nil {
			h = []byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinvali")
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
