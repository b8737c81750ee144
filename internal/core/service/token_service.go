package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookstore/bookstore/internal/core/domain"
	"github.com/bookstore/bookstore/internal/core/ports"
)

// MockTokenPrefix marks unsigned development tokens: mock-token-<userID>.
const MockTokenPrefix = "mock-token-"

const defaultTokenTTL = 24 * time.Hour

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

// JWTTokenService issues HS256 tokens bound to a user id.
type JWTTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTTokenService fails closed when no signing secret is configured.
func NewJWTTokenService(secret string, ttl time.Duration) (*JWTTokenService, error) {
	if secret == "" {
		return nil, domain.ErrMissingSigningSecret
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTTokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (s *JWTTokenService) Issue(user *domain.User) (string, error) {
	now := s.now().UTC()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: user.Email,
		Role:  user.Role,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

func (s *JWTTokenService) Verify(token string) (*domain.Identity, error) {
	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	return &domain.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
		Source: domain.SourceClaims,
	}, nil
}

// DevTokenService additionally accepts mock-token-<id> credentials. It must
// only be constructed when the deployment runs in insecure development mode.
type DevTokenService struct {
	signed *JWTTokenService // nil when no secret is configured
}

func NewDevTokenService(signed *JWTTokenService) *DevTokenService {
	return &DevTokenService{signed: signed}
}

// Issue signs a real token when a secret is available and falls back to the
// mock format otherwise.
func (s *DevTokenService) Issue(user *domain.User) (string, error) {
	if s.signed != nil {
		return s.signed.Issue(user)
	}
	return MockTokenPrefix + user.ID, nil
}

func (s *DevTokenService) Verify(token string) (*domain.Identity, error) {
	if strings.HasPrefix(token, MockTokenPrefix) {
		id := strings.TrimPrefix(token, MockTokenPrefix)
		if id == "" {
			return nil, domain.ErrInvalidToken
		}
		role := domain.RoleUser
		if id == domain.MockAdminID {
			role = domain.RoleAdmin
		}
		return &domain.Identity{UserID: id, Role: role, Source: domain.SourceMock}, nil
	}
	if s.signed == nil {
		return nil, domain.ErrInvalidToken
	}
	return s.signed.Verify(token)
}

// NewTokenService picks the token implementation for the deployment mode.
// Outside insecure development mode a signing secret is mandatory.
func NewTokenService(secret string, ttl time.Duration, insecureDev bool) (ports.TokenService, error) {
	signed, err := NewJWTTokenService(secret, ttl)
	if !insecureDev {
		if err != nil {
			return nil, err
		}
		return signed, nil
	}
	if err != nil && !errors.Is(err, domain.ErrMissingSigningSecret) {
		return nil, err
	}
	return NewDevTokenService(signed), nil
}
