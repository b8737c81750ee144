package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookstore/bookstore/internal/core/domain"
)

func TestJWTTokenService_RequiresSecret(t *testing.T) {
	if _, err := NewJWTTokenService("", time.Hour); !errors.Is(err, domain.ErrMissingSigningSecret) {
		t.Fatalf("expected ErrMissingSigningSecret, got %v", err)
	}
}

func TestJWTTokenService_RoundTrip(t *testing.T) {
	svc, err := NewJWTTokenService("secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := svc.Issue(&domain.User{ID: "u1", Email: "a@b.c", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	identity, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.UserID != "u1" || identity.Role != domain.RoleAdmin || identity.Email != "a@b.c" {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if identity.Source != domain.SourceClaims {
		t.Fatalf("expected claims source, got %q", identity.Source)
	}
}

func TestJWTTokenService_RejectsExpired(t *testing.T) {
	svc, _ := NewJWTTokenService("secret", time.Hour)
	token, err := svc.Issue(&domain.User{ID: "u1", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTTokenService_RejectsForgedAndMalformed(t *testing.T) {
	svc, _ := NewJWTTokenService("secret", time.Hour)
	other, _ := NewJWTTokenService("other", time.Hour)

	forged, _ := other.Issue(&domain.User{ID: "u1", Role: domain.RoleAdmin})

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "role": "admin"}).
		SignedString([]byte("secret"))

	wrongAlg, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "u1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))

	for name, tok := range map[string]string{
		"forged":    forged,
		"no-exp":    noExp,
		"wrong-alg": wrongAlg,
		"garbage":   "not.a.token",
		"empty":     "",
		"mock":      "mock-token-1",
	} {
		if _, err := svc.Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestDevTokenService_MockTokens(t *testing.T) {
	svc := NewDevTokenService(nil)

	admin, err := svc.Verify("mock-token-1")
	if err != nil || admin.Role != domain.RoleAdmin || admin.UserID != "1" || admin.Source != domain.SourceMock {
		t.Fatalf("unexpected admin identity %+v (%v)", admin, err)
	}
	user, err := svc.Verify("mock-token-42")
	if err != nil || user.Role != domain.RoleUser || user.UserID != "42" {
		t.Fatalf("unexpected user identity %+v (%v)", user, err)
	}
	if _, err := svc.Verify("mock-token-"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected empty mock id to be invalid, got %v", err)
	}
	if _, err := svc.Verify("eyJhbGciOi.x.y"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected non-mock token without secret to be invalid, got %v", err)
	}

	token, err := svc.Issue(&domain.User{ID: "7"})
	if err != nil || token != "mock-token-7" {
		t.Fatalf("expected mock token, got %q (%v)", token, err)
	}
}

func TestDevTokenService_DelegatesWhenSigned(t *testing.T) {
	signed, _ := NewJWTTokenService("secret", time.Hour)
	svc := NewDevTokenService(signed)

	token, err := svc.Issue(&domain.User{ID: "u9", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if strings.HasPrefix(token, MockTokenPrefix) {
		t.Fatal("expected a signed token when a secret is configured")
	}
	identity, err := svc.Verify(token)
	if err != nil || identity.UserID != "u9" {
		t.Fatalf("unexpected identity %+v (%v)", identity, err)
	}
}

func TestNewTokenService_SelectsByMode(t *testing.T) {
	if _, err := NewTokenService("", time.Hour, false); !errors.Is(err, domain.ErrMissingSigningSecret) {
		t.Fatalf("production without secret must fail, got %v", err)
	}

	prod, err := NewTokenService("secret", time.Hour, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := prod.Verify("mock-token-1"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("mock tokens must be rejected outside development, got %v", err)
	}

	dev, err := NewTokenService("", time.Hour, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := dev.Verify("mock-token-1"); err != nil {
		t.Fatalf("mock tokens must work in development, got %v", err)
	}
}
