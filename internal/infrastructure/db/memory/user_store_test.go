package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookstore/bookstore/internal/core/domain"
)

func TestUserStore_CreateAndFind(t *testing.T) {
	s := NewUserStore()
	ctx := context.Background()

	created, err := s.Create(ctx, &domain.User{Email: "a@example.com", PasswordHash: "h", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	byEmail, err := s.FindByEmail(ctx, "A@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", byID.Email)

	_, err = s.Create(ctx, &domain.User{Email: "a@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	_, err = s.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestNewDevUserStore(t *testing.T) {
	s, err := NewDevUserStore(bcrypt.MinCost)
	require.NoError(t, err)

	admin, err := s.FindByEmail(context.Background(), "admin@test.com")
	require.NoError(t, err)
	assert.Equal(t, domain.MockAdminID, admin.ID)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123")))

	created, err := s.Create(context.Background(), &domain.User{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "3", created.ID)
}
