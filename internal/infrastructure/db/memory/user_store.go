package memory

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bookstore/bookstore/internal/core/domain"
	"github.com/bookstore/bookstore/internal/core/ports"
)

var _ ports.UserRepository = (*UserStore)(nil)

// UserStore keeps accounts in memory, keyed by id.
type UserStore struct {
	mu     sync.Mutex
	users  []*domain.User
	nextID int64
}

func NewUserStore() *UserStore {
	return &UserStore{}
}

// NewDevUserStore returns a store holding domain.DevAccounts with their
// well-known ids, hashed at the given bcrypt cost.
func NewDevUserStore(cost int) (*UserStore, error) {
	s := NewUserStore()
	now := time.Now().UTC()
	for _, acc := range domain.DevAccounts() {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), cost)
		if err != nil {
			return nil, err
		}
		s.users = append(s.users, &domain.User{
			ID:           acc.ID,
			Email:        acc.Email,
			PasswordHash: string(hash),
			Role:         acc.Role,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if n, err := strconv.ParseInt(acc.ID, 10, 64); err == nil && n > s.nextID {
			s.nextID = n
		}
	}
	return s, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Create enforces email uniqueness under the same lock as the insert.
func (s *UserStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrUserExists
		}
	}

	s.nextID++
	clone := *user
	clone.ID = strconv.FormatInt(s.nextID, 10)
	s.users = append(s.users, &clone)

	out := clone
	return &out, nil
}

func (s *UserStore) Ping(_ context.Context) error {
	return nil
}
