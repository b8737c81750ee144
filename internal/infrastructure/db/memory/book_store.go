// Package memory implements process-local stores used as the catalog
// fallback and for running without a database in development. Contents are
// lost on restart.
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/bookstore/bookstore/internal/core/domain"
	"github.com/bookstore/bookstore/internal/core/ports"
)

var _ ports.BookRepository = (*BookStore)(nil)

// BookStore is a mutex-guarded book list with monotonically increasing ids.
type BookStore struct {
	mu     sync.Mutex
	books  []domain.Book
	nextID int64
}

// NewBookStore returns a store pre-loaded with seed.
func NewBookStore(seed []domain.Book) *BookStore {
	s := &BookStore{books: make([]domain.Book, 0, len(seed))}
	for _, b := range seed {
		s.books = append(s.books, b)
		if n, err := strconv.ParseInt(b.ID, 10, 64); err == nil && n > s.nextID {
			s.nextID = n
		}
	}
	return s
}

// NewSeededBookStore returns a store holding domain.SeedBooks.
func NewSeededBookStore() *BookStore {
	return NewBookStore(domain.SeedBooks(time.Now().UTC()))
}

func (s *BookStore) List(_ context.Context) ([]domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Book, len(s.books))
	copy(out, s.books)
	return out, nil
}

func (s *BookStore) FindByID(_ context.Context, id string) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrBookNotFound
	}
	b := s.books[i]
	return &b, nil
}

func (s *BookStore) Create(_ context.Context, b domain.Book) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	b.ID = strconv.FormatInt(s.nextID, 10)
	s.books = append(s.books, b)
	return &b, nil
}

func (s *BookStore) Update(_ context.Context, id string, patch domain.BookPatch) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrBookNotFound
	}
	patch.Apply(&s.books[i])
	b := s.books[i]
	return &b, nil
}

func (s *BookStore) Delete(_ context.Context, id string) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrBookNotFound
	}
	deleted := s.books[i]
	s.books = append(s.books[:i], s.books[i+1:]...)
	return &deleted, nil
}

// Ping always succeeds.
func (s *BookStore) Ping(_ context.Context) error {
	return nil
}

// indexOf must be called with mu held.
func (s *BookStore) indexOf(id string) int {
	for i := range s.books {
		if s.books[i].ID == id {
			return i
		}
	}
	return -1
}
