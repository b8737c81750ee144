package ports

import (
	"context"

	"github.com/bookstore/bookstore/internal/core/domain"
)

// CreateBookInput carries a validated create request.
type CreateBookInput struct {
	Title  string
	Author string
	Price  float64
	Stock  *int64 // nil defaults to 0
}

// UpdateBookInput carries a validated partial update. Nil fields are untouched.
type UpdateBookInput struct {
	Title  *string
	Author *string
	Price  *float64
	Stock  *int64
}

// BookService defines the catalog use cases.
type BookService interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	CreateBook(ctx context.Context, input CreateBookInput) (*domain.Book, error)
	UpdateBook(ctx context.Context, id string, input UpdateBookInput) (*domain.Book, error)
	DeleteBook(ctx context.Context, id string) (*domain.Book, error)
}
