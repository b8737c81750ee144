package ports

import (
	"context"

	"github.com/bookstore/bookstore/internal/core/domain"
)

// BookRepository is the catalog store. Missing ids yield domain.ErrBookNotFound.
type BookRepository interface {
	List(ctx context.Context) ([]domain.Book, error)
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	// Create stores b and returns it with its ID assigned.
	Create(ctx context.Context, b domain.Book) (*domain.Book, error)
	// Update applies patch atomically and returns the updated record.
	Update(ctx context.Context, id string, patch domain.BookPatch) (*domain.Book, error)
	// Delete removes the record and returns the deleted snapshot.
	Delete(ctx context.Context, id string) (*domain.Book, error)
	Ping(ctx context.Context) error
}
