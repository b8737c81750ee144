package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookstore/bookstore/internal/core/domain"
	"github.com/bookstore/bookstore/internal/core/ports"
)

type BookService struct {
	repo   ports.BookRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewBookService(repo ports.BookRepository, logger zerolog.Logger) *BookService {
	return &BookService{repo: repo, logger: logger, now: time.Now}
}

func (s *BookService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *BookService) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get book %s: %w", id, err)
	}
	return book, nil
}

// CreateBook stores a new book; createdAt and updatedAt are identical.
func (s *BookService) CreateBook(ctx context.Context, input ports.CreateBookInput) (*domain.Book, error) {
	if input.Title == "" || input.Author == "" {
		return nil, fmt.Errorf("%w: title, author and price are required", domain.ErrValidation)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price must be non-negative", domain.ErrValidation)
	}
	var stock int64
	if input.Stock != nil {
		stock = *input.Stock
	}
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock must be non-negative", domain.ErrValidation)
	}

	now := domain.StoreTime(s.now())
	created, err := s.repo.Create(ctx, domain.Book{
		Title:     input.Title,
		Author:    input.Author,
		Price:     input.Price,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("title", input.Title).Msg("failed to create book")
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info().Str("book_id", created.ID).Str("title", created.Title).Msg("book created")
	return created, nil
}

// UpdateBook merges the supplied fields into the stored book.
func (s *BookService) UpdateBook(ctx context.Context, id string, input ports.UpdateBookInput) (*domain.Book, error) {
	if input.Price != nil && *input.Price < 0 {
		return nil, fmt.Errorf("%w: price must be non-negative", domain.ErrValidation)
	}
	if input.Stock != nil && *input.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must be non-negative", domain.ErrValidation)
	}

	patch := domain.BookPatch{
		Title:     nonEmpty(input.Title),
		Author:    nonEmpty(input.Author),
		Price:     input.Price,
		Stock:     input.Stock,
		UpdatedAt: domain.StoreTime(s.now()),
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update book %s: %w", id, err)
	}

	s.logger.Info().Str("book_id", id).Msg("book updated")
	return updated, nil
}

func (s *BookService) DeleteBook(ctx context.Context, id string) (*domain.Book, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete book %s: %w", id, err)
	}

	s.logger.Info().Str("book_id", id).Str("title", deleted.Title).Msg("book deleted")
	return deleted, nil
}

// nonEmpty treats a blank string as "not supplied".
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
