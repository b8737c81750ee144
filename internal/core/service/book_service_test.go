package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookstore/bookstore/internal/core/domain"
	"github.com/bookstore/bookstore/internal/core/ports"
	"github.com/bookstore/bookstore/internal/infrastructure/db/memory"
)

func ptr[T any](v T) *T { return &v }

func newTestBookService(now time.Time) (*BookService, *memory.BookStore) {
	store := memory.NewBookStore(nil)
	svc := NewBookService(store, zerolog.Nop())
	svc.now = func() time.Time { return now }
	return svc, store
}

func TestCreateBook_RoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestBookService(now)
	ctx := context.Background()

	created, err := svc.CreateBook(ctx, ports.CreateBookInput{Title: "T", Author: "A", Price: 9.99, Stock: ptr(int64(5))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := svc.GetBook(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "T" || got.Author != "A" || got.Price != 9.99 || got.Stock != 5 {
		t.Fatalf("unexpected book %+v", got)
	}
	if !got.CreatedAt.Equal(got.UpdatedAt) || !got.CreatedAt.Equal(now) {
		t.Fatalf("expected createdAt == updatedAt == now, got %v / %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestBookTimestampsUseStorePrecision(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.FixedZone("CET", 3600))
	svc, _ := newTestBookService(now)
	ctx := context.Background()

	created, err := svc.CreateBook(ctx, ports.CreateBookInput{Title: "T", Author: "A", Price: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 5, 1, 11, 0, 0, 123000000, time.UTC)
	if !created.CreatedAt.Equal(want) || !created.UpdatedAt.Equal(want) || created.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected %v, got %v / %v", want, created.CreatedAt, created.UpdatedAt)
	}

	svc.now = func() time.Time { return now.Add(time.Second + 999*time.Microsecond) }
	updated, err := svc.UpdateBook(ctx, created.ID, ports.UpdateBookInput{Price: ptr(2.0)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.UpdatedAt.Equal(want.Add(time.Second)) {
		t.Fatalf("expected updatedAt %v, got %v", want.Add(time.Second), updated.UpdatedAt)
	}
}

func TestCreateBook_DefaultsStockToZero(t *testing.T) {
	svc, _ := newTestBookService(time.Now())
	b, err := svc.CreateBook(context.Background(), ports.CreateBookInput{Title: "T", Author: "A", Price: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Stock != 0 || b.Price != 0 {
		t.Fatalf("unexpected book %+v", b)
	}
}

func TestCreateBook_Validation(t *testing.T) {
	svc, _ := newTestBookService(time.Now())
	cases := []ports.CreateBookInput{
		{Author: "A", Price: 1},
		{Title: "T", Price: 1},
		{Title: "T", Author: "A", Price: -1},
		{Title: "T", Author: "A", Price: 1, Stock: ptr(int64(-1))},
	}
	for _, in := range cases {
		if _, err := svc.CreateBook(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%+v: expected ErrValidation, got %v", in, err)
		}
	}
}

func TestUpdateBook_MergesAndRefreshesUpdatedAt(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc, _ := newTestBookService(created)
	ctx := context.Background()

	b, err := svc.CreateBook(ctx, ports.CreateBookInput{Title: "T", Author: "A", Price: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	later := created.Add(time.Hour)
	svc.now = func() time.Time { return later }

	updated, err := svc.UpdateBook(ctx, b.ID, ports.UpdateBookInput{Title: ptr(""), Stock: ptr(int64(3))})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "T" || updated.Author != "A" || updated.Price != 5 || updated.Stock != 3 {
		t.Fatalf("unexpected merge result %+v", updated)
	}
	if !updated.UpdatedAt.Equal(later) || !updated.CreatedAt.Equal(created) {
		t.Fatalf("timestamps not handled: %+v", updated)
	}
}

func TestUpdateBook_RejectsNegativeValues(t *testing.T) {
	svc, _ := newTestBookService(time.Now())
	_, err := svc.UpdateBook(context.Background(), "1", ports.UpdateBookInput{Price: ptr(-0.5)})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestBookService_NotFoundIsStable(t *testing.T) {
	svc, _ := newTestBookService(time.Now())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.GetBook(ctx, "missing"); !errors.Is(err, domain.ErrBookNotFound) {
			t.Fatalf("call %d: expected ErrBookNotFound, got %v", i, err)
		}
	}
	if _, err := svc.UpdateBook(ctx, "missing", ports.UpdateBookInput{Title: ptr("x")}); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound on update, got %v", err)
	}
	if _, err := svc.DeleteBook(ctx, "missing"); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound on delete, got %v", err)
	}
}

func TestDeleteBook_ReturnsSnapshot(t *testing.T) {
	svc, _ := newTestBookService(time.Now())
	ctx := context.Background()

	b, _ := svc.CreateBook(ctx, ports.CreateBookInput{Title: "Gone", Author: "A", Price: 1})
	deleted, err := svc.DeleteBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Title != "Gone" {
		t.Fatalf("unexpected snapshot %+v", deleted)
	}
	books, _ := svc.ListBooks(ctx)
	if len(books) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(books))
	}
}
