package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bookstore/bookstore/internal/core/domain"
	"github.com/bookstore/bookstore/internal/core/ports"
)

type stubBookService struct {
	listFn   func(ctx context.Context) ([]domain.Book, error)
	getFn    func(ctx context.Context, id string) (*domain.Book, error)
	createFn func(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error)
	updateFn func(ctx context.Context, id string, in ports.UpdateBookInput) (*domain.Book, error)
	deleteFn func(ctx context.Context, id string) (*domain.Book, error)
}

func (s *stubBookService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.listFn(ctx)
}

func (s *stubBookService) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return s.getFn(ctx, id)
}

func (s *stubBookService) CreateBook(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error) {
	return s.createFn(ctx, in)
}

func (s *stubBookService) UpdateBook(ctx context.Context, id string, in ports.UpdateBookInput) (*domain.Book, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubBookService) DeleteBook(ctx context.Context, id string) (*domain.Book, error) {
	return s.deleteFn(ctx, id)
}

var fixedTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestBookHandler_List(t *testing.T) {
	stub := &stubBookService{
		listFn: func(ctx context.Context) ([]domain.Book, error) {
			return domain.SeedBooks(fixedTime), nil
		},
	}
	c, rec := newJSONContext(http.MethodGet, "/books", "")
	if err := NewBookHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var books []bookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &books); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(books) != 3 || books[0].Title != "The Great Gatsby" {
		t.Fatalf("unexpected books %+v", books)
	}
}

func TestBookHandler_List_EmptyIsArray(t *testing.T) {
	stub := &stubBookService{
		listFn: func(ctx context.Context) ([]domain.Book, error) { return nil, nil },
	}
	c, rec := newJSONContext(http.MethodGet, "/books", "")
	if err := NewBookHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestBookHandler_Get_NotFound(t *testing.T) {
	stub := &stubBookService{
		getFn: func(ctx context.Context, id string) (*domain.Book, error) {
			if id != "missing" {
				t.Fatalf("unexpected id %q", id)
			}
			return nil, domain.ErrBookNotFound
		},
	}
	c, _ := newJSONContext(http.MethodGet, "/books/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := NewBookHandler(stub).Get(c); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestBookHandler_Create_CoercesNumericStrings(t *testing.T) {
	stub := &stubBookService{
		createFn: func(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error) {
			if in.Price != 9.99 || in.Stock == nil || *in.Stock != 5 {
				t.Fatalf("unexpected input %+v", in)
			}
			return &domain.Book{ID: "4", Title: in.Title, Author: in.Author, Price: in.Price, Stock: *in.Stock, CreatedAt: fixedTime, UpdatedAt: fixedTime}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/books", `{"title":"T","author":"A","price":"9.99","stock":" 5 "}`)
	if err := NewBookHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var b bookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if b.ID != "4" || !b.CreatedAt.Equal(b.UpdatedAt) {
		t.Fatalf("unexpected book %+v", b)
	}
}

func TestBookHandler_Create_AllowsZeroPriceAndMissingStock(t *testing.T) {
	stub := &stubBookService{
		createFn: func(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error) {
			if in.Price != 0 || in.Stock != nil {
				t.Fatalf("unexpected input %+v", in)
			}
			return &domain.Book{ID: "1", Title: in.Title, Author: in.Author}, nil
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/books", `{"title":"Free","author":"A","price":0}`)
	if err := NewBookHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestBookHandler_Create_Validation(t *testing.T) {
	stub := &stubBookService{
		createFn: func(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	for _, body := range []string{
		`{"author":"A","price":1}`,
		`{"title":"T","price":1}`,
		`{"title":"T","author":"A"}`,
		`{"title":"T","author":"A","price":null}`,
		`{"title":"T","author":"A","price":-1}`,
		`{"title":"T","author":"A","price":"abc"}`,
		`{"title":"T","author":"A","price":1,"stock":-2}`,
		`{"title":"T","author":"A","price":1,"stock":1.5}`,
		`{"title":"T","author":"A","price":"NaN"}`,
	} {
		c, _ := newJSONContext(http.MethodPost, "/books", body)
		if err := NewBookHandler(stub).Create(c); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", body, err)
		}
	}
}

func TestBookHandler_Update_PassesOnlySuppliedFields(t *testing.T) {
	stub := &stubBookService{
		updateFn: func(ctx context.Context, id string, in ports.UpdateBookInput) (*domain.Book, error) {
			if id != "2" {
				t.Fatalf("unexpected id %q", id)
			}
			if in.Title != nil || in.Author != nil || in.Stock != nil {
				t.Fatalf("unexpected fields %+v", in)
			}
			if in.Price == nil || *in.Price != 20 {
				t.Fatalf("expected price 20, got %v", in.Price)
			}
			return &domain.Book{ID: id, Price: *in.Price}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPut, "/books/2", `{"price":"20"}`)
	c.SetParamNames("id")
	c.SetParamValues("2")

	if err := NewBookHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBookHandler_Update_RejectsNegativeStock(t *testing.T) {
	stub := &stubBookService{
		updateFn: func(ctx context.Context, id string, in ports.UpdateBookInput) (*domain.Book, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	c, _ := newJSONContext(http.MethodPut, "/books/2", `{"stock":-1}`)
	c.SetParamNames("id")
	c.SetParamValues("2")
	if err := NewBookHandler(stub).Update(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestBookHandler_RejectsOutOfRangeStock(t *testing.T) {
	stub := &stubBookService{
		createFn: func(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
		updateFn: func(ctx context.Context, id string, in ports.UpdateBookInput) (*domain.Book, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	for _, stock := range []string{`9223372036854775807`, `1e19`, `"1000000001"`} {
		c, _ := newJSONContext(http.MethodPost, "/books", `{"title":"T","author":"A","price":1,"stock":`+stock+`}`)
		err := NewBookHandler(stub).Create(c)
		if !errors.Is(err, domain.ErrValidation) || !strings.Contains(err.Error(), "stock must be at most") {
			t.Fatalf("create stock=%s: expected upper bound error, got %v", stock, err)
		}

		c, _ = newJSONContext(http.MethodPut, "/books/1", `{"stock":`+stock+`}`)
		err = NewBookHandler(stub).Update(c)
		if !errors.Is(err, domain.ErrValidation) || !strings.Contains(err.Error(), "stock must be at most") {
			t.Fatalf("update stock=%s: expected upper bound error, got %v", stock, err)
		}
	}
}

func TestBookHandler_Create_AcceptsStockAtUpperBound(t *testing.T) {
	stub := &stubBookService{
		createFn: func(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error) {
			if in.Stock == nil || *in.Stock != 1000000000 {
				t.Fatalf("unexpected input %+v", in)
			}
			return &domain.Book{ID: "9", Title: in.Title, Author: in.Author, Stock: *in.Stock}, nil
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/books", `{"title":"T","author":"A","price":1,"stock":1000000000}`)
	if err := NewBookHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestBookHandler_Delete(t *testing.T) {
	stub := &stubBookService{
		deleteFn: func(ctx context.Context, id string) (*domain.Book, error) {
			return &domain.Book{ID: id, Title: "1984"}, nil
		},
	}
	c, rec := newJSONContext(http.MethodDelete, "/books/3", "")
	c.SetParamNames("id")
	c.SetParamValues("3")

	if err := NewBookHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp deleteBookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != "book deleted successfully" || resp.Book.ID != "3" || resp.Book.Title != "1984" {
		t.Fatalf("unexpected response %+v", resp)
	}
}
