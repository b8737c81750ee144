package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookstore/bookstore/internal/api/metrics"
	"github.com/bookstore/bookstore/internal/core/domain"
	"github.com/bookstore/bookstore/internal/core/ports"
)

// BookHandler handles HTTP requests for catalog operations.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// List returns the whole catalog.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   bookResponse
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /books [get]
func (h *BookHandler) List(c echo.Context) error {
	books, err := h.service.ListBooks(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]bookResponse, 0, len(books))
	for i := range books {
		resp = append(resp, toBookResponse(&books[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get returns a single book.
//
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book ID"
// @Success      200  {object}  bookResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	book, err := h.service.GetBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Create adds a book to the catalog. Admin only.
//
// @Summary      Create a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookRequest  true  "Book"
// @Success      201   {object}  bookResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /books [post]
func (h *BookHandler) Create(c echo.Context) error {
	var req createBookRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.service.CreateBook(c.Request().Context(), ports.CreateBookInput{
		Title:  req.Title,
		Author: req.Author,
		Price:  float64(*req.Price),
		Stock:  req.Stock.int(),
	})
	if err != nil {
		return err
	}
	metrics.BookWritesTotal.WithLabelValues("create").Inc()

	return c.JSON(http.StatusCreated, toBookResponse(book))
}

// Update merges the supplied fields into a book. Admin only.
//
// @Summary      Update a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Book ID"
// @Param        body  body      updateBookRequest  true  "Fields to change"
// @Success      200   {object}  bookResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /books/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	var req updateBookRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.service.UpdateBook(c.Request().Context(), c.Param("id"), ports.UpdateBookInput{
		Title:  req.Title,
		Author: req.Author,
		Price:  req.Price.float(),
		Stock:  req.Stock.int(),
	})
	if err != nil {
		return err
	}
	metrics.BookWritesTotal.WithLabelValues("update").Inc()

	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Delete removes a book and returns its last state. Admin only.
//
// @Summary      Delete a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book ID"
// @Success      200  {object}  deleteBookResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	book, err := h.service.DeleteBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	metrics.BookWritesTotal.WithLabelValues("delete").Inc()

	return c.JSON(http.StatusOK, deleteBookResponse{
		Message: "book deleted successfully",
		Book:    toBookResponse(book),
	})
}
