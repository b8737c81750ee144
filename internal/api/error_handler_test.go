package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookstore/bookstore/internal/core/domain"
)

func TestResolveError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: title is required", domain.ErrValidation), http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrInvalidToken, http.StatusUnauthorized},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("get book 9: %w", domain.ErrBookNotFound), http.StatusNotFound},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests},
		{fmt.Errorf("list books: %w: timeout", domain.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"), http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if code, _ := resolveError(tc.err); code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
	}
}

func runErrorHandler(verbose bool, err error) (int, errorResponse) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/books", nil), rec)
	NewHTTPErrorHandler(zerolog.Nop(), verbose)(err, c)

	var resp errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec.Code, resp
}

func TestHTTPErrorHandler_HidesDetailInProduction(t *testing.T) {
	code, resp := runErrorHandler(false, errors.New("mongo: dial tcp 10.0.0.5:27017"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if resp.Error != "internal server error" || resp.Detail != "" {
		t.Fatalf("unexpected body %+v", resp)
	}
}

func TestHTTPErrorHandler_AddsDetailInDevelopment(t *testing.T) {
	_, resp := runErrorHandler(true, errors.New("mongo: dial tcp 10.0.0.5:27017"))
	if resp.Detail == "" {
		t.Fatal("expected detail in development")
	}

	_, resp = runErrorHandler(true, domain.ErrBookNotFound)
	if resp.Detail != "" || resp.Error != "book not found" {
		t.Fatalf("client errors carry no detail, got %+v", resp)
	}
}
