package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bookstore/bookstore/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// flexNumber accepts either a JSON number or a string holding one, so
// form-style clients can send "12.99".
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.New("must be a number")
	}
	*n = flexNumber(f)
	return nil
}

func (n *flexNumber) float() *float64 {
	if n == nil {
		return nil
	}
	f := float64(*n)
	return &f
}

func (n *flexNumber) int() *int64 {
	if n == nil {
		return nil
	}
	i := int64(*n)
	return &i
}

// --- Auth ---

type signupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Role: u.Role}
}

type signupResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// --- Books ---

type createBookRequest struct {
	Title  string      `json:"title"  validate:"required"`
	Author string      `json:"author" validate:"required"`
	Price  *flexNumber `json:"price"  validate:"required,gte=0"`
	Stock  *flexNumber `json:"stock"  validate:"omitempty,gte=0,lte=1000000000,whole"`
}

type updateBookRequest struct {
	Title  *string     `json:"title"`
	Author *string     `json:"author"`
	Price  *flexNumber `json:"price" validate:"omitempty,gte=0"`
	Stock  *flexNumber `json:"stock" validate:"omitempty,gte=0,lte=1000000000,whole"`
}

type bookResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Price     float64   `json:"price"`
	Stock     int64     `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toBookResponse(b *domain.Book) bookResponse {
	return bookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Price:     b.Price,
		Stock:     b.Stock,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

type deleteBookResponse struct {
	Message string       `json:"message"`
	Book    bookResponse `json:"book"`
}
