package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookstore/bookstore/internal/core/domain"
)

// SeedResult reports what Seed inserted.
type SeedResult struct {
	Users int
	Books int
}

// Seed wipes the users and books collections and loads the development
// accounts plus a starter catalog.
func Seed(ctx context.Context, db *mongo.Database, bcryptCost int) (SeedResult, error) {
	users := NewUserRepository(db)
	books := NewBookRepository(db)

	if _, err := users.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return SeedResult{}, fmt.Errorf("seed: clear users: %w", err)
	}
	if _, err := books.col.DeleteMany(ctx, bson.M{}); err != nil {
		return SeedResult{}, fmt.Errorf("seed: clear books: %w", err)
	}
	if err := users.EnsureIndexes(ctx); err != nil {
		return SeedResult{}, fmt.Errorf("seed: user indexes: %w", err)
	}

	var res SeedResult
	now := domain.StoreTime(time.Now())
	for _, acc := range domain.DevAccounts() {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcryptCost)
		if err != nil {
			return res, fmt.Errorf("seed: hash %s: %w", acc.Email, err)
		}
		if _, err := users.Create(ctx, &domain.User{
			Email:        acc.Email,
			PasswordHash: string(hash),
			Role:         acc.Role,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return res, fmt.Errorf("seed: create %s: %w", acc.Email, err)
		}
		res.Users++
	}

	catalog := append(domain.SeedBooks(now), domain.Book{
		Title: "Pride and Prejudice", Author: "Jane Austen", Price: 11.99, Stock: 15,
		CreatedAt: now, UpdatedAt: now,
	})
	for _, b := range catalog {
		if _, err := books.Create(ctx, b); err != nil {
			return res, fmt.Errorf("seed: create %q: %w", b.Title, err)
		}
		res.Books++
	}
	return res, nil
}
