package domain

import "time"

// StoreTime normalizes t to what every store round-trips: UTC with
// millisecond precision.
func StoreTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// Book is a catalog entry.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Price     float64   `json:"price"`
	Stock     int64     `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookPatch carries a partial update. Nil fields keep their current value.
type BookPatch struct {
	Title     *string
	Author    *string
	Price     *float64
	Stock     *int64
	UpdatedAt time.Time
}

// Apply merges the patch into b and stamps UpdatedAt.
func (p BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Price != nil {
		b.Price = *p.Price
	}
	if p.Stock != nil {
		b.Stock = *p.Stock
	}
	b.UpdatedAt = p.UpdatedAt
}

// SeedBooks returns the catalog served when the real store is unreachable.
// Every call returns fresh copies stamped with now.
func SeedBooks(now time.Time) []Book {
	seed := []Book{
		{ID: "1", Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Price: 12.99, Stock: 25},
		{ID: "2", Title: "To Kill a Mockingbird", Author: "Harper Lee", Price: 14.99, Stock: 30},
		{ID: "3", Title: "1984", Author: "George Orwell", Price: 13.99, Stock: 20},
	}
	for i := range seed {
		seed[i].CreatedAt = now
		seed[i].UpdatedAt = now
	}
	return seed
}
