// Package snack defines the snack catalog entity and its persistence contract.
package snack

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested snack does not exist.
var ErrNotFound = errors.New("snack not found")

// Snack is a catalog item orderable by students. Price is in minor currency
// units (cents). Snacks are immutable after creation: no update or delete
// operation exists.
type Snack struct {
	ID    string
	Name  string
	Price int64
}

// Repository defines persistence operations for the snack catalog.
type Repository interface {
	List(ctx context.Context) ([]Snack, error)
	GetByID(ctx context.Context, id string) (*Snack, error)

	// Seed inserts the given snacks only when the catalog is empty and
	// reports how many rows were inserted. Safe to call on every startup.
	Seed(ctx context.Context, snacks []Snack) (int, error)
}

// DefaultCatalog returns the fixed catalog inserted on first startup.
// IDs are stable so the ops seeder can upsert against the same rows.
func DefaultCatalog() []Snack {
	return []Snack{
		{ID: "5b0c2f4e-8a41-4d2e-9f7d-1c6a3e9b2d10", Name: "Potato Chips", Price: 150},
		{ID: "9d3e1a72-0b5c-48f6-a1e4-7f2b8c4d6e21", Name: "Soda Can", Price: 200},
		{ID: "2f8a6c14-3d9e-4b07-8c5a-e1d7f0a9b632", Name: "Chocolate Bar", Price: 125},
		{ID: "7c1d9b3f-6e28-4a5c-b0d9-4a8e2c7f1543", Name: "Apple", Price: 50},
		{ID: "e4b7d2a9-1f60-4c3b-9e82-6b5d0c8a3f54", Name: "Chicken Sandwich", Price: 450},
	}
}
