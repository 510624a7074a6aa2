// Package student defines the student account entity and its registration
// service. Students accumulate lifetime spend through orders; the accumulator
// only ever grows.
package student

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/ashkit/canteen-api/internal/domain/snack"
)

// Sentinel errors for student persistence.
var (
	// ErrNotFound is returned when a requested student does not exist.
	ErrNotFound = errors.New("student not found")

	// ErrReferralCodeTaken is returned by Repository.Create when the unique
	// constraint on referral_code rejects the insert.
	ErrReferralCodeTaken = errors.New("referral code already taken")
)

// Student is an account that accumulates lifetime spend through orders.
// TotalSpent is in minor currency units (cents).
type Student struct {
	ID           string
	Name         string
	ReferralCode string
	TotalSpent   int64
}

// PlacedOrder is one historical order enriched with the referenced snack's
// current name and price. Amount is the price snapshot taken at order time
// and is never recomputed from the current snack price.
type PlacedOrder struct {
	ID        string
	Quantity  int
	Amount    int64
	CreatedAt time.Time
	Snack     snack.Snack
}

// Profile is a student merged with their full order history.
type Profile struct {
	Student
	Orders []PlacedOrder
}

// Repository defines persistence operations for students.
type Repository interface {
	List(ctx context.Context) ([]Student, error)
	GetByID(ctx context.Context, id string) (*Student, error)

	// GetProfile returns the student joined with their orders, each order
	// carrying the referenced snack. Returns ErrNotFound for unknown ids.
	GetProfile(ctx context.Context, id string) (*Profile, error)

	Create(ctx context.Context, s *Student) error

	// ReferralCodes returns every issued referral code. Used to warm the
	// in-memory collision filter at startup.
	ReferralCodes(ctx context.Context) ([]string, error)
}
