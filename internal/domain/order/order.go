// Package order implements order placement, the one operation in this system
// with a real transactional contract: pricing an order and crediting the
// student's lifetime spend must take effect together.
package order

import (
	"context"
	"fmt"
	"time"
)

// InvalidQuantityError indicates a non-positive order quantity.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be at least 1, got %d", e.Quantity)
}

// Order records one student purchasing a quantity of one snack. Amount is the
// snapshot snack.Price * Quantity in minor currency units, taken at placement
// time; later catalog price changes never alter it.
type Order struct {
	ID        string
	StudentID string
	SnackID   string
	Quantity  int
	Amount    int64
	CreatedAt time.Time
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order and atomically increments the referenced
	// student's total_spent by order.Amount. Both writes happen in one
	// transaction: either the order exists and the spend is credited, or
	// neither. Returns student.ErrNotFound (and writes nothing) when the
	// student does not exist. On success the store-assigned creation
	// timestamp is set on the order.
	Create(ctx context.Context, o *Order) error
}
