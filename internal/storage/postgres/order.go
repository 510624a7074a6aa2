package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashkit/canteen-api/internal/domain/order"
	"github.com/ashkit/canteen-api/internal/domain/student"
)

const (
	// Atomic add, not read-then-write: concurrent orders for the same
	// student must not lose updates.
	creditStudentSQL = `UPDATE students SET total_spent = total_spent + $1 WHERE id = $2`

	insertOrderSQL = `INSERT INTO orders (id, student_id, snack_id, quantity, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order and credits the student's lifetime spend in a
// single transaction. The spend update runs first: zero affected rows means
// the student does not exist, and the transaction rolls back with
// student.ErrNotFound before any order row is written.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning order transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, creditStudentSQL, o.Amount, o.StudentID)
	if err != nil {
		return fmt.Errorf("crediting student %q: %w", o.StudentID, err)
	}
	if tag.RowsAffected() == 0 {
		return student.ErrNotFound
	}

	err = tx.QueryRow(ctx, insertOrderSQL,
		o.ID, o.StudentID, o.SnackID, o.Quantity, o.Amount,
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order %q: %w", o.ID, err)
	}
	return nil
}
