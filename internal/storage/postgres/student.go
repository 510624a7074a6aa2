package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashkit/canteen-api/internal/domain/student"
)

const (
	listStudentsSQL = `SELECT id, name, referral_code, total_spent FROM students ORDER BY name`

	getStudentByIDSQL = `SELECT id, name, referral_code, total_spent FROM students WHERE id = $1`

	createStudentSQL = `INSERT INTO students (id, name, referral_code, total_spent)
		VALUES ($1, $2, $3, $4)`

	listReferralCodesSQL = `SELECT referral_code FROM students`

	// Order history joined with the snack catalog: amount stays the
	// order-time snapshot, name and price reflect the current catalog row.
	getStudentOrdersSQL = `SELECT o.id, o.quantity, o.amount, o.created_at, s.id, s.name, s.price
		FROM orders o
		JOIN snacks s ON s.id = o.snack_id
		WHERE o.student_id = $1
		ORDER BY o.created_at`
)

var _ student.Repository = (*StudentRepository)(nil)

// StudentRepository implements student.Repository backed by PostgreSQL.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository returns a StudentRepository that uses the given pool.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// List returns all registered students ordered by name.
func (r *StudentRepository) List(ctx context.Context) ([]student.Student, error) {
	rows, err := r.pool.Query(ctx, listStudentsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	return pgx.CollectRows(rows, scanStudent)
}

// GetByID returns a single student by their identifier.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	rows, err := r.pool.Query(ctx, getStudentByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting student %q: %w", id, err)
	}

	s, err := pgx.CollectExactlyOneRow(rows, scanStudent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, student.ErrNotFound
		}
		return nil, fmt.Errorf("getting student %q: %w", id, err)
	}
	return &s, nil
}

// GetProfile returns the student joined with their full order history.
func (r *StudentRepository) GetProfile(ctx context.Context, id string) (*student.Profile, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, getStudentOrdersSQL, id)
	if err != nil {
		return nil, fmt.Errorf("listing orders for student %q: %w", id, err)
	}

	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (student.PlacedOrder, error) {
		var o student.PlacedOrder
		err := row.Scan(
			&o.ID, &o.Quantity, &o.Amount, &o.CreatedAt,
			&o.Snack.ID, &o.Snack.Name, &o.Snack.Price,
		)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("collecting orders for student %q: %w", id, err)
	}

	return &student.Profile{Student: *s, Orders: orders}, nil
}

// Create persists a new student. Returns student.ErrReferralCodeTaken when
// the referral code collides with an existing one.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	_, err := r.pool.Exec(ctx, createStudentSQL, s.ID, s.Name, s.ReferralCode, s.TotalSpent)
	if err != nil {
		if isUniqueViolation(err, "students_referral_code_key") {
			return student.ErrReferralCodeTaken
		}
		return fmt.Errorf("creating student %q: %w", s.ID, err)
	}
	return nil
}

// ReferralCodes returns every issued referral code.
func (r *StudentRepository) ReferralCodes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, listReferralCodesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing referral codes: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var code string
		err := row.Scan(&code)
		return code, err
	})
}

func scanStudent(row pgx.CollectableRow) (student.Student, error) {
	var s student.Student
	err := row.Scan(&s.ID, &s.Name, &s.ReferralCode, &s.TotalSpent)
	return s, err
}
