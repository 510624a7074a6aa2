package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashkit/canteen-api/internal/domain/snack"
)

const (
	listSnacksSQL = `SELECT id, name, price FROM snacks ORDER BY name`

	getSnackByIDSQL = `SELECT id, name, price FROM snacks WHERE id = $1`

	insertSnackSQL = `INSERT INTO snacks (id, name, price) VALUES ($1, $2, $3)`

	countSnacksSQL = `SELECT count(*) FROM snacks`

	upsertSnackSQL = `INSERT INTO snacks (id, name, price) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price`
)

var _ snack.Repository = (*SnackRepository)(nil)

// SnackRepository implements snack.Repository backed by PostgreSQL.
type SnackRepository struct {
	pool *pgxpool.Pool
}

// NewSnackRepository returns a SnackRepository that uses the given pool.
func NewSnackRepository(pool *pgxpool.Pool) *SnackRepository {
	return &SnackRepository{pool: pool}
}

// List returns the full catalog ordered by name.
func (r *SnackRepository) List(ctx context.Context) ([]snack.Snack, error) {
	rows, err := r.pool.Query(ctx, listSnacksSQL)
	if err != nil {
		return nil, fmt.Errorf("listing snacks: %w", err)
	}
	return pgx.CollectRows(rows, scanSnack)
}

// GetByID returns a single snack by its identifier.
func (r *SnackRepository) GetByID(ctx context.Context, id string) (*snack.Snack, error) {
	rows, err := r.pool.Query(ctx, getSnackByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting snack %q: %w", id, err)
	}

	s, err := pgx.CollectExactlyOneRow(rows, scanSnack)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, snack.ErrNotFound
		}
		return nil, fmt.Errorf("getting snack %q: %w", id, err)
	}
	return &s, nil
}

// Seed inserts the given snacks only when the catalog is empty. The count
// check and inserts run in one transaction so concurrent startups cannot
// double-seed. Returns the number of rows inserted (zero when skipped).
func (r *SnackRepository) Seed(ctx context.Context, snacks []snack.Snack) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var count int64
	if err := tx.QueryRow(ctx, countSnacksSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting snacks: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for _, s := range snacks {
		if _, err := tx.Exec(ctx, insertSnackSQL, s.ID, s.Name, s.Price); err != nil {
			return 0, fmt.Errorf("seeding snack %q: %w", s.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing seed transaction: %w", err)
	}
	return len(snacks), nil
}

// Upsert inserts or updates a catalog row by ID. Used by the ops seeder,
// not by request handling.
func (r *SnackRepository) Upsert(ctx context.Context, s snack.Snack) error {
	if _, err := r.pool.Exec(ctx, upsertSnackSQL, s.ID, s.Name, s.Price); err != nil {
		return fmt.Errorf("upserting snack %q: %w", s.ID, err)
	}
	return nil
}

func scanSnack(row pgx.CollectableRow) (snack.Snack, error) {
	var s snack.Snack
	err := row.Scan(&s.ID, &s.Name, &s.Price)
	return s, err
}
