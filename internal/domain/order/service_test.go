package order

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashkit/canteen-api/internal/domain/snack"
	"github.com/ashkit/canteen-api/internal/domain/student"
)

// --- Mock implementations ---

type mockSnackRepo struct {
	byID   map[string]*snack.Snack
	getErr error
}

func (m *mockSnackRepo) List(_ context.Context) ([]snack.Snack, error) {
	return nil, nil
}

func (m *mockSnackRepo) GetByID(_ context.Context, id string) (*snack.Snack, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.byID[id]
	if !ok {
		return nil, snack.ErrNotFound
	}
	return s, nil
}

func (m *mockSnackRepo) Seed(_ context.Context, _ []snack.Snack) (int, error) {
	return 0, nil
}

type mockOrderRepo struct {
	lastOrder *Order
	err       error
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.err != nil {
		return m.err
	}
	o.CreatedAt = time.Date(2024, 9, 2, 12, 0, 0, 0, time.UTC)
	m.lastOrder = o
	return nil
}

// --- Helpers ---

func newSnackRepo(snacks ...snack.Snack) *mockSnackRepo {
	byID := make(map[string]*snack.Snack, len(snacks))
	for i := range snacks {
		byID[snacks[i].ID] = &snacks[i]
	}
	return &mockSnackRepo{byID: byID}
}

// --- Tests ---

func TestPlaceOrder_AmountIsPriceSnapshot(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(newSnackRepo(snack.Snack{ID: "s1", Name: "Potato Chips", Price: 150}), repo)

	o, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		StudentID: "st1",
		SnackID:   "s1",
		Quantity:  2,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(300), o.Amount)
	assert.Equal(t, "st1", o.StudentID)
	assert.Equal(t, "s1", o.SnackID)
	assert.Equal(t, 2, o.Quantity)
	assert.NotEmpty(t, o.ID)
	assert.False(t, o.CreatedAt.IsZero())
	require.NotNil(t, repo.lastOrder)
	assert.Equal(t, o, repo.lastOrder)
}

func TestPlaceOrder_InvalidQuantity(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(newSnackRepo(snack.Snack{ID: "s1", Price: 100}), repo)

	for _, qty := range []int{0, -3} {
		_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
			StudentID: "st1",
			SnackID:   "s1",
			Quantity:  qty,
		})

		var iqErr *InvalidQuantityError
		require.ErrorAs(t, err, &iqErr)
		assert.Equal(t, qty, iqErr.Quantity)
	}
	assert.Nil(t, repo.lastOrder, "no order must be created")
}

func TestPlaceOrder_SnackNotFound(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(newSnackRepo(), repo)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		StudentID: "st1",
		SnackID:   "missing",
		Quantity:  1,
	})

	require.ErrorIs(t, err, snack.ErrNotFound)
	assert.Nil(t, repo.lastOrder, "no order must be created")
}

func TestPlaceOrder_StudentNotFound(t *testing.T) {
	repo := &mockOrderRepo{err: student.ErrNotFound}
	svc := NewService(newSnackRepo(snack.Snack{ID: "s1", Price: 100}), repo)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		StudentID: "ghost",
		SnackID:   "s1",
		Quantity:  1,
	})

	require.ErrorIs(t, err, student.ErrNotFound)
}

func TestPlaceOrder_RepoError(t *testing.T) {
	repo := &mockOrderRepo{err: errors.New("db write failed")}
	svc := NewService(newSnackRepo(snack.Snack{ID: "s1", Price: 100}), repo)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		StudentID: "st1",
		SnackID:   "s1",
		Quantity:  1,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
}

func TestPlaceOrder_SnackRepoError(t *testing.T) {
	svc := NewService(&mockSnackRepo{getErr: errors.New("connection reset")}, &mockOrderRepo{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		StudentID: "st1",
		SnackID:   "s1",
		Quantity:  1,
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, snack.ErrNotFound)
}
