package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/ashkit/canteen-api/internal/domain/snack"
)

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	StudentID string
	SnackID   string
	Quantity  int
}

// Service encapsulates order placement business logic.
type Service struct {
	snacks snack.Repository
	orders Repository
}

// NewService creates an order Service with the required dependencies.
func NewService(snacks snack.Repository, orders Repository) *Service {
	return &Service{
		snacks: snacks,
		orders: orders,
	}
}

// PlaceOrder prices the requested quantity of a snack at its current catalog
// price and persists the order together with the student's spend increment.
//
// Failure modes, all without mutation: InvalidQuantityError for quantity < 1,
// snack.ErrNotFound for an unknown snack, student.ErrNotFound for an unknown
// student.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if req.Quantity < 1 {
		return nil, &InvalidQuantityError{Quantity: req.Quantity}
	}

	sn, err := s.snacks.GetByID(ctx, req.SnackID)
	if err != nil {
		if errors.Is(err, snack.ErrNotFound) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "get snack %s", req.SnackID)
	}

	o := &Order{
		ID:        uuid.New().String(),
		StudentID: req.StudentID,
		SnackID:   req.SnackID,
		Quantity:  req.Quantity,
		Amount:    sn.Price * int64(req.Quantity),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}
