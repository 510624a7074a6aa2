package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/ashkit/canteen-api/internal/domain/order"
	"github.com/ashkit/canteen-api/internal/domain/snack"
	"github.com/ashkit/canteen-api/internal/domain/student"
)

// maxOrderQuantity bounds a single order at the API surface. The domain
// service itself only requires quantity >= 1.
const maxOrderQuantity = 10

type createOrderRequest struct {
	StudentID string
	SnackID   string
	Quantity  int
}

func decodeCreateOrder(body []byte) (req createOrderRequest, err error) {
	d := jx.DecodeBytes(body)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "studentId":
			req.StudentID, err = d.Str()
			return err
		case "snackId":
			req.SnackID, err = d.Str()
			return err
		case "quantity":
			req.Quantity, err = d.Int()
			return err
		default:
			return d.Skip()
		}
	})
	return req, err
}

// createOrder places an order: the snack is priced at its current catalog
// price and the student's lifetime spend is credited atomically.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	req, err := decodeCreateOrder(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	switch {
	case req.StudentID == "":
		writeError(w, http.StatusBadRequest, "studentId is required", "studentId")
		return
	case req.SnackID == "":
		writeError(w, http.StatusBadRequest, "snackId is required", "snackId")
		return
	case req.Quantity > maxOrderQuantity:
		writeError(w, http.StatusBadRequest, "quantity must be at most 10", "quantity")
		return
	}

	o, err := h.orders.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		StudentID: req.StudentID,
		SnackID:   req.SnackID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	var e jx.Encoder
	encodeOrder(&e, o)
	writeJSON(w, http.StatusCreated, &e)
}

func (h *Handler) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var invalidQty *order.InvalidQuantityError
	switch {
	case errors.As(err, &invalidQty):
		writeError(w, http.StatusBadRequest, invalidQty.Error(), "quantity")
	case errors.Is(err, snack.ErrNotFound):
		writeError(w, http.StatusNotFound, "Snack not found", "")
	case errors.Is(err, student.ErrNotFound):
		writeError(w, http.StatusNotFound, "Student not found", "")
	default:
		writeInternalError(w, r, err)
	}
}
