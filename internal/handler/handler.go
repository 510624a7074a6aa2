// Package handler maps the HTTP surface onto the domain services. Bodies are
// encoded with go-faster/jx; domain errors are translated to status codes via
// errors.Is/As, never by message matching.
package handler

import (
	"net/http"

	"github.com/ashkit/canteen-api/internal/domain/order"
	"github.com/ashkit/canteen-api/internal/domain/snack"
	"github.com/ashkit/canteen-api/internal/domain/student"
)

// Handler serves the canteen API.
type Handler struct {
	snacks       snack.Repository
	students     student.Repository
	registration *student.Service
	orders       *order.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	snacks snack.Repository,
	students student.Repository,
	registration *student.Service,
	orders *order.Service,
) *Handler {
	return &Handler{
		snacks:       snacks,
		students:     students,
		registration: registration,
		orders:       orders,
	}
}

// Register mounts all API routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/snacks", h.listSnacks)
	mux.HandleFunc("GET /api/students", h.listStudents)
	mux.HandleFunc("GET /api/students/{id}", h.getStudent)
	mux.HandleFunc("POST /api/students", h.createStudent)
	mux.HandleFunc("POST /api/orders", h.createOrder)
}
