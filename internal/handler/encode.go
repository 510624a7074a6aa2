package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/ashkit/canteen-api/internal/domain/order"
	"github.com/ashkit/canteen-api/internal/domain/snack"
	"github.com/ashkit/canteen-api/internal/domain/student"
)

// writeJSON writes the encoder's buffer with the given status code.
func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes an error body. A non-empty field marks a validation
// error on that input field.
func writeError(w http.ResponseWriter, status int, message, field string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("message")
	e.Str(message)
	if field != "" {
		e.FieldStart("field")
		e.Str(field)
	}
	e.ObjEnd()
	writeJSON(w, status, &e)
}

// writeInternalError logs the error and responds with a generic 500 body.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Internal server error", "")
}

func encodeSnack(e *jx.Encoder, s snack.Snack) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(s.ID)
	e.FieldStart("name")
	e.Str(s.Name)
	e.FieldStart("price")
	e.Int64(s.Price)
	e.ObjEnd()
}

func encodeStudentFields(e *jx.Encoder, s student.Student) {
	e.FieldStart("id")
	e.Str(s.ID)
	e.FieldStart("name")
	e.Str(s.Name)
	e.FieldStart("referralCode")
	e.Str(s.ReferralCode)
	e.FieldStart("totalSpent")
	e.Int64(s.TotalSpent)
}

func encodeStudent(e *jx.Encoder, s student.Student) {
	e.ObjStart()
	encodeStudentFields(e, s)
	e.ObjEnd()
}

func encodeProfile(e *jx.Encoder, p *student.Profile) {
	e.ObjStart()
	encodeStudentFields(e, p.Student)
	e.FieldStart("orders")
	e.ArrStart()
	for _, o := range p.Orders {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(o.ID)
		e.FieldStart("quantity")
		e.Int(o.Quantity)
		e.FieldStart("amount")
		e.Int64(o.Amount)
		e.FieldStart("createdAt")
		e.Str(o.CreatedAt.UTC().Format(time.RFC3339Nano))
		e.FieldStart("snack")
		encodeSnack(e, o.Snack)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}

func encodeOrder(e *jx.Encoder, o *order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("studentId")
	e.Str(o.StudentID)
	e.FieldStart("snackId")
	e.Str(o.SnackID)
	e.FieldStart("quantity")
	e.Int(o.Quantity)
	e.FieldStart("amount")
	e.Int64(o.Amount)
	e.FieldStart("createdAt")
	e.Str(o.CreatedAt.UTC().Format(time.RFC3339Nano))
	e.ObjEnd()
}
