package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/ashkit/canteen-api/internal/domain/student"
)

// listStudents returns all registered students.
func (h *Handler) listStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.students.List(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	var e jx.Encoder
	e.ArrStart()
	for _, s := range students {
		encodeStudent(&e, s)
	}
	e.ArrEnd()
	writeJSON(w, http.StatusOK, &e)
}

// getStudent returns a student merged with their full order history.
func (h *Handler) getStudent(w http.ResponseWriter, r *http.Request) {
	profile, err := h.students.GetProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Student not found", "")
			return
		}
		writeInternalError(w, r, err)
		return
	}

	var e jx.Encoder
	encodeProfile(&e, profile)
	writeJSON(w, http.StatusOK, &e)
}

// createStudent registers a new student.
func (h *Handler) createStudent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	var name string
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "name":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "name")
			}
			name = v
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	st, err := h.registration.Register(r.Context(), name)
	if err != nil {
		var emptyName *student.EmptyNameError
		if errors.As(err, &emptyName) {
			writeError(w, http.StatusBadRequest, emptyName.Error(), "name")
			return
		}
		writeInternalError(w, r, err)
		return
	}

	var e jx.Encoder
	encodeStudent(&e, *st)
	writeJSON(w, http.StatusCreated, &e)
}
