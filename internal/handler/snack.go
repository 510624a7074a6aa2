package handler

import (
	"net/http"

	"github.com/go-faster/jx"
)

// listSnacks returns the full snack catalog.
func (h *Handler) listSnacks(w http.ResponseWriter, r *http.Request) {
	snacks, err := h.snacks.List(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	var e jx.Encoder
	e.ArrStart()
	for _, s := range snacks {
		encodeSnack(&e, s)
	}
	e.ArrEnd()
	writeJSON(w, http.StatusOK, &e)
}
