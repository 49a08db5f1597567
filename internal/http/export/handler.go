package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/practiva/ledger/internal/export"
	"github.com/practiva/ledger/internal/ledger"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/transactions", h.transactions)
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	filter := ledger.ListFilter{}

	if s := r.URL.Query().Get("type"); s != "" {
		v := ledger.Type(s)
		filter.Type = &v
	}

	if s := r.URL.Query().Get("status"); s != "" {
		v := ledger.Status(s)
		filter.Status = &v
	}

	if s := r.URL.Query().Get("patient_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.PatientID = &id
		}
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = &t
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = &t
		}
	}

	filename := fmt.Sprintf("transactions-%s.csv", time.Now().Format(time.DateOnly))

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := h.svc.WriteCSV(r.Context(), filter, w); err != nil {
		// The header is already out; all we can do is log.
		slog.Error("failed to write csv export", "error", err)
	}
}
