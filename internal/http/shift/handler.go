package shift

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/practiva/ledger/internal/http/auth"
	"github.com/practiva/ledger/internal/money"
	"github.com/practiva/ledger/internal/shift"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Handler struct {
	svc       *shift.Service
	formatter *money.Formatter
}

func NewHandler(svc *shift.Service, formatter *money.Formatter) *Handler {
	return &Handler{svc: svc, formatter: formatter}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/active", h.listActive)
	r.Get("/active/{staffID}", h.getActive)
	r.Get("/report", h.report)
	r.Get("/summary/today", h.todaySummary)
	r.Post("/transactions/{txID}/verify", h.verifyCashTransaction)
	r.Get("/{id}", h.get)
	r.Post("/{id}/start", h.start)
	r.Post("/{id}/end", h.end)
	r.Post("/{id}/transactions", h.recordCashTransaction)
	r.Get("/{id}/transactions", h.listCashTransactions)
	r.Patch("/{id}/stats", h.updateStats)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shift.ErrNotFound):
		http.Error(w, "shift not found", http.StatusNotFound)
	case errors.Is(err, shift.ErrCashTransactionNotFound):
		http.Error(w, "cash transaction not found", http.StatusNotFound)
	case errors.Is(err, shift.ErrInvalidAmount),
		errors.Is(err, shift.ErrInvalidCashTxType):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, shift.ErrShiftNotScheduled),
		errors.Is(err, shift.ErrShiftAlreadyActive),
		errors.Is(err, shift.ErrShiftNotActive),
		errors.Is(err, shift.ErrActiveShiftExists):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type createShiftRequest struct {
	StaffID        uuid.UUID `json:"staff_id" validate:"required"`
	ScheduledStart time.Time `json:"scheduled_start" validate:"required"`
	ScheduledEnd   time.Time `json:"scheduled_end" validate:"required"`
	Type           string    `json:"type"`
	Notes          string    `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sh, err := h.svc.Create(r.Context(), shift.CreateParams{
		StaffID:        req.StaffID,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		Type:           req.Type,
		Notes:          req.Notes,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(h.toResponse(sh)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type startShiftRequest struct {
	OpeningCash int64  `json:"opening_cash" validate:"gte=0"`
	Notes       string `json:"notes"`
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req startShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sh, err := h.svc.Start(r.Context(), shift.StartParams{
		ShiftID:     id,
		OpeningCash: req.OpeningCash,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toResponse(sh)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type endShiftRequest struct {
	ClosingCash      int64  `json:"closing_cash" validate:"gte=0"`
	DiscrepancyNotes string `json:"discrepancy_notes"`
	Notes            string `json:"notes"`
}

func (h *Handler) end(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req endShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sh, err := h.svc.End(r.Context(), shift.EndParams{
		ShiftID:          id,
		ClosingCash:      req.ClosingCash,
		DiscrepancyNotes: req.DiscrepancyNotes,
		Notes:            req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toResponse(sh)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type recordCashTransactionRequest struct {
	StaffID       uuid.UUID        `json:"staff_id"`
	Type          shift.CashTxType `json:"type" validate:"required,oneof=sale refund cash_in cash_out"`
	CashAmount    int64            `json:"cash_amount" validate:"gte=0"`
	CardAmount    int64            `json:"card_amount" validate:"gte=0"`
	OtherAmount   int64            `json:"other_amount" validate:"gte=0"`
	ReferenceID   *uuid.UUID       `json:"reference_id"`
	ReferenceType string           `json:"reference_type"`
	Description   string           `json:"description"`
}

func (h *Handler) recordCashTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req recordCashTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	staffID := req.StaffID
	if staffID == uuid.Nil {
		if id, ok := auth.StaffID(r.Context()); ok {
			staffID = id
		}
	}

	txn, err := h.svc.RecordCashTransaction(r.Context(), shift.CashTransactionParams{
		ShiftID:       id,
		StaffID:       staffID,
		Type:          req.Type,
		CashAmount:    req.CashAmount,
		CardAmount:    req.CardAmount,
		OtherAmount:   req.OtherAmount,
		ReferenceID:   req.ReferenceID,
		ReferenceType: req.ReferenceType,
		Description:   req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(h.toCashTransactionResponse(txn)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) verifyCashTransaction(w http.ResponseWriter, r *http.Request) {
	txID, err := uuid.Parse(chi.URLParam(r, "txID"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	verifiedBy, ok := auth.StaffID(r.Context())
	if !ok {
		var req struct {
			VerifiedBy uuid.UUID `json:"verified_by"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VerifiedBy == uuid.Nil {
			http.Error(w, "verified_by is required", http.StatusBadRequest)
			return
		}

		verifiedBy = req.VerifiedBy
	}

	txn, err := h.svc.VerifyCashTransaction(r.Context(), txID, verifiedBy)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toCashTransactionResponse(txn)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateStatsRequest struct {
	TotalTransactions *int64 `json:"total_transactions"`
	TotalRevenue      *int64 `json:"total_revenue"`
	TotalAppointments *int64 `json:"total_appointments"`
}

func (h *Handler) updateStats(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateStatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sh, err := h.svc.UpdateStats(r.Context(), id, shift.StatsPatch{
		TotalTransactions: req.TotalTransactions,
		TotalRevenue:      req.TotalRevenue,
		TotalAppointments: req.TotalAppointments,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toResponse(sh)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	sh, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toResponse(sh)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) getActive(w http.ResponseWriter, r *http.Request) {
	staffID, err := uuid.Parse(chi.URLParam(r, "staffID"))
	if err != nil {
		http.Error(w, "invalid staff id", http.StatusBadRequest)
		return
	}

	sh, err := h.svc.GetActive(r.Context(), staffID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toResponse(sh)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listActive(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.svc.ListActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toResponseList(shifts)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := shift.Filter{}

	if s := r.URL.Query().Get("staff_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.StaffID = &id
		}
	}

	if s := r.URL.Query().Get("status"); s != "" {
		v := shift.Status(s)
		filter.Status = &v
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

	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			filter.Limit = n
		}
	}

	if s := r.URL.Query().Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			filter.Offset = n
		}
	}

	shifts, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toResponseList(shifts)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listCashTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	txns, err := h.svc.ListCashTransactions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toCashTransactionResponseList(txns)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(time.DateOnly, r.URL.Query().Get("start_date"))
	if err != nil {
		http.Error(w, "invalid start_date", http.StatusBadRequest)
		return
	}

	end, err := time.Parse(time.DateOnly, r.URL.Query().Get("end_date"))
	if err != nil {
		http.Error(w, "invalid end_date", http.StatusBadRequest)
		return
	}

	report, err := h.svc.GetReport(r.Context(), start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toReportResponse(report)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) todaySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetTodaySummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toTodaySummaryResponse(summary)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
