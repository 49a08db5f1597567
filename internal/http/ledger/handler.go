package ledger

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

	"github.com/practiva/ledger/internal/ledger"
	"github.com/practiva/ledger/internal/money"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Handler struct {
	svc       *ledger.Service
	formatter *money.Formatter
}

func NewHandler(svc *ledger.Service, formatter *money.Formatter) *Handler {
	return &Handler{svc: svc, formatter: formatter}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.record)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

// InvoiceRoutes exposes the billing-facing sync endpoints. The billing
// service calls these whenever an invoice changes.
func (h *Handler) InvoiceRoutes(r chi.Router) {
	r.Get("/{id}", h.getInvoice)
	r.Post("/{id}/sync", h.syncInvoice)
	r.Delete("/{id}/transaction", h.removeInvoice)
}

type recordTransactionRequest struct {
	Amount        any               `json:"amount"`
	Type          ledger.Type       `json:"type" validate:"required,oneof=revenue expense"`
	Status        ledger.Status     `json:"status" validate:"omitempty,oneof=pending completed"`
	Description   string            `json:"description" validate:"required"`
	Category      string            `json:"category"`
	Date          time.Time         `json:"date"`
	SourceID      string            `json:"source_id"`
	SourceType    string            `json:"source_type"`
	PatientID     *uuid.UUID        `json:"patient_id"`
	PaymentMethod string            `json:"payment_method"`
	Metadata      map[string]string `json:"metadata"`
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	var req recordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Record(r.Context(), ledger.RecordParams{
		Amount:        money.ParseAny(req.Amount),
		Type:          req.Type,
		Status:        req.Status,
		Description:   req.Description,
		Category:      req.Category,
		Date:          req.Date,
		SourceID:      req.SourceID,
		SourceType:    req.SourceType,
		PatientID:     req.PatientID,
		PaymentMethod: req.PaymentMethod,
		Metadata:      req.Metadata,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(h.toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
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

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateTransactionRequest struct {
	Amount      any               `json:"amount"`
	Status      *ledger.Status    `json:"status" validate:"omitempty,oneof=pending completed"`
	Description *string           `json:"description"`
	Date        *time.Time        `json:"date"`
	Metadata    map[string]string `json:"metadata"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	patch := ledger.Patch{
		Status:      req.Status,
		Description: req.Description,
		Date:        req.Date,
		Metadata:    req.Metadata,
	}

	if req.Amount != nil {
		v := money.ParseAny(req.Amount)
		patch.Amount = &v
	}

	tx, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.GetInvoice(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrInvoiceNotFound) {
			http.Error(w, "invoice not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toInvoiceResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type syncInvoiceRequest struct {
	Status        *ledger.Status    `json:"status" validate:"omitempty,oneof=pending completed"`
	CompletedAt   *time.Time        `json:"completed_at"`
	Description   string            `json:"description"`
	PaymentMethod string            `json:"payment_method"`
	Metadata      map[string]string `json:"metadata"`
}

func (h *Handler) syncInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req syncInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.svc.GetInvoice(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrInvoiceNotFound) {
			http.Error(w, "invoice not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	tx, err := h.svc.SyncInvoice(r.Context(), inv, ledger.SyncOptions{
		Status:        req.Status,
		CompletedAt:   req.CompletedAt,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		Metadata:      req.Metadata,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) removeInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.RemoveInvoice(r.Context(), id); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
