package wallet

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

	"github.com/practiva/ledger/internal/money"
	"github.com/practiva/ledger/internal/wallet"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Handler struct {
	svc       *wallet.Service
	formatter *money.Formatter
}

func NewHandler(svc *wallet.Service, formatter *money.Formatter) *Handler {
	return &Handler{svc: svc, formatter: formatter}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/transactions", h.listTransactions)
	r.Post("/pay-invoice", h.payInvoice)
	r.Get("/patient/{patientID}", h.getOrCreate)
	r.Get("/patient/{patientID}/can-pay", h.canPay)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/settings", h.updateSettings)
	r.Get("/{id}/stats", h.stats)
	r.Get("/{id}/transactions", h.listWalletTransactions)
	r.Post("/{id}/deposit", h.deposit)
	r.Post("/{id}/withdraw", h.withdraw)
	r.Post("/{id}/pay", h.pay)
	r.Post("/{id}/refund", h.refund)
	r.Post("/{id}/adjust", h.adjust)
}

// writeError maps domain errors onto status codes. Insufficient funds and
// inactive wallets are client-resolvable, so they come back as 422 with the
// wallet state attached where available.
func writeError(w http.ResponseWriter, err error) {
	var insufficient *wallet.InsufficientFundsError
	var partial *wallet.PartialPaymentError

	switch {
	case errors.Is(err, wallet.ErrNotFound):
		http.Error(w, "wallet not found", http.StatusNotFound)
	case errors.Is(err, wallet.ErrTransactionNotFound):
		http.Error(w, "wallet transaction not found", http.StatusNotFound)
	case errors.Is(err, wallet.ErrAlreadyExists):
		http.Error(w, "wallet already exists for patient", http.StatusConflict)
	case errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrDescriptionRequired):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, wallet.ErrInactive):
		http.Error(w, "wallet is inactive", http.StatusUnprocessableEntity)
	case errors.As(err, &insufficient):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"error":     "insufficient funds",
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
	case errors.As(err, &partial):
		// The wallet debit committed but the invoice side failed. Surface
		// everything the operator needs to reconcile by hand.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error":                 "wallet debited but invoice update failed",
			"wallet_transaction_id": partial.WalletTransactionID,
			"invoice_id":            partial.InvoiceID,
		})
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type createWalletRequest struct {
	PatientID       uuid.UUID `json:"patient_id" validate:"required"`
	InitialDeposit  int64     `json:"initial_deposit" validate:"gte=0"`
	PaymentMethod   string    `json:"payment_method"`
	AutoPay         bool      `json:"auto_pay"`
	LowBalanceAlert *int64    `json:"low_balance_alert"`
	ProcessedBy     string    `json:"processed_by"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	wl, err := h.svc.Create(r.Context(), wallet.CreateParams{
		PatientID:       req.PatientID,
		InitialDeposit:  req.InitialDeposit,
		PaymentMethod:   req.PaymentMethod,
		AutoPay:         req.AutoPay,
		LowBalanceAlert: req.LowBalanceAlert,
		ProcessedBy:     req.ProcessedBy,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(h.toWalletResponse(wl)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := wallet.WalletFilter{
		ActiveOnly: r.URL.Query().Get("active") == "true",
		HasBalance: r.URL.Query().Get("has_balance") == "true",
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

	wallets, err := h.svc.ListWallets(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toWalletResponseList(wallets)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	wl, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toWalletResponse(wl)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) getOrCreate(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		http.Error(w, "invalid patient id", http.StatusBadRequest)
		return
	}

	wl, err := h.svc.GetOrCreate(r.Context(), patientID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toWalletResponse(wl)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) canPay(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		http.Error(w, "invalid patient id", http.StatusBadRequest)
		return
	}

	amount := money.Parse(r.URL.Query().Get("amount"))
	if amount <= 0 {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	result, err := h.svc.CanPay(r.Context(), patientID, amount)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toCanPayResponse(result)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type moveFundsRequest struct {
	Amount        int64      `json:"amount" validate:"required"`
	PaymentMethod string     `json:"payment_method"`
	ReferenceID   *uuid.UUID `json:"reference_id"`
	ReferenceType string     `json:"reference_type"`
	Description   string     `json:"description"`
	Notes         string     `json:"notes"`
	ProcessedBy   string     `json:"processed_by"`
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, func(id uuid.UUID, req moveFundsRequest) (*wallet.Transaction, error) {
		return h.svc.Deposit(r.Context(), wallet.DepositParams{
			WalletID:      id,
			Amount:        req.Amount,
			PaymentMethod: req.PaymentMethod,
			Description:   req.Description,
			Notes:         req.Notes,
			ProcessedBy:   req.ProcessedBy,
		})
	})
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, func(id uuid.UUID, req moveFundsRequest) (*wallet.Transaction, error) {
		return h.svc.Withdraw(r.Context(), wallet.WithdrawParams{
			WalletID:    id,
			Amount:      req.Amount,
			Description: req.Description,
			Notes:       req.Notes,
			ProcessedBy: req.ProcessedBy,
		})
	})
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, func(id uuid.UUID, req moveFundsRequest) (*wallet.Transaction, error) {
		return h.svc.Pay(r.Context(), wallet.PayParams{
			WalletID:      id,
			Amount:        req.Amount,
			ReferenceID:   req.ReferenceID,
			ReferenceType: req.ReferenceType,
			Description:   req.Description,
			Notes:         req.Notes,
			ProcessedBy:   req.ProcessedBy,
		})
	})
}

func (h *Handler) refund(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, func(id uuid.UUID, req moveFundsRequest) (*wallet.Transaction, error) {
		return h.svc.Refund(r.Context(), wallet.RefundParams{
			WalletID:      id,
			Amount:        req.Amount,
			ReferenceID:   req.ReferenceID,
			ReferenceType: req.ReferenceType,
			Description:   req.Description,
			Notes:         req.Notes,
			ProcessedBy:   req.ProcessedBy,
		})
	})
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, func(id uuid.UUID, req moveFundsRequest) (*wallet.Transaction, error) {
		return h.svc.Adjust(r.Context(), wallet.AdjustParams{
			WalletID:    id,
			Amount:      req.Amount,
			Description: req.Description,
			Notes:       req.Notes,
			ProcessedBy: req.ProcessedBy,
		})
	})
}

// mutation handles the shared decode/validate/respond shape of the balance
// mutating endpoints.
func (h *Handler) mutation(w http.ResponseWriter, r *http.Request, op func(uuid.UUID, moveFundsRequest) (*wallet.Transaction, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req moveFundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txn, err := op(id, req)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(h.toTransactionResponse(txn)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type payInvoiceRequest struct {
	PatientID   uuid.UUID `json:"patient_id" validate:"required"`
	InvoiceID   uuid.UUID `json:"invoice_id" validate:"required"`
	Amount      int64     `json:"amount" validate:"required,gt=0"`
	Description string    `json:"description"`
	Notes       string    `json:"notes"`
	ProcessedBy string    `json:"processed_by"`
}

func (h *Handler) payInvoice(w http.ResponseWriter, r *http.Request) {
	var req payInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txn, err := h.svc.PayInvoice(r.Context(), wallet.PayInvoiceParams{
		PatientID:   req.PatientID,
		InvoiceID:   req.InvoiceID,
		Amount:      req.Amount,
		Description: req.Description,
		Notes:       req.Notes,
		ProcessedBy: req.ProcessedBy,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(h.toTransactionResponse(txn)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateSettingsRequest struct {
	AutoPay              *bool  `json:"auto_pay"`
	LowBalanceAlert      *int64 `json:"low_balance_alert"`
	ClearLowBalanceAlert bool   `json:"clear_low_balance_alert"`
	Active               *bool  `json:"active"`
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	wl, err := h.svc.UpdateSettings(r.Context(), id, wallet.SettingsPatch{
		AutoPay:              req.AutoPay,
		LowBalanceAlert:      req.LowBalanceAlert,
		ClearLowBalanceAlert: req.ClearLowBalanceAlert,
		Active:               req.Active,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toWalletResponse(wl)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	stats, err := h.svc.GetStats(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toStatsResponse(stats)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	h.transactions(w, r, nil)
}

func (h *Handler) listWalletTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	h.transactions(w, r, &id)
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request, walletID *uuid.UUID) {
	filter := wallet.TransactionFilter{
		WalletID: walletID,
		Search:   r.URL.Query().Get("search"),
	}

	if s := r.URL.Query().Get("type"); s != "" {
		v := wallet.TxType(s)
		filter.Type = &v
	}

	if s := r.URL.Query().Get("status"); s != "" {
		v := wallet.TxStatus(s)
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

	txns, err := h.svc.ListTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toTransactionResponseList(txns)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
