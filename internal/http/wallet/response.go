package wallet

import (
	"time"

	"github.com/google/uuid"

	"github.com/practiva/ledger/internal/wallet"
)

type walletResponse struct {
	ID              uuid.UUID  `json:"id"`
	PatientID       uuid.UUID  `json:"patient_id"`
	Balance         int64      `json:"balance"`
	DisplayBalance  string     `json:"display_balance"`
	AutoPay         bool       `json:"auto_pay"`
	LowBalanceAlert *int64     `json:"low_balance_alert,omitempty"`
	Active          bool       `json:"active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

func (h *Handler) toWalletResponse(w *wallet.Wallet) walletResponse {
	return walletResponse{
		ID:              w.ID,
		PatientID:       w.PatientID,
		Balance:         w.Balance,
		DisplayBalance:  h.formatter.Format(w.Balance),
		AutoPay:         w.AutoPay,
		LowBalanceAlert: w.LowBalanceAlert,
		Active:          w.Active,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func (h *Handler) toWalletResponseList(wallets []*wallet.Wallet) []walletResponse {
	resp := make([]walletResponse, len(wallets))
	for i, w := range wallets {
		resp[i] = h.toWalletResponse(w)
	}

	return resp
}

type transactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	WalletID        uuid.UUID       `json:"wallet_id"`
	Type            wallet.TxType   `json:"type"`
	Status          wallet.TxStatus `json:"status"`
	Amount          int64           `json:"amount"`
	DisplayAmount   string          `json:"display_amount"`
	PreviousBalance int64           `json:"previous_balance"`
	NewBalance      int64           `json:"new_balance"`
	ReferenceID     *uuid.UUID      `json:"reference_id,omitempty"`
	ReferenceType   string          `json:"reference_type,omitempty"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	Description     string          `json:"description"`
	Notes           string          `json:"notes,omitempty"`
	ProcessedBy     string          `json:"processed_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (h *Handler) toTransactionResponse(txn *wallet.Transaction) transactionResponse {
	return transactionResponse{
		ID:              txn.ID,
		WalletID:        txn.WalletID,
		Type:            txn.Type,
		Status:          txn.Status,
		Amount:          txn.Amount,
		DisplayAmount:   h.formatter.Format(txn.Amount),
		PreviousBalance: txn.PreviousBalance,
		NewBalance:      txn.NewBalance,
		ReferenceID:     txn.ReferenceID,
		ReferenceType:   txn.ReferenceType,
		PaymentMethod:   txn.PaymentMethod,
		Description:     txn.Description,
		Notes:           txn.Notes,
		ProcessedBy:     txn.ProcessedBy,
		CreatedAt:       txn.CreatedAt,
	}
}

func (h *Handler) toTransactionResponseList(txns []*wallet.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txns))
	for i, txn := range txns {
		resp[i] = h.toTransactionResponse(txn)
	}

	return resp
}

type canPayResponse struct {
	CanPay    bool   `json:"can_pay"`
	Balance   int64  `json:"balance"`
	Shortfall int64  `json:"shortfall"`
	Display   string `json:"display_balance"`
}

func (h *Handler) toCanPayResponse(r *wallet.CanPayResult) canPayResponse {
	return canPayResponse{
		CanPay:    r.CanPay,
		Balance:   r.Balance,
		Shortfall: r.Shortfall,
		Display:   h.formatter.Format(r.Balance),
	}
}

type statsResponse struct {
	TransactionCount int64 `json:"transaction_count"`
	TotalDeposits    int64 `json:"total_deposits"`
	TotalWithdrawals int64 `json:"total_withdrawals"`
	TotalPayments    int64 `json:"total_payments"`
	TotalRefunds     int64 `json:"total_refunds"`
	NetAdjustments   int64 `json:"net_adjustments"`
}

func (h *Handler) toStatsResponse(s *wallet.Stats) statsResponse {
	return statsResponse{
		TransactionCount: s.TransactionCount,
		TotalDeposits:    s.TotalDeposits,
		TotalWithdrawals: s.TotalWithdrawals,
		TotalPayments:    s.TotalPayments,
		TotalRefunds:     s.TotalRefunds,
		NetAdjustments:   s.NetAdjustments,
	}
}
