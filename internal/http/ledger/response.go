package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/practiva/ledger/internal/ledger"
)

type transactionResponse struct {
	ID                 string            `json:"id"`
	Amount             int64             `json:"amount"`
	DisplayAmount      string            `json:"display_amount"`
	TotalAmount        int64             `json:"total_amount"`
	Outstanding        int64             `json:"outstanding"`
	DisplayOutstanding string            `json:"display_outstanding,omitempty"`
	Type               ledger.Type       `json:"type"`
	Status             ledger.Status     `json:"status"`
	Description        string            `json:"description"`
	Category           string            `json:"category,omitempty"`
	Date               time.Time         `json:"date"`
	SourceID           string            `json:"source_id,omitempty"`
	SourceType         string            `json:"source_type,omitempty"`
	PatientID          *uuid.UUID        `json:"patient_id,omitempty"`
	PaymentMethod      string            `json:"payment_method,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	Auto               bool              `json:"auto"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          *time.Time        `json:"updated_at,omitempty"`
}

func (h *Handler) toResponse(tx *ledger.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:            tx.ID,
		Amount:        tx.Amount,
		DisplayAmount: h.formatter.Format(tx.Amount),
		TotalAmount:   tx.TotalAmount,
		Outstanding:   tx.Outstanding,
		Type:          tx.Type,
		Status:        tx.Status,
		Description:   tx.Description,
		Category:      tx.Category,
		Date:          tx.Date,
		SourceID:      tx.SourceID,
		SourceType:    tx.SourceType,
		PatientID:     tx.PatientID,
		PaymentMethod: tx.PaymentMethod,
		Metadata:      tx.Metadata,
		Auto:          tx.Auto,
		CompletedAt:   tx.CompletedAt,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}

	if tx.Outstanding > 0 {
		resp.DisplayOutstanding = h.formatter.Format(tx.Outstanding)
	}

	return resp
}

func (h *Handler) toResponseList(txs []*ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = h.toResponse(tx)
	}

	return resp
}

type invoiceResponse struct {
	ID         uuid.UUID  `json:"id"`
	PatientID  uuid.UUID  `json:"patient_id"`
	Amount     int64      `json:"amount"`
	AmountPaid int64      `json:"amount_paid"`
	Status     string     `json:"status"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

func (h *Handler) toInvoiceResponse(inv *ledger.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:         inv.ID,
		PatientID:  inv.PatientID,
		Amount:     inv.Amount,
		AmountPaid: inv.AmountPaid,
		Status:     inv.Status,
		Notes:      inv.Notes,
		CreatedAt:  inv.CreatedAt,
		UpdatedAt:  inv.UpdatedAt,
	}
}
