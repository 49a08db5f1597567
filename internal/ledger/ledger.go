package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type classifies a ledger entry.
type Type string

const (
	TypeRevenue Type = "revenue"
	TypeExpense Type = "expense"
)

// Status represents the settlement state of a ledger entry.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

var ErrNotFound = errors.New("transaction not found")

// Transaction is the canonical financial-ledger entry. Exactly one row
// exists per source document; re-deriving from the same source updates the
// row in place.
type Transaction struct {
	ID            string
	Date          time.Time
	Description   string
	Type          Type
	Category      string
	Status        Status
	Amount        int64 // Amount in cents; authoritative, display string is derived
	TotalAmount   int64
	Outstanding   int64 // max(TotalAmount - Amount, 0)
	SourceID      string
	SourceType    string
	PatientID     *uuid.UUID
	PaymentMethod string
	Metadata      map[string]string
	Auto          bool // system-derived rather than manually entered
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

const (
	invoiceIDPrefix   = "TRX-INV-"
	generatedIDPrefix = "TRX-"

	SourceTypeInvoice = "invoice"
)

// InvoiceTransactionID derives the ledger transaction id for an invoice.
// The derivation is deterministic and is the idempotency key for invoice
// syncs: repeated syncs of the same invoice always land on the same row.
func InvoiceTransactionID(invoiceID uuid.UUID) string {
	return invoiceIDPrefix + invoiceID.String()
}

// NewTransactionID generates an id for entries with no source document.
func NewTransactionID() string {
	return generatedIDPrefix + uuid.NewString()
}
