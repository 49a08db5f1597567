package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

// Invoice statuses as maintained by the payment path. The invoice record
// itself is owned by the billing module; only Amount, AmountPaid and Status
// matter to the ledger.
const (
	InvoiceStatusOpen          = "open"
	InvoiceStatusPartiallyPaid = "partially_paid"
	InvoiceStatusPaid          = "paid"
)

type Invoice struct {
	ID         uuid.UUID
	PatientID  uuid.UUID
	Amount     int64 // billed total in cents
	AmountPaid int64
	Status     string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
