package shift

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the shift lifecycle: scheduled -> active -> ended. Ended is
// terminal.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusEnded     Status = "ended"
)

// CashTxType classifies a register movement. Sales and paid-ins add to the
// drawer, refunds and paid-outs remove from it.
type CashTxType string

const (
	CashSale   CashTxType = "sale"
	CashRefund CashTxType = "refund"
	CashIn     CashTxType = "cash_in"
	CashOut    CashTxType = "cash_out"
)

// CashDirection returns +1 for drawer inflows and -1 for outflows.
func (t CashTxType) CashDirection() int64 {
	switch t {
	case CashSale, CashIn:
		return 1
	case CashRefund, CashOut:
		return -1
	default:
		return 0
	}
}

var (
	ErrNotFound                = errors.New("shift not found")
	ErrCashTransactionNotFound = errors.New("cash transaction not found")
	ErrInvalidAmount           = errors.New("amount must not be negative")
	ErrInvalidCashTxType       = errors.New("unknown cash transaction type")
	ErrShiftNotScheduled       = errors.New("shift is not in scheduled state")
	ErrShiftAlreadyActive      = errors.New("shift is already active")
	ErrShiftNotActive          = errors.New("shift is not active")
	ErrActiveShiftExists       = errors.New("staff member already has an active shift")
)

// Shift is a bounded cash-handling session for one staff member. At most one
// shift per staff member is active at a time. CashBalance tracks the drawer's
// running cash amount, seeded by the opening float; card and other tender are
// reported but never enter the cash reconciliation.
type Shift struct {
	ID                uuid.UUID
	StaffID           uuid.UUID
	ScheduledStart    time.Time
	ScheduledEnd      time.Time
	ActualStart       *time.Time
	ActualEnd         *time.Time
	Status            Status
	Type              string
	OpeningCash       int64
	ClosingCash       *int64
	ExpectedCash      *int64
	Discrepancy       *int64 // ClosingCash - ExpectedCash; recorded, never rejected
	DiscrepancyNotes  string
	Notes             string
	CashBalance       int64
	TotalTransactions int64
	TotalRevenue      int64
	TotalAppointments int64
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

type CashTransaction struct {
	ID              uuid.UUID
	ShiftID         uuid.UUID
	StaffID         uuid.UUID
	Type            CashTxType
	Amount          int64 // cash + card + other
	PreviousBalance int64 // drawer cash balance before this entry
	NewBalance      int64
	CashAmount      int64
	CardAmount      int64
	OtherAmount     int64
	ReferenceID     *uuid.UUID
	ReferenceType   string
	Description     string
	VerifiedBy      *uuid.UUID
	CreatedAt       time.Time
}
