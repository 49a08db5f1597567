package wallet

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TxType classifies a wallet ledger entry. Deposits and refunds increase the
// balance, withdrawals and payments decrease it; adjustments carry their own
// sign in Amount.
type TxType string

const (
	TxDeposit    TxType = "deposit"
	TxWithdrawal TxType = "withdrawal"
	TxPayment    TxType = "payment"
	TxRefund     TxType = "refund"
	TxAdjustment TxType = "adjustment"
)

type TxStatus string

const (
	TxStatusPending   TxStatus = "pending"
	TxStatusCompleted TxStatus = "completed"
	TxStatusReversed  TxStatus = "reversed"
)

var (
	ErrNotFound            = errors.New("wallet not found")
	ErrAlreadyExists       = errors.New("wallet already exists for patient")
	ErrInactive            = errors.New("wallet is inactive")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrDescriptionRequired = errors.New("adjustments require a description")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrTransactionNotFound = errors.New("wallet transaction not found")
)

// Wallet is a patient's stored-value balance. Balance is denormalized from
// the transaction history and must always equal the newest transaction's
// NewBalance; every mutation writes both under one row lock.
type Wallet struct {
	ID              uuid.UUID
	PatientID       uuid.UUID
	Balance         int64 // Balance in cents
	AutoPay         bool
	LowBalanceAlert *int64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

type Transaction struct {
	ID              uuid.UUID
	WalletID        uuid.UUID
	Type            TxType
	Status          TxStatus
	Amount          int64 // magnitude for typed ops; signed for adjustments
	PreviousBalance int64
	NewBalance      int64
	ReferenceID     *uuid.UUID
	ReferenceType   string
	PaymentMethod   string
	Description     string
	Notes           string
	ProcessedBy     string
	CreatedAt       time.Time
}

// InsufficientFundsError reports how far a debit fell short.
type InsufficientFundsError struct {
	WalletID  uuid.UUID
	Available int64
	Requested int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %d, requested %d", e.Available, e.Requested)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// PartialPaymentError reports a wallet debit that committed while the
// invoice-side update failed. The committed transaction id lets a human or a
// reconciliation pass repair the invoice; the debit is never retried
// automatically.
type PartialPaymentError struct {
	WalletTransactionID uuid.UUID
	InvoiceID           uuid.UUID
	Err                 error
}

func (e *PartialPaymentError) Error() string {
	return fmt.Sprintf("wallet payment %s committed but invoice %s update failed: %v",
		e.WalletTransactionID, e.InvoiceID, e.Err)
}

func (e *PartialPaymentError) Unwrap() error {
	return e.Err
}
