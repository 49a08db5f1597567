package ledger

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	UpsertTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)

	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ApplyInvoicePayment(ctx context.Context, id uuid.UUID, amount int64) (*Invoice, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RecordParams struct {
	ID            string // optional; generated when empty
	Date          time.Time
	Description   string
	Type          Type
	Category      string
	Status        Status // defaults to completed
	Amount        int64
	TotalAmount   int64 // defaults to Amount
	SourceID      string
	SourceType    string
	PatientID     *uuid.UUID
	PaymentMethod string
	Metadata      map[string]string
	Auto          bool
}

type ListFilter struct {
	Type      *Type
	Status    *Status
	PatientID *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// Record writes a ledger entry. Amounts arrive already normalized to cents;
// the lenient string parsing happens at the API boundary (money.ParseAny).
func (s *Service) Record(ctx context.Context, params RecordParams) (*Transaction, error) {
	tx := &Transaction{
		ID:            params.ID,
		Date:          params.Date,
		Description:   params.Description,
		Type:          params.Type,
		Category:      params.Category,
		Status:        params.Status,
		Amount:        params.Amount,
		TotalAmount:   params.TotalAmount,
		SourceID:      params.SourceID,
		SourceType:    params.SourceType,
		PatientID:     params.PatientID,
		PaymentMethod: params.PaymentMethod,
		Metadata:      params.Metadata,
		Auto:          params.Auto,
	}

	if tx.ID == "" {
		tx.ID = NewTransactionID()
	}

	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}

	if tx.Status == "" {
		tx.Status = StatusCompleted
	}

	if tx.TotalAmount == 0 {
		tx.TotalAmount = tx.Amount
	}

	tx.Outstanding = outstanding(tx.TotalAmount, tx.Amount)

	if tx.Status == StatusCompleted {
		now := time.Now()
		tx.CompletedAt = &now
	}

	if err := s.repo.UpsertTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Patch carries the fields an update may change. Nil fields are left alone;
// Metadata is merged key-wise over the stored map.
type Patch struct {
	Date          *time.Time
	Description   *string
	Type          *Type
	Category      *string
	Status        *Status
	Amount        *int64
	TotalAmount   *int64
	PaymentMethod *string
	Metadata      map[string]string
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Date != nil {
		tx.Date = *patch.Date
	}

	if patch.Description != nil {
		tx.Description = *patch.Description
	}

	if patch.Type != nil {
		tx.Type = *patch.Type
	}

	if patch.Category != nil {
		tx.Category = *patch.Category
	}

	if patch.Status != nil {
		tx.Status = *patch.Status
	}

	if patch.Amount != nil {
		tx.Amount = *patch.Amount
	}

	if patch.TotalAmount != nil {
		tx.TotalAmount = *patch.TotalAmount
	}

	if patch.PaymentMethod != nil {
		tx.PaymentMethod = *patch.PaymentMethod
	}

	if len(patch.Metadata) > 0 {
		if tx.Metadata == nil {
			tx.Metadata = make(map[string]string, len(patch.Metadata))
		}

		maps.Copy(tx.Metadata, patch.Metadata)
	}

	tx.Outstanding = outstanding(tx.TotalAmount, tx.Amount)

	if tx.Status == StatusCompleted && tx.CompletedAt == nil {
		now := time.Now()
		tx.CompletedAt = &now
	}

	if err := s.repo.UpsertTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

type SyncOptions struct {
	Status        *Status    // overrides the derived status
	CompletedAt   *time.Time // overrides the preserved completion time
	Description   string
	PaymentMethod string
	Metadata      map[string]string
}

// SyncInvoice derives the canonical ledger entry for an invoice. The id is
// deterministic (InvoiceTransactionID), so repeated syncs upsert one row.
//
// Paid amount is clamped into [0, billed]; status falls out of whether
// anything remains outstanding. A completion timestamp, once set, survives
// later syncs: it records when the invoice first became fully paid, not when
// it was last touched.
func (s *Service) SyncInvoice(ctx context.Context, inv *Invoice, opts SyncOptions) (*Transaction, error) {
	id := InvoiceTransactionID(inv.ID)

	existing, err := s.repo.GetTransaction(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("loading invoice transaction: %w", err)
	}

	paid := clamp(inv.AmountPaid, 0, inv.Amount)
	due := outstanding(inv.Amount, paid)

	status := StatusPending
	if due <= 0 {
		status = StatusCompleted
	}

	if opts.Status != nil {
		status = *opts.Status
	}

	description := opts.Description
	if description == "" {
		description = fmt.Sprintf("Invoice %s", inv.ID)
	}

	patientID := inv.PatientID
	tx := &Transaction{
		ID:            id,
		Date:          time.Now(),
		Description:   description,
		Type:          TypeRevenue,
		Category:      "invoice",
		Status:        status,
		Amount:        paid,
		TotalAmount:   inv.Amount,
		Outstanding:   due,
		SourceID:      inv.ID.String(),
		SourceType:    SourceTypeInvoice,
		PatientID:     &patientID,
		PaymentMethod: opts.PaymentMethod,
		Auto:          true,
	}

	if existing != nil {
		tx.Date = existing.Date
		tx.CreatedAt = existing.CreatedAt
		tx.CompletedAt = existing.CompletedAt

		if tx.PaymentMethod == "" {
			tx.PaymentMethod = existing.PaymentMethod
		}

		// Key-wise merge so metadata accumulated by other writers survives.
		if len(existing.Metadata) > 0 {
			tx.Metadata = maps.Clone(existing.Metadata)
		}
	}

	if len(opts.Metadata) > 0 {
		if tx.Metadata == nil {
			tx.Metadata = make(map[string]string, len(opts.Metadata))
		}

		maps.Copy(tx.Metadata, opts.Metadata)
	}

	if opts.CompletedAt != nil {
		tx.CompletedAt = opts.CompletedAt
	}

	if status == StatusCompleted && tx.CompletedAt == nil {
		now := time.Now()
		tx.CompletedAt = &now
	}

	if err := s.repo.UpsertTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("upserting invoice transaction: %w", err)
	}

	return tx, nil
}

// RemoveInvoice deletes the derived ledger entry. Removing an entry that
// never existed, or was already removed, is not an error.
func (s *Service) RemoveInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	err := s.repo.DeleteTransaction(ctx, InvoiceTransactionID(invoiceID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	return nil
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

// ApplyPayment records a payment against an invoice and re-derives its
// ledger entry. The invoice-side increment is atomic in the store; the ledger
// sync that follows is idempotent, so a crash between the two is repaired by
// the next sync of the same invoice.
func (s *Service) ApplyPayment(ctx context.Context, invoiceID uuid.UUID, amount int64, method string) error {
	inv, err := s.repo.ApplyInvoicePayment(ctx, invoiceID, amount)
	if err != nil {
		return fmt.Errorf("applying invoice payment: %w", err)
	}

	if _, err := s.SyncInvoice(ctx, inv, SyncOptions{PaymentMethod: method}); err != nil {
		return fmt.Errorf("syncing invoice %s: %w", invoiceID, err)
	}

	return nil
}

func outstanding(total, paid int64) int64 {
	if due := total - paid; due > 0 {
		return due
	}

	return 0
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
