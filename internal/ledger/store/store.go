package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/practiva/ledger/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	id, date, description, type, category, status, amount, total_amount,
	outstanding_amount, source_id, source_type, patient_id, payment_method,
	metadata, auto, completed_at, created_at, updated_at
`

func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var tx ledger.Transaction

	var typeStr, statusStr string

	var sourceID, sourceType sql.NullString

	var metadata []byte

	if err := s.Scan(
		&tx.ID, &tx.Date, &tx.Description, &typeStr, &statusStr,
		&tx.Amount, &tx.TotalAmount, &tx.Outstanding,
		&sourceID, &sourceType, &tx.PatientID, &tx.PaymentMethod,
		&metadata, &tx.Auto, &tx.CompletedAt, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = ledger.Type(typeStr)
	tx.Status = ledger.Status(statusStr)
	tx.SourceID = sourceID.String
	tx.SourceType = sourceType.String

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &tx.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata: %w", err)
		}
	}

	return &tx, nil
}

func (s *Store) UpsertTransaction(ctx context.Context, tx *ledger.Transaction) error {
	metadata, err := json.Marshal(orEmpty(tx.Metadata))
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	query := `
		INSERT INTO ledger_transactions (
			id, date, description, type, category, status, amount, total_amount,
			outstanding_amount, source_id, source_type, patient_id, payment_method,
			metadata, auto, completed_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date,
			description = EXCLUDED.description,
			type = EXCLUDED.type,
			category = EXCLUDED.category,
			status = EXCLUDED.status,
			amount = EXCLUDED.amount,
			total_amount = EXCLUDED.total_amount,
			outstanding_amount = EXCLUDED.outstanding_amount,
			source_id = EXCLUDED.source_id,
			source_type = EXCLUDED.source_type,
			patient_id = EXCLUDED.patient_id,
			payment_method = EXCLUDED.payment_method,
			metadata = EXCLUDED.metadata,
			auto = EXCLUDED.auto,
			completed_at = EXCLUDED.completed_at,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err = s.db.QueryRowContext(ctx, query,
		tx.ID,
		tx.Date,
		tx.Description,
		tx.Type,
		tx.Status,
		tx.Amount,
		tx.TotalAmount,
		tx.Outstanding,
		nullString(tx.SourceID),
		nullString(tx.SourceType),
		tx.PatientID,
		tx.PaymentMethod,
		metadata,
		tx.Auto,
		tx.CompletedAt,
	).Scan(&tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM ledger_transactions WHERE id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ledger_transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

func (s *Store) ListTransactions(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM ledger_transactions WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.PatientID != nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argIdx)

		args = append(args, *filter.PatientID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY date DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)

		args = append(args, filter.Limit)
		argIdx++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)

		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*ledger.Invoice, error) {
	query := `
		SELECT id, patient_id, amount, amount_paid, status, notes, created_at, updated_at
		FROM invoices
		WHERE id = $1
	`

	var inv ledger.Invoice

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&inv.ID, &inv.PatientID, &inv.Amount, &inv.AmountPaid,
		&inv.Status, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrInvoiceNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return &inv, nil
}

// ApplyInvoicePayment increments amount_paid under a row lock and returns the
// updated invoice. Status follows from the new paid amount.
func (s *Store) ApplyInvoicePayment(ctx context.Context, id uuid.UUID, amount int64) (*ledger.Invoice, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var inv ledger.Invoice

	err = dbTx.QueryRowContext(ctx, `
		SELECT id, patient_id, amount, amount_paid, status, notes, created_at, updated_at
		FROM invoices
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(
		&inv.ID, &inv.PatientID, &inv.Amount, &inv.AmountPaid,
		&inv.Status, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrInvoiceNotFound
		}

		return nil, fmt.Errorf("locking invoice: %w", err)
	}

	inv.AmountPaid += amount

	inv.Status = ledger.InvoiceStatusPartiallyPaid
	if inv.AmountPaid >= inv.Amount {
		inv.Status = ledger.InvoiceStatusPaid
	}

	err = dbTx.QueryRowContext(ctx, `
		UPDATE invoices
		SET amount_paid = $1, status = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`, inv.AmountPaid, inv.Status, inv.ID).Scan(&inv.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("updating invoice: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("committing invoice payment: %w", err)
	}

	return &inv, nil
}

func orEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}

	return m
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
