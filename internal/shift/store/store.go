package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/practiva/ledger/internal/shift"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectShiftColumns = `
	id, staff_id, scheduled_start, scheduled_end, actual_start, actual_end,
	status, shift_type, opening_cash, closing_cash, expected_cash, discrepancy,
	discrepancy_notes, notes, cash_balance, total_transactions, total_revenue,
	total_appointments, created_at, updated_at
`

func scanShift(s scanner) (*shift.Shift, error) {
	var sh shift.Shift

	var statusStr string

	if err := s.Scan(
		&sh.ID, &sh.StaffID, &sh.ScheduledStart, &sh.ScheduledEnd,
		&sh.ActualStart, &sh.ActualEnd, &statusStr, &sh.Type,
		&sh.OpeningCash, &sh.ClosingCash, &sh.ExpectedCash, &sh.Discrepancy,
		&sh.DiscrepancyNotes, &sh.Notes, &sh.CashBalance,
		&sh.TotalTransactions, &sh.TotalRevenue, &sh.TotalAppointments,
		&sh.CreatedAt, &sh.UpdatedAt,
	); err != nil {
		return nil, err
	}

	sh.Status = shift.Status(statusStr)

	return &sh, nil
}

const selectCashTxColumns = `
	id, shift_id, staff_id, type, amount, previous_balance, new_balance,
	cash_amount, card_amount, other_amount, reference_id, reference_type,
	description, verified_by, created_at
`

func scanCashTransaction(s scanner) (*shift.CashTransaction, error) {
	var txn shift.CashTransaction

	var typeStr string

	if err := s.Scan(
		&txn.ID, &txn.ShiftID, &txn.StaffID, &typeStr, &txn.Amount,
		&txn.PreviousBalance, &txn.NewBalance, &txn.CashAmount,
		&txn.CardAmount, &txn.OtherAmount, &txn.ReferenceID,
		&txn.ReferenceType, &txn.Description, &txn.VerifiedBy, &txn.CreatedAt,
	); err != nil {
		return nil, err
	}

	txn.Type = shift.CashTxType(typeStr)

	return &txn, nil
}

func (s *Store) CreateShift(ctx context.Context, sh *shift.Shift) error {
	query := `
		INSERT INTO shifts (id, staff_id, scheduled_start, scheduled_end, status, shift_type, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		sh.ID, sh.StaffID, sh.ScheduledStart, sh.ScheduledEnd,
		sh.Status, sh.Type, sh.Notes,
	).Scan(&sh.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating shift: %w", err)
	}

	return nil
}

func (s *Store) GetShift(ctx context.Context, id uuid.UUID) (*shift.Shift, error) {
	query := `SELECT ` + selectShiftColumns + ` FROM shifts WHERE id = $1`

	sh, err := scanShift(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shift.ErrNotFound
		}

		return nil, fmt.Errorf("getting shift: %w", err)
	}

	return sh, nil
}

func (s *Store) GetActiveShift(ctx context.Context, staffID uuid.UUID) (*shift.Shift, error) {
	query := `SELECT ` + selectShiftColumns + ` FROM shifts WHERE staff_id = $1 AND status = 'active'`

	sh, err := scanShift(s.db.QueryRowContext(ctx, query, staffID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shift.ErrNotFound
		}

		return nil, fmt.Errorf("getting active shift: %w", err)
	}

	return sh, nil
}

func (s *Store) ListActiveShifts(ctx context.Context) ([]*shift.Shift, error) {
	query := `SELECT ` + selectShiftColumns + ` FROM shifts WHERE status = 'active' ORDER BY actual_start ASC`

	return s.queryShifts(ctx, query)
}

func (s *Store) ListShifts(ctx context.Context, filter shift.Filter) ([]*shift.Shift, error) {
	query := `SELECT ` + selectShiftColumns + ` FROM shifts WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.StaffID != nil {
		query += fmt.Sprintf(" AND staff_id = $%d", argIdx)

		args = append(args, *filter.StaffID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND scheduled_start >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND scheduled_start <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY scheduled_start DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)

		args = append(args, filter.Limit)
		argIdx++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)

		args = append(args, filter.Offset)
	}

	return s.queryShifts(ctx, query, args...)
}

func (s *Store) queryShifts(ctx context.Context, query string, args ...any) ([]*shift.Shift, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing shifts: %w", err)
	}
	defer rows.Close()

	var shifts []*shift.Shift

	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning shift: %w", err)
		}

		shifts = append(shifts, sh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating shift rows: %w", err)
	}

	return shifts, nil
}

func (s *Store) ListCashTransactions(ctx context.Context, shiftID uuid.UUID) ([]*shift.CashTransaction, error) {
	query := `SELECT ` + selectCashTxColumns + ` FROM cash_transactions WHERE shift_id = $1 ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("listing cash transactions: %w", err)
	}
	defer rows.Close()

	var txns []*shift.CashTransaction

	for rows.Next() {
		txn, err := scanCashTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning cash transaction: %w", err)
		}

		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cash transaction rows: %w", err)
	}

	return txns, nil
}

func (s *Store) UpdateStats(ctx context.Context, id uuid.UUID, patch shift.StatsPatch) (*shift.Shift, error) {
	query := `UPDATE shifts SET updated_at = NOW()`

	var args []any

	argIdx := 1

	if patch.TotalTransactions != nil {
		query += fmt.Sprintf(", total_transactions = $%d", argIdx)

		args = append(args, *patch.TotalTransactions)
		argIdx++
	}

	if patch.TotalRevenue != nil {
		query += fmt.Sprintf(", total_revenue = $%d", argIdx)

		args = append(args, *patch.TotalRevenue)
		argIdx++
	}

	if patch.TotalAppointments != nil {
		query += fmt.Sprintf(", total_appointments = $%d", argIdx)

		args = append(args, *patch.TotalAppointments)
		argIdx++
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING ", argIdx) + selectShiftColumns
	args = append(args, id)

	sh, err := scanShift(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shift.ErrNotFound
		}

		return nil, fmt.Errorf("updating shift stats: %w", err)
	}

	return sh, nil
}

func (s *Store) VerifyCashTransaction(ctx context.Context, txID, verifiedBy uuid.UUID) (*shift.CashTransaction, error) {
	query := `
		UPDATE cash_transactions
		SET verified_by = $1
		WHERE id = $2
		RETURNING ` + selectCashTxColumns

	txn, err := scanCashTransaction(s.db.QueryRowContext(ctx, query, verifiedBy, txID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shift.ErrCashTransactionNotFound
		}

		return nil, fmt.Errorf("verifying cash transaction: %w", err)
	}

	return txn, nil
}

func (s *Store) Report(ctx context.Context, start, end time.Time) (*shift.Report, error) {
	query := `SELECT ` + selectShiftColumns + `
		FROM shifts
		WHERE COALESCE(actual_start, scheduled_start) >= $1
		  AND COALESCE(actual_start, scheduled_start) <= $2
		  AND status <> 'scheduled'
		ORDER BY COALESCE(actual_start, scheduled_start) ASC`

	shifts, err := s.queryShifts(ctx, query, start, end)
	if err != nil {
		return nil, err
	}

	report := &shift.Report{StartDate: start, EndDate: end}

	for _, sh := range shifts {
		row := shift.ReportRow{
			ShiftID:           sh.ID,
			StaffID:           sh.StaffID,
			Status:            sh.Status,
			ActualStart:       sh.ActualStart,
			ActualEnd:         sh.ActualEnd,
			OpeningCash:       sh.OpeningCash,
			ClosingCash:       sh.ClosingCash,
			ExpectedCash:      sh.ExpectedCash,
			Discrepancy:       sh.Discrepancy,
			TotalTransactions: sh.TotalTransactions,
			TotalRevenue:      sh.TotalRevenue,
		}

		report.Shifts = append(report.Shifts, row)
		report.TotalRevenue += sh.TotalRevenue

		if sh.Discrepancy != nil {
			report.TotalDiscrepancy += *sh.Discrepancy
		}
	}

	return report, nil
}

func (s *Store) TodaySummary(ctx context.Context) (*shift.TodaySummary, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'ended'),
			COALESCE(SUM(total_transactions), 0),
			COALESCE(SUM(total_revenue), 0),
			COALESCE(SUM(discrepancy), 0)
		FROM shifts
		WHERE COALESCE(actual_start, scheduled_start)::date = CURRENT_DATE
	`

	var summary shift.TodaySummary

	err := s.db.QueryRowContext(ctx, query).Scan(
		&summary.TotalShifts,
		&summary.ActiveShifts,
		&summary.EndedShifts,
		&summary.TotalTransactions,
		&summary.TotalRevenue,
		&summary.TotalDiscrepancy,
	)
	if err != nil {
		return nil, fmt.Errorf("computing today summary: %w", err)
	}

	return &summary, nil
}

type mutationTx struct {
	tx *sql.Tx
	sh *shift.Shift
}

// BeginMutation locks the shift row for the length of the database
// transaction.
func (s *Store) BeginMutation(ctx context.Context, shiftID uuid.UUID) (shift.MutationTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning shift mutation: %w", err)
	}

	query := `SELECT ` + selectShiftColumns + ` FROM shifts WHERE id = $1 FOR UPDATE`

	sh, err := scanShift(dbTx.QueryRowContext(ctx, query, shiftID))
	if err != nil {
		dbTx.Rollback()

		if err == sql.ErrNoRows {
			return nil, shift.ErrNotFound
		}

		return nil, fmt.Errorf("locking shift: %w", err)
	}

	return &mutationTx{tx: dbTx, sh: sh}, nil
}

func (m *mutationTx) Shift() *shift.Shift { return m.sh }

func (m *mutationTx) Commit() error   { return m.tx.Commit() }
func (m *mutationTx) Rollback() error { return m.tx.Rollback() }

func (m *mutationTx) OtherActiveShiftExists(ctx context.Context, staffID uuid.UUID) (bool, error) {
	var exists bool

	err := m.tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM shifts WHERE staff_id = $1 AND status = 'active' AND id <> $2
		)
	`, staffID, m.sh.ID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking active shifts: %w", err)
	}

	return exists, nil
}

func (m *mutationTx) SumCashMovements(ctx context.Context) (int64, error) {
	var sum int64

	err := m.tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(
			CASE WHEN type IN ('sale', 'cash_in') THEN cash_amount ELSE -cash_amount END
		), 0)
		FROM cash_transactions
		WHERE shift_id = $1
	`, m.sh.ID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("summing cash movements: %w", err)
	}

	return sum, nil
}

func (m *mutationTx) AppendCashTransaction(ctx context.Context, txn *shift.CashTransaction) error {
	query := `
		INSERT INTO cash_transactions (
			id, shift_id, staff_id, type, amount, previous_balance, new_balance,
			cash_amount, card_amount, other_amount, reference_id, reference_type, description
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`

	err := m.tx.QueryRowContext(ctx, query,
		txn.ID, txn.ShiftID, txn.StaffID, txn.Type, txn.Amount,
		txn.PreviousBalance, txn.NewBalance, txn.CashAmount,
		txn.CardAmount, txn.OtherAmount, txn.ReferenceID,
		txn.ReferenceType, txn.Description,
	).Scan(&txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting cash transaction: %w", err)
	}

	return nil
}

func (m *mutationTx) Save(ctx context.Context) error {
	query := `
		UPDATE shifts
		SET status = $1, actual_start = $2, actual_end = $3, opening_cash = $4,
			closing_cash = $5, expected_cash = $6, discrepancy = $7,
			discrepancy_notes = $8, notes = $9, cash_balance = $10,
			total_transactions = $11, total_revenue = $12, total_appointments = $13,
			updated_at = NOW()
		WHERE id = $14
	`

	_, err := m.tx.ExecContext(ctx, query,
		m.sh.Status, m.sh.ActualStart, m.sh.ActualEnd, m.sh.OpeningCash,
		m.sh.ClosingCash, m.sh.ExpectedCash, m.sh.Discrepancy,
		m.sh.DiscrepancyNotes, m.sh.Notes, m.sh.CashBalance,
		m.sh.TotalTransactions, m.sh.TotalRevenue, m.sh.TotalAppointments,
		m.sh.ID,
	)
	if err != nil {
		return fmt.Errorf("saving shift: %w", err)
	}

	return nil
}
