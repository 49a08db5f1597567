package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/practiva/ledger/internal/wallet"
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

const selectWalletColumns = `
	id, patient_id, balance, auto_pay, low_balance_alert, active, created_at, updated_at
`

func scanWallet(s scanner) (*wallet.Wallet, error) {
	var w wallet.Wallet

	if err := s.Scan(
		&w.ID, &w.PatientID, &w.Balance, &w.AutoPay,
		&w.LowBalanceAlert, &w.Active, &w.CreatedAt, &w.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &w, nil
}

const selectTransactionColumns = `
	id, wallet_id, type, status, amount, previous_balance, new_balance,
	reference_id, reference_type, payment_method, description, notes,
	processed_by, created_at
`

func scanTransaction(s scanner) (*wallet.Transaction, error) {
	var txn wallet.Transaction

	var typeStr, statusStr string

	if err := s.Scan(
		&txn.ID, &txn.WalletID, &typeStr, &statusStr, &txn.Amount,
		&txn.PreviousBalance, &txn.NewBalance, &txn.ReferenceID,
		&txn.ReferenceType, &txn.PaymentMethod, &txn.Description,
		&txn.Notes, &txn.ProcessedBy, &txn.CreatedAt,
	); err != nil {
		return nil, err
	}

	txn.Type = wallet.TxType(typeStr)
	txn.Status = wallet.TxStatus(statusStr)

	return &txn, nil
}

const insertTransactionQuery = `
	INSERT INTO wallet_transactions (
		id, wallet_id, type, status, amount, previous_balance, new_balance,
		reference_id, reference_type, payment_method, description, notes, processed_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING created_at
`

// CreateWallet inserts the wallet and its opening deposit, if any, in one
// database transaction.
func (s *Store) CreateWallet(ctx context.Context, w *wallet.Wallet, opening *wallet.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	err = dbTx.QueryRowContext(ctx, `
		INSERT INTO wallets (id, patient_id, balance, auto_pay, low_balance_alert, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, w.ID, w.PatientID, w.Balance, w.AutoPay, w.LowBalanceAlert, w.Active).Scan(&w.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return wallet.ErrAlreadyExists
		}

		return fmt.Errorf("creating wallet: %w", err)
	}

	if opening != nil {
		err = dbTx.QueryRowContext(ctx, insertTransactionQuery,
			opening.ID, opening.WalletID, opening.Type, opening.Status,
			opening.Amount, opening.PreviousBalance, opening.NewBalance,
			opening.ReferenceID, opening.ReferenceType, opening.PaymentMethod,
			opening.Description, opening.Notes, opening.ProcessedBy,
		).Scan(&opening.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating opening transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing wallet creation: %w", err)
	}

	return nil
}

func (s *Store) GetWallet(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	query := `SELECT ` + selectWalletColumns + ` FROM wallets WHERE id = $1`

	w, err := scanWallet(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, wallet.ErrNotFound
		}

		return nil, fmt.Errorf("getting wallet: %w", err)
	}

	return w, nil
}

func (s *Store) GetWalletByPatient(ctx context.Context, patientID uuid.UUID) (*wallet.Wallet, error) {
	query := `SELECT ` + selectWalletColumns + ` FROM wallets WHERE patient_id = $1`

	w, err := scanWallet(s.db.QueryRowContext(ctx, query, patientID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, wallet.ErrNotFound
		}

		return nil, fmt.Errorf("getting wallet by patient: %w", err)
	}

	return w, nil
}

func (s *Store) UpdateSettings(ctx context.Context, id uuid.UUID, patch wallet.SettingsPatch) (*wallet.Wallet, error) {
	query := `UPDATE wallets SET updated_at = NOW()`

	var args []any

	argIdx := 1

	if patch.AutoPay != nil {
		query += fmt.Sprintf(", auto_pay = $%d", argIdx)

		args = append(args, *patch.AutoPay)
		argIdx++
	}

	if patch.ClearLowBalanceAlert {
		query += ", low_balance_alert = NULL"
	} else if patch.LowBalanceAlert != nil {
		query += fmt.Sprintf(", low_balance_alert = $%d", argIdx)

		args = append(args, *patch.LowBalanceAlert)
		argIdx++
	}

	if patch.Active != nil {
		query += fmt.Sprintf(", active = $%d", argIdx)

		args = append(args, *patch.Active)
		argIdx++
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING ", argIdx) + selectWalletColumns
	args = append(args, id)

	w, err := scanWallet(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, wallet.ErrNotFound
		}

		return nil, fmt.Errorf("updating wallet settings: %w", err)
	}

	return w, nil
}

func (s *Store) ListWallets(ctx context.Context, filter wallet.WalletFilter) ([]*wallet.Wallet, error) {
	query := `SELECT ` + selectWalletColumns + ` FROM wallets WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.ActiveOnly {
		query += " AND active"
	}

	if filter.HasBalance {
		query += " AND balance <> 0"
	}

	query += " ORDER BY created_at DESC"

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
		return nil, fmt.Errorf("listing wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*wallet.Wallet

	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning wallet: %w", err)
		}

		wallets = append(wallets, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating wallet rows: %w", err)
	}

	return wallets, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter wallet.TransactionFilter) ([]*wallet.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM wallet_transactions WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.WalletID != nil {
		query += fmt.Sprintf(" AND wallet_id = $%d", argIdx)

		args = append(args, *filter.WalletID)
		argIdx++
	}

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

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (description ILIKE $%d OR notes ILIKE $%d)", argIdx, argIdx)

		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	query += " ORDER BY created_at DESC"

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
		return nil, fmt.Errorf("listing wallet transactions: %w", err)
	}
	defer rows.Close()

	var txns []*wallet.Transaction

	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning wallet transaction: %w", err)
		}

		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating wallet transaction rows: %w", err)
	}

	return txns, nil
}

func (s *Store) WalletStats(ctx context.Context, walletID uuid.UUID) (*wallet.Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(amount) FILTER (WHERE type = 'deposit'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'withdrawal'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'payment'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'refund'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'adjustment'), 0)
		FROM wallet_transactions
		WHERE wallet_id = $1
	`

	var stats wallet.Stats

	err := s.db.QueryRowContext(ctx, query, walletID).Scan(
		&stats.TransactionCount,
		&stats.TotalDeposits,
		&stats.TotalWithdrawals,
		&stats.TotalPayments,
		&stats.TotalRefunds,
		&stats.NetAdjustments,
	)
	if err != nil {
		return nil, fmt.Errorf("computing wallet stats: %w", err)
	}

	return &stats, nil
}

type mutationTx struct {
	tx *sql.Tx
	w  *wallet.Wallet
}

// BeginMutation locks the wallet row for the length of the database
// transaction. Concurrent mutations of the same wallet queue here.
func (s *Store) BeginMutation(ctx context.Context, walletID uuid.UUID) (wallet.MutationTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning wallet mutation: %w", err)
	}

	query := `SELECT ` + selectWalletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`

	w, err := scanWallet(dbTx.QueryRowContext(ctx, query, walletID))
	if err != nil {
		dbTx.Rollback()

		if err == sql.ErrNoRows {
			return nil, wallet.ErrNotFound
		}

		return nil, fmt.Errorf("locking wallet: %w", err)
	}

	return &mutationTx{tx: dbTx, w: w}, nil
}

func (m *mutationTx) Wallet() *wallet.Wallet { return m.w }

func (m *mutationTx) Commit() error   { return m.tx.Commit() }
func (m *mutationTx) Rollback() error { return m.tx.Rollback() }

// Append writes the transaction row and moves the wallet balance to its
// NewBalance. Both writes commit or roll back together.
func (m *mutationTx) Append(ctx context.Context, txn *wallet.Transaction) error {
	err := m.tx.QueryRowContext(ctx, insertTransactionQuery,
		txn.ID, txn.WalletID, txn.Type, txn.Status,
		txn.Amount, txn.PreviousBalance, txn.NewBalance,
		txn.ReferenceID, txn.ReferenceType, txn.PaymentMethod,
		txn.Description, txn.Notes, txn.ProcessedBy,
	).Scan(&txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting wallet transaction: %w", err)
	}

	_, err = m.tx.ExecContext(ctx, `
		UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2
	`, txn.NewBalance, txn.WalletID)
	if err != nil {
		return fmt.Errorf("updating wallet balance: %w", err)
	}

	m.w.Balance = txn.NewBalance

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
