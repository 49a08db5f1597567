package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Statements are idempotent so it is safe to run
// on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying migration: %w", err)
		}
	}

	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS invoices (
		id UUID PRIMARY KEY,
		patient_id UUID NOT NULL,
		amount BIGINT NOT NULL,
		amount_paid BIGINT NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'open',
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS ledger_transactions (
		id TEXT PRIMARY KEY,
		date TIMESTAMPTZ NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		amount BIGINT NOT NULL,
		total_amount BIGINT NOT NULL,
		outstanding_amount BIGINT NOT NULL DEFAULT 0,
		source_id TEXT,
		source_type TEXT,
		patient_id UUID,
		payment_method TEXT NOT NULL DEFAULT '',
		metadata JSONB NOT NULL DEFAULT '{}',
		auto BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_transactions_source
		ON ledger_transactions (source_type, source_id)`,

	`CREATE TABLE IF NOT EXISTS wallets (
		id UUID PRIMARY KEY,
		patient_id UUID NOT NULL UNIQUE,
		balance BIGINT NOT NULL DEFAULT 0,
		auto_pay BOOLEAN NOT NULL DEFAULT FALSE,
		low_balance_alert BIGINT,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS wallet_transactions (
		id UUID PRIMARY KEY,
		wallet_id UUID NOT NULL REFERENCES wallets(id),
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		amount BIGINT NOT NULL,
		previous_balance BIGINT NOT NULL,
		new_balance BIGINT NOT NULL,
		reference_id UUID,
		reference_type TEXT NOT NULL DEFAULT '',
		payment_method TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		processed_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_wallet_transactions_wallet
		ON wallet_transactions (wallet_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS shifts (
		id UUID PRIMARY KEY,
		staff_id UUID NOT NULL,
		scheduled_start TIMESTAMPTZ NOT NULL,
		scheduled_end TIMESTAMPTZ NOT NULL,
		actual_start TIMESTAMPTZ,
		actual_end TIMESTAMPTZ,
		status TEXT NOT NULL DEFAULT 'scheduled',
		shift_type TEXT NOT NULL DEFAULT '',
		opening_cash BIGINT NOT NULL DEFAULT 0,
		closing_cash BIGINT,
		expected_cash BIGINT,
		discrepancy BIGINT,
		discrepancy_notes TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		cash_balance BIGINT NOT NULL DEFAULT 0,
		total_transactions BIGINT NOT NULL DEFAULT 0,
		total_revenue BIGINT NOT NULL DEFAULT 0,
		total_appointments BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_one_active_per_staff
		ON shifts (staff_id) WHERE status = 'active'`,

	`CREATE TABLE IF NOT EXISTS cash_transactions (
		id UUID PRIMARY KEY,
		shift_id UUID NOT NULL REFERENCES shifts(id),
		staff_id UUID NOT NULL,
		type TEXT NOT NULL,
		amount BIGINT NOT NULL,
		previous_balance BIGINT NOT NULL,
		new_balance BIGINT NOT NULL,
		cash_amount BIGINT NOT NULL DEFAULT 0,
		card_amount BIGINT NOT NULL DEFAULT 0,
		other_amount BIGINT NOT NULL DEFAULT 0,
		reference_id UUID,
		reference_type TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		verified_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cash_transactions_shift
		ON cash_transactions (shift_id, created_at)`,
}
