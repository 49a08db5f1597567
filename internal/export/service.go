// Package export renders ledger transactions as CSV statements for the
// clinic's accountant. Amounts are written as decimal currency values, not
// cents, since the files are consumed by spreadsheet software.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/practiva/ledger/internal/ledger"
)

var columns = []string{
	"id",
	"date",
	"type",
	"category",
	"status",
	"description",
	"amount",
	"total_amount",
	"outstanding",
	"source_type",
	"source_id",
	"payment_method",
	"completed_at",
}

type Service struct {
	ledger *ledger.Service
}

func NewService(ledgerService *ledger.Service) *Service {
	return &Service{ledger: ledgerService}
}

// WriteCSV streams the transactions matching the filter to w and returns
// the number of rows written, excluding the header.
func (s *Service) WriteCSV(ctx context.Context, filter ledger.ListFilter, w io.Writer) (int, error) {
	txs, err := s.ledger.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(columns); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		if err := cw.Write(row(tx)); err != nil {
			return 0, fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	return len(txs), cw.Error()
}

func row(tx *ledger.Transaction) []string {
	completedAt := ""
	if tx.CompletedAt != nil {
		completedAt = tx.CompletedAt.Format(time.RFC3339)
	}

	return []string{
		tx.ID,
		tx.Date.Format(time.DateOnly),
		string(tx.Type),
		tx.Category,
		string(tx.Status),
		tx.Description,
		amount(tx.Amount),
		amount(tx.TotalAmount),
		amount(tx.Outstanding),
		tx.SourceType,
		tx.SourceID,
		tx.PaymentMethod,
		completedAt,
	}
}

func amount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
