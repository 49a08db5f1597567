package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/practiva/ledger/internal/export"
	"github.com/practiva/ledger/internal/ledger"
)

func TestService_WriteCSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	completed := time.Date(2026, 2, 3, 14, 0, 0, 0, time.UTC)

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		Return([]*ledger.Transaction{
			{
				ID:          "TRX-INV-abc",
				Date:        time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
				Type:        ledger.TypeRevenue,
				Category:    "invoice",
				Status:      ledger.StatusCompleted,
				Description: "Invoice abc",
				Amount:      12550,
				TotalAmount: 12550,
				SourceType:  ledger.SourceTypeInvoice,
				SourceID:    "abc",
				CompletedAt: &completed,
			},
			{
				ID:          "TRX-def",
				Date:        time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
				Type:        ledger.TypeExpense,
				Status:      ledger.StatusPending,
				Description: "Supplies",
				Amount:      4000,
				TotalAmount: 10000,
				Outstanding: 6000,
			},
		}, nil)

	svc := export.NewService(ledger.NewService(repo))

	var buf bytes.Buffer
	n, err := svc.WriteCSV(context.Background(), ledger.ListFilter{}, &buf)

	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, []string{
		"TRX-INV-abc", "2026-02-01", "revenue", "invoice", "completed",
		"Invoice abc", "125.50", "125.50", "0.00", "invoice", "abc", "",
		"2026-02-03T14:00:00Z",
	}, records[1])
	assert.Equal(t, "60.00", records[2][8])
}

func TestService_WriteCSV_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		Return(nil, assert.AnError)

	svc := export.NewService(ledger.NewService(repo))

	_, err := svc.WriteCSV(context.Background(), ledger.ListFilter{}, &bytes.Buffer{})
	assert.Error(t, err)
}
