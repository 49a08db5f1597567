package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/practiva/ledger/internal/ledger"
)

func ptr[T any](v T) *T { return &v }

func TestInvoiceTransactionID(t *testing.T) {
	id := uuid.MustParse("a2a7e21c-9d49-4b53-90fb-7f3a1e9f3c6d")

	got := ledger.InvoiceTransactionID(id)

	assert.Equal(t, "TRX-INV-a2a7e21c-9d49-4b53-90fb-7f3a1e9f3c6d", got)
	assert.Equal(t, got, ledger.InvoiceTransactionID(id))
}

func TestService_Record(t *testing.T) {
	type testCase struct {
		name      string
		params    ledger.RecordParams
		setupMock func(m *ledger.MockRepository)
		wantErr   bool
		check     func(t *testing.T, tx *ledger.Transaction)
	}

	tests := []testCase{
		{
			name: "DefaultsApplied",
			params: ledger.RecordParams{
				Amount:      2500,
				Type:        ledger.TypeRevenue,
				Description: "Consultation fee",
			},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					UpsertTransaction(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			check: func(t *testing.T, tx *ledger.Transaction) {
				assert.Contains(t, tx.ID, "TRX-")
				assert.Equal(t, ledger.StatusCompleted, tx.Status)
				assert.Equal(t, int64(2500), tx.Amount)
				assert.Equal(t, int64(2500), tx.TotalAmount)
				assert.Zero(t, tx.Outstanding)
				assert.False(t, tx.Date.IsZero())
				require.NotNil(t, tx.CompletedAt)
			},
		},
		{
			name: "PendingKeepsOutstanding",
			params: ledger.RecordParams{
				Amount:      4000,
				TotalAmount: 10000,
				Type:        ledger.TypeRevenue,
				Status:      ledger.StatusPending,
				Description: "Partial payment",
			},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					UpsertTransaction(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			check: func(t *testing.T, tx *ledger.Transaction) {
				assert.Equal(t, ledger.StatusPending, tx.Status)
				assert.Equal(t, int64(6000), tx.Outstanding)
				assert.Nil(t, tx.CompletedAt)
			},
		},
		{
			name: "RepoError",
			params: ledger.RecordParams{
				Amount:      100,
				Type:        ledger.TypeExpense,
				Description: "Supplies",
			},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					UpsertTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := ledger.NewService(repo)
			got, err := svc.Record(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			tt.check(t, got)
		})
	}
}

func TestService_SyncInvoice(t *testing.T) {
	invoiceID := uuid.MustParse("5f0c9f6a-2a8e-4a92-86f0-2f1a4f8c0d11")
	patientID := uuid.New()
	txID := ledger.InvoiceTransactionID(invoiceID)

	invoice := func(billed, paid int64) *ledger.Invoice {
		return &ledger.Invoice{
			ID:         invoiceID,
			PatientID:  patientID,
			Amount:     billed,
			AmountPaid: paid,
		}
	}

	type testCase struct {
		name      string
		inv       *ledger.Invoice
		opts      ledger.SyncOptions
		setupMock func(m *ledger.MockRepository)
		wantErr   bool
		check     func(t *testing.T, tx *ledger.Transaction)
	}

	tests := []testCase{
		{
			name: "NewPartiallyPaid",
			inv:  invoice(10000, 4000),
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					GetTransaction(gomock.Any(), txID).
					Return(nil, ledger.ErrNotFound)
				m.EXPECT().
					UpsertTransaction(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			check: func(t *testing.T, tx *ledger.Transaction) {
				assert.Equal(t, txID, tx.ID)
				assert.Equal(t, ledger.StatusPending, tx.Status)
				assert.Equal(t, int64(4000), tx.Amount)
				assert.Equal(t, int64(10000), tx.TotalAmount)
				assert.Equal(t, int64(6000), tx.Outstanding)
				assert.Equal(t, ledger.SourceTypeInvoice, tx.SourceType)
				assert.True(t, tx.Auto)
				assert.Nil(t, tx.CompletedAt)
			},
		},
		{
			name: "OverpaymentClampedToBilled",
			inv:  invoice(10000, 13000),
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					GetTransaction(gomock.Any(), txID).
					Return(nil, ledger.ErrNotFound)
				m.EXPECT().
					UpsertTransaction(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			check: func(t *testing.T, tx *ledger.Transaction) {
				assert.Equal(t, int64(10000), tx.Amount)
				assert.Zero(t, tx.Outstanding)
				assert.Equal(t, ledger.StatusCompleted, tx.Status)
				require.NotNil(t, tx.CompletedAt)
			},
		},
		{
			name: "NegativePaidClampedToZero",
			inv:  invoice(10000, -500),
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					GetTransaction(gomock.Any(), txID).
					Return(nil, ledger.ErrNotFound)
				m.EXPECT().
					UpsertTransaction(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			check: func(t *testing.T, tx *ledger.Transaction) {
				assert.Zero(t, tx.Amount)
				assert.Equal(t, int64(10000), tx.Outstanding)
				assert.Equal(t, ledger.StatusPending, tx.Status)
			},
		},
		{
			name: "ResyncPreservesFirstCompletion",
			inv:  invoice(10000, 10000),
			setupMock: func(m *ledger.MockRepository) {
				completed := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
				created := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
				m.EXPECT().
					GetTransaction(gomock.Any(), txID).
					Return(&ledger.Transaction{
						ID:            txID,
						Date:          created,
						CreatedAt:     created,
						CompletedAt:   &completed,
						PaymentMethod: "card",
						Metadata:      map[string]string{"visit": "annual"},
					}, nil)
				m.EXPECT().
					UpsertTransaction(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			opts: ledger.SyncOptions{
				Metadata: map[string]string{"cashier": "front-desk"},
			},
			check: func(t *testing.T, tx *ledger.Transaction) {
				require.NotNil(t, tx.CompletedAt)
				assert.Equal(t, time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC), *tx.CompletedAt)
				assert.Equal(t, time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC), tx.Date)
				assert.Equal(t, "card", tx.PaymentMethod)
				assert.Equal(t, map[string]string{
					"visit":   "annual",
					"cashier": "front-desk",
				}, tx.Metadata)
			},
		},
		{
			name: "StatusOverride",
			inv:  invoice(10000, 10000),
			opts: ledger.SyncOptions{
				Status: ptr(ledger.StatusPending),
			},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					GetTransaction(gomock.Any(), txID).
					Return(nil, ledger.ErrNotFound)
				m.EXPECT().
					UpsertTransaction(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			check: func(t *testing.T, tx *ledger.Transaction) {
				assert.Equal(t, ledger.StatusPending, tx.Status)
				assert.Nil(t, tx.CompletedAt)
			},
		},
		{
			name: "LookupError",
			inv:  invoice(10000, 0),
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					GetTransaction(gomock.Any(), txID).
					Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := ledger.NewService(repo)
			got, err := svc.SyncInvoice(context.Background(), tt.inv, tt.opts)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			tt.check(t, got)
		})
	}
}

func TestService_SyncInvoice_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	invoiceID := uuid.New()
	inv := &ledger.Invoice{
		ID:         invoiceID,
		PatientID:  uuid.New(),
		Amount:     5000,
		AmountPaid: 5000,
	}

	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	// First sync creates the row; second sync finds it and lands on the
	// same id with the same amounts.
	var stored *ledger.Transaction

	repo.EXPECT().
		GetTransaction(gomock.Any(), ledger.InvoiceTransactionID(invoiceID)).
		DoAndReturn(func(context.Context, string) (*ledger.Transaction, error) {
			if stored == nil {
				return nil, ledger.ErrNotFound
			}
			return stored, nil
		}).
		Times(2)
	repo.EXPECT().
		UpsertTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *ledger.Transaction) error {
			stored = tx
			return nil
		}).
		Times(2)

	first, err := svc.SyncInvoice(context.Background(), inv, ledger.SyncOptions{})
	require.NoError(t, err)

	second, err := svc.SyncInvoice(context.Background(), inv, ledger.SyncOptions{})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Amount, second.Amount)
	assert.Equal(t, first.CompletedAt, second.CompletedAt)
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	repo.EXPECT().
		GetTransaction(gomock.Any(), "TRX-abc").
		Return(&ledger.Transaction{
			ID:          "TRX-abc",
			Amount:      1000,
			TotalAmount: 1000,
			Status:      ledger.StatusPending,
			Metadata:    map[string]string{"a": "1", "b": "2"},
		}, nil)
	repo.EXPECT().
		UpsertTransaction(gomock.Any(), gomock.Any()).
		Return(nil)

	got, err := svc.Update(context.Background(), "TRX-abc", ledger.Patch{
		Status:   ptr(ledger.StatusCompleted),
		Amount:   ptr(int64(1000)),
		Metadata: map[string]string{"b": "20", "c": "3"},
	})
	require.NoError(t, err)

	assert.Equal(t, ledger.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, map[string]string{"a": "1", "b": "20", "c": "3"}, got.Metadata)
}

func TestService_RemoveInvoice(t *testing.T) {
	invoiceID := uuid.New()

	type testCase struct {
		name      string
		setupMock func(m *ledger.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Removes",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					DeleteTransaction(gomock.Any(), ledger.InvoiceTransactionID(invoiceID)).
					Return(nil)
			},
		},
		{
			name: "MissingEntryIsFine",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					DeleteTransaction(gomock.Any(), gomock.Any()).
					Return(ledger.ErrNotFound)
			},
		},
		{
			name: "RepoError",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					DeleteTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := ledger.NewService(repo)
			err := svc.RemoveInvoice(context.Background(), invoiceID)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_ApplyPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	invoiceID := uuid.New()

	repo := ledger.NewMockRepository(ctrl)
	svc := ledger.NewService(repo)

	repo.EXPECT().
		ApplyInvoicePayment(gomock.Any(), invoiceID, int64(3000)).
		Return(&ledger.Invoice{
			ID:         invoiceID,
			PatientID:  uuid.New(),
			Amount:     10000,
			AmountPaid: 3000,
		}, nil)
	repo.EXPECT().
		GetTransaction(gomock.Any(), ledger.InvoiceTransactionID(invoiceID)).
		Return(nil, ledger.ErrNotFound)
	repo.EXPECT().
		UpsertTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *ledger.Transaction) error {
			assert.Equal(t, int64(3000), tx.Amount)
			assert.Equal(t, "wallet", tx.PaymentMethod)
			return nil
		})

	err := svc.ApplyPayment(context.Background(), invoiceID, 3000, "wallet")
	assert.NoError(t, err)
}
