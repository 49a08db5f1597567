package shift_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/practiva/ledger/internal/shift"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    shift.CreateParams
		setupMock func(m *shift.MockRepository)
		wantErr   bool
	}

	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	tests := []testCase{
		{
			name: "Scheduled",
			params: shift.CreateParams{
				StaffID:        uuid.New(),
				ScheduledStart: start,
				ScheduledEnd:   start.Add(8 * time.Hour),
				Type:           "morning",
			},
			setupMock: func(m *shift.MockRepository) {
				m.EXPECT().
					CreateShift(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, sh *shift.Shift) error {
						assert.Equal(t, shift.StatusScheduled, sh.Status)
						assert.Zero(t, sh.OpeningCash)
						return nil
					})
			},
		},
		{
			name: "MissingStaff",
			params: shift.CreateParams{
				ScheduledStart: start,
				ScheduledEnd:   start.Add(8 * time.Hour),
			},
			wantErr: true,
		},
		{
			name: "EndBeforeStart",
			params: shift.CreateParams{
				StaffID:        uuid.New(),
				ScheduledStart: start,
				ScheduledEnd:   start.Add(-time.Hour),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := shift.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := shift.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
		})
	}
}

func TestService_Start(t *testing.T) {
	type testCase struct {
		name        string
		status      shift.Status
		otherActive bool
		openingCash int64
		wantErr     error
	}

	tests := []testCase{
		{name: "FromScheduled", status: shift.StatusScheduled, openingCash: 50000},
		{name: "AlreadyActive", status: shift.StatusActive, wantErr: shift.ErrShiftAlreadyActive},
		{name: "AlreadyEnded", status: shift.StatusEnded, wantErr: shift.ErrShiftNotScheduled},
		{name: "StaffHasAnotherActiveShift", status: shift.StatusScheduled, otherActive: true, wantErr: shift.ErrActiveShiftExists},
		{name: "NegativeOpeningCash", status: shift.StatusScheduled, openingCash: -1, wantErr: shift.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			staffID := uuid.New()
			sh := &shift.Shift{ID: uuid.New(), StaffID: staffID, Status: tt.status}

			repo := shift.NewMockRepository(ctrl)

			if tt.wantErr != shift.ErrInvalidAmount {
				mtx := shift.NewMockMutationTx(ctrl)
				repo.EXPECT().BeginMutation(gomock.Any(), sh.ID).Return(mtx, nil)
				mtx.EXPECT().Shift().Return(sh)
				mtx.EXPECT().Rollback().Return(nil).AnyTimes()

				if tt.status == shift.StatusScheduled {
					mtx.EXPECT().
						OtherActiveShiftExists(gomock.Any(), staffID).
						Return(tt.otherActive, nil)
				}

				if tt.wantErr == nil {
					mtx.EXPECT().Save(gomock.Any()).Return(nil)
					mtx.EXPECT().Commit().Return(nil)
				}
			}

			svc := shift.NewService(repo)
			got, err := svc.Start(context.Background(), shift.StartParams{
				ShiftID:     sh.ID,
				OpeningCash: tt.openingCash,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, shift.StatusActive, got.Status)
			assert.Equal(t, tt.openingCash, got.OpeningCash)
			assert.Equal(t, tt.openingCash, got.CashBalance)
			require.NotNil(t, got.ActualStart)
		})
	}
}

func TestService_RecordCashTransaction(t *testing.T) {
	type testCase struct {
		name        string
		status      shift.Status
		txType      shift.CashTxType
		cash        int64
		card        int64
		other       int64
		wantErr     error
		wantBalance int64
	}

	tests := []testCase{
		{
			name:        "SaleAddsCash",
			status:      shift.StatusActive,
			txType:      shift.CashSale,
			cash:        2000,
			card:        1500,
			wantBalance: 52000,
		},
		{
			name:        "RefundRemovesCash",
			status:      shift.StatusActive,
			txType:      shift.CashRefund,
			cash:        500,
			wantBalance: 49500,
		},
		{
			name:        "CardOnlySaleLeavesDrawerUntouched",
			status:      shift.StatusActive,
			txType:      shift.CashSale,
			card:        3000,
			wantBalance: 50000,
		},
		{
			name:    "UnknownType",
			status:  shift.StatusActive,
			txType:  shift.CashTxType("loan"),
			cash:    100,
			wantErr: shift.ErrInvalidCashTxType,
		},
		{
			name:    "NegativeSplit",
			status:  shift.StatusActive,
			txType:  shift.CashSale,
			cash:    -100,
			wantErr: shift.ErrInvalidAmount,
		},
		{
			name:    "ZeroTotal",
			status:  shift.StatusActive,
			txType:  shift.CashSale,
			wantErr: shift.ErrInvalidAmount,
		},
		{
			name:    "ShiftNotActive",
			status:  shift.StatusScheduled,
			txType:  shift.CashSale,
			cash:    100,
			wantErr: shift.ErrShiftNotActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			sh := &shift.Shift{
				ID:          uuid.New(),
				StaffID:     uuid.New(),
				Status:      tt.status,
				OpeningCash: 50000,
				CashBalance: 50000,
			}

			repo := shift.NewMockRepository(ctrl)

			needsMutation := tt.wantErr == nil || tt.wantErr == shift.ErrShiftNotActive
			if needsMutation {
				mtx := shift.NewMockMutationTx(ctrl)
				repo.EXPECT().BeginMutation(gomock.Any(), sh.ID).Return(mtx, nil)
				mtx.EXPECT().Shift().Return(sh)
				mtx.EXPECT().Rollback().Return(nil).AnyTimes()

				if tt.wantErr == nil {
					mtx.EXPECT().
						AppendCashTransaction(gomock.Any(), gomock.Any()).
						Return(nil)
					mtx.EXPECT().Save(gomock.Any()).Return(nil)
					mtx.EXPECT().Commit().Return(nil)
				}
			}

			svc := shift.NewService(repo)
			got, err := svc.RecordCashTransaction(context.Background(), shift.CashTransactionParams{
				ShiftID:     sh.ID,
				StaffID:     sh.StaffID,
				Type:        tt.txType,
				CashAmount:  tt.cash,
				CardAmount:  tt.card,
				OtherAmount: tt.other,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(50000), got.PreviousBalance)
			assert.Equal(t, tt.wantBalance, got.NewBalance)
			assert.Equal(t, tt.cash+tt.card+tt.other, got.Amount)
			assert.Equal(t, tt.wantBalance, sh.CashBalance)
			assert.Equal(t, int64(1), sh.TotalTransactions)

			if tt.txType == shift.CashSale {
				assert.Equal(t, tt.cash+tt.card+tt.other, sh.TotalRevenue)
			}
		})
	}
}

func TestService_End(t *testing.T) {
	type testCase struct {
		name            string
		movements       int64
		closingCash     int64
		wantExpected    int64
		wantDiscrepancy int64
	}

	// Opening float of 500.00; the movements column is the signed cash sum
	// of everything recorded during the shift.
	tests := []testCase{
		{
			name:            "DrawerOverByTen",
			movements:       15000, // +200.00 sale, -50.00 refund
			closingCash:     66000,
			wantExpected:    65000,
			wantDiscrepancy: 1000,
		},
		{
			name:            "DrawerShort",
			movements:       15000,
			closingCash:     64000,
			wantExpected:    65000,
			wantDiscrepancy: -1000,
		},
		{
			name:            "Balanced",
			movements:       15000,
			closingCash:     65000,
			wantExpected:    65000,
			wantDiscrepancy: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			sh := &shift.Shift{
				ID:          uuid.New(),
				StaffID:     uuid.New(),
				Status:      shift.StatusActive,
				OpeningCash: 50000,
				CashBalance: 50000 + tt.movements,
			}

			repo := shift.NewMockRepository(ctrl)
			mtx := shift.NewMockMutationTx(ctrl)

			repo.EXPECT().BeginMutation(gomock.Any(), sh.ID).Return(mtx, nil)
			mtx.EXPECT().Shift().Return(sh)
			mtx.EXPECT().SumCashMovements(gomock.Any()).Return(tt.movements, nil)
			mtx.EXPECT().Save(gomock.Any()).Return(nil)
			mtx.EXPECT().Commit().Return(nil)
			mtx.EXPECT().Rollback().Return(nil).AnyTimes()

			svc := shift.NewService(repo)
			got, err := svc.End(context.Background(), shift.EndParams{
				ShiftID:     sh.ID,
				ClosingCash: tt.closingCash,
			})

			// A discrepancy is recorded, never rejected.
			require.NoError(t, err)
			assert.Equal(t, shift.StatusEnded, got.Status)
			require.NotNil(t, got.ExpectedCash)
			assert.Equal(t, tt.wantExpected, *got.ExpectedCash)
			require.NotNil(t, got.Discrepancy)
			assert.Equal(t, tt.wantDiscrepancy, *got.Discrepancy)
			require.NotNil(t, got.ActualEnd)
		})
	}
}

func TestService_End_NotActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sh := &shift.Shift{ID: uuid.New(), Status: shift.StatusEnded}

	repo := shift.NewMockRepository(ctrl)
	mtx := shift.NewMockMutationTx(ctrl)

	repo.EXPECT().BeginMutation(gomock.Any(), sh.ID).Return(mtx, nil)
	mtx.EXPECT().Shift().Return(sh)
	mtx.EXPECT().Rollback().Return(nil)

	svc := shift.NewService(repo)

	_, err := svc.End(context.Background(), shift.EndParams{
		ShiftID:     sh.ID,
		ClosingCash: 1000,
	})
	assert.ErrorIs(t, err, shift.ErrShiftNotActive)
}

func TestService_GetReport_RejectsInvertedRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := shift.NewService(shift.NewMockRepository(ctrl))

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.GetReport(context.Background(), start, start.AddDate(0, 0, -1))
	assert.Error(t, err)
}

func TestCashDirection(t *testing.T) {
	assert.Equal(t, int64(1), shift.CashSale.CashDirection())
	assert.Equal(t, int64(1), shift.CashIn.CashDirection())
	assert.Equal(t, int64(-1), shift.CashRefund.CashDirection())
	assert.Equal(t, int64(-1), shift.CashOut.CashDirection())
	assert.Equal(t, int64(0), shift.CashTxType("loan").CashDirection())
}
