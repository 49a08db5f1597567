package wallet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/practiva/ledger/internal/wallet"
)

// expectMutation wires BeginMutation around a wallet snapshot and captures
// the appended transaction.
func expectMutation(repo *wallet.MockRepository, mtx *wallet.MockMutationTx, w *wallet.Wallet, appended **wallet.Transaction) {
	repo.EXPECT().
		BeginMutation(gomock.Any(), w.ID).
		Return(mtx, nil)
	mtx.EXPECT().Wallet().Return(w)
	mtx.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, txn *wallet.Transaction) error {
			*appended = txn
			return nil
		})
	mtx.EXPECT().Commit().Return(nil)
	mtx.EXPECT().Rollback().Return(nil).AnyTimes()
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    wallet.CreateParams
		setupMock func(m *wallet.MockRepository)
		wantErr   error
		check     func(t *testing.T, w *wallet.Wallet)
	}

	patientID := uuid.New()

	tests := []testCase{
		{
			name: "WithOpeningDeposit",
			params: wallet.CreateParams{
				PatientID:      patientID,
				InitialDeposit: 5000,
				PaymentMethod:  "cash",
				ProcessedBy:    "front-desk",
			},
			setupMock: func(m *wallet.MockRepository) {
				m.EXPECT().
					CreateWallet(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, w *wallet.Wallet, opening *wallet.Transaction) error {
						require.NotNil(t, opening)
						assert.Equal(t, wallet.TxDeposit, opening.Type)
						assert.Equal(t, int64(5000), opening.Amount)
						assert.Zero(t, opening.PreviousBalance)
						assert.Equal(t, int64(5000), opening.NewBalance)
						assert.Equal(t, w.ID, opening.WalletID)
						return nil
					})
			},
			check: func(t *testing.T, w *wallet.Wallet) {
				assert.Equal(t, int64(5000), w.Balance)
				assert.True(t, w.Active)
			},
		},
		{
			name: "EmptyWalletHasNoOpeningTransaction",
			params: wallet.CreateParams{
				PatientID: patientID,
			},
			setupMock: func(m *wallet.MockRepository) {
				m.EXPECT().
					CreateWallet(gomock.Any(), gomock.Any(), gomock.Nil()).
					Return(nil)
			},
			check: func(t *testing.T, w *wallet.Wallet) {
				assert.Zero(t, w.Balance)
			},
		},
		{
			name: "NegativeDeposit",
			params: wallet.CreateParams{
				PatientID:      patientID,
				InitialDeposit: -100,
			},
			wantErr: wallet.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := wallet.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := wallet.NewService(repo, wallet.NewMockInvoices(ctrl))
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			tt.check(t, got)
		})
	}
}

func TestService_GetOrCreate_LosesCreateRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	patientID := uuid.New()
	existing := &wallet.Wallet{ID: uuid.New(), PatientID: patientID, Active: true}

	repo := wallet.NewMockRepository(ctrl)
	repo.EXPECT().
		GetWalletByPatient(gomock.Any(), patientID).
		Return(nil, wallet.ErrNotFound)
	repo.EXPECT().
		CreateWallet(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(wallet.ErrAlreadyExists)
	repo.EXPECT().
		GetWalletByPatient(gomock.Any(), patientID).
		Return(existing, nil)

	svc := wallet.NewService(repo, wallet.NewMockInvoices(ctrl))
	got, err := svc.GetOrCreate(context.Background(), patientID)

	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)
}

func TestService_Deposit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := &wallet.Wallet{ID: uuid.New(), Balance: 1000, Active: true}

	repo := wallet.NewMockRepository(ctrl)
	mtx := wallet.NewMockMutationTx(ctrl)

	var appended *wallet.Transaction
	expectMutation(repo, mtx, w, &appended)

	svc := wallet.NewService(repo, wallet.NewMockInvoices(ctrl))
	got, err := svc.Deposit(context.Background(), wallet.DepositParams{
		WalletID:      w.ID,
		Amount:        2500,
		PaymentMethod: "cash",
		Description:   "Top up",
	})

	require.NoError(t, err)
	require.NotNil(t, appended)
	assert.Equal(t, wallet.TxDeposit, got.Type)
	assert.Equal(t, int64(1000), got.PreviousBalance)
	assert.Equal(t, int64(3500), got.NewBalance)
	assert.Equal(t, got, appended)
}

func TestService_Deposit_InvalidAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := wallet.NewService(wallet.NewMockRepository(ctrl), wallet.NewMockInvoices(ctrl))

	_, err := svc.Deposit(context.Background(), wallet.DepositParams{
		WalletID: uuid.New(),
		Amount:   0,
	})
	assert.ErrorIs(t, err, wallet.ErrInvalidAmount)
}

func TestService_Withdraw(t *testing.T) {
	type testCase struct {
		name    string
		balance int64
		amount  int64
		wantErr error
	}

	tests := []testCase{
		{name: "Covered", balance: 5000, amount: 3000},
		{name: "ExactBalance", balance: 5000, amount: 5000},
		{name: "Insufficient", balance: 2000, amount: 3000, wantErr: wallet.ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			w := &wallet.Wallet{ID: uuid.New(), Balance: tt.balance, Active: true}

			repo := wallet.NewMockRepository(ctrl)
			mtx := wallet.NewMockMutationTx(ctrl)

			if tt.wantErr != nil {
				repo.EXPECT().BeginMutation(gomock.Any(), w.ID).Return(mtx, nil)
				mtx.EXPECT().Wallet().Return(w)
				mtx.EXPECT().Rollback().Return(nil)
			} else {
				var appended *wallet.Transaction
				expectMutation(repo, mtx, w, &appended)
			}

			svc := wallet.NewService(repo, wallet.NewMockInvoices(ctrl))
			got, err := svc.Withdraw(context.Background(), wallet.WithdrawParams{
				WalletID: w.ID,
				Amount:   tt.amount,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				var insufficient *wallet.InsufficientFundsError
				require.ErrorAs(t, err, &insufficient)
				assert.Equal(t, tt.balance, insufficient.Available)
				assert.Equal(t, tt.amount, insufficient.Requested)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.balance, got.PreviousBalance)
			assert.Equal(t, tt.balance-tt.amount, got.NewBalance)
		})
	}
}

func TestService_InactiveWalletRejectsMutations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := &wallet.Wallet{ID: uuid.New(), Balance: 5000, Active: false}

	repo := wallet.NewMockRepository(ctrl)
	mtx := wallet.NewMockMutationTx(ctrl)

	repo.EXPECT().BeginMutation(gomock.Any(), w.ID).Return(mtx, nil)
	mtx.EXPECT().Wallet().Return(w)
	mtx.EXPECT().Rollback().Return(nil)

	svc := wallet.NewService(repo, wallet.NewMockInvoices(ctrl))

	_, err := svc.Deposit(context.Background(), wallet.DepositParams{
		WalletID: w.ID,
		Amount:   100,
	})
	assert.ErrorIs(t, err, wallet.ErrInactive)
}

func TestService_Adjust(t *testing.T) {
	type testCase struct {
		name    string
		balance int64
		amount  int64
		desc    string
		wantErr error
		wantNew int64
	}

	tests := []testCase{
		{name: "Credit", balance: 1000, amount: 500, desc: "Billing correction", wantNew: 1500},
		{name: "DebitBelowZero", balance: 1000, amount: -2500, desc: "Chargeback", wantNew: -1500},
		{name: "ZeroAmount", balance: 1000, amount: 0, desc: "noop", wantErr: wallet.ErrInvalidAmount},
		{name: "MissingDescription", balance: 1000, amount: 500, wantErr: wallet.ErrDescriptionRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			w := &wallet.Wallet{ID: uuid.New(), Balance: tt.balance, Active: true}

			repo := wallet.NewMockRepository(ctrl)

			if tt.wantErr == nil {
				mtx := wallet.NewMockMutationTx(ctrl)
				var appended *wallet.Transaction
				expectMutation(repo, mtx, w, &appended)
			}

			svc := wallet.NewService(repo, wallet.NewMockInvoices(ctrl))
			got, err := svc.Adjust(context.Background(), wallet.AdjustParams{
				WalletID:    w.ID,
				Amount:      tt.amount,
				Description: tt.desc,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, wallet.TxAdjustment, got.Type)
			assert.Equal(t, tt.balance, got.PreviousBalance)
			assert.Equal(t, tt.wantNew, got.NewBalance)
		})
	}
}

func TestService_CanPay(t *testing.T) {
	type testCase struct {
		name      string
		amount    int64
		setupMock func(m *wallet.MockRepository, patientID uuid.UUID)
		want      wallet.CanPayResult
	}

	tests := []testCase{
		{
			name:   "SufficientFunds",
			amount: 3000,
			setupMock: func(m *wallet.MockRepository, patientID uuid.UUID) {
				m.EXPECT().
					GetWalletByPatient(gomock.Any(), patientID).
					Return(&wallet.Wallet{Balance: 5000, Active: true}, nil)
			},
			want: wallet.CanPayResult{CanPay: true, Balance: 5000},
		},
		{
			name:   "Shortfall",
			amount: 8000,
			setupMock: func(m *wallet.MockRepository, patientID uuid.UUID) {
				m.EXPECT().
					GetWalletByPatient(gomock.Any(), patientID).
					Return(&wallet.Wallet{Balance: 5000, Active: true}, nil)
			},
			want: wallet.CanPayResult{Balance: 5000, Shortfall: 3000},
		},
		{
			name:   "InactiveWalletCannotPay",
			amount: 3000,
			setupMock: func(m *wallet.MockRepository, patientID uuid.UUID) {
				m.EXPECT().
					GetWalletByPatient(gomock.Any(), patientID).
					Return(&wallet.Wallet{Balance: 5000, Active: false}, nil)
			},
			want: wallet.CanPayResult{Balance: 5000},
		},
		{
			name:   "NoWallet",
			amount: 3000,
			setupMock: func(m *wallet.MockRepository, patientID uuid.UUID) {
				m.EXPECT().
					GetWalletByPatient(gomock.Any(), patientID).
					Return(nil, wallet.ErrNotFound)
			},
			want: wallet.CanPayResult{Shortfall: 3000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			patientID := uuid.New()

			repo := wallet.NewMockRepository(ctrl)
			tt.setupMock(repo, patientID)

			svc := wallet.NewService(repo, wallet.NewMockInvoices(ctrl))
			got, err := svc.CanPay(context.Background(), patientID, tt.amount)

			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestService_PayInvoice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	patientID := uuid.New()
	invoiceID := uuid.New()
	w := &wallet.Wallet{ID: uuid.New(), PatientID: patientID, Balance: 10000, Active: true}

	repo := wallet.NewMockRepository(ctrl)
	mtx := wallet.NewMockMutationTx(ctrl)
	invoices := wallet.NewMockInvoices(ctrl)

	repo.EXPECT().
		GetWalletByPatient(gomock.Any(), patientID).
		Return(w, nil)

	var appended *wallet.Transaction
	expectMutation(repo, mtx, w, &appended)

	invoices.EXPECT().
		ApplyPayment(gomock.Any(), invoiceID, int64(4000), wallet.PaymentMethodWallet).
		Return(nil)

	svc := wallet.NewService(repo, invoices)
	got, err := svc.PayInvoice(context.Background(), wallet.PayInvoiceParams{
		PatientID: patientID,
		InvoiceID: invoiceID,
		Amount:    4000,
	})

	require.NoError(t, err)
	assert.Equal(t, wallet.TxPayment, got.Type)
	assert.Equal(t, int64(10000), got.PreviousBalance)
	assert.Equal(t, int64(6000), got.NewBalance)
	require.NotNil(t, got.ReferenceID)
	assert.Equal(t, invoiceID, *got.ReferenceID)
	assert.Equal(t, "invoice", got.ReferenceType)
}

func TestService_PayInvoice_InvoiceSideFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	patientID := uuid.New()
	invoiceID := uuid.New()
	w := &wallet.Wallet{ID: uuid.New(), PatientID: patientID, Balance: 10000, Active: true}

	repo := wallet.NewMockRepository(ctrl)
	mtx := wallet.NewMockMutationTx(ctrl)
	invoices := wallet.NewMockInvoices(ctrl)

	repo.EXPECT().
		GetWalletByPatient(gomock.Any(), patientID).
		Return(w, nil)

	var appended *wallet.Transaction
	expectMutation(repo, mtx, w, &appended)

	invoices.EXPECT().
		ApplyPayment(gomock.Any(), invoiceID, int64(4000), wallet.PaymentMethodWallet).
		Return(errors.New("invoice service down"))

	svc := wallet.NewService(repo, invoices)
	got, err := svc.PayInvoice(context.Background(), wallet.PayInvoiceParams{
		PatientID: patientID,
		InvoiceID: invoiceID,
		Amount:    4000,
	})

	// The debit committed; the error must identify it so the operator can
	// reconcile instead of silently double-charging on retry.
	require.Error(t, err)
	require.NotNil(t, got)

	var partial *wallet.PartialPaymentError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, got.ID, partial.WalletTransactionID)
	assert.Equal(t, invoiceID, partial.InvoiceID)
}

func TestService_PayInvoice_InsufficientFundsLeavesInvoiceAlone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	patientID := uuid.New()
	w := &wallet.Wallet{ID: uuid.New(), PatientID: patientID, Balance: 1000, Active: true}

	repo := wallet.NewMockRepository(ctrl)
	mtx := wallet.NewMockMutationTx(ctrl)

	repo.EXPECT().
		GetWalletByPatient(gomock.Any(), patientID).
		Return(w, nil)
	repo.EXPECT().BeginMutation(gomock.Any(), w.ID).Return(mtx, nil)
	mtx.EXPECT().Wallet().Return(w)
	mtx.EXPECT().Rollback().Return(nil)

	// No ApplyPayment expectation: the invoice side must not be touched.
	svc := wallet.NewService(repo, wallet.NewMockInvoices(ctrl))

	_, err := svc.PayInvoice(context.Background(), wallet.PayInvoiceParams{
		PatientID: patientID,
		InvoiceID: uuid.New(),
		Amount:    4000,
	})
	assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)
}
