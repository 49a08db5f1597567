package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=wallet
type Repository interface {
	// CreateWallet inserts the wallet and, when opening is non-nil, its
	// opening deposit in one database transaction. A wallet must never be
	// observable with an implied balance but no backing transaction.
	CreateWallet(ctx context.Context, w *Wallet, opening *Transaction) error
	GetWallet(ctx context.Context, id uuid.UUID) (*Wallet, error)
	GetWalletByPatient(ctx context.Context, patientID uuid.UUID) (*Wallet, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, patch SettingsPatch) (*Wallet, error)
	ListWallets(ctx context.Context, filter WalletFilter) ([]*Wallet, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*Transaction, error)
	WalletStats(ctx context.Context, walletID uuid.UUID) (*Stats, error)

	// BeginMutation opens a database transaction holding a row lock on the
	// wallet. All balance changes flow through it so two concurrent debits
	// can never read the same previous balance.
	BeginMutation(ctx context.Context, walletID uuid.UUID) (MutationTx, error)
}

type MutationTx interface {
	// Wallet returns the locked row as of mutation start.
	Wallet() *Wallet
	// Append inserts the transaction and moves the wallet's balance to the
	// transaction's NewBalance in the same database transaction.
	Append(ctx context.Context, txn *Transaction) error
	Commit() error
	Rollback() error
}

// Invoices is the invoice-side collaborator used by PayInvoice. The wallet
// never mutates invoice fields directly.
type Invoices interface {
	ApplyPayment(ctx context.Context, invoiceID uuid.UUID, amount int64, method string) error
}

// PaymentMethodWallet marks invoice payments funded from a stored-value wallet.
const PaymentMethodWallet = "wallet"

type Service struct {
	repo     Repository
	invoices Invoices
}

func NewService(repo Repository, invoices Invoices) *Service {
	return &Service{repo: repo, invoices: invoices}
}

// GetOrCreate returns the patient's wallet, creating an empty one on first
// access. Losing the create race to a concurrent caller is fine; the winner's
// row is returned.
func (s *Service) GetOrCreate(ctx context.Context, patientID uuid.UUID) (*Wallet, error) {
	w, err := s.repo.GetWalletByPatient(ctx, patientID)
	if err == nil {
		return w, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	w = &Wallet{ID: uuid.New(), PatientID: patientID, Active: true}

	if err := s.repo.CreateWallet(ctx, w, nil); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return s.repo.GetWalletByPatient(ctx, patientID)
		}

		return nil, err
	}

	return w, nil
}

type CreateParams struct {
	PatientID       uuid.UUID
	InitialDeposit  int64
	PaymentMethod   string
	AutoPay         bool
	LowBalanceAlert *int64
	ProcessedBy     string
}

// Create opens a wallet. A nonzero initial deposit is recorded as the
// wallet's first transaction atomically with the wallet row itself.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Wallet, error) {
	if params.PatientID == uuid.Nil {
		return nil, fmt.Errorf("patient id is required")
	}

	if params.InitialDeposit < 0 {
		return nil, ErrInvalidAmount
	}

	w := &Wallet{
		ID:              uuid.New(),
		PatientID:       params.PatientID,
		AutoPay:         params.AutoPay,
		LowBalanceAlert: params.LowBalanceAlert,
		Active:          true,
	}

	var opening *Transaction

	if params.InitialDeposit > 0 {
		w.Balance = params.InitialDeposit
		opening = &Transaction{
			ID:              uuid.New(),
			WalletID:        w.ID,
			Type:            TxDeposit,
			Status:          TxStatusCompleted,
			Amount:          params.InitialDeposit,
			PreviousBalance: 0,
			NewBalance:      params.InitialDeposit,
			PaymentMethod:   params.PaymentMethod,
			Description:     "Initial deposit",
			ProcessedBy:     params.ProcessedBy,
		}
	}

	if err := s.repo.CreateWallet(ctx, w, opening); err != nil {
		return nil, err
	}

	return w, nil
}

type DepositParams struct {
	WalletID      uuid.UUID
	Amount        int64
	PaymentMethod string
	Description   string
	Notes         string
	ProcessedBy   string
}

func (s *Service) Deposit(ctx context.Context, params DepositParams) (*Transaction, error) {
	if params.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return s.mutate(ctx, params.WalletID, func(w *Wallet) (*Transaction, error) {
		return &Transaction{
			ID:              uuid.New(),
			WalletID:        w.ID,
			Type:            TxDeposit,
			Status:          TxStatusCompleted,
			Amount:          params.Amount,
			PreviousBalance: w.Balance,
			NewBalance:      w.Balance + params.Amount,
			PaymentMethod:   params.PaymentMethod,
			Description:     params.Description,
			Notes:           params.Notes,
			ProcessedBy:     params.ProcessedBy,
		}, nil
	})
}

type WithdrawParams struct {
	WalletID    uuid.UUID
	Amount      int64
	Description string
	Notes       string
	ProcessedBy string
}

func (s *Service) Withdraw(ctx context.Context, params WithdrawParams) (*Transaction, error) {
	if params.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return s.mutate(ctx, params.WalletID, func(w *Wallet) (*Transaction, error) {
		if params.Amount > w.Balance {
			return nil, &InsufficientFundsError{WalletID: w.ID, Available: w.Balance, Requested: params.Amount}
		}

		return &Transaction{
			ID:              uuid.New(),
			WalletID:        w.ID,
			Type:            TxWithdrawal,
			Status:          TxStatusCompleted,
			Amount:          params.Amount,
			PreviousBalance: w.Balance,
			NewBalance:      w.Balance - params.Amount,
			Description:     params.Description,
			Notes:           params.Notes,
			ProcessedBy:     params.ProcessedBy,
		}, nil
	})
}

type PayParams struct {
	WalletID      uuid.UUID
	Amount        int64
	ReferenceID   *uuid.UUID
	ReferenceType string
	Description   string
	Notes         string
	ProcessedBy   string
}

// Pay debits the wallet against an external document. The referenced
// document is not touched; callers that need the invoice side updated use
// PayInvoice.
func (s *Service) Pay(ctx context.Context, params PayParams) (*Transaction, error) {
	if params.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return s.mutate(ctx, params.WalletID, func(w *Wallet) (*Transaction, error) {
		if params.Amount > w.Balance {
			return nil, &InsufficientFundsError{WalletID: w.ID, Available: w.Balance, Requested: params.Amount}
		}

		return &Transaction{
			ID:              uuid.New(),
			WalletID:        w.ID,
			Type:            TxPayment,
			Status:          TxStatusCompleted,
			Amount:          params.Amount,
			PreviousBalance: w.Balance,
			NewBalance:      w.Balance - params.Amount,
			ReferenceID:     params.ReferenceID,
			ReferenceType:   params.ReferenceType,
			Description:     params.Description,
			Notes:           params.Notes,
			ProcessedBy:     params.ProcessedBy,
		}, nil
	})
}

type RefundParams struct {
	WalletID      uuid.UUID
	Amount        int64
	ReferenceID   *uuid.UUID
	ReferenceType string
	Description   string
	Notes         string
	ProcessedBy   string
}

// Refund credits the wallet back against an original charge.
func (s *Service) Refund(ctx context.Context, params RefundParams) (*Transaction, error) {
	if params.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return s.mutate(ctx, params.WalletID, func(w *Wallet) (*Transaction, error) {
		return &Transaction{
			ID:              uuid.New(),
			WalletID:        w.ID,
			Type:            TxRefund,
			Status:          TxStatusCompleted,
			Amount:          params.Amount,
			PreviousBalance: w.Balance,
			NewBalance:      w.Balance + params.Amount,
			ReferenceID:     params.ReferenceID,
			ReferenceType:   params.ReferenceType,
			Description:     params.Description,
			Notes:           params.Notes,
			ProcessedBy:     params.ProcessedBy,
		}, nil
	})
}

type AdjustParams struct {
	WalletID    uuid.UUID
	Amount      int64 // signed; negative reduces the balance
	Description string
	Notes       string
	ProcessedBy string
}

// Adjust applies an administrative correction. The sign drives the balance
// directly and no floor is enforced, so an adjustment may take a wallet
// negative. Every adjustment must be explained.
func (s *Service) Adjust(ctx context.Context, params AdjustParams) (*Transaction, error) {
	if params.Amount == 0 {
		return nil, ErrInvalidAmount
	}

	if params.Description == "" {
		return nil, ErrDescriptionRequired
	}

	return s.mutate(ctx, params.WalletID, func(w *Wallet) (*Transaction, error) {
		return &Transaction{
			ID:              uuid.New(),
			WalletID:        w.ID,
			Type:            TxAdjustment,
			Status:          TxStatusCompleted,
			Amount:          params.Amount,
			PreviousBalance: w.Balance,
			NewBalance:      w.Balance + params.Amount,
			Description:     params.Description,
			Notes:           params.Notes,
			ProcessedBy:     params.ProcessedBy,
		}, nil
	})
}

type CanPayResult struct {
	CanPay    bool
	Balance   int64
	Shortfall int64
}

// CanPay is a side-effect-free funds check used before offering wallet-pay.
// A patient without a wallet simply cannot pay; that is not an error.
func (s *Service) CanPay(ctx context.Context, patientID uuid.UUID, amount int64) (*CanPayResult, error) {
	w, err := s.repo.GetWalletByPatient(ctx, patientID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &CanPayResult{Balance: 0, Shortfall: amount}, nil
		}

		return nil, err
	}

	result := &CanPayResult{Balance: w.Balance}
	if amount > w.Balance {
		result.Shortfall = amount - w.Balance
	}

	result.CanPay = w.Active && result.Shortfall == 0

	return result, nil
}

type PayInvoiceParams struct {
	PatientID   uuid.UUID
	InvoiceID   uuid.UUID
	Amount      int64
	Description string
	Notes       string
	ProcessedBy string
}

// PayInvoice settles (part of) an invoice from the patient's wallet: debit
// the wallet, then apply the payment on the invoice side, which re-derives
// the invoice's ledger entry.
//
// If the invoice step fails after the debit committed, the error is a
// PartialPaymentError carrying the committed wallet transaction. It is never
// swallowed and never retried here: retrying a debit without an idempotency
// key risks double-charging.
func (s *Service) PayInvoice(ctx context.Context, params PayInvoiceParams) (*Transaction, error) {
	if params.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	w, err := s.GetOrCreate(ctx, params.PatientID)
	if err != nil {
		return nil, fmt.Errorf("resolving wallet: %w", err)
	}

	description := params.Description
	if description == "" {
		description = fmt.Sprintf("Payment for invoice %s", params.InvoiceID)
	}

	invoiceID := params.InvoiceID

	txn, err := s.mutate(ctx, w.ID, func(w *Wallet) (*Transaction, error) {
		if params.Amount > w.Balance {
			return nil, &InsufficientFundsError{WalletID: w.ID, Available: w.Balance, Requested: params.Amount}
		}

		return &Transaction{
			ID:              uuid.New(),
			WalletID:        w.ID,
			Type:            TxPayment,
			Status:          TxStatusCompleted,
			Amount:          params.Amount,
			PreviousBalance: w.Balance,
			NewBalance:      w.Balance - params.Amount,
			ReferenceID:     &invoiceID,
			ReferenceType:   "invoice",
			Description:     description,
			Notes:           params.Notes,
			ProcessedBy:     params.ProcessedBy,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.invoices.ApplyPayment(ctx, params.InvoiceID, params.Amount, PaymentMethodWallet); err != nil {
		return txn, &PartialPaymentError{
			WalletTransactionID: txn.ID,
			InvoiceID:           params.InvoiceID,
			Err:                 err,
		}
	}

	return txn, nil
}

// SettingsPatch mutates wallet metadata only; balance and history are out of
// its reach.
type SettingsPatch struct {
	AutoPay              *bool
	LowBalanceAlert      *int64
	ClearLowBalanceAlert bool
	Active               *bool
}

func (s *Service) UpdateSettings(ctx context.Context, walletID uuid.UUID, patch SettingsPatch) (*Wallet, error) {
	return s.repo.UpdateSettings(ctx, walletID, patch)
}

type Stats struct {
	TransactionCount int64
	TotalDeposits    int64
	TotalWithdrawals int64
	TotalPayments    int64
	TotalRefunds     int64
	NetAdjustments   int64
}

func (s *Service) GetStats(ctx context.Context, walletID uuid.UUID) (*Stats, error) {
	return s.repo.WalletStats(ctx, walletID)
}

func (s *Service) Get(ctx context.Context, walletID uuid.UUID) (*Wallet, error) {
	return s.repo.GetWallet(ctx, walletID)
}

type TransactionFilter struct {
	WalletID  *uuid.UUID
	Type      *TxType
	Status    *TxStatus
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
	Limit     int
	Offset    int
}

func (s *Service) ListTransactions(ctx context.Context, filter TransactionFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

type WalletFilter struct {
	ActiveOnly bool
	HasBalance bool
	Limit      int
	Offset     int
}

func (s *Service) ListWallets(ctx context.Context, filter WalletFilter) ([]*Wallet, error) {
	return s.repo.ListWallets(ctx, filter)
}

// mutate runs one balance change under the wallet's row lock: read the
// locked balance, build the transaction, write transaction and balance
// together, commit.
func (s *Service) mutate(ctx context.Context, walletID uuid.UUID, build func(w *Wallet) (*Transaction, error)) (*Transaction, error) {
	mtx, err := s.repo.BeginMutation(ctx, walletID)
	if err != nil {
		return nil, err
	}
	defer mtx.Rollback()

	w := mtx.Wallet()
	if !w.Active {
		return nil, ErrInactive
	}

	txn, err := build(w)
	if err != nil {
		return nil, err
	}

	if err := mtx.Append(ctx, txn); err != nil {
		return nil, fmt.Errorf("appending wallet transaction: %w", err)
	}

	if err := mtx.Commit(); err != nil {
		return nil, fmt.Errorf("committing wallet mutation: %w", err)
	}

	return txn, nil
}
