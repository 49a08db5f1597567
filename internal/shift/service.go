package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=shift
type Repository interface {
	CreateShift(ctx context.Context, s *Shift) error
	GetShift(ctx context.Context, id uuid.UUID) (*Shift, error)
	GetActiveShift(ctx context.Context, staffID uuid.UUID) (*Shift, error)
	ListActiveShifts(ctx context.Context) ([]*Shift, error)
	ListShifts(ctx context.Context, filter Filter) ([]*Shift, error)
	ListCashTransactions(ctx context.Context, shiftID uuid.UUID) ([]*CashTransaction, error)
	UpdateStats(ctx context.Context, id uuid.UUID, patch StatsPatch) (*Shift, error)
	VerifyCashTransaction(ctx context.Context, txID, verifiedBy uuid.UUID) (*CashTransaction, error)
	Report(ctx context.Context, start, end time.Time) (*Report, error)
	TodaySummary(ctx context.Context) (*TodaySummary, error)

	// BeginMutation opens a database transaction holding a row lock on the
	// shift, serializing all changes to its cash balance.
	BeginMutation(ctx context.Context, shiftID uuid.UUID) (MutationTx, error)
}

type MutationTx interface {
	// Shift returns the locked row as of mutation start.
	Shift() *Shift
	OtherActiveShiftExists(ctx context.Context, staffID uuid.UUID) (bool, error)
	// SumCashMovements totals the signed cash amounts recorded against the
	// shift so far.
	SumCashMovements(ctx context.Context) (int64, error)
	AppendCashTransaction(ctx context.Context, txn *CashTransaction) error
	// Save writes the mutated shift fields back.
	Save(ctx context.Context) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	StaffID        uuid.UUID
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	Type           string
	Notes          string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Shift, error) {
	if params.StaffID == uuid.Nil {
		return nil, fmt.Errorf("staff id is required")
	}

	if !params.ScheduledEnd.After(params.ScheduledStart) {
		return nil, fmt.Errorf("scheduled end must be after scheduled start")
	}

	sh := &Shift{
		ID:             uuid.New(),
		StaffID:        params.StaffID,
		ScheduledStart: params.ScheduledStart,
		ScheduledEnd:   params.ScheduledEnd,
		Status:         StatusScheduled,
		Type:           params.Type,
		Notes:          params.Notes,
	}

	if err := s.repo.CreateShift(ctx, sh); err != nil {
		return nil, err
	}

	return sh, nil
}

type StartParams struct {
	ShiftID     uuid.UUID
	OpeningCash int64
	Notes       string
}

// Start transitions a scheduled shift to active and records the opening
// float, which seeds the drawer's running cash balance.
func (s *Service) Start(ctx context.Context, params StartParams) (*Shift, error) {
	if params.OpeningCash < 0 {
		return nil, ErrInvalidAmount
	}

	mtx, err := s.repo.BeginMutation(ctx, params.ShiftID)
	if err != nil {
		return nil, err
	}
	defer mtx.Rollback()

	sh := mtx.Shift()

	switch sh.Status {
	case StatusActive:
		return nil, ErrShiftAlreadyActive
	case StatusEnded:
		return nil, ErrShiftNotScheduled
	}

	exists, err := mtx.OtherActiveShiftExists(ctx, sh.StaffID)
	if err != nil {
		return nil, fmt.Errorf("checking active shifts: %w", err)
	}

	if exists {
		return nil, ErrActiveShiftExists
	}

	now := time.Now()
	sh.Status = StatusActive
	sh.ActualStart = &now
	sh.OpeningCash = params.OpeningCash
	sh.CashBalance = params.OpeningCash

	if params.Notes != "" {
		sh.Notes = params.Notes
	}

	if err := mtx.Save(ctx); err != nil {
		return nil, fmt.Errorf("starting shift: %w", err)
	}

	if err := mtx.Commit(); err != nil {
		return nil, fmt.Errorf("committing shift start: %w", err)
	}

	return sh, nil
}

type CashTransactionParams struct {
	ShiftID       uuid.UUID
	StaffID       uuid.UUID
	Type          CashTxType
	CashAmount    int64
	CardAmount    int64
	OtherAmount   int64
	ReferenceID   *uuid.UUID
	ReferenceType string
	Description   string
}

// RecordCashTransaction appends a register movement to an active shift. The
// previous/new balance chain covers the cash portion only; card and other
// tender ride along for reporting.
func (s *Service) RecordCashTransaction(ctx context.Context, params CashTransactionParams) (*CashTransaction, error) {
	if params.Type.CashDirection() == 0 {
		return nil, ErrInvalidCashTxType
	}

	if params.CashAmount < 0 || params.CardAmount < 0 || params.OtherAmount < 0 {
		return nil, ErrInvalidAmount
	}

	amount := params.CashAmount + params.CardAmount + params.OtherAmount
	if amount == 0 {
		return nil, ErrInvalidAmount
	}

	mtx, err := s.repo.BeginMutation(ctx, params.ShiftID)
	if err != nil {
		return nil, err
	}
	defer mtx.Rollback()

	sh := mtx.Shift()
	if sh.Status != StatusActive {
		return nil, ErrShiftNotActive
	}

	previous := sh.CashBalance
	next := previous + params.Type.CashDirection()*params.CashAmount

	txn := &CashTransaction{
		ID:              uuid.New(),
		ShiftID:         sh.ID,
		StaffID:         params.StaffID,
		Type:            params.Type,
		Amount:          amount,
		PreviousBalance: previous,
		NewBalance:      next,
		CashAmount:      params.CashAmount,
		CardAmount:      params.CardAmount,
		OtherAmount:     params.OtherAmount,
		ReferenceID:     params.ReferenceID,
		ReferenceType:   params.ReferenceType,
		Description:     params.Description,
	}

	if err := mtx.AppendCashTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("appending cash transaction: %w", err)
	}

	sh.CashBalance = next
	sh.TotalTransactions++

	if params.Type == CashSale {
		sh.TotalRevenue += amount
	}

	if err := mtx.Save(ctx); err != nil {
		return nil, fmt.Errorf("updating shift totals: %w", err)
	}

	if err := mtx.Commit(); err != nil {
		return nil, fmt.Errorf("committing cash transaction: %w", err)
	}

	return txn, nil
}

type EndParams struct {
	ShiftID          uuid.UUID
	ClosingCash      int64
	DiscrepancyNotes string
	Notes            string
}

// End closes an active shift. Expected cash is recomputed from the recorded
// movements (opening float plus signed cash amounts); the difference against
// the counted drawer is recorded as the discrepancy. A mismatch is an
// operational fact for later audit, not a reason to refuse closing.
func (s *Service) End(ctx context.Context, params EndParams) (*Shift, error) {
	if params.ClosingCash < 0 {
		return nil, ErrInvalidAmount
	}

	mtx, err := s.repo.BeginMutation(ctx, params.ShiftID)
	if err != nil {
		return nil, err
	}
	defer mtx.Rollback()

	sh := mtx.Shift()
	if sh.Status != StatusActive {
		return nil, ErrShiftNotActive
	}

	movements, err := mtx.SumCashMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("summing cash movements: %w", err)
	}

	expected := sh.OpeningCash + movements
	discrepancy := params.ClosingCash - expected

	now := time.Now()
	closing := params.ClosingCash

	sh.Status = StatusEnded
	sh.ActualEnd = &now
	sh.ClosingCash = &closing
	sh.ExpectedCash = &expected
	sh.Discrepancy = &discrepancy
	sh.DiscrepancyNotes = params.DiscrepancyNotes

	if params.Notes != "" {
		sh.Notes = params.Notes
	}

	if err := mtx.Save(ctx); err != nil {
		return nil, fmt.Errorf("ending shift: %w", err)
	}

	if err := mtx.Commit(); err != nil {
		return nil, fmt.Errorf("committing shift end: %w", err)
	}

	return sh, nil
}

// StatsPatch updates the informational counters; it never touches the cash
// balance chain.
type StatsPatch struct {
	TotalTransactions *int64
	TotalRevenue      *int64
	TotalAppointments *int64
}

func (s *Service) UpdateStats(ctx context.Context, shiftID uuid.UUID, patch StatsPatch) (*Shift, error) {
	return s.repo.UpdateStats(ctx, shiftID, patch)
}

// VerifyCashTransaction stamps an entry as verified; amounts are untouched.
func (s *Service) VerifyCashTransaction(ctx context.Context, txID, verifiedBy uuid.UUID) (*CashTransaction, error) {
	return s.repo.VerifyCashTransaction(ctx, txID, verifiedBy)
}

func (s *Service) GetActive(ctx context.Context, staffID uuid.UUID) (*Shift, error) {
	return s.repo.GetActiveShift(ctx, staffID)
}

func (s *Service) ListActive(ctx context.Context) ([]*Shift, error) {
	return s.repo.ListActiveShifts(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Shift, error) {
	return s.repo.GetShift(ctx, id)
}

type Filter struct {
	StaffID   *uuid.UUID
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

func (s *Service) List(ctx context.Context, filter Filter) ([]*Shift, error) {
	return s.repo.ListShifts(ctx, filter)
}

func (s *Service) ListCashTransactions(ctx context.Context, shiftID uuid.UUID) ([]*CashTransaction, error) {
	return s.repo.ListCashTransactions(ctx, shiftID)
}

type ReportRow struct {
	ShiftID           uuid.UUID
	StaffID           uuid.UUID
	Status            Status
	ActualStart       *time.Time
	ActualEnd         *time.Time
	OpeningCash       int64
	ClosingCash       *int64
	ExpectedCash      *int64
	Discrepancy       *int64
	TotalTransactions int64
	TotalRevenue      int64
}

type Report struct {
	StartDate        time.Time
	EndDate          time.Time
	Shifts           []ReportRow
	TotalRevenue     int64
	TotalDiscrepancy int64
}

func (s *Service) GetReport(ctx context.Context, start, end time.Time) (*Report, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("end date before start date")
	}

	return s.repo.Report(ctx, start, end)
}

type TodaySummary struct {
	TotalShifts       int64
	ActiveShifts      int64
	EndedShifts       int64
	TotalTransactions int64
	TotalRevenue      int64
	TotalDiscrepancy  int64
}

func (s *Service) GetTodaySummary(ctx context.Context) (*TodaySummary, error) {
	return s.repo.TodaySummary(ctx)
}
