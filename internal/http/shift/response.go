package shift

import (
	"time"

	"github.com/google/uuid"

	"github.com/practiva/ledger/internal/shift"
)

type shiftResponse struct {
	ID                 uuid.UUID    `json:"id"`
	StaffID            uuid.UUID    `json:"staff_id"`
	ScheduledStart     time.Time    `json:"scheduled_start"`
	ScheduledEnd       time.Time    `json:"scheduled_end"`
	ActualStart        *time.Time   `json:"actual_start,omitempty"`
	ActualEnd          *time.Time   `json:"actual_end,omitempty"`
	Status             shift.Status `json:"status"`
	Type               string       `json:"type,omitempty"`
	OpeningCash        int64        `json:"opening_cash"`
	ClosingCash        *int64       `json:"closing_cash,omitempty"`
	ExpectedCash       *int64       `json:"expected_cash,omitempty"`
	Discrepancy        *int64       `json:"discrepancy,omitempty"`
	DisplayDiscrepancy string       `json:"display_discrepancy,omitempty"`
	DiscrepancyNotes   string       `json:"discrepancy_notes,omitempty"`
	Notes              string       `json:"notes,omitempty"`
	CashBalance        int64        `json:"cash_balance"`
	DisplayCashBalance string       `json:"display_cash_balance"`
	TotalTransactions  int64        `json:"total_transactions"`
	TotalRevenue       int64        `json:"total_revenue"`
	TotalAppointments  int64        `json:"total_appointments"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          *time.Time   `json:"updated_at,omitempty"`
}

func (h *Handler) toResponse(sh *shift.Shift) shiftResponse {
	resp := shiftResponse{
		ID:                 sh.ID,
		StaffID:            sh.StaffID,
		ScheduledStart:     sh.ScheduledStart,
		ScheduledEnd:       sh.ScheduledEnd,
		ActualStart:        sh.ActualStart,
		ActualEnd:          sh.ActualEnd,
		Status:             sh.Status,
		Type:               sh.Type,
		OpeningCash:        sh.OpeningCash,
		ClosingCash:        sh.ClosingCash,
		ExpectedCash:       sh.ExpectedCash,
		Discrepancy:        sh.Discrepancy,
		DiscrepancyNotes:   sh.DiscrepancyNotes,
		Notes:              sh.Notes,
		CashBalance:        sh.CashBalance,
		DisplayCashBalance: h.formatter.Format(sh.CashBalance),
		TotalTransactions:  sh.TotalTransactions,
		TotalRevenue:       sh.TotalRevenue,
		TotalAppointments:  sh.TotalAppointments,
		CreatedAt:          sh.CreatedAt,
		UpdatedAt:          sh.UpdatedAt,
	}

	if sh.Discrepancy != nil {
		resp.DisplayDiscrepancy = h.formatter.Format(*sh.Discrepancy)
	}

	return resp
}

func (h *Handler) toResponseList(shifts []*shift.Shift) []shiftResponse {
	resp := make([]shiftResponse, len(shifts))
	for i, sh := range shifts {
		resp[i] = h.toResponse(sh)
	}

	return resp
}

type cashTransactionResponse struct {
	ID              uuid.UUID        `json:"id"`
	ShiftID         uuid.UUID        `json:"shift_id"`
	StaffID         uuid.UUID        `json:"staff_id"`
	Type            shift.CashTxType `json:"type"`
	Amount          int64            `json:"amount"`
	DisplayAmount   string           `json:"display_amount"`
	PreviousBalance int64            `json:"previous_balance"`
	NewBalance      int64            `json:"new_balance"`
	CashAmount      int64            `json:"cash_amount"`
	CardAmount      int64            `json:"card_amount"`
	OtherAmount     int64            `json:"other_amount"`
	ReferenceID     *uuid.UUID       `json:"reference_id,omitempty"`
	ReferenceType   string           `json:"reference_type,omitempty"`
	Description     string           `json:"description,omitempty"`
	VerifiedBy      *uuid.UUID       `json:"verified_by,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

func (h *Handler) toCashTransactionResponse(txn *shift.CashTransaction) cashTransactionResponse {
	return cashTransactionResponse{
		ID:              txn.ID,
		ShiftID:         txn.ShiftID,
		StaffID:         txn.StaffID,
		Type:            txn.Type,
		Amount:          txn.Amount,
		DisplayAmount:   h.formatter.Format(txn.Amount),
		PreviousBalance: txn.PreviousBalance,
		NewBalance:      txn.NewBalance,
		CashAmount:      txn.CashAmount,
		CardAmount:      txn.CardAmount,
		OtherAmount:     txn.OtherAmount,
		ReferenceID:     txn.ReferenceID,
		ReferenceType:   txn.ReferenceType,
		Description:     txn.Description,
		VerifiedBy:      txn.VerifiedBy,
		CreatedAt:       txn.CreatedAt,
	}
}

func (h *Handler) toCashTransactionResponseList(txns []*shift.CashTransaction) []cashTransactionResponse {
	resp := make([]cashTransactionResponse, len(txns))
	for i, txn := range txns {
		resp[i] = h.toCashTransactionResponse(txn)
	}

	return resp
}

type reportRowResponse struct {
	ShiftID           uuid.UUID    `json:"shift_id"`
	StaffID           uuid.UUID    `json:"staff_id"`
	Status            shift.Status `json:"status"`
	ActualStart       *time.Time   `json:"actual_start,omitempty"`
	ActualEnd         *time.Time   `json:"actual_end,omitempty"`
	OpeningCash       int64        `json:"opening_cash"`
	ClosingCash       *int64       `json:"closing_cash,omitempty"`
	ExpectedCash      *int64       `json:"expected_cash,omitempty"`
	Discrepancy       *int64       `json:"discrepancy,omitempty"`
	TotalTransactions int64        `json:"total_transactions"`
	TotalRevenue      int64        `json:"total_revenue"`
}

type reportResponse struct {
	StartDate               string              `json:"start_date"`
	EndDate                 string              `json:"end_date"`
	Shifts                  []reportRowResponse `json:"shifts"`
	TotalRevenue            int64               `json:"total_revenue"`
	DisplayTotalRevenue     string              `json:"display_total_revenue"`
	TotalDiscrepancy        int64               `json:"total_discrepancy"`
	DisplayTotalDiscrepancy string              `json:"display_total_discrepancy"`
}

func (h *Handler) toReportResponse(r *shift.Report) reportResponse {
	rows := make([]reportRowResponse, len(r.Shifts))
	for i, row := range r.Shifts {
		rows[i] = reportRowResponse{
			ShiftID:           row.ShiftID,
			StaffID:           row.StaffID,
			Status:            row.Status,
			ActualStart:       row.ActualStart,
			ActualEnd:         row.ActualEnd,
			OpeningCash:       row.OpeningCash,
			ClosingCash:       row.ClosingCash,
			ExpectedCash:      row.ExpectedCash,
			Discrepancy:       row.Discrepancy,
			TotalTransactions: row.TotalTransactions,
			TotalRevenue:      row.TotalRevenue,
		}
	}

	return reportResponse{
		StartDate:               r.StartDate.Format(time.DateOnly),
		EndDate:                 r.EndDate.Format(time.DateOnly),
		Shifts:                  rows,
		TotalRevenue:            r.TotalRevenue,
		DisplayTotalRevenue:     h.formatter.Format(r.TotalRevenue),
		TotalDiscrepancy:        r.TotalDiscrepancy,
		DisplayTotalDiscrepancy: h.formatter.Format(r.TotalDiscrepancy),
	}
}

type todaySummaryResponse struct {
	TotalShifts       int64 `json:"total_shifts"`
	ActiveShifts      int64 `json:"active_shifts"`
	EndedShifts       int64 `json:"ended_shifts"`
	TotalTransactions int64 `json:"total_transactions"`
	TotalRevenue      int64 `json:"total_revenue"`
	TotalDiscrepancy  int64 `json:"total_discrepancy"`
}

func (h *Handler) toTodaySummaryResponse(s *shift.TodaySummary) todaySummaryResponse {
	return todaySummaryResponse{
		TotalShifts:       s.TotalShifts,
		ActiveShifts:      s.ActiveShifts,
		EndedShifts:       s.EndedShifts,
		TotalTransactions: s.TotalTransactions,
		TotalRevenue:      s.TotalRevenue,
		TotalDiscrepancy:  s.TotalDiscrepancy,
	}
}
