package loan

import (
	"time"

	"cashcraft-backend/internal/domain/loan"
)

type ApplyInput struct {
	Amount   float64 `json:"amount"`
	TermDays int     `json:"term_days"`
	Purpose  string  `json:"purpose"`
}

type RepayInput struct {
	Amount float64
	Phone  string
	Method string
}

type RepayResult struct {
	PaymentRef   string    `json:"payment_ref"`
	Confirmation string    `json:"confirmation_code"`
	Status       string    `json:"status"`
	RepaidAmount float64   `json:"repaid_amount"`
	Remaining    float64   `json:"remaining"`
	ChargedAt    time.Time `json:"charged_at"`
}

type ScheduleEntryDTO struct {
	DueDate time.Time `json:"due_date"`
	Amount  float64   `json:"amount"`
	Status  string    `json:"status"`
}

type LoanDTO struct {
	LoanID          string             `json:"loan_id"`
	UserID          string             `json:"user_id"`
	UserName        string             `json:"user_name"`
	Amount          float64            `json:"amount"`
	TermDays        int                `json:"term_days"`
	Purpose         string             `json:"purpose"`
	InterestRate    float64            `json:"interest_rate"`
	Status          string             `json:"status"`
	AIScore         int                `json:"ai_score"`
	ApplicationDate time.Time          `json:"application_date"`
	ApprovalDate    *time.Time         `json:"approval_date"`
	DueDate         *time.Time         `json:"due_date"`
	RepaymentAmount float64            `json:"repayment_amount"`
	Schedule        []ScheduleEntryDTO `json:"repayment_schedule"`
	RepaidAmount    float64            `json:"repaid_amount"`
}

func toDTO(l *loan.Loan) *LoanDTO {
	sched := make([]ScheduleEntryDTO, 0, len(l.Schedule))
	for _, s := range l.Schedule {
		sched = append(sched, ScheduleEntryDTO{DueDate: s.DueDate, Amount: s.Amount, Status: string(s.Status)})
	}
	return &LoanDTO{
		LoanID:          l.LoanID,
		UserID:          l.UserID,
		UserName:        l.UserName,
		Amount:          l.Amount,
		TermDays:        l.TermDays,
		Purpose:         l.Purpose,
		InterestRate:    l.InterestRate,
		Status:          string(l.Status),
		AIScore:         l.AIScore,
		ApplicationDate: l.ApplicationDate,
		ApprovalDate:    l.ApprovalDate,
		DueDate:         l.DueDate,
		RepaymentAmount: l.RepaymentAmount,
		Schedule:        sched,
		RepaidAmount:    l.RepaidAmount,
	}
}

func toDTOs(ls []loan.Loan) []LoanDTO {
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toDTO(&ls[i]))
	}
	return out
}
