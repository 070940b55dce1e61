package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrUnauthorized      = errors.New("operation not allowed for caller")
	ErrInvalidTransition = errors.New("invalid loan state transition")
	ErrInvalidAmount     = errors.New("invalid amount")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRepaid   Status = "repaid"
	StatusRejected Status = "rejected"
	StatusOverdue  Status = "overdue"
)

type EntryStatus string

const (
	EntryPending EntryStatus = "pending"
	EntryPaid    EntryStatus = "paid"
	EntryOverdue EntryStatus = "overdue"
)

// ScheduleEntry is one row of a loan's repayment schedule. Approval
// writes a single entry covering the full amount at the due date.
type ScheduleEntry struct {
	DueDate time.Time   `json:"due_date"`
	Amount  float64     `json:"amount"`
	Status  EntryStatus `json:"status"`
}

type Loan struct {
	ID              uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID          string          `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	UserID          string          `gorm:"size:32;index:idx_loans_user" json:"user_id"`
	UserName        string          `gorm:"size:255" json:"user_name"`
	Amount          float64         `gorm:"type:decimal(18,2)" json:"amount"`
	TermDays        int             `json:"term_days"`
	Purpose         string          `gorm:"type:text" json:"purpose"`
	InterestRate    float64         `gorm:"type:decimal(6,4)" json:"interest_rate"`
	Status          Status          `gorm:"type:enum('pending','active','repaid','rejected','overdue');default:'pending';index" json:"status"`
	AIScore         int             `json:"ai_score"`
	ApplicationDate time.Time       `gorm:"autoCreateTime" json:"application_date"`
	ApprovalDate    *time.Time      `json:"approval_date"`
	DueDate         *time.Time      `gorm:"index" json:"due_date"`
	RepaymentAmount float64         `gorm:"type:decimal(18,2)" json:"repayment_amount"`
	Schedule        []ScheduleEntry `gorm:"serializer:json" json:"repayment_schedule"`
	RepaidAmount    float64         `gorm:"type:decimal(18,2)" json:"repaid_amount"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"-"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"-"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Remaining is the outstanding balance. Overpayment is stored as-is,
// so this can go negative.
func (l *Loan) Remaining() float64 { return l.RepaymentAmount - l.RepaidAmount }

// Repayable reports whether the loan is in a state that accepts payments.
func (l *Loan) Repayable() bool {
	return l.Status == StatusActive || l.Status == StatusOverdue
}
