package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row when called inside a transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	ListByUserID(ctx context.Context, userID string) ([]Loan, error)
	ListAll(ctx context.Context) ([]Loan, error)
	// ListActiveDueBefore feeds the overdue sweep: active loans whose
	// due date has passed.
	ListActiveDueBefore(ctx context.Context, cutoff time.Time) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
}
