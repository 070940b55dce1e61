package uow

import (
	"context"

	"cashcraft-backend/internal/domain/loan"
	"cashcraft-backend/internal/domain/notification"
)

type Repos struct {
	Loans         loan.Repository
	Notifications notification.Repository
}

// UnitOfWork runs loan+notification mutations in one transaction so an
// admin decision and the borrower's notification land together.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: fetch the loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
