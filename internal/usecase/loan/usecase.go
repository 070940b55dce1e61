package loan

import (
	"context"
	"math/rand"
	"time"

	"cashcraft-backend/internal/domain/loan"
	"cashcraft-backend/internal/domain/notification"
	"cashcraft-backend/internal/domain/payment"
	"cashcraft-backend/internal/domain/uow"
	"cashcraft-backend/internal/domain/user"
	"cashcraft-backend/internal/infrastructure/cache"
	"cashcraft-backend/pkg/id"
	"cashcraft-backend/pkg/pace"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Simulated processing delays for ledger mutations.
const (
	applyDelay    = 2000 * time.Millisecond
	decisionDelay = 1000 * time.Millisecond
	repayDelay    = 1500 * time.Millisecond
)

// dueDatePolicy: repayment is always due 30 days after approval. The
// requested term drives scoring and rate previews, not the due date.
const dueDateDays = 30

const cacheTTL = time.Minute

type Usecase struct {
	repo    loan.Repository
	uow     uow.UnitOfWork
	charger payment.Charger
	pacer   pace.Pacer

	rng   *rand.Rand
	now   func() time.Time
	cache *cache.ReadThrough
	log   *zap.Logger
}

func NewUsecase(repo loan.Repository, tx uow.UnitOfWork, charger payment.Charger, pacer pace.Pacer) *Usecase {
	return &Usecase{
		repo:    repo,
		uow:     tx,
		charger: charger,
		pacer:   pacer,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     func() time.Time { return time.Now().UTC() },
		log:     zap.NewNop(),
	}
}

// WithRand fixes the score/rate source; tests use a seeded generator.
func (u *Usecase) WithRand(r *rand.Rand) *Usecase { u.rng = r; return u }

func (u *Usecase) WithClock(now func() time.Time) *Usecase { u.now = now; return u }

func (u *Usecase) WithCache(c *cache.ReadThrough) *Usecase { u.cache = c; return u }

func (u *Usecase) WithLogger(l *zap.Logger) *Usecase { u.log = l; return u }

// Apply creates a pending loan for the caller. The stored AI score is
// drawn uniformly from [400,700) and the rate from [12,20)%; repayment
// fields stay zero until an admin approves.
func (u *Usecase) Apply(ctx context.Context, actor *user.User, in ApplyInput) (string, error) {
	if actor == nil {
		return "", loan.ErrUnauthorized
	}
	if in.Amount <= 0 || in.TermDays <= 0 {
		return "", loan.ErrInvalidAmount
	}
	if err := u.pacer.Wait(ctx, applyDelay); err != nil {
		return "", err
	}

	l := &loan.Loan{
		LoanID:          id.NewID32(),
		UserID:          actor.ID,
		UserName:        actor.Name,
		Amount:          in.Amount,
		TermDays:        in.TermDays,
		Purpose:         in.Purpose,
		InterestRate:    12 + u.rng.Float64()*8,
		Status:          loan.StatusPending,
		AIScore:         400 + u.rng.Intn(300),
		ApplicationDate: u.now(),
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		return r.Notifications.Append(ctx, &notification.Notification{
			NotificationID: uuid.NewString(),
			UserID:         actor.ID,
			Title:          "Loan Application Submitted",
			Message:        "Your loan application is being reviewed. We'll notify you of the decision.",
			Type:           notification.TypeInfo,
		})
	})
	if err != nil {
		return "", err
	}

	u.log.Info("loan application created",
		zap.String("loan_id", l.LoanID),
		zap.String("user_id", actor.ID),
		zap.Float64("amount", in.Amount))
	return l.LoanID, nil
}

// Approve activates a pending loan: total owed becomes principal plus
// simple interest, due 30 days out, with a single full-amount schedule
// entry. Admin only; the role check runs before anything is read.
func (u *Usecase) Approve(ctx context.Context, actor *user.User, loanID string) (*LoanDTO, error) {
	if !actor.IsAdmin() {
		return nil, loan.ErrUnauthorized
	}
	if err := u.pacer.Wait(ctx, decisionDelay); err != nil {
		return nil, err
	}

	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if l.Status != loan.StatusPending {
			return loan.ErrInvalidTransition
		}

		now := u.now()
		due := now.AddDate(0, 0, dueDateDays)
		l.Status = loan.StatusActive
		l.ApprovalDate = &now
		l.DueDate = &due
		l.RepaymentAmount = l.Amount + l.Amount*(l.InterestRate/100)
		l.Schedule = []loan.ScheduleEntry{{
			DueDate: due,
			Amount:  l.RepaymentAmount,
			Status:  loan.EntryPending,
		}}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		dto = toDTO(l)
		return r.Notifications.Append(ctx, &notification.Notification{
			NotificationID: uuid.NewString(),
			UserID:         l.UserID,
			Title:          "Loan Approved",
			Message:        "Your loan has been approved and disbursed. Repayment is due in 30 days.",
			Type:           notification.TypeSuccess,
		})
	})
	if err != nil {
		return nil, err
	}

	u.invalidate(ctx, loanID)
	u.log.Info("loan approved", zap.String("loan_id", loanID), zap.String("admin_id", actor.ID))
	return dto, nil
}

// Reject declines a pending loan. Status is the only field touched.
func (u *Usecase) Reject(ctx context.Context, actor *user.User, loanID string) (*LoanDTO, error) {
	if !actor.IsAdmin() {
		return nil, loan.ErrUnauthorized
	}
	if err := u.pacer.Wait(ctx, decisionDelay); err != nil {
		return nil, err
	}

	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if l.Status != loan.StatusPending {
			return loan.ErrInvalidTransition
		}

		l.Status = loan.StatusRejected
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		dto = toDTO(l)
		return r.Notifications.Append(ctx, &notification.Notification{
			NotificationID: uuid.NewString(),
			UserID:         l.UserID,
			Title:          "Loan Application Declined",
			Message:        "Unfortunately your loan application was not approved this time.",
			Type:           notification.TypeWarning,
		})
	})
	if err != nil {
		return nil, err
	}

	u.invalidate(ctx, loanID)
	u.log.Info("loan rejected", zap.String("loan_id", loanID), zap.String("admin_id", actor.ID))
	return dto, nil
}

// Repay charges the simulated gateway, then credits the payment. The
// amount is not clamped: overpayment is stored as-is. A loan becomes
// repaid the moment cumulative payments reach the total owed.
func (u *Usecase) Repay(ctx context.Context, actor *user.User, loanID string, in RepayInput) (*RepayResult, error) {
	if actor == nil {
		return nil, loan.ErrUnauthorized
	}
	if in.Amount <= 0 {
		return nil, loan.ErrInvalidAmount
	}

	receipt, err := u.charger.Charge(ctx, payment.ChargeInput{
		UserID: actor.ID,
		LoanID: loanID,
		Phone:  in.Phone,
		Amount: in.Amount,
		Method: payment.Method(in.Method),
	})
	if err != nil {
		return nil, err
	}
	if err := u.pacer.Wait(ctx, repayDelay); err != nil {
		return nil, err
	}

	var res *RepayResult
	err = u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if !l.Repayable() {
			return loan.ErrInvalidTransition
		}

		l.RepaidAmount += in.Amount
		if l.RepaidAmount >= l.RepaymentAmount {
			l.Status = loan.StatusRepaid
			for i := range l.Schedule {
				l.Schedule[i].Status = loan.EntryPaid
			}
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		res = &RepayResult{
			PaymentRef:   receipt.Ref,
			Confirmation: receipt.Code,
			Status:       string(l.Status),
			RepaidAmount: l.RepaidAmount,
			Remaining:    l.Remaining(),
			ChargedAt:    receipt.ChargedAt,
		}
		return r.Notifications.Append(ctx, &notification.Notification{
			NotificationID: uuid.NewString(),
			UserID:         actor.ID,
			Title:          "Payment Successful",
			Message:        "Your repayment has been received. Confirmation: " + receipt.Code,
			Type:           notification.TypeSuccess,
		})
	})
	if err != nil {
		return nil, err
	}

	u.invalidate(ctx, loanID)
	return res, nil
}

// ListMine returns the caller's loans; admins see the whole ledger.
func (u *Usecase) ListMine(ctx context.Context, actor *user.User) ([]LoanDTO, error) {
	if actor == nil {
		return nil, loan.ErrUnauthorized
	}
	if actor.IsAdmin() {
		ls, err := u.repo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return toDTOs(ls), nil
	}
	ls, err := u.repo.ListByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return toDTOs(ls), nil
}

func (u *Usecase) ListAll(ctx context.Context, actor *user.User) ([]LoanDTO, error) {
	if !actor.IsAdmin() {
		return nil, loan.ErrUnauthorized
	}
	ls, err := u.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(ls), nil
}

// GetByID has no access-control filter: any authenticated context can
// fetch any loan, matching the demo's lookup behavior.
func (u *Usecase) GetByID(ctx context.Context, loanID string) (*LoanDTO, error) {
	if u.cache != nil {
		l, err := cache.GetOrLoadJSON(u.cache, ctx, cacheKey(loanID), cacheTTL, func(ctx context.Context) (*loan.Loan, error) {
			return u.repo.GetByLoanID(ctx, loanID)
		})
		if err != nil {
			return nil, err
		}
		if l == nil {
			return nil, loan.ErrNotFound
		}
		return toDTO(l), nil
	}
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

// SweepOverdue moves active loans past their due date to overdue and
// flags their schedule entries. Returns how many loans transitioned.
func (u *Usecase) SweepOverdue(ctx context.Context) (int, error) {
	now := u.now()
	due, err := u.repo.ListActiveDueBefore(ctx, now)
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range due {
		loanID := due[i].LoanID
		err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
			// re-check under the lock; a repayment may have landed
			if l.Status != loan.StatusActive || l.DueDate == nil || !l.DueDate.Before(now) {
				return nil
			}
			l.Status = loan.StatusOverdue
			for j := range l.Schedule {
				if l.Schedule[j].Status == loan.EntryPending {
					l.Schedule[j].Status = loan.EntryOverdue
				}
			}
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
			swept++
			return r.Notifications.Append(ctx, &notification.Notification{
				NotificationID: uuid.NewString(),
				UserID:         l.UserID,
				Title:          "Loan Overdue",
				Message:        "Your repayment date has passed. Please repay as soon as possible.",
				Type:           notification.TypeError,
			})
		})
		if err != nil {
			u.log.Warn("overdue sweep failed for loan", zap.String("loan_id", loanID), zap.Error(err))
			continue
		}
		u.invalidate(ctx, loanID)
	}
	if swept > 0 {
		u.log.Info("overdue sweep finished", zap.Int("transitioned", swept))
	}
	return swept, nil
}

func (u *Usecase) invalidate(ctx context.Context, loanID string) {
	if u.cache != nil {
		_ = u.cache.Invalidate(ctx, cacheKey(loanID))
	}
}

func cacheKey(loanID string) string { return "loan:" + loanID }
