package loan

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	domain "cashcraft-backend/internal/domain/loan"
	payDomain "cashcraft-backend/internal/domain/payment"
	"cashcraft-backend/internal/domain/uow"
	userDomain "cashcraft-backend/internal/domain/user"
	"cashcraft-backend/internal/testutil/loanmock"
	"cashcraft-backend/internal/testutil/notifmock"
	"cashcraft-backend/internal/testutil/paymock"
	"cashcraft-backend/internal/testutil/uowmock"
	"cashcraft-backend/pkg/pace"
)

// ----- test fixture -----

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	uc      *Usecase
	loans   map[string]*domain.Loan
	notifs  *notifmock.Repo
	charger *paymock.Charger
}

// newFixture wires the usecase against a map-backed loan store so
// WithinLoanTx behaves like the real thing (fetch, mutate, save).
func newFixture(t *testing.T, seed ...*domain.Loan) *fixture {
	t.Helper()

	loans := make(map[string]*domain.Loan)
	for _, l := range seed {
		cp := *l
		loans[l.LoanID] = &cp
	}

	fetch := func(ctx context.Context, loanID string) (*domain.Loan, error) {
		l, ok := loans[loanID]
		if !ok {
			return nil, domain.ErrNotFound
		}
		cp := *l
		return &cp, nil
	}
	repo := &loanmock.Repo{
		CreateFn: func(ctx context.Context, l *domain.Loan) error {
			cp := *l
			loans[l.LoanID] = &cp
			return nil
		},
		GetByLoanIDFn:          fetch,
		GetByLoanIDForUpdateFn: fetch,
		SaveFn: func(ctx context.Context, l *domain.Loan) error {
			cp := *l
			loans[l.LoanID] = &cp
			return nil
		},
		ListByUserIDFn: func(ctx context.Context, userID string) ([]domain.Loan, error) {
			var out []domain.Loan
			for _, l := range loans {
				if l.UserID == userID {
					out = append(out, *l)
				}
			}
			return out, nil
		},
		ListAllFn: func(ctx context.Context) ([]domain.Loan, error) {
			var out []domain.Loan
			for _, l := range loans {
				out = append(out, *l)
			}
			return out, nil
		},
		ListActiveDueBeforeFn: func(ctx context.Context, cutoff time.Time) ([]domain.Loan, error) {
			var out []domain.Loan
			for _, l := range loans {
				if l.Status == domain.StatusActive && l.DueDate != nil && l.DueDate.Before(cutoff) {
					out = append(out, *l)
				}
			}
			return out, nil
		},
	}

	notifs := notifmock.New()
	tx := &uowmock.UoW{Repos: uow.Repos{Loans: repo, Notifications: notifs}}
	charger := &paymock.Charger{}

	uc := NewUsecase(repo, tx, charger, pace.None()).
		WithRand(rand.New(rand.NewSource(1))).
		WithClock(func() time.Time { return testNow })

	return &fixture{uc: uc, loans: loans, notifs: notifs, charger: charger}
}

func borrower() *userDomain.User {
	return &userDomain.User{ID: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", Name: "Jane Borrower", Role: userDomain.RoleUser}
}

func admin() *userDomain.User {
	return &userDomain.User{ID: "cccccccccccccccccccccccccccccccc", Name: "Site Admin", Role: userDomain.RoleAdmin}
}

func pendingLoan(loanID, userID string) *domain.Loan {
	return &domain.Loan{
		LoanID:          loanID,
		UserID:          userID,
		UserName:        "Jane Borrower",
		Amount:          10000,
		TermDays:        30,
		Purpose:         "business stock",
		InterestRate:    15,
		Status:          domain.StatusPending,
		AIScore:         540,
		ApplicationDate: testNow.AddDate(0, 0, -2),
	}
}

func activeLoan(loanID, userID string) *domain.Loan {
	l := pendingLoan(loanID, userID)
	approved := testNow.AddDate(0, 0, -1)
	due := approved.AddDate(0, 0, 30)
	l.Status = domain.StatusActive
	l.ApprovalDate = &approved
	l.DueDate = &due
	l.RepaymentAmount = 11500
	l.Schedule = []domain.ScheduleEntry{{DueDate: due, Amount: 11500, Status: domain.EntryPending}}
	return l
}

// ----- Apply -----

func TestApply_CreatesPendingLoan(t *testing.T) {
	f := newFixture(t)

	loanID, err := f.uc.Apply(context.Background(), borrower(), ApplyInput{Amount: 5000, TermDays: 30, Purpose: "business"})
	if err != nil {
		t.Fatalf("Apply err: %v", err)
	}
	if len(loanID) != 32 {
		t.Fatalf("loan id length = %d, want 32", len(loanID))
	}

	l := f.loans[loanID]
	if l == nil {
		t.Fatal("loan not stored")
	}
	if l.Status != domain.StatusPending {
		t.Fatalf("status = %s, want pending", l.Status)
	}
	if l.RepaymentAmount != 0 || l.DueDate != nil || l.ApprovalDate != nil {
		t.Fatalf("pending loan must have zero repayment fields: %+v", l)
	}
	if l.AIScore < 400 || l.AIScore >= 700 {
		t.Fatalf("ai score = %d, want [400,700)", l.AIScore)
	}
	if l.InterestRate < 12 || l.InterestRate >= 20 {
		t.Fatalf("rate = %v, want [12,20)", l.InterestRate)
	}
	if !l.ApplicationDate.Equal(testNow) {
		t.Fatalf("application date = %v", l.ApplicationDate)
	}

	rows := f.notifs.Rows()
	if len(rows) != 1 || rows[0].Title != "Loan Application Submitted" {
		t.Fatalf("expected submission notification, got %+v", rows)
	}
}

func TestApply_RequiresSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Apply(context.Background(), nil, ApplyInput{Amount: 5000, TermDays: 30})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestApply_RejectsBadInput(t *testing.T) {
	f := newFixture(t)

	if _, err := f.uc.Apply(context.Background(), borrower(), ApplyInput{Amount: 0, TermDays: 30}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("zero amount: err = %v", err)
	}
	if _, err := f.uc.Apply(context.Background(), borrower(), ApplyInput{Amount: 100, TermDays: 0}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("zero term: err = %v", err)
	}
}

func TestApply_TwiceYieldsDistinctLoans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := borrower()

	a, err := f.uc.Apply(ctx, actor, ApplyInput{Amount: 1000, TermDays: 14, Purpose: "x"})
	if err != nil {
		t.Fatalf("Apply err: %v", err)
	}
	b, err := f.uc.Apply(ctx, actor, ApplyInput{Amount: 2000, TermDays: 14, Purpose: "y"})
	if err != nil {
		t.Fatalf("Apply err: %v", err)
	}
	if a == b {
		t.Fatal("two applications must get distinct identifiers")
	}

	mine, err := f.uc.ListMine(ctx, actor)
	if err != nil {
		t.Fatalf("ListMine err: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("ListMine len = %d, want 2", len(mine))
	}
}

// ----- Approve -----

func TestApprove_ComputesRepaymentAndSchedule(t *testing.T) {
	l := pendingLoan("llllllllllllllllllllllllllllllll", borrower().ID)
	l.Amount = 10000
	l.InterestRate = 15
	f := newFixture(t, l)

	dto, err := f.uc.Approve(context.Background(), admin(), l.LoanID)
	if err != nil {
		t.Fatalf("Approve err: %v", err)
	}

	if dto.Status != string(domain.StatusActive) {
		t.Fatalf("status = %s, want active", dto.Status)
	}
	// 10000 + 10000*0.15 exactly
	if dto.RepaymentAmount != 11500 {
		t.Fatalf("repayment = %v, want 11500", dto.RepaymentAmount)
	}
	wantDue := testNow.AddDate(0, 0, 30)
	if dto.DueDate == nil || !dto.DueDate.Equal(wantDue) {
		t.Fatalf("due date = %v, want %v", dto.DueDate, wantDue)
	}
	if dto.ApprovalDate == nil || !dto.ApprovalDate.Equal(testNow) {
		t.Fatalf("approval date = %v, want %v", dto.ApprovalDate, testNow)
	}
	if len(dto.Schedule) != 1 || dto.Schedule[0].Amount != 11500 || dto.Schedule[0].Status != string(domain.EntryPending) {
		t.Fatalf("schedule = %+v, want single full-amount entry", dto.Schedule)
	}

	rows := f.notifs.Rows()
	if len(rows) != 1 || rows[0].UserID != borrower().ID || rows[0].Title != "Loan Approved" {
		t.Fatalf("expected borrower approval notification, got %+v", rows)
	}
}

func TestApprove_NonAdminRejectedBeforeAnyMutation(t *testing.T) {
	l := pendingLoan("llllllllllllllllllllllllllllllll", borrower().ID)
	f := newFixture(t, l)

	_, err := f.uc.Approve(context.Background(), borrower(), l.LoanID)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if f.loans[l.LoanID].Status != domain.StatusPending {
		t.Fatal("loan mutated despite authorization failure")
	}
	if len(f.notifs.Rows()) != 0 {
		t.Fatal("notification appended despite authorization failure")
	}
}

func TestApprove_OnlyFromPending(t *testing.T) {
	l := activeLoan("llllllllllllllllllllllllllllllll", borrower().ID)
	f := newFixture(t, l)

	_, err := f.uc.Approve(context.Background(), admin(), l.LoanID)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestApprove_MissingLoan(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Approve(context.Background(), admin(), "nosuchloan")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// ----- Reject -----

func TestReject_SetsStatusOnly(t *testing.T) {
	l := pendingLoan("llllllllllllllllllllllllllllllll", borrower().ID)
	f := newFixture(t, l)

	dto, err := f.uc.Reject(context.Background(), admin(), l.LoanID)
	if err != nil {
		t.Fatalf("Reject err: %v", err)
	}
	if dto.Status != string(domain.StatusRejected) {
		t.Fatalf("status = %s, want rejected", dto.Status)
	}
	// no other field changes
	if dto.RepaymentAmount != 0 || dto.DueDate != nil || dto.ApprovalDate != nil {
		t.Fatalf("reject must not touch repayment fields: %+v", dto)
	}
}

func TestReject_NonAdmin(t *testing.T) {
	l := pendingLoan("llllllllllllllllllllllllllllllll", borrower().ID)
	f := newFixture(t, l)

	if _, err := f.uc.Reject(context.Background(), borrower(), l.LoanID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if f.loans[l.LoanID].Status != domain.StatusPending {
		t.Fatal("loan mutated despite authorization failure")
	}
}

// ----- Repay -----

func TestRepay_PartialKeepsActive(t *testing.T) {
	l := activeLoan("llllllllllllllllllllllllllllllll", borrower().ID)
	f := newFixture(t, l)

	res, err := f.uc.Repay(context.Background(), borrower(), l.LoanID, RepayInput{Amount: 500, Phone: "+254712345678", Method: "mpesa"})
	if err != nil {
		t.Fatalf("Repay err: %v", err)
	}
	if res.Status != string(domain.StatusActive) {
		t.Fatalf("status = %s, want active after partial payment", res.Status)
	}
	if res.RepaidAmount != 500 || res.Remaining != 11000 {
		t.Fatalf("repaid/remaining = %v/%v, want 500/11000", res.RepaidAmount, res.Remaining)
	}
	if res.PaymentRef == "" || res.Confirmation == "" {
		t.Fatalf("missing receipt fields: %+v", res)
	}
	if len(f.charger.Calls) != 1 || f.charger.Calls[0].Amount != 500 {
		t.Fatalf("charger calls = %+v", f.charger.Calls)
	}
}

func TestRepay_FullMarksRepaid(t *testing.T) {
	l := activeLoan("llllllllllllllllllllllllllllllll", borrower().ID)
	l.RepaidAmount = 11000
	f := newFixture(t, l)

	res, err := f.uc.Repay(context.Background(), borrower(), l.LoanID, RepayInput{Amount: 500, Method: "mpesa"})
	if err != nil {
		t.Fatalf("Repay err: %v", err)
	}
	if res.Status != string(domain.StatusRepaid) {
		t.Fatalf("status = %s, want repaid", res.Status)
	}

	got := f.loans[l.LoanID]
	if got.Schedule[0].Status != domain.EntryPaid {
		t.Fatalf("schedule entry = %s, want paid", got.Schedule[0].Status)
	}
}

func TestRepay_OverpaymentStoredAsIs(t *testing.T) {
	l := activeLoan("llllllllllllllllllllllllllllllll", borrower().ID)
	f := newFixture(t, l)

	res, err := f.uc.Repay(context.Background(), borrower(), l.LoanID, RepayInput{Amount: 20000, Method: "mpesa"})
	if err != nil {
		t.Fatalf("Repay err: %v", err)
	}
	// no clamp: the excess stays on the record as a negative balance
	if res.RepaidAmount != 20000 {
		t.Fatalf("repaid = %v, want 20000", res.RepaidAmount)
	}
	if res.Remaining != -8500 {
		t.Fatalf("remaining = %v, want -8500", res.Remaining)
	}
	if res.Status != string(domain.StatusRepaid) {
		t.Fatalf("status = %s, want repaid", res.Status)
	}
}

func TestRepay_PendingLoanNotRepayable(t *testing.T) {
	l := pendingLoan("llllllllllllllllllllllllllllllll", borrower().ID)
	f := newFixture(t, l)

	_, err := f.uc.Repay(context.Background(), borrower(), l.LoanID, RepayInput{Amount: 100, Method: "mpesa"})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestRepay_OverdueLoanStillRepayable(t *testing.T) {
	l := activeLoan("llllllllllllllllllllllllllllllll", borrower().ID)
	l.Status = domain.StatusOverdue
	f := newFixture(t, l)

	res, err := f.uc.Repay(context.Background(), borrower(), l.LoanID, RepayInput{Amount: 11500, Method: "mpesa"})
	if err != nil {
		t.Fatalf("Repay err: %v", err)
	}
	if res.Status != string(domain.StatusRepaid) {
		t.Fatalf("status = %s, want repaid", res.Status)
	}
}

func TestRepay_DeclinedChargeLeavesLoanUntouched(t *testing.T) {
	l := activeLoan("llllllllllllllllllllllllllllllll", borrower().ID)
	f := newFixture(t, l)
	f.charger.ChargeFn = func(ctx context.Context, in payDomain.ChargeInput) (*payDomain.Receipt, error) {
		return nil, payDomain.ErrDeclined
	}

	_, err := f.uc.Repay(context.Background(), borrower(), l.LoanID, RepayInput{Amount: 100, Method: "mpesa"})
	if !errors.Is(err, payDomain.ErrDeclined) {
		t.Fatalf("err = %v, want ErrDeclined", err)
	}
	if f.loans[l.LoanID].RepaidAmount != 0 {
		t.Fatal("repaid amount mutated despite declined charge")
	}
}

func TestRepay_RequiresSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Repay(context.Background(), nil, "whatever", RepayInput{Amount: 100})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

// ----- listing and lookup -----

func TestListMine_FiltersByOwner(t *testing.T) {
	mine := pendingLoan("llllllllllllllllllllllllllllllll", borrower().ID)
	other := pendingLoan("mmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmm", "dddddddddddddddddddddddddddddddd")
	f := newFixture(t, mine, other)

	got, err := f.uc.ListMine(context.Background(), borrower())
	if err != nil {
		t.Fatalf("ListMine err: %v", err)
	}
	if len(got) != 1 || got[0].LoanID != mine.LoanID {
		t.Fatalf("got %+v, want only own loan", got)
	}
}

func TestListMine_AdminSeesAll(t *testing.T) {
	a := pendingLoan("llllllllllllllllllllllllllllllll", borrower().ID)
	b := pendingLoan("mmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmm", "dddddddddddddddddddddddddddddddd")
	f := newFixture(t, a, b)

	got, err := f.uc.ListMine(context.Background(), admin())
	if err != nil {
		t.Fatalf("ListMine err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("admin sees %d loans, want 2", len(got))
	}
}

func TestListAll_NonAdminUnauthorized(t *testing.T) {
	f := newFixture(t, pendingLoan("llllllllllllllllllllllllllllllll", borrower().ID))

	if _, err := f.uc.ListAll(context.Background(), borrower()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if _, err := f.uc.ListAll(context.Background(), nil); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("nil actor: err = %v, want ErrUnauthorized", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	f := newFixture(t)

	if _, err := f.uc.GetByID(context.Background(), "nosuchloan"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// ----- overdue sweep -----

func TestSweepOverdue_TransitionsOnlyPastDueActive(t *testing.T) {
	past := activeLoan("llllllllllllllllllllllllllllllll", borrower().ID)
	d := testNow.AddDate(0, 0, -1)
	past.DueDate = &d

	future := activeLoan("mmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmm", borrower().ID)
	fd := testNow.AddDate(0, 0, 5)
	future.DueDate = &fd

	f := newFixture(t, past, future)

	n, err := f.uc.SweepOverdue(context.Background())
	if err != nil {
		t.Fatalf("SweepOverdue err: %v", err)
	}
	if n != 1 {
		t.Fatalf("swept = %d, want 1", n)
	}
	if f.loans[past.LoanID].Status != domain.StatusOverdue {
		t.Fatalf("past-due loan status = %s, want overdue", f.loans[past.LoanID].Status)
	}
	if f.loans[past.LoanID].Schedule[0].Status != domain.EntryOverdue {
		t.Fatal("schedule entry not flagged overdue")
	}
	if f.loans[future.LoanID].Status != domain.StatusActive {
		t.Fatalf("future loan status = %s, must stay active", f.loans[future.LoanID].Status)
	}

	rows := f.notifs.Rows()
	if len(rows) != 1 || rows[0].Title != "Loan Overdue" {
		t.Fatalf("expected a single overdue notification, got %+v", rows)
	}
}

func TestSweepOverdue_Idempotent(t *testing.T) {
	past := activeLoan("llllllllllllllllllllllllllllllll", borrower().ID)
	d := testNow.AddDate(0, 0, -1)
	past.DueDate = &d
	f := newFixture(t, past)

	if _, err := f.uc.SweepOverdue(context.Background()); err != nil {
		t.Fatalf("first sweep err: %v", err)
	}
	n, err := f.uc.SweepOverdue(context.Background())
	if err != nil {
		t.Fatalf("second sweep err: %v", err)
	}
	if n != 0 {
		t.Fatalf("second sweep transitioned %d loans, want 0", n)
	}
}
