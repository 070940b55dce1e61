package http

import (
	"context"
	"encoding/json"
	"math/rand"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domain "cashcraft-backend/internal/domain/loan"
	"cashcraft-backend/internal/domain/uow"
	"cashcraft-backend/internal/domain/user"
	"cashcraft-backend/internal/testutil/loanmock"
	"cashcraft-backend/internal/testutil/notifmock"
	"cashcraft-backend/internal/testutil/paymock"
	"cashcraft-backend/internal/testutil/uowmock"
	uc "cashcraft-backend/internal/usecase/loan"
	"cashcraft-backend/pkg/pace"

	"github.com/labstack/echo/v4"
)

func loanTestRig() (*uc.Usecase, map[string]*domain.Loan) {
	loans := make(map[string]*domain.Loan)
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
	}
	tx := &uowmock.UoW{Repos: uow.Repos{Loans: repo, Notifications: notifmock.New()}}
	u := uc.NewUsecase(repo, tx, &paymock.Charger{}, pace.None()).
		WithRand(rand.New(rand.NewSource(7))).
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) })
	return u, loans
}

func testBorrower() *user.User {
	return &user.User{ID: strings.Repeat("b", 32), Name: "Jane", Role: user.RoleUser}
}

func TestApplyHandler_Created(t *testing.T) {
	e := newEchoWithValidator()
	usecase, _ := loanTestRig()
	h := NewLoanHandler(usecase)

	req := httptest.NewRequest(stdhttp.MethodPost, "/loans",
		mustJSON(map[string]any{"amount": 5000, "term_days": 30, "purpose": "business"}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setActor(c, testBorrower())

	if err := h.Apply(c); err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var got uc.LoanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Status != string(domain.StatusPending) {
		t.Fatalf("status = %s, want pending", got.Status)
	}
	if got.Amount != 5000 || got.TermDays != 30 {
		t.Fatalf("unexpected dto: %+v", got)
	}
	if got.RepaymentAmount != 0 || got.DueDate != nil {
		t.Fatalf("pending loan must have zero repayment fields: %+v", got)
	}
}

func TestApplyHandler_ValidationError(t *testing.T) {
	e := newEchoWithValidator()
	usecase, _ := loanTestRig()
	h := NewLoanHandler(usecase)

	req := httptest.NewRequest(stdhttp.MethodPost, "/loans",
		mustJSON(map[string]any{"amount": -5, "term_days": 0}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setActor(c, testBorrower())

	if err := h.Apply(c); err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestGetLoanHandler_NotFound(t *testing.T) {
	e := newEchoWithValidator()
	usecase, _ := loanTestRig()
	h := NewLoanHandler(usecase)

	req := httptest.NewRequest(stdhttp.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/loans/:loan_id")
	c.SetParamNames("loan_id")
	c.SetParamValues(strings.Repeat("f", 32))

	if err := h.Get(c); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetLoanHandler_BadID(t *testing.T) {
	e := newEchoWithValidator()
	usecase, _ := loanTestRig()
	h := NewLoanHandler(usecase)

	req := httptest.NewRequest(stdhttp.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/loans/:loan_id")
	c.SetParamNames("loan_id")
	c.SetParamValues("NOT-HEX")

	if err := h.Get(c); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRepayHandler_Success(t *testing.T) {
	e := newEchoWithValidator()
	usecase, loans := loanTestRig()
	h := NewLoanHandler(usecase)

	loanID := strings.Repeat("c", 32)
	due := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	loans[loanID] = &domain.Loan{
		LoanID:          loanID,
		UserID:          testBorrower().ID,
		Amount:          1000,
		TermDays:        30,
		InterestRate:    15,
		Status:          domain.StatusActive,
		DueDate:         &due,
		RepaymentAmount: 1150,
		Schedule:        []domain.ScheduleEntry{{DueDate: due, Amount: 1150, Status: domain.EntryPending}},
	}

	req := httptest.NewRequest(stdhttp.MethodPost, "/",
		mustJSON(map[string]any{"amount": 1150, "phone": "+254712345678", "method": "mpesa"}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/loans/:loan_id/repayments")
	c.SetParamNames("loan_id")
	c.SetParamValues(loanID)
	setActor(c, testBorrower())

	if err := h.Repay(c); err != nil {
		t.Fatalf("Repay error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var got uc.RepayResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Status != string(domain.StatusRepaid) || got.Remaining != 0 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.PaymentRef == "" || got.Confirmation == "" {
		t.Fatalf("missing receipt fields: %+v", got)
	}
}

func TestRepayHandler_RejectsUnknownMethod(t *testing.T) {
	e := newEchoWithValidator()
	usecase, _ := loanTestRig()
	h := NewLoanHandler(usecase)

	req := httptest.NewRequest(stdhttp.MethodPost, "/",
		mustJSON(map[string]any{"amount": 100, "method": "cash"}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/loans/:loan_id/repayments")
	c.SetParamNames("loan_id")
	c.SetParamValues(strings.Repeat("c", 32))
	setActor(c, testBorrower())

	if err := h.Repay(c); err != nil {
		t.Fatalf("Repay error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var er ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if !containsFieldMsg(er.Details, "Method", "one of") {
		t.Fatalf("expected method detail, got %+v", er.Details)
	}
}
