package http

import (
	"net/http"

	"cashcraft-backend/internal/adapter/middleware"
	"cashcraft-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type applyReq struct {
	Amount   float64 `json:"amount"    validate:"required,gt=0,dec2"`
	TermDays int     `json:"term_days" validate:"required,gt=0"`
	Purpose  string  `json:"purpose"`
}

type repayReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0,dec2"`
	Phone  string  `json:"phone"  validate:"omitempty,e164"`
	Method string  `json:"method" validate:"required,oneof=mpesa card"`
}

func (h *LoanHandler) Apply(c echo.Context) error {
	var req applyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	ctx := c.Request().Context()
	loanID, err := h.uc.Apply(ctx, middleware.Actor(c), loan.ApplyInput{
		Amount:   req.Amount,
		TermDays: req.TermDays,
		Purpose:  req.Purpose,
	})
	if err != nil {
		return domainError(c, err)
	}
	dto, err := h.uc.GetByID(ctx, loanID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) List(c echo.Context) error {
	dtos, err := h.uc.ListMine(c.Request().Context(), middleware.Actor(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *LoanHandler) Get(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	dto, err := h.uc.GetByID(c.Request().Context(), loanID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Repay(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	var req repayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	res, err := h.uc.Repay(c.Request().Context(), middleware.Actor(c), loanID, loan.RepayInput{
		Amount: req.Amount,
		Phone:  req.Phone,
		Method: req.Method,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
