package http

import (
	"net/http"

	"cashcraft-backend/internal/adapter/middleware"
	"cashcraft-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

// AdminHandler covers the approval queue. Routes are mounted behind
// the admin role middleware; the usecase still checks the role itself.
type AdminHandler struct{ uc *loan.Usecase }

func NewAdminHandler(uc *loan.Usecase) *AdminHandler { return &AdminHandler{uc: uc} }

func (h *AdminHandler) ListLoans(c echo.Context) error {
	dtos, err := h.uc.ListAll(c.Request().Context(), middleware.Actor(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *AdminHandler) Approve(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	dto, err := h.uc.Approve(c.Request().Context(), middleware.Actor(c), loanID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AdminHandler) Reject(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	dto, err := h.uc.Reject(c.Request().Context(), middleware.Actor(c), loanID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
