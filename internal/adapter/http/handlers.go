package http

import (
	"errors"
	"net/http"
	"time"

	"cashcraft-backend/internal/domain/loan"
	"cashcraft-backend/internal/domain/notification"
	"cashcraft-backend/internal/domain/payment"
	"cashcraft-backend/internal/domain/user"

	"github.com/labstack/echo/v4"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// domainError maps usecase sentinels to HTTP codes. Anything
// unrecognized is a 500 with an opaque body.
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, user.ErrNoSession):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "session expired"})
	case errors.Is(err, loan.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "not allowed"})
	case errors.Is(err, loan.ErrNotFound), errors.Is(err, notification.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, loan.ErrInvalidTransition), errors.Is(err, loan.ErrInvalidAmount):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, payment.ErrDeclined):
		return c.JSON(http.StatusPaymentRequired, ErrorResponse{Error: "payment declined"})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
