package http

import (
	"net/http"

	"cashcraft-backend/internal/adapter/middleware"
	"cashcraft-backend/internal/usecase/notification"

	"github.com/labstack/echo/v4"
)

type NotificationHandler struct{ uc *notification.Usecase }

func NewNotificationHandler(uc *notification.Usecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	actor := middleware.Actor(c)

	rows, err := h.uc.List(ctx, actor)
	if err != nil {
		return domainError(c, err)
	}
	unread, err := h.uc.UnreadCount(ctx, actor)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"notifications": rows,
		"unread":        unread,
	})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing id path param"})
	}
	if err := h.uc.MarkRead(c.Request().Context(), middleware.Actor(c), id); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.uc.MarkAllRead(c.Request().Context(), middleware.Actor(c)); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) Clear(c echo.Context) error {
	if err := h.uc.Clear(c.Request().Context(), middleware.Actor(c)); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
