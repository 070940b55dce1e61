package http

import (
	"net/http"

	"cashcraft-backend/internal/adapter/middleware"
	"cashcraft-backend/internal/usecase/session"

	"github.com/labstack/echo/v4"
)

type SessionHandler struct{ uc *session.Usecase }

func NewSessionHandler(uc *session.Usecase) *SessionHandler { return &SessionHandler{uc: uc} }

type loginReq struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerReq struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,e164"`
}

type updateProfileReq struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,e164"`
}

type sessionResp struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

func (h *SessionHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	s, err := h.uc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, sessionResp{User: s.User, Token: s.Token})
}

func (h *SessionHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	s, err := h.uc.Register(c.Request().Context(), session.RegisterInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, sessionResp{User: s.User, Token: s.Token})
}

func (h *SessionHandler) Logout(c echo.Context) error {
	actor := middleware.Actor(c)
	if err := h.uc.Logout(c.Request().Context(), actor.ID); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) Me(c echo.Context) error {
	actor := middleware.Actor(c)
	usr, err := h.uc.Current(c.Request().Context(), actor.ID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, usr)
}

func (h *SessionHandler) UpdateMe(c echo.Context) error {
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	actor := middleware.Actor(c)
	usr, err := h.uc.UpdateProfile(c.Request().Context(), actor.ID, session.ProfileUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, usr)
}

// VerifyKYC accepts any JSON object; the simulated review approves
// everything after its delay.
func (h *SessionHandler) VerifyKYC(c echo.Context) error {
	var payload map[string]any
	_ = c.Bind(&payload)

	actor := middleware.Actor(c)
	usr, err := h.uc.VerifyKYC(c.Request().Context(), actor.ID, payload)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, usr)
}
