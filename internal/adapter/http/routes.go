package http

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Health       *Handler
	Session      *SessionHandler
	Loan         *LoanHandler
	Admin        *AdminHandler
	Notification *NotificationHandler
	Scoring      *ScoringHandler
}

type Middlewares struct {
	Auth         echo.MiddlewareFunc
	OptionalAuth echo.MiddlewareFunc
	Admin        echo.MiddlewareFunc
	Idempotency  echo.MiddlewareFunc
}

func RegisterRoutes(e *echo.Echo, h Handlers, mw Middlewares) {
	e.GET("/health", h.Health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/auth/login", h.Session.Login)
	e.POST("/auth/register", h.Session.Register)
	e.POST("/loans/score", h.Scoring.Score, mw.OptionalAuth)

	g := e.Group("", mw.Auth)
	g.POST("/auth/logout", h.Session.Logout)
	g.GET("/me", h.Session.Me)
	g.PUT("/me", h.Session.UpdateMe)
	g.POST("/me/kyc", h.Session.VerifyKYC)

	g.POST("/loans", h.Loan.Apply)
	g.GET("/loans", h.Loan.List)
	g.GET("/loans/:loan_id", h.Loan.Get)
	g.POST("/loans/:loan_id/repayments", h.Loan.Repay, mw.Idempotency)

	g.GET("/notifications", h.Notification.List)
	g.POST("/notifications/:id/read", h.Notification.MarkRead)
	g.POST("/notifications/read-all", h.Notification.MarkAllRead)
	g.DELETE("/notifications", h.Notification.Clear)

	a := e.Group("/admin", mw.Auth, mw.Admin)
	a.GET("/loans", h.Admin.ListLoans)
	a.POST("/loans/:loan_id/approve", h.Admin.Approve)
	a.POST("/loans/:loan_id/reject", h.Admin.Reject)
}
