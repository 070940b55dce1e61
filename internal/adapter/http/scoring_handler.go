package http

import (
	"net/http"

	"cashcraft-backend/internal/adapter/middleware"
	"cashcraft-backend/internal/usecase/scoring"

	"github.com/labstack/echo/v4"
)

// ScoringHandler serves the pre-application preview: the indicative
// score with its factor breakdown, plus the suggested rate and total.
// Auth is optional; a known caller's credit history feeds the formula.
type ScoringHandler struct{ engine *scoring.Engine }

func NewScoringHandler(engine *scoring.Engine) *ScoringHandler {
	return &ScoringHandler{engine: engine}
}

type scoreReq struct {
	Amount   float64 `json:"amount"    validate:"required,gt=0,dec2"`
	TermDays int     `json:"term_days" validate:"required,gt=0"`
	Purpose  string  `json:"purpose"`
}

type scoreResp struct {
	Score          int              `json:"score"`
	Approved       bool             `json:"approved"`
	Factors        []scoring.Factor `json:"factors"`
	SuggestedRate  float64          `json:"suggested_rate"`
	EstimatedTotal float64          `json:"estimated_total"`
}

func (h *ScoringHandler) Score(c echo.Context) error {
	var req scoreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	var prior *int
	if actor := middleware.Actor(c); actor != nil && actor.CreditScore > 0 {
		score := actor.CreditScore
		prior = &score
	}

	res := h.engine.Evaluate(scoring.Input{
		Amount:     req.Amount,
		TermDays:   req.TermDays,
		Purpose:    req.Purpose,
		PriorScore: prior,
	})
	rate := scoring.PreviewRate(req.Amount, req.TermDays, prior)
	total := scoring.PreviewTotal(req.Amount, req.TermDays, rate)

	return c.JSON(http.StatusOK, scoreResp{
		Score:          res.Score,
		Approved:       res.Approved,
		Factors:        res.Factors,
		SuggestedRate:  rate,
		EstimatedTotal: total,
	})
}
