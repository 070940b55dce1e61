// Package scoring is the application-time creditworthiness preview.
// It is a pure weighted formula over the requested amount, term,
// purpose text, and the applicant's known credit score. It is shown to
// the applicant before submission and is deliberately independent of
// the score the ledger stores on the loan record itself.
package scoring

import (
	"math"
	"math/rand"
	"strings"
)

const (
	MinScore = 300
	MaxScore = 850
	// ApproveAbove is the recommendation threshold: strictly greater.
	ApproveAbove = 580
)

type Input struct {
	Amount   float64
	TermDays int
	Purpose  string
	// PriorScore is the applicant's known credit score; nil when the
	// user has no history yet.
	PriorScore *int
}

type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNeutral  Impact = "neutral"
	ImpactNegative Impact = "negative"
)

type Factor struct {
	Name   string  `json:"name"`
	Impact Impact  `json:"impact"`
	Value  float64 `json:"value"`
}

type Result struct {
	Score    int      `json:"score"`
	Approved bool     `json:"approved"`
	Factors  []Factor `json:"factors"`
}

// Engine evaluates applications. The base term is random in [550,750);
// tests inject a fixed base to make results deterministic.
type Engine struct {
	base func() int
}

func NewEngine(base func() int) *Engine {
	if base == nil {
		base = func() int { return 550 + rand.Intn(200) }
	}
	return &Engine{base: base}
}

func (e *Engine) Evaluate(in Input) Result {
	base := float64(e.base())

	amountAdj := amountFactor(in.Amount)
	termAdj := termFactor(in.TermDays)
	purposeAdj := purposeFactor(in.Purpose)

	var creditAdj float64
	if in.PriorScore != nil && *in.PriorScore != 0 {
		creditAdj = (float64(*in.PriorScore) - 600) / 5
	}

	final := base + amountAdj + termAdj + purposeAdj + creditAdj
	final = math.Max(MinScore, math.Min(MaxScore, final))

	return Result{
		Score:    int(math.Round(final)),
		Approved: final > ApproveAbove,
		Factors: []Factor{
			{Name: "Loan Amount", Impact: amountImpact(in.Amount), Value: amountAdj},
			{Name: "Loan Term", Impact: termImpact(in.TermDays), Value: termAdj},
			{Name: "Loan Purpose", Impact: impactOf(purposeAdj), Value: purposeAdj},
			{Name: "Credit History", Impact: impactOf(creditAdj), Value: math.Round(creditAdj)},
		},
	}
}

func amountFactor(amount float64) float64 {
	switch {
	case amount > 30000:
		return -30
	case amount > 15000:
		return -10
	default:
		return 20
	}
}

func amountImpact(amount float64) Impact {
	switch {
	case amount > 30000:
		return ImpactNegative
	case amount > 15000:
		return ImpactNeutral
	default:
		return ImpactPositive
	}
}

func termFactor(termDays int) float64 {
	switch {
	case termDays > 60:
		return -20
	case termDays > 30:
		return -5
	default:
		return 15
	}
}

// termImpact labels by threshold, not by sign: the mid band reads
// neutral even though its adjustment is negative.
func termImpact(termDays int) Impact {
	switch {
	case termDays > 60:
		return ImpactNegative
	case termDays > 30:
		return ImpactNeutral
	default:
		return ImpactPositive
	}
}

// purposeFactor scans the lower-cased purpose text; the first matching
// rule wins, in this order.
func purposeFactor(purpose string) float64 {
	p := strings.ToLower(purpose)
	switch {
	case strings.Contains(p, "business") || strings.Contains(p, "invest"):
		return 40
	case strings.Contains(p, "emergency") || strings.Contains(p, "medical"):
		return 20
	case strings.Contains(p, "education"):
		return 30
	case strings.Contains(p, "debt") || strings.Contains(p, "pay off"):
		return -15
	default:
		return 0
	}
}

func impactOf(v float64) Impact {
	switch {
	case v > 0:
		return ImpactPositive
	case v < 0:
		return ImpactNegative
	default:
		return ImpactNeutral
	}
}

// PreviewRate is the indicative interest rate shown on the application
// form. Base 12%, nudged by amount, term, and credit history. It is a
// preview only; the ledger assigns the actual rate at submission.
func PreviewRate(amount float64, termDays int, priorScore *int) float64 {
	rate := 12.0
	if amount > 20000 {
		rate--
	} else if amount < 5000 {
		rate++
	}
	if termDays > 60 {
		rate += 2
	} else if termDays > 30 {
		rate++
	}
	if priorScore != nil && *priorScore != 0 {
		switch {
		case *priorScore > 700:
			rate -= 2
		case *priorScore > 600:
			rate--
		case *priorScore < 500:
			rate += 2
		}
	}
	return rate
}

// PreviewTotal estimates the total payment for the previewed rate,
// pro-rated by term in 30-day months.
func PreviewTotal(amount float64, termDays int, rate float64) float64 {
	return amount + amount*(rate/100)*(float64(termDays)/30)
}
