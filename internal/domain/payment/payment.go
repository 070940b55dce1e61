package payment

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDeclined = errors.New("payment declined")
)

type Method string

const (
	MethodMpesa Method = "mpesa"
	MethodCard  Method = "card"
)

type ChargeInput struct {
	UserID string
	LoanID string
	Phone  string
	Amount float64
	Method Method
}

// Receipt is what the simulated mobile-money gateway returns; Code is
// the M-Pesa style confirmation code shown to the user.
type Receipt struct {
	Ref       string
	Code      string
	ChargedAt time.Time
}

type Charger interface {
	Charge(ctx context.Context, in ChargeInput) (*Receipt, error)
}
