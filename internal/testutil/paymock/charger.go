package paymock

import (
	"context"
	"time"

	domain "cashcraft-backend/internal/domain/payment"
)

// Charger satisfies payment.Charger; by default every charge succeeds
// with a fixed receipt.
type Charger struct {
	ChargeFn func(ctx context.Context, in domain.ChargeInput) (*domain.Receipt, error)

	// Calls records every input seen, for assertions.
	Calls []domain.ChargeInput
}

func (m *Charger) Charge(ctx context.Context, in domain.ChargeInput) (*domain.Receipt, error) {
	m.Calls = append(m.Calls, in)
	if m.ChargeFn != nil {
		return m.ChargeFn(ctx, in)
	}
	return &domain.Receipt{Ref: "ref-1", Code: "QWERTY1234", ChargedAt: time.Now().UTC()}, nil
}
