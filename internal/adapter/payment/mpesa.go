// Package payment is the simulated mobile-money gateway. No network
// call happens; a charge is a fixed delay followed by a fabricated
// confirmation code, matching the demo's repayment flow.
package payment

import (
	"context"
	"crypto/rand"
	"time"

	domain "cashcraft-backend/internal/domain/payment"
	"cashcraft-backend/pkg/pace"

	"github.com/google/uuid"
)

const chargeDelay = 2000 * time.Millisecond

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type SimulatedGateway struct {
	pacer pace.Pacer
}

func NewSimulatedGateway(p pace.Pacer) *SimulatedGateway {
	return &SimulatedGateway{pacer: p}
}

func (g *SimulatedGateway) Charge(ctx context.Context, in domain.ChargeInput) (*domain.Receipt, error) {
	if in.Amount <= 0 {
		return nil, domain.ErrDeclined
	}
	if err := g.pacer.Wait(ctx, chargeDelay); err != nil {
		return nil, err
	}
	return &domain.Receipt{
		Ref:       uuid.NewString(),
		Code:      confirmationCode(),
		ChargedAt: time.Now().UTC(),
	}, nil
}

// confirmationCode fabricates a 10-char M-Pesa style receipt code.
func confirmationCode() string {
	b := make([]byte, 10)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b)
}
