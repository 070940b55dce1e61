// Package pace provides the artificial processing delays that stand in
// for scoring-model and payment-gateway round trips. Every "remote" call
// in the demo resolves after a fixed duration rather than doing real I/O.
package pace

import (
	"context"
	"time"
)

// Pacer blocks for a scaled duration or until the context is done.
type Pacer interface {
	Wait(ctx context.Context, d time.Duration) error
}

type scaled struct{ factor float64 }

// New returns a Pacer that sleeps d*factor. A factor of 0 returns
// immediately, which is what tests use.
func New(factor float64) Pacer {
	return scaled{factor: factor}
}

// None is a Pacer with all delays disabled.
func None() Pacer { return scaled{factor: 0} }

func (s scaled) Wait(ctx context.Context, d time.Duration) error {
	d = time.Duration(float64(d) * s.factor)
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
