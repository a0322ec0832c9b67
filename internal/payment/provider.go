// Package payment defines the payment collaborator boundary and the
// fixed-delay simulator that stands in for it. A real gateway (Paylink
// and STC Pay were the source design's placeholders) would implement
// Provider; nothing else in the storefront would change.
package payment

import (
	"context"
	"time"

	"krumb/internal/logging"
	"krumb/internal/types"
)

// Provider charges a customer. The call blocks until the charge settles
// or ctx is cancelled.
type Provider interface {
	Charge(ctx context.Context, amount float64, customer types.Identity) error
}

// Simulator always succeeds after a fixed delay.
type Simulator struct {
	Delay time.Duration
}

// NewSimulator returns a simulator with the given processing delay.
func NewSimulator(delay time.Duration) *Simulator {
	return &Simulator{Delay: delay}
}

// Charge waits out the simulated processing time, then succeeds. On
// cancellation it returns ctx.Err() and no charge is considered made.
func (s *Simulator) Charge(ctx context.Context, amount float64, customer types.Identity) error {
	logging.Payment("Simulating charge of %.2f for %q", amount, customer.Name)
	logging.Payment("Paylink API call would go here")
	logging.Payment("STC Pay API call would go here")

	timer := time.NewTimer(s.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		logging.Payment("Charge cancelled before settling")
		return ctx.Err()
	case <-timer.C:
		logging.Payment("Charge settled")
		return nil
	}
}
