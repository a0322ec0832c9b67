// Package checkout runs the simulated payment flow as a cancellable
// task. Starting a checkout returns a handle; if the owning view is torn
// down before the payment settles, cancelling the handle guarantees the
// completion side effects (purchase count, cart clear) never fire.
package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"krumb/internal/cart"
	"krumb/internal/logging"
	"krumb/internal/payment"
	"krumb/internal/session"
	"krumb/internal/types"
)

// Result is delivered to the completion callback after a successful
// simulated payment.
type Result struct {
	OrderRef string
	Amount   float64
	Customer types.Identity
}

// Task is one in-flight checkout. Cancel is idempotent and safe to call
// after completion.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	completed bool
	cancelled bool
}

// Runner wires the payment provider to the stores it must mutate on
// success.
type Runner struct {
	provider payment.Provider
	cart     *cart.Store
	gate     *session.Gate
	now      func() time.Time // swapped in tests
}

// NewRunner builds a checkout runner.
func NewRunner(provider payment.Provider, c *cart.Store, g *session.Gate) *Runner {
	return &Runner{provider: provider, cart: c, gate: g, now: time.Now}
}

// Start begins a checkout for the given amount and customer. onDone runs
// once on the task goroutine after payment settles, with the side
// effects (purchase count increment + identity persist, cart clear)
// already applied. If the task is cancelled first, neither the side
// effects nor onDone run.
func (r *Runner) Start(amount float64, customer types.Identity, onDone func(Result)) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Task{cancel: cancel, done: make(chan struct{})}

	logging.Checkout("Starting checkout: amount=%.2f customer=%q", amount, customer.Name)

	go func() {
		defer close(t.done)
		defer cancel()

		if err := r.provider.Charge(ctx, amount, customer); err != nil {
			logging.Checkout("Checkout abandoned: %v", err)
			return
		}

		// The charge settled, but teardown may have raced it. Completion
		// and cancellation are mutually exclusive: whichever claims the
		// task first wins, so side effects fire at most once and never
		// after Cancel returns true.
		t.mu.Lock()
		if t.cancelled {
			t.mu.Unlock()
			logging.Checkout("Checkout cancelled after settle, side effects suppressed")
			return
		}
		t.completed = true
		t.mu.Unlock()

		res := Result{
			OrderRef: OrderRef(r.now()),
			Amount:   amount,
			Customer: customer,
		}

		r.gate.CompletePurchase()
		r.cart.Clear()
		logging.Checkout("Checkout complete: ref=%s", res.OrderRef)

		if onDone != nil {
			onDone(res)
		}
	}()

	return t
}

// Cancel aborts the task if it has not completed. Returns true when the
// cancellation won (side effects will not fire).
func (t *Task) Cancel() bool {
	t.mu.Lock()
	if t.completed {
		t.mu.Unlock()
		return false
	}
	t.cancelled = true
	t.mu.Unlock()

	t.cancel()
	return true
}

// Done exposes completion/cancellation for callers that need to wait
// (tests, shutdown).
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// OrderRef derives the display-only order reference from a timestamp:
// '#' plus the last six digits of unix milliseconds. Not unique across
// sessions or devices, and not meant to be.
func OrderRef(t time.Time) string {
	ms := fmt.Sprintf("%d", t.UnixMilli())
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return "#" + ms
}
