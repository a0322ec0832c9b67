package ui

import (
	"time"

	"krumb/internal/checkout"
	"krumb/internal/types"
)

// Navigation and lifecycle messages exchanged between the page models and
// the root application model.

// LoginSuccessMsg is emitted by the login page once a customer or the
// admin has been verified.
type LoginSuccessMsg struct {
	Identity types.Identity
}

// LogoutMsg requests a return to the login page. The root model clears
// the session before switching.
type LogoutMsg struct{}

// OpenCartMsg navigates from the storefront to the cart page.
type OpenCartMsg struct{}

// OpenAdminMsg navigates to the product management page. Only emitted
// when the current identity is the admin.
type OpenAdminMsg struct{}

// GoHomeMsg navigates back to the storefront page.
type GoHomeMsg struct{}

// StartCheckoutMsg requests the purchase flow for the current cart.
type StartCheckoutMsg struct{}

// CheckoutDoneMsg carries the receipt once the simulated payment has
// settled.
type CheckoutDoneMsg struct {
	Result checkout.Result
}

// CheckoutAbortedMsg is delivered when a pending checkout was cancelled
// before the payment settled.
type CheckoutAbortedMsg struct{}

// HoursTickMsg re-evaluates the business hours gate. Fired once a minute
// while the storefront page is visible.
type HoursTickMsg struct {
	At time.Time
}

// LoginVerifiedMsg ends the short verification delay on the login page.
type LoginVerifiedMsg struct{}
