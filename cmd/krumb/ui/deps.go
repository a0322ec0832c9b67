package ui

import (
	"krumb/internal/cart"
	"krumb/internal/catalog"
	"krumb/internal/checkout"
	"krumb/internal/config"
	"krumb/internal/session"
)

// Deps bundles the domain stores the page models operate on. The root
// application model owns the stores and hands the same Deps value to
// every page.
type Deps struct {
	Catalog  *catalog.Store
	Cart     *cart.Store
	Gate     *session.Gate
	Checkout *checkout.Runner
	Config   *config.UserConfig
}
