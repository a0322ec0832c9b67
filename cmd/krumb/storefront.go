package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"krumb/cmd/krumb/ui"
	"krumb/internal/cart"
	"krumb/internal/catalog"
	"krumb/internal/checkout"
	"krumb/internal/config"
	"krumb/internal/logging"
	"krumb/internal/notify"
	"krumb/internal/payment"
	"krumb/internal/session"
	"krumb/internal/store"
)

// openLocalStore opens the sqlite mirror at the configured path,
// honoring the --store override.
func openLocalStore() (*store.LocalStore, error) {
	cfg, err := config.Global()
	if err != nil {
		return nil, err
	}
	path := storePath
	if path == "" {
		path = cfg.GetStorePath()
	}
	return store.NewLocalStore(path)
}

// buildDeps assembles the domain stores the UI runs on. A mirror that
// cannot be opened degrades to in-memory state rather than blocking the
// storefront.
func buildDeps(cfg *config.UserConfig) (ui.Deps, func(), error) {
	var adapter store.Adapter
	closeFn := func() {}

	local, err := openLocalStore()
	if err != nil {
		logging.Boot("mirror unavailable, running in-memory: %v", err)
		adapter = store.NewMemoryStore()
	} else {
		adapter = local
		closeFn = func() { _ = local.Close() }
	}

	cat := catalog.New(adapter)
	crt := cart.New(adapter)
	cat.Subscribe(crt.ApplyCatalogUpdate)

	gate := session.NewGate(adapter, crt, notify.LogNotifier{}, cfg.GetAdminPassword())
	gate.Restore()

	provider := payment.NewSimulator(cfg.GetCheckoutDelay())
	runner := checkout.NewRunner(provider, crt, gate)

	return ui.Deps{
		Catalog:  cat,
		Cart:     crt,
		Gate:     gate,
		Checkout: runner,
		Config:   cfg,
	}, closeFn, nil
}

// runStorefront boots the stores and hands control to the bubbletea
// program.
func runStorefront() error {
	ws, err := config.FindWorkspaceRoot()
	if err != nil {
		return fmt.Errorf("failed to locate workspace: %w", err)
	}
	if err := logging.Initialize(ws); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.CloseAll()

	cfg, err := config.Global()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	deps, closeStore, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	logging.Boot("storefront starting, theme=%s", cfg.GetTheme())

	p := tea.NewProgram(
		newAppModel(deps),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("storefront exited with error: %w", err)
	}
	return nil
}
