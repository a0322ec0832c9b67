package main

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"krumb/cmd/krumb/ui"
	"krumb/internal/cart"
	"krumb/internal/catalog"
	"krumb/internal/checkout"
	"krumb/internal/config"
	"krumb/internal/notify"
	"krumb/internal/payment"
	"krumb/internal/session"
	"krumb/internal/store"
)

const testSecret = "Lemon!32#TigerRunRawan"

func newTestApp(t *testing.T, adapter store.Adapter) appModel {
	t.Helper()
	cat := catalog.New(adapter)
	crt := cart.New(adapter)
	cat.Subscribe(crt.ApplyCatalogUpdate)
	gate := session.NewGate(adapter, crt, notify.LogNotifier{}, testSecret)
	gate.Restore()
	// A long delay keeps started tasks pending so transitions can be
	// asserted without racing the settle.
	runner := checkout.NewRunner(payment.NewSimulator(time.Minute), crt, gate)
	return newAppModel(ui.Deps{
		Catalog:  cat,
		Cart:     crt,
		Gate:     gate,
		Checkout: runner,
		Config:   &config.UserConfig{LoginDelayMS: 1, CheckoutDelayMS: 1},
	})
}

func update(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	app, ok := next.(appModel)
	require.True(t, ok)
	return app, cmd
}

func TestStartsLoggedOutWithoutIdentity(t *testing.T) {
	m := newTestApp(t, store.NewMemoryStore())
	require.Equal(t, pageLogin, m.page)
	require.NotEmpty(t, m.sessionID)
}

func TestStartsOnHomeWithRestoredIdentity(t *testing.T) {
	adapter := store.NewMemoryStore()
	boot := newTestApp(t, adapter)
	_, err := boot.deps.Gate.LoginCustomer("أحمد", "0512345678")
	require.NoError(t, err)

	m := newTestApp(t, adapter)
	require.Equal(t, pageHome, m.page, "a restored session skips the login page")
}

func TestLoginSuccessNavigatesHome(t *testing.T) {
	m := newTestApp(t, store.NewMemoryStore())
	id, err := m.deps.Gate.LoginCustomer("أحمد", "0512345678")
	require.NoError(t, err)

	m, _ = update(t, m, ui.LoginSuccessMsg{Identity: id})
	require.Equal(t, pageHome, m.page)
}

func TestLogoutFromAnywhereClearsEverything(t *testing.T) {
	for _, from := range []tea.Msg{ui.OpenCartMsg{}, ui.GoHomeMsg{}} {
		m := newTestApp(t, store.NewMemoryStore())
		id, err := m.deps.Gate.LoginCustomer("أحمد", "0512345678")
		require.NoError(t, err)
		m, _ = update(t, m, ui.LoginSuccessMsg{Identity: id})

		p, _ := m.deps.Catalog.Get("1")
		m.deps.Cart.Add(p)
		m.deps.Cart.Add(p)
		m.deps.Cart.Add(p)
		m, _ = update(t, m, from)

		m, _ = update(t, m, ui.LogoutMsg{})
		require.Equal(t, pageLogin, m.page)
		_, ok := m.deps.Gate.Current()
		require.False(t, ok)
		require.True(t, m.deps.Cart.Empty(), "logout empties the cart")
	}
}

func TestAdminPageGuardedByIdentity(t *testing.T) {
	m := newTestApp(t, store.NewMemoryStore())
	id, err := m.deps.Gate.LoginCustomer("أحمد", "0512345678")
	require.NoError(t, err)
	m, _ = update(t, m, ui.LoginSuccessMsg{Identity: id})

	m, _ = update(t, m, ui.OpenAdminMsg{})
	require.Equal(t, pageHome, m.page, "customers never reach the admin page")

	m.deps.Gate.Logout()
	adminID, err := m.deps.Gate.LoginAdmin(testSecret)
	require.NoError(t, err)
	m, _ = update(t, m, ui.LoginSuccessMsg{Identity: adminID})
	m, _ = update(t, m, ui.OpenAdminMsg{})
	require.Equal(t, pageAdmin, m.page)
}

func TestCheckoutNeedsNonEmptyCart(t *testing.T) {
	m := newTestApp(t, store.NewMemoryStore())
	id, err := m.deps.Gate.LoginCustomer("أحمد", "0512345678")
	require.NoError(t, err)
	m, _ = update(t, m, ui.LoginSuccessMsg{Identity: id})
	m, _ = update(t, m, ui.OpenCartMsg{})

	m, cmd := update(t, m, ui.StartCheckoutMsg{})
	require.Equal(t, pageCart, m.page, "empty cart never enters checkout")
	require.Nil(t, cmd)

	p, _ := m.deps.Catalog.Get("1")
	m.deps.Cart.Add(p)
	m, cmd = update(t, m, ui.StartCheckoutMsg{})
	require.Equal(t, pageCheckout, m.page)
	require.NotNil(t, cmd)
	require.True(t, m.checkout.Teardown())
}

func TestCheckoutAbortReturnsToCart(t *testing.T) {
	m := newTestApp(t, store.NewMemoryStore())
	id, err := m.deps.Gate.LoginCustomer("أحمد", "0512345678")
	require.NoError(t, err)
	m, _ = update(t, m, ui.LoginSuccessMsg{Identity: id})

	p, _ := m.deps.Catalog.Get("1")
	m.deps.Cart.Add(p)
	m, _ = update(t, m, ui.StartCheckoutMsg{})

	require.True(t, m.checkout.Teardown())
	m, _ = update(t, m, ui.CheckoutAbortedMsg{})
	require.Equal(t, pageCart, m.page)
	require.False(t, m.deps.Cart.Empty())
}

func TestPageString(t *testing.T) {
	names := map[page]string{
		pageLogin:    "login",
		pageHome:     "home",
		pageCart:     "cart",
		pageCheckout: "checkout",
		pageAdmin:    "admin",
	}
	for p, want := range names {
		require.Equal(t, want, p.String())
	}
	require.Equal(t, "unknown", page(99).String())
}
