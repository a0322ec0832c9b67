package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

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

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	adapter := store.NewMemoryStore()
	cat := catalog.New(adapter)
	crt := cart.New(adapter)
	cat.Subscribe(crt.ApplyCatalogUpdate)
	gate := session.NewGate(adapter, crt, notify.LogNotifier{}, testSecret)
	runner := checkout.NewRunner(payment.NewSimulator(time.Millisecond), crt, gate)
	return Deps{
		Catalog:  cat,
		Cart:     crt,
		Gate:     gate,
		Checkout: runner,
		Config:   &config.UserConfig{LoginDelayMS: 1, CheckoutDelayMS: 1},
	}
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{}
}

func TestLoginSubmitValidatesBeforeDelay(t *testing.T) {
	m := NewLoginPageModel(newTestDeps(t), DefaultStyles())

	// Empty fields fail immediately, no spinner.
	m, _ = m.submit()
	require.Equal(t, session.ErrMissingFields.Error(), m.errMsg)
	require.False(t, m.verifying)

	m.name.SetValue("أحمد")
	m.phone.SetValue("512345678")
	m, _ = m.submit()
	require.Equal(t, session.ErrBadPhone.Error(), m.errMsg)
	require.False(t, m.verifying)

	m.phone.SetValue("0512345678")
	m, cmd := m.submit()
	require.Empty(t, m.errMsg)
	require.True(t, m.verifying, "valid fields move into the verification delay")
	require.NotNil(t, cmd)
}

func TestLoginFinishEmitsSuccess(t *testing.T) {
	deps := newTestDeps(t)
	m := NewLoginPageModel(deps, DefaultStyles())
	m.name.SetValue("أحمد")
	m.phone.SetValue("0512345678")
	m, _ = m.submit()

	m, cmd := m.finishLogin()
	require.NotNil(t, cmd)
	msg, ok := cmd().(LoginSuccessMsg)
	require.True(t, ok)
	require.Equal(t, "أحمد", msg.Identity.Name)

	_, ok = deps.Gate.Current()
	require.True(t, ok)
}

func TestLoginAdminWrongPasswordSurfacesAfterDelay(t *testing.T) {
	m := NewLoginPageModel(newTestDeps(t), DefaultStyles())
	m = m.toggleMode()
	m.password.SetValue("wrong")

	m, _ = m.submit()
	require.True(t, m.verifying, "the password check waits for the delay")

	m, cmd := m.finishLogin()
	require.Nil(t, cmd)
	require.Equal(t, session.ErrBadPassword.Error(), m.errMsg)
	require.Empty(t, m.password.Value(), "rejected password is wiped")
}

func TestHomeAddUsesQuantitySelector(t *testing.T) {
	deps := newTestDeps(t)
	_, err := deps.Gate.LoginCustomer("أحمد", "0512345678")
	require.NoError(t, err)

	m := NewHomePageModel(deps, DefaultStyles())
	m.open = true

	m, _ = m.handleKey(keyMsg("+"))
	m, _ = m.handleKey(keyMsg("+"))
	m, _ = m.handleKey(keyMsg("enter"))

	require.Equal(t, 3, deps.Cart.Count(), "selector quantity lands as repeated adds")
	require.Equal(t, 1, m.quantity[m.products[0].ID], "selector resets after adding")
}

func TestHomeClosedLocksOutCustomers(t *testing.T) {
	deps := newTestDeps(t)
	_, err := deps.Gate.LoginCustomer("أحمد", "0512345678")
	require.NoError(t, err)

	m := NewHomePageModel(deps, DefaultStyles())
	m.open = false

	// Shopping keys are dead while closed.
	m, cmd := m.handleKey(keyMsg("enter"))
	require.Nil(t, cmd)
	require.True(t, deps.Cart.Empty())
	_, cmd = m.handleKey(keyMsg("c"))
	require.Nil(t, cmd)

	// Logout stays available.
	_, cmd = m.handleKey(keyMsg("l"))
	require.NotNil(t, cmd)
	_, isLogout := cmd().(LogoutMsg)
	require.True(t, isLogout)
}

func TestHomeClosedAdminKeepsStorefront(t *testing.T) {
	deps := newTestDeps(t)
	_, err := deps.Gate.LoginAdmin(testSecret)
	require.NoError(t, err)

	m := NewHomePageModel(deps, DefaultStyles())
	m.open = false

	m, _ = m.handleKey(keyMsg("enter"))
	require.Equal(t, 1, deps.Cart.Count(), "admin bypasses the hours gate")

	_, cmd := m.handleKey(keyMsg("a"))
	require.NotNil(t, cmd)
	_, isAdmin := cmd().(OpenAdminMsg)
	require.True(t, isAdmin)
}

func TestCartCheckoutNeedsLines(t *testing.T) {
	deps := newTestDeps(t)
	m := NewCartPageModel(deps, DefaultStyles())

	_, cmd := m.Update(keyMsg("enter"))
	require.Nil(t, cmd, "empty cart must not start checkout")

	p, _ := deps.Catalog.Get("1")
	deps.Cart.Add(p)
	_, cmd = m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	_, isStart := cmd().(StartCheckoutMsg)
	require.True(t, isStart)
}

func TestCartMinusRemovesAtOne(t *testing.T) {
	deps := newTestDeps(t)
	p, _ := deps.Catalog.Get("1")
	deps.Cart.Add(p)

	m := NewCartPageModel(deps, DefaultStyles())
	m.Update(keyMsg("-"))
	require.True(t, deps.Cart.Empty())
}

func TestAdminSaveValidation(t *testing.T) {
	deps := newTestDeps(t)
	m := NewAdminPageModel(deps, DefaultStyles())
	p, _ := deps.Catalog.Get("1")
	m = m.openForm(p)

	m.price.SetValue("abc")
	m = m.save()
	require.Equal(t, adminErrInvalid, m.errMsg)
	require.True(t, m.editing, "invalid input keeps the form open")

	unchanged, _ := deps.Catalog.Get("1")
	require.Equal(t, p, unchanged)

	m.price.SetValue("9.50")
	m.image.SetValue("not-a-url")
	m = m.save()
	require.Equal(t, adminErrInvalid, m.errMsg)

	m.image.SetValue("https://example.com/cookie.jpg")
	m = m.save()
	require.Empty(t, m.errMsg)
	require.False(t, m.editing)

	saved, _ := deps.Catalog.Get("1")
	require.InDelta(t, 9.50, saved.Price, 0.001)
	require.Equal(t, "https://example.com/cookie.jpg", saved.Image)
}

func TestAdminEditPatchesCartLines(t *testing.T) {
	deps := newTestDeps(t)
	p, _ := deps.Catalog.Get("1")
	deps.Cart.Add(p)
	deps.Cart.SetQuantity(p.ID, 2)

	m := NewAdminPageModel(deps, DefaultStyles())
	m = m.openForm(p)
	m.price.SetValue("10.00")
	m = m.save()
	require.Empty(t, m.errMsg)

	lines := deps.Cart.Lines()
	require.InDelta(t, 10.00, lines[0].Price, 0.001)
	require.Equal(t, 2, lines[0].Quantity)
	require.InDelta(t, 20.00, deps.Cart.Total(), 0.001)
}

func TestPlausibleURL(t *testing.T) {
	cases := map[string]bool{
		"https://example.com/a.jpg": true,
		"http://example.com/a.jpg":  true,
		"ftp://example.com/a.jpg":   false,
		"example.com/a.jpg":         false,
		"":                          false,
	}
	for in, want := range cases {
		require.Equal(t, want, plausibleURL(in), "url %q", in)
	}
}

func TestCheckoutBeginSettles(t *testing.T) {
	deps := newTestDeps(t)
	_, err := deps.Gate.LoginCustomer("أحمد", "0512345678")
	require.NoError(t, err)
	p, _ := deps.Catalog.Get("1")
	deps.Cart.Add(p)

	m := NewCheckoutPageModel(deps, DefaultStyles())
	cmd := m.Begin()
	require.NotNil(t, cmd)
	require.True(t, m.Processing())

	// Run the batched commands until the settle message surfaces.
	msg := waitForSettle(t, cmd)
	done, ok := msg.(CheckoutDoneMsg)
	require.True(t, ok)
	require.Regexp(t, `^#\d{6}$`, done.Result.OrderRef)

	m, _ = m.Update(done)
	require.False(t, m.Processing())
	require.True(t, deps.Cart.Empty())
}

func TestCheckoutBeginWithEmptyCartAborts(t *testing.T) {
	deps := newTestDeps(t)
	_, err := deps.Gate.LoginCustomer("أحمد", "0512345678")
	require.NoError(t, err)

	m := NewCheckoutPageModel(deps, DefaultStyles())
	cmd := m.Begin()
	require.NotNil(t, cmd)
	_, aborted := cmd().(CheckoutAbortedMsg)
	require.True(t, aborted)
}

func TestCheckoutTeardownCancelsPendingTask(t *testing.T) {
	deps := newTestDeps(t)
	deps.Config.CheckoutDelayMS = 60000
	deps.Checkout = checkout.NewRunner(payment.NewSimulator(time.Minute), deps.Cart, deps.Gate)

	_, err := deps.Gate.LoginCustomer("أحمد", "0512345678")
	require.NoError(t, err)
	p, _ := deps.Catalog.Get("1")
	deps.Cart.Add(p)

	m := NewCheckoutPageModel(deps, DefaultStyles())
	_ = m.Begin()
	require.True(t, m.Teardown(), "pending task must cancel")
	require.False(t, deps.Cart.Empty(), "cart survives a cancelled checkout")
}

// waitForSettle unwraps batched commands, ignoring spinner ticks, until
// a checkout outcome message appears.
func waitForSettle(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	deadline := time.After(2 * time.Second)
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		select {
		case <-deadline:
			t.Fatal("checkout never settled")
		default:
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			for _, c := range msg {
				queue = append(queue, c)
			}
		case CheckoutDoneMsg, CheckoutAbortedMsg:
			return msg
		}
	}
	t.Fatal("commands exhausted without a checkout outcome")
	return nil
}
