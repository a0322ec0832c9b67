package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"krumb/cmd/krumb/ui"
	"krumb/internal/logging"
)

// page identifies the active screen.
type page int

const (
	pageLogin page = iota
	pageHome
	pageCart
	pageCheckout
	pageAdmin
)

func (p page) String() string {
	switch p {
	case pageLogin:
		return "login"
	case pageHome:
		return "home"
	case pageCart:
		return "cart"
	case pageCheckout:
		return "checkout"
	case pageAdmin:
		return "admin"
	}
	return "unknown"
}

// appModel is the root bubbletea model. It owns the page state machine
// and routes messages to the active page; navigation messages emitted by
// pages come back through here so every transition is guarded in one
// place.
type appModel struct {
	page      page
	sessionID string

	login    ui.LoginPageModel
	home     ui.HomePageModel
	cart     ui.CartPageModel
	checkout ui.CheckoutPageModel
	admin    ui.AdminPageModel

	deps   ui.Deps
	styles ui.Styles

	width  int
	height int
}

func newAppModel(deps ui.Deps) appModel {
	styles := ui.DefaultStyles()
	m := appModel{
		sessionID: uuid.NewString(),
		login:     ui.NewLoginPageModel(deps, styles),
		home:      ui.NewHomePageModel(deps, styles),
		cart:      ui.NewCartPageModel(deps, styles),
		checkout:  ui.NewCheckoutPageModel(deps, styles),
		admin:     ui.NewAdminPageModel(deps, styles),
		deps:      deps,
		styles:    styles,
	}

	// A persisted identity skips the login page.
	if _, ok := deps.Gate.Current(); ok {
		m.page = pageHome
	} else {
		m.page = pageLogin
	}
	logging.UI("session %s starting on page %s", m.sessionID, m.page)
	return m
}

// Init starts the login cursor blink and the business hours tick. The
// tick is owned by the home page but armed for the whole session.
func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.login.Init(), m.home.Init())
}

// Update routes messages and applies page transitions.
func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.login.SetSize(msg.Width, msg.Height)
		m.home.SetSize(msg.Width, msg.Height)
		m.cart.SetSize(msg.Width, msg.Height)
		m.checkout.SetSize(msg.Width, msg.Height)
		m.admin.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.page == pageCheckout && m.checkout.Processing() {
				if m.checkout.Teardown() {
					logging.Checkout("session %s quit cancelled a pending payment", m.sessionID)
				}
			}
			return m, tea.Quit
		}

	case ui.HoursTickMsg:
		// Always reaches the home page so the minute tick stays armed
		// no matter which page is visible.
		var cmd tea.Cmd
		m.home, cmd = m.home.Update(msg)
		return m, cmd

	case ui.LoginSuccessMsg:
		m.home.Refresh()
		return m.transition(pageHome, nil)

	case ui.LogoutMsg:
		m.deps.Gate.Logout()
		m.login = ui.NewLoginPageModel(m.deps, m.styles)
		m.login.SetSize(m.width, m.height)
		return m.transition(pageLogin, m.login.Init())

	case ui.OpenCartMsg:
		return m.transition(pageCart, nil)

	case ui.OpenAdminMsg:
		if id, ok := m.deps.Gate.Current(); !ok || !id.IsAdmin {
			return m, nil
		}
		m.admin.Refresh()
		return m.transition(pageAdmin, nil)

	case ui.GoHomeMsg:
		m.home.Refresh()
		return m.transition(pageHome, nil)

	case ui.StartCheckoutMsg:
		// Checkout is only reachable from a non-empty cart.
		if m.deps.Cart.Empty() {
			return m, nil
		}
		m.checkout = ui.NewCheckoutPageModel(m.deps, m.styles)
		m.checkout.SetSize(m.width, m.height)
		return m.transition(pageCheckout, m.checkout.Begin())

	case ui.CheckoutAbortedMsg:
		if m.page == pageCheckout {
			return m.transition(pageCart, nil)
		}
		return m, nil
	}

	return m.routeToActive(msg)
}

func (m appModel) transition(to page, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if m.page != to {
		logging.UI("session %s page %s -> %s", m.sessionID, m.page, to)
	}
	m.page = to
	return m, cmd
}

func (m appModel) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.page {
	case pageLogin:
		m.login, cmd = m.login.Update(msg)
	case pageHome:
		m.home, cmd = m.home.Update(msg)
	case pageCart:
		m.cart, cmd = m.cart.Update(msg)
	case pageCheckout:
		m.checkout, cmd = m.checkout.Update(msg)
	case pageAdmin:
		m.admin, cmd = m.admin.Update(msg)
	}
	return m, cmd
}

// View renders the active page.
func (m appModel) View() string {
	switch m.page {
	case pageLogin:
		return m.login.View()
	case pageHome:
		return m.home.View()
	case pageCart:
		return m.cart.View()
	case pageCheckout:
		return m.checkout.View()
	case pageAdmin:
		return m.admin.View()
	}
	return ""
}
