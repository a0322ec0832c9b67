package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"krumb/internal/hours"
	"krumb/internal/logging"
	"krumb/internal/types"
)

// maxLineQuantity caps the per-product quantity selector.
const maxLineQuantity = 99

// HomePageModel renders the product storefront. While the bakery is
// closed it collapses to a notice screen for customers; the admin keeps
// the full storefront with a warning banner.
type HomePageModel struct {
	width  int
	height int

	products []types.Product
	cursor   int
	quantity map[string]int

	open     bool
	nextOpen string

	deps   Deps
	styles Styles
}

// NewHomePageModel creates the storefront page.
func NewHomePageModel(deps Deps, styles Styles) HomePageModel {
	now := time.Now()
	m := HomePageModel{
		quantity: make(map[string]int),
		open:     hours.IsOpen(now),
		nextOpen: hours.NextOpenDay(now),
		deps:     deps,
		styles:   styles,
	}
	m.Refresh()
	return m
}

// Refresh re-reads the catalog. Called after admin edits and when the
// page becomes visible again.
func (m *HomePageModel) Refresh() {
	m.products = m.deps.Catalog.List()
	if m.cursor >= len(m.products) {
		m.cursor = 0
	}
	for _, p := range m.products {
		if m.quantity[p.ID] == 0 {
			m.quantity[p.ID] = 1
		}
	}
}

// Init starts the minute tick that drives the business hours gate.
func (m HomePageModel) Init() tea.Cmd {
	return hoursTick()
}

func hoursTick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg { return HoursTickMsg{At: t} })
}

// Update handles messages.
func (m HomePageModel) Update(msg tea.Msg) (HomePageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case HoursTickMsg:
		wasOpen := m.open
		m.open = hours.IsOpen(msg.At)
		m.nextOpen = hours.NextOpenDay(msg.At)
		if wasOpen != m.open {
			logging.Hours("storefront gate flipped: open=%v", m.open)
		}
		return m, hoursTick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m HomePageModel) handleKey(msg tea.KeyMsg) (HomePageModel, tea.Cmd) {
	admin := m.isAdmin()

	// A closed storefront leaves customers with logout only.
	if !m.open && !admin {
		if msg.String() == "l" || msg.String() == "q" {
			return m, func() tea.Msg { return LogoutMsg{} }
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.products)-1 {
			m.cursor++
		}
	case "+", "right":
		if p, ok := m.selected(); ok && m.quantity[p.ID] < maxLineQuantity {
			m.quantity[p.ID]++
		}
	case "-", "left":
		if p, ok := m.selected(); ok && m.quantity[p.ID] > 1 {
			m.quantity[p.ID]--
		}
	case "enter", " ":
		if p, ok := m.selected(); ok {
			n := m.quantity[p.ID]
			for i := 0; i < n; i++ {
				m.deps.Cart.Add(p)
			}
			m.quantity[p.ID] = 1
		}
	case "c":
		return m, func() tea.Msg { return OpenCartMsg{} }
	case "a":
		if admin {
			return m, func() tea.Msg { return OpenAdminMsg{} }
		}
	case "l":
		return m, func() tea.Msg { return LogoutMsg{} }
	}
	return m, nil
}

func (m HomePageModel) selected() (types.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.products) {
		return types.Product{}, false
	}
	return m.products[m.cursor], true
}

func (m HomePageModel) isAdmin() bool {
	id, ok := m.deps.Gate.Current()
	return ok && id.IsAdmin
}

// View renders the storefront or the closed notice.
func (m HomePageModel) View() string {
	if !m.open && !m.isAdmin() {
		return m.closedView()
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	if !m.open {
		b.WriteString(m.styles.Warning.Render("المتجر مغلق حالياً، أنت تتصفح كمدير"))
		b.WriteString("\n\n")
	}

	for i, p := range m.products {
		card := m.styles.Card
		if i == m.cursor {
			card = m.styles.ActiveCard
		}
		body := fmt.Sprintf("%s\n%s\n%s  ×%d",
			m.styles.Bold.Render(p.Name),
			m.styles.Muted.Render(p.Description),
			m.styles.Price.Render(fmt.Sprintf("%.2f ر.س", p.Price)),
			m.quantity[p.ID])
		b.WriteString(card.Render(body))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(hours.OrderingDaysLabel + " • " + hours.OrderingHoursLabel))
	b.WriteString("\n")
	b.WriteString(m.footer())
	return m.styles.Content.Render(b.String())
}

func (m HomePageModel) closedView() string {
	var b strings.Builder
	b.WriteString(Logo(m.styles))
	b.WriteString("\n")
	b.WriteString(m.styles.Notice.Render(
		"المتجر مغلق حالياً\n" +
			hours.OrderingDaysLabel + "\n" +
			hours.OrderingHoursLabel + "\n" +
			"أقرب يوم للطلب: " + m.nextOpen))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Footer.Render("l تسجيل الخروج • ctrl+c خروج"))
	return m.styles.Content.Render(b.String())
}

func (m HomePageModel) header() string {
	who := ""
	if id, ok := m.deps.Gate.Current(); ok {
		who = id.Name
	}
	badge := m.styles.Badge.Render(fmt.Sprintf("السلة %d", m.deps.Cart.Count()))
	return m.styles.Header.Render("تشوكو كرمب") + "  " + m.styles.Body.Render(who) + "  " + badge
}

func (m HomePageModel) footer() string {
	hints := "↑/↓ تنقل • +/- الكمية • enter أضف للسلة • c السلة • l خروج"
	if m.isAdmin() {
		hints += " • a إدارة المنتجات"
	}
	return m.styles.Footer.Render(hints)
}

// SetSize updates the page dimensions.
func (m *HomePageModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}
