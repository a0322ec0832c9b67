package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"krumb/internal/hours"
	"krumb/internal/types"
)

// CartPageModel renders the cart review screen with quantity controls,
// the pickup schedule and the checkout entry point.
type CartPageModel struct {
	width  int
	height int

	cursor int

	deps   Deps
	styles Styles
}

// NewCartPageModel creates the cart page.
func NewCartPageModel(deps Deps, styles Styles) CartPageModel {
	return CartPageModel{deps: deps, styles: styles}
}

// Init initializes the model.
func (m CartPageModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m CartPageModel) Update(msg tea.Msg) (CartPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		lines := m.deps.Cart.Lines()
		if m.cursor >= len(lines) {
			m.cursor = max(0, len(lines)-1)
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(lines)-1 {
				m.cursor++
			}
		case "+", "right":
			if line, ok := m.selected(lines); ok {
				m.deps.Cart.SetQuantity(line.ID, line.Quantity+1)
			}
		case "-", "left":
			// Dropping to zero removes the line entirely.
			if line, ok := m.selected(lines); ok {
				m.deps.Cart.SetQuantity(line.ID, line.Quantity-1)
			}
		case "d", "delete":
			if line, ok := m.selected(lines); ok {
				m.deps.Cart.Remove(line.ID)
			}
		case "enter":
			if !m.deps.Cart.Empty() {
				return m, func() tea.Msg { return StartCheckoutMsg{} }
			}
		case "b", "esc":
			return m, func() tea.Msg { return GoHomeMsg{} }
		case "l":
			return m, func() tea.Msg { return LogoutMsg{} }
		}
	}
	return m, nil
}

func (m CartPageModel) selected(lines []types.CartLine) (types.CartLine, bool) {
	if m.cursor < 0 || m.cursor >= len(lines) {
		return types.CartLine{}, false
	}
	return lines[m.cursor], true
}

// View renders the cart page.
func (m CartPageModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("سلة المشتريات"))
	b.WriteString("\n")

	lines := m.deps.Cart.Lines()
	if len(lines) == 0 {
		b.WriteString(m.styles.Muted.Render("السلة فارغة"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Footer.Render("b رجوع للمتجر • l خروج"))
		return m.styles.Content.Render(b.String())
	}

	for i, line := range lines {
		card := m.styles.Card
		if i == m.cursor {
			card = m.styles.ActiveCard
		}
		body := fmt.Sprintf("%s\n%s × %d = %s",
			m.styles.Bold.Render(line.Name),
			m.styles.Muted.Render(fmt.Sprintf("%.2f ر.س", line.Price)),
			line.Quantity,
			m.styles.Price.Render(fmt.Sprintf("%.2f ر.س", line.Subtotal())))
		b.WriteString(card.Render(body))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Bold.Render(fmt.Sprintf("الإجمالي: %.2f ر.س", m.deps.Cart.Total())))
	b.WriteString("\n\n")

	if id, ok := m.deps.Gate.Current(); ok && !id.IsAdmin {
		b.WriteString(m.styles.Body.Render(fmt.Sprintf("الاسم: %s", id.Name)))
		b.WriteString("\n")
		b.WriteString(m.styles.Body.Render(fmt.Sprintf("الجوال: %s", id.Phone)))
		b.WriteString("\n")
		if id.PurchaseCount > 0 {
			b.WriteString(m.styles.Muted.Render(fmt.Sprintf("عدد الطلبات السابقة: %d", id.PurchaseCount)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Notice.Render("الاستلام: " + hours.PickupDaysLabel + "\n" + hours.PickupHoursLabel))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Footer.Render("+/- الكمية • d حذف • enter إتمام الشراء • b رجوع"))
	return m.styles.Content.Render(b.String())
}

// SetSize updates the page dimensions.
func (m *CartPageModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}
