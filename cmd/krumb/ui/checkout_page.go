package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"krumb/internal/checkout"
	"krumb/internal/hours"
)

// CheckoutPageModel drives the simulated payment. While processing it
// swallows every key so the pending task cannot be navigated away from;
// once settled it shows the receipt.
type CheckoutPageModel struct {
	width  int
	height int

	task    *checkout.Task
	spinner spinner.Model
	result  *checkout.Result

	deps   Deps
	styles Styles
}

// NewCheckoutPageModel creates the checkout page.
func NewCheckoutPageModel(deps Deps, styles Styles) CheckoutPageModel {
	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = styles.Spinner
	return CheckoutPageModel{spinner: sp, deps: deps, styles: styles}
}

// Begin starts the payment task for the current cart and identity and
// returns the command that waits for it to settle.
func (m *CheckoutPageModel) Begin() tea.Cmd {
	id, ok := m.deps.Gate.Current()
	if !ok || m.deps.Cart.Empty() {
		return func() tea.Msg { return CheckoutAbortedMsg{} }
	}

	resCh := make(chan checkout.Result, 1)
	m.task = m.deps.Checkout.Start(m.deps.Cart.Total(), id, func(r checkout.Result) {
		resCh <- r
	})
	task := m.task

	wait := func() tea.Msg {
		<-task.Done()
		// The result, if any, was sent before the task closed.
		select {
		case r := <-resCh:
			return CheckoutDoneMsg{Result: r}
		default:
			return CheckoutAbortedMsg{}
		}
	}
	return tea.Batch(m.spinner.Tick, wait)
}

// Teardown cancels a still-pending task. Reports whether the
// cancellation won.
func (m *CheckoutPageModel) Teardown() bool {
	if m.task == nil {
		return false
	}
	return m.task.Cancel()
}

// Processing reports whether the payment is still in flight.
func (m CheckoutPageModel) Processing() bool {
	return m.task != nil && m.result == nil
}

// Init initializes the model.
func (m CheckoutPageModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m CheckoutPageModel) Update(msg tea.Msg) (CheckoutPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.Processing() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case CheckoutDoneMsg:
		res := msg.Result
		m.result = &res
		return m, nil

	case tea.KeyMsg:
		if m.Processing() {
			return m, nil
		}
		switch msg.String() {
		case "enter", "h":
			return m, func() tea.Msg { return GoHomeMsg{} }
		case "b":
			return m, func() tea.Msg { return OpenCartMsg{} }
		case "l":
			return m, func() tea.Msg { return LogoutMsg{} }
		}
	}
	return m, nil
}

// View renders either the processing spinner or the receipt.
func (m CheckoutPageModel) View() string {
	var b strings.Builder

	if m.result == nil {
		b.WriteString(m.styles.Title.Render("إتمام الشراء"))
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + m.styles.Body.Render(" جاري معالجة الدفع..."))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Muted.Render("لا تغلق الصفحة"))
		return m.styles.Content.Render(b.String())
	}

	b.WriteString(m.styles.Success.Render("تم الطلب بنجاح"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Body.Render(fmt.Sprintf("رقم الطلب: %s", m.result.OrderRef)))
	b.WriteString("\n")
	b.WriteString(m.styles.Body.Render(fmt.Sprintf("المبلغ: %.2f ر.س", m.result.Amount)))
	b.WriteString("\n")
	b.WriteString(m.styles.Body.Render(fmt.Sprintf("الاسم: %s", m.result.Customer.Name)))
	b.WriteString("\n")
	if m.result.Customer.Phone != "" {
		b.WriteString(m.styles.Body.Render(fmt.Sprintf("الجوال: %s", m.result.Customer.Phone)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Notice.Render("الاستلام: " + hours.PickupDaysLabel + "\n" + hours.PickupHoursLabel))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Footer.Render("enter العودة للمتجر • b السلة • l خروج"))
	return m.styles.Content.Render(b.String())
}

// SetSize updates the page dimensions.
func (m *CheckoutPageModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}
