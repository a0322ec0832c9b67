package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"krumb/internal/logging"
	"krumb/internal/session"
	"krumb/internal/types"
)

// loginMode selects which of the two login tabs is active.
type loginMode int

const (
	loginCustomer loginMode = iota
	loginAdmin
)

// LoginPageModel renders the customer/admin entry screen. Field
// validation happens before the simulated verification delay; a wrong
// admin password only surfaces after it, mirroring a real round trip.
type LoginPageModel struct {
	width  int
	height int

	mode     loginMode
	name     textinput.Model
	phone    textinput.Model
	password textinput.Model
	focus    int

	verifying bool
	spinner   spinner.Model
	errMsg    string

	deps   Deps
	styles Styles
}

// NewLoginPageModel creates the login page.
func NewLoginPageModel(deps Deps, styles Styles) LoginPageModel {
	name := textinput.New()
	name.Placeholder = "الاسم"
	name.CharLimit = 64
	name.Focus()

	phone := textinput.New()
	phone.Placeholder = "05XXXXXXXX"
	phone.CharLimit = 10

	password := textinput.New()
	password.Placeholder = "كلمة المرور"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return LoginPageModel{
		mode:     loginCustomer,
		name:     name,
		phone:    phone,
		password: password,
		spinner:  sp,
		deps:     deps,
		styles:   styles,
	}
}

// Init initializes the model.
func (m LoginPageModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m LoginPageModel) Update(msg tea.Msg) (LoginPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.verifying {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case LoginVerifiedMsg:
		return m.finishLogin()

	case tea.KeyMsg:
		if m.verifying {
			// No edits while the verification spinner runs.
			return m, nil
		}
		switch msg.String() {
		case "ctrl+t":
			return m.toggleMode(), nil
		case "tab", "down":
			return m.cycleFocus(1), nil
		case "shift+tab", "up":
			return m.cycleFocus(-1), nil
		case "enter":
			return m.submit()
		}
	}

	return m.updateInputs(msg)
}

func (m LoginPageModel) toggleMode() LoginPageModel {
	if m.mode == loginCustomer {
		m.mode = loginAdmin
	} else {
		m.mode = loginCustomer
	}
	m.errMsg = ""
	m.focus = 0
	return m.applyFocus()
}

func (m LoginPageModel) cycleFocus(dir int) LoginPageModel {
	n := 2
	if m.mode == loginAdmin {
		n = 1
	}
	m.focus = (m.focus + dir + n) % n
	return m.applyFocus()
}

func (m LoginPageModel) applyFocus() LoginPageModel {
	m.name.Blur()
	m.phone.Blur()
	m.password.Blur()
	switch {
	case m.mode == loginAdmin:
		m.password.Focus()
	case m.focus == 0:
		m.name.Focus()
	default:
		m.phone.Focus()
	}
	return m
}

func (m LoginPageModel) updateInputs(msg tea.Msg) (LoginPageModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	cmds = append(cmds, cmd)
	m.phone, cmd = m.phone.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit runs the cheap field checks immediately and defers the actual
// credential check until after the verification delay.
func (m LoginPageModel) submit() (LoginPageModel, tea.Cmd) {
	m.errMsg = ""
	switch m.mode {
	case loginCustomer:
		name := strings.TrimSpace(m.name.Value())
		phone := strings.TrimSpace(m.phone.Value())
		if name == "" || phone == "" {
			m.errMsg = session.ErrMissingFields.Error()
			return m, nil
		}
		if !session.ValidPhone(phone) {
			m.errMsg = session.ErrBadPhone.Error()
			return m, nil
		}
	case loginAdmin:
		if strings.TrimSpace(m.password.Value()) == "" {
			m.errMsg = session.ErrMissingFields.Error()
			return m, nil
		}
	}

	m.verifying = true
	delay := m.deps.Config.GetLoginDelay()
	verify := tea.Tick(delay, func(time.Time) tea.Msg { return LoginVerifiedMsg{} })
	return m, tea.Batch(m.spinner.Tick, verify)
}

func (m LoginPageModel) finishLogin() (LoginPageModel, tea.Cmd) {
	m.verifying = false

	var id types.Identity
	var err error
	if m.mode == loginAdmin {
		id, err = m.deps.Gate.LoginAdmin(m.password.Value())
	} else {
		id, err = m.deps.Gate.LoginCustomer(m.name.Value(), m.phone.Value())
	}
	if err != nil {
		m.errMsg = err.Error()
		m.password.SetValue("")
		return m, nil
	}
	logging.Session("login page: %s signed in", id.Name)
	return m, func() tea.Msg { return LoginSuccessMsg{Identity: id} }
}

// View renders the login page.
func (m LoginPageModel) View() string {
	var b strings.Builder

	b.WriteString(Logo(m.styles))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("مخبز تشوكو كرمب"))
	b.WriteString("\n\n")

	customerTab := "  دخول العملاء  "
	adminTab := "  دخول المدير  "
	if m.mode == loginCustomer {
		customerTab = m.styles.Selected.Render(customerTab)
		adminTab = m.styles.Muted.Render(adminTab)
	} else {
		customerTab = m.styles.Muted.Render(customerTab)
		adminTab = m.styles.Selected.Render(adminTab)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, customerTab, "│", adminTab))
	b.WriteString("\n\n")

	if m.mode == loginCustomer {
		b.WriteString(m.styles.Body.Render("الاسم") + "\n")
		b.WriteString(m.name.View() + "\n\n")
		b.WriteString(m.styles.Body.Render("رقم الجوال") + "\n")
		b.WriteString(m.phone.View() + "\n")
	} else {
		b.WriteString(m.styles.Body.Render("كلمة المرور") + "\n")
		b.WriteString(m.password.View() + "\n")
	}

	b.WriteString("\n")
	if m.verifying {
		b.WriteString(m.spinner.View() + m.styles.Muted.Render(" جاري التحقق..."))
	} else if m.errMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errMsg))
	}
	b.WriteString("\n\n")
	b.WriteString(m.styles.Footer.Render("enter تسجيل الدخول • ctrl+t تبديل • ctrl+c خروج"))

	return m.styles.Content.Render(b.String())
}

// SetSize updates the page dimensions.
func (m *LoginPageModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	for _, in := range []*textinput.Model{&m.name, &m.phone, &m.password} {
		in.Width = min(40, max(20, width-8))
	}
}
