package ui

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"krumb/internal/logging"
	"krumb/internal/types"
)

// adminErrInvalid is shown when an edit fails validation. The form keeps
// its values so the admin can fix the offending field.
const adminErrInvalid = "يرجى تعبئة جميع الحقول بشكل صحيح"

// AdminPageModel is the product management screen: a product list, and
// an edit form for the selected product.
type AdminPageModel struct {
	width  int
	height int

	products []types.Product
	cursor   int

	editing bool
	editID  string
	name    textinput.Model
	price   textinput.Model
	image   textinput.Model
	desc    textinput.Model
	focus   int
	errMsg  string
	savedID string

	deps   Deps
	styles Styles
}

// NewAdminPageModel creates the admin page.
func NewAdminPageModel(deps Deps, styles Styles) AdminPageModel {
	name := textinput.New()
	name.CharLimit = 64
	price := textinput.New()
	price.CharLimit = 10
	image := textinput.New()
	image.CharLimit = 256
	desc := textinput.New()
	desc.CharLimit = 256

	m := AdminPageModel{
		name:   name,
		price:  price,
		image:  image,
		desc:   desc,
		deps:   deps,
		styles: styles,
	}
	m.Refresh()
	return m
}

// Refresh re-reads the catalog list.
func (m *AdminPageModel) Refresh() {
	m.products = m.deps.Catalog.List()
	if m.cursor >= len(m.products) {
		m.cursor = 0
	}
}

// Init initializes the model.
func (m AdminPageModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m AdminPageModel) Update(msg tea.Msg) (AdminPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m AdminPageModel) updateList(msg tea.KeyMsg) (AdminPageModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.products)-1 {
			m.cursor++
		}
	case "enter", "e":
		if m.cursor < len(m.products) {
			m = m.openForm(m.products[m.cursor])
			return m, textinput.Blink
		}
	case "b", "esc":
		return m, func() tea.Msg { return GoHomeMsg{} }
	case "l":
		return m, func() tea.Msg { return LogoutMsg{} }
	}
	return m, nil
}

func (m AdminPageModel) openForm(p types.Product) AdminPageModel {
	m.editing = true
	m.editID = p.ID
	m.errMsg = ""
	m.savedID = ""
	m.name.SetValue(p.Name)
	m.price.SetValue(strconv.FormatFloat(p.Price, 'f', 2, 64))
	m.image.SetValue(p.Image)
	m.desc.SetValue(p.Description)
	m.focus = 0
	return m.applyFocus()
}

func (m AdminPageModel) applyFocus() AdminPageModel {
	inputs := m.inputs()
	for i := range inputs {
		inputs[i].Blur()
	}
	inputs[m.focus].Focus()
	return m
}

func (m *AdminPageModel) inputs() []*textinput.Model {
	return []*textinput.Model{&m.name, &m.price, &m.image, &m.desc}
}

func (m AdminPageModel) updateForm(msg tea.KeyMsg) (AdminPageModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.errMsg = ""
		return m, nil
	case "tab", "down":
		m.focus = (m.focus + 1) % 4
		return m.applyFocus(), nil
	case "shift+tab", "up":
		m.focus = (m.focus + 3) % 4
		return m.applyFocus(), nil
	case "enter":
		return m.save(), nil
	}

	var cmds []tea.Cmd
	for _, in := range m.inputs() {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// save validates the form and writes the product back to the catalog.
// Invalid input leaves the catalog untouched and surfaces an error.
func (m AdminPageModel) save() AdminPageModel {
	name := strings.TrimSpace(m.name.Value())
	priceStr := strings.TrimSpace(m.price.Value())
	image := strings.TrimSpace(m.image.Value())
	desc := strings.TrimSpace(m.desc.Value())

	price, err := strconv.ParseFloat(priceStr, 64)
	if name == "" || priceStr == "" || image == "" || err != nil || price < 0 || !plausibleURL(image) {
		m.errMsg = adminErrInvalid
		return m
	}

	p := types.Product{ID: m.editID, Name: name, Price: price, Image: image, Description: desc}
	if !m.deps.Catalog.Update(p) {
		logging.Catalog("admin edit targeted missing product %q", m.editID)
		m.errMsg = adminErrInvalid
		return m
	}

	m.editing = false
	m.errMsg = ""
	m.savedID = p.ID
	m.Refresh()
	return m
}

// plausibleURL is a shallow shape check, not a reachability probe.
func plausibleURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// View renders the list or the edit form.
func (m AdminPageModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("إدارة المنتجات"))
	b.WriteString("\n")

	if m.editing {
		labels := []string{"الاسم", "السعر", "رابط الصورة", "الوصف"}
		for i, in := range []textinput.Model{m.name, m.price, m.image, m.desc} {
			b.WriteString(m.styles.Body.Render(labels[i]) + "\n")
			b.WriteString(in.View() + "\n")
		}
		b.WriteString("\n")
		if m.errMsg != "" {
			b.WriteString(m.styles.Error.Render(m.errMsg))
			b.WriteString("\n")
		}
		b.WriteString(m.styles.Footer.Render("tab تنقل • enter حفظ • esc إلغاء"))
		return m.styles.Content.Render(b.String())
	}

	for i, p := range m.products {
		card := m.styles.Card
		if i == m.cursor {
			card = m.styles.ActiveCard
		}
		body := fmt.Sprintf("%s  %s\n%s",
			m.styles.Bold.Render(p.Name),
			m.styles.Price.Render(fmt.Sprintf("%.2f ر.س", p.Price)),
			m.styles.Muted.Render(p.Image))
		b.WriteString(card.Render(body))
		b.WriteString("\n")
	}

	if m.savedID != "" {
		b.WriteString(m.styles.Success.Render("تم حفظ التعديلات"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("enter تعديل • b رجوع للمتجر • l خروج"))
	return m.styles.Content.Render(b.String())
}

// SetSize updates the page dimensions.
func (m *AdminPageModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	for _, in := range m.inputs() {
		in.Width = min(60, max(20, width-8))
	}
}
