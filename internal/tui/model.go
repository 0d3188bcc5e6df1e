// Package tui is the interactive contact book: a four-field form, the
// action keys, and a scrollable single-selection list.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/maloquacious/contactbook/internal/controller"
)

const (
	fieldName = iota
	fieldPhone
	fieldEmail
	fieldAddress
	focusList

	focusCount
)

var fieldLabels = [...]string{"Name", "Phone", "Email", "Address"}

const (
	defaultListHeight = 10
	minListHeight     = 3

	// chrome is the number of screen lines used by everything but the list.
	chrome = 14
)

// Model is the bubbletea model for the contact book.
type Model struct {
	ctx    context.Context
	ctrl   *controller.Controller
	inputs []textinput.Model
	focus  int

	cursor     int
	offset     int
	listHeight int

	notice controller.Notice
}

// New builds the model and loads the initial list.
func New(ctx context.Context, ctrl *controller.Controller) Model {
	m := Model{
		ctx:        ctx,
		ctrl:       ctrl,
		inputs:     make([]textinput.Model, len(fieldLabels)),
		listHeight: defaultListHeight,
	}
	for i, label := range fieldLabels {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = label
		ti.CharLimit = 0 // no limit
		ti.Width = 40
		m.inputs[i] = ti
	}
	m.inputs[fieldName].Focus()

	m.apply(ctrl.Load(ctx))
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, ctrl *controller.Controller) error {
	p := tea.NewProgram(New(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.listHeight = max(msg.Height-chrome, minListHeight)
		m.scroll()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			return m, m.setFocus((m.focus + 1) % focusCount)
		case "shift+tab":
			return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
		case "ctrl+a":
			m.apply(m.ctrl.Add(m.ctx, m.form()))
			return m, nil
		case "ctrl+u":
			m.apply(m.ctrl.Update(m.ctx, m.form()))
			return m, nil
		case "ctrl+d":
			m.apply(m.ctrl.Delete(m.ctx))
			return m, nil
		case "ctrl+f":
			m.apply(m.ctrl.Search(m.ctx, m.inputs[fieldName].Value()))
			return m, nil
		case "ctrl+r":
			m.apply(m.ctrl.Load(m.ctx))
			return m, nil
		case "ctrl+l":
			m.clearForm()
			return m, nil
		}

		if m.focus == focusList {
			m.updateList(msg)
			return m, nil
		}
	}

	if m.focus < focusList {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) {
	rows := m.ctrl.Rows()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(len(rows)-1, 0)
	case "enter", " ":
		if m.cursor < len(rows) {
			row := rows[m.cursor]
			if err := m.ctrl.Select(row.Contact.ID); err == nil {
				m.fill(controller.FormFrom(row.Contact))
				m.notice = controller.Notice{}
			}
		}
	}
	m.scroll()
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

// apply records the notice and brings the form and cursor in line with
// the rebuilt projection.
func (m *Model) apply(out controller.Outcome) {
	m.notice = out.Notice
	if out.ClearForm {
		m.clearForm()
	}
	if n := len(m.ctrl.Rows()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	m.scroll()
}

// scroll keeps the cursor inside the visible window.
func (m *Model) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.listHeight {
		m.offset = m.cursor - m.listHeight + 1
	}
	if maxOffset := max(len(m.ctrl.Rows())-m.listHeight, 0); m.offset > maxOffset {
		m.offset = maxOffset
	}
}

func (m Model) form() controller.Form {
	return controller.Form{
		Name:    m.inputs[fieldName].Value(),
		Phone:   m.inputs[fieldPhone].Value(),
		Email:   m.inputs[fieldEmail].Value(),
		Address: m.inputs[fieldAddress].Value(),
	}
}

func (m *Model) fill(f controller.Form) {
	m.inputs[fieldName].SetValue(f.Name)
	m.inputs[fieldPhone].SetValue(f.Phone)
	m.inputs[fieldEmail].SetValue(f.Email)
	m.inputs[fieldAddress].SetValue(f.Address)
}

func (m *Model) clearForm() {
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
}
