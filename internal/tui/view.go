package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/maloquacious/contactbook/internal/controller"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4CAF50")).
			Padding(0, 2)

	labelStyle        = lipgloss.NewStyle().Width(9)
	focusedLabelStyle = labelStyle.Foreground(lipgloss.Color("#4CAF50")).Bold(true)

	listStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusedListStyle = listStyle.BorderForeground(lipgloss.Color("#4CAF50"))
	cursorStyle      = lipgloss.NewStyle().Reverse(true)
	selectedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3"))

	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F44336")).Bold(true)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

const helpText = "ctrl+a add • ctrl+u update • ctrl+d delete • ctrl+f search • ctrl+r reload • ctrl+l clear • tab focus • enter select • esc quit"

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Contact Book"))
	b.WriteString("\n\n")

	for i, label := range fieldLabels {
		style := labelStyle
		if m.focus == i {
			style = focusedLabelStyle
		}
		b.WriteString(style.Render(label))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.listView())
	b.WriteString("\n")
	b.WriteString(noticeView(m.notice))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpText))
	b.WriteString("\n")

	return b.String()
}

func (m Model) listView() string {
	rows := m.ctrl.Rows()
	selected, hasSelection := m.ctrl.Selected()

	lines := make([]string, 0, m.listHeight)
	if len(rows) == 0 {
		lines = append(lines, helpStyle.Render("(no contacts)"))
	}
	end := min(m.offset+m.listHeight, len(rows))
	for i := m.offset; i < end; i++ {
		row := rows[i]
		marker := "  "
		line := row.Label
		if hasSelection && row.Contact.ID == selected.Contact.ID {
			marker = "▸ "
			line = selectedStyle.Render(line)
		}
		if i == m.cursor && m.focus == focusList {
			line = cursorStyle.Render(line)
		}
		lines = append(lines, marker+line)
	}
	for len(lines) < m.listHeight {
		lines = append(lines, "")
	}
	if len(rows) > m.listHeight {
		lines = append(lines, helpStyle.Render(fmt.Sprintf("%d-%d of %d", m.offset+1, end, len(rows))))
	}

	style := listStyle
	if m.focus == focusList {
		style = focusedListStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func noticeView(n controller.Notice) string {
	switch n.Level {
	case controller.LevelInfo:
		return infoStyle.Render(n.String())
	case controller.LevelWarning:
		return warningStyle.Render(n.String())
	case controller.LevelError:
		return errorStyle.Render(n.String())
	default:
		return ""
	}
}
