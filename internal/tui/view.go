package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/replan/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateTimetable:
		content = docStyle.Render(m.timetable.View())
	case StateTemplates:
		content = docStyle.Render(m.templates.View())
	case StateConfirmReset:
		content = m.viewConfirmReset()
	case StateClockForm:
		content = docStyle.Render(m.form.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	clock := "clock unset"
	if now, ok := m.sess.Clock(); ok {
		clock = "clock " + utils.FormatMinutes(now)
	}
	day := utils.FormatMinutes(m.bounds.Start) + "-" + utils.FormatMinutes(m.bounds.End)
	tabs = append(tabs, infoStyle.Render("  "+day+" | "+clock))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	var parts []string
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, errorStyle.Render(m.status))
		} else {
			parts = append(parts, statusStyle.Render(m.status))
		}
	}
	if m.warning != "" {
		parts = append(parts, warningStyle.Render(m.warning))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) viewConfirmReset() string {
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Replace the current timetable with the default?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
