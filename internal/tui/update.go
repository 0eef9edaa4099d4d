package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/replan/internal/tui/components/templates"
	"github.com/julianstephens/replan/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateClockForm:
		return m.updateClockForm(msg)
	case StateConfirmReset:
		return m.updateConfirmReset(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// tabs, status line and help take the remaining rows
		m.timetable.SetSize(msg.Width-4, msg.Height-8)
		m.templates.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case templates.LoadTemplateMsg:
		before := m.sess.Get()
		if !m.sess.LoadTemplate(msg.Name) {
			m.setStatus("", fmt.Errorf("template %q not found", msg.Name))
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Loaded template %q.", msg.Name), m.save(nil))
		m.state = StateTimetable
		m.refresh(m.sess.Get(), before)
		return m, nil

	case templates.DeleteTemplateMsg:
		if m.sess.DeleteTemplate(msg.Name) {
			m.setStatus(fmt.Sprintf("Deleted template %q.", msg.Name), m.save(nil))
		}
		m.refresh(m.sess.Get(), nil)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + SessionState(len(tabTitles))) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		if m.state == StateTimetable {
			switch {
			case key.Matches(msg, m.keys.Solve):
				m.solve()
				return m, nil
			case key.Matches(msg, m.keys.Undo):
				m.step(m.sess.Undo, "Undone.", "Nothing to undo.")
				return m, nil
			case key.Matches(msg, m.keys.Redo):
				m.step(m.sess.Redo, "Redone.", "Nothing to redo.")
				return m, nil
			case key.Matches(msg, m.keys.Reset):
				m.state = StateConfirmReset
				return m, nil
			case key.Matches(msg, m.keys.Clock):
				return m, m.openClockForm()
			case key.Matches(msg, m.keys.ClearClock):
				m.sess.ClearClock()
				m.setStatus("Clock cleared.", m.save(nil))
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateTimetable:
		m.timetable, cmd = m.timetable.Update(msg)
	case StateTemplates:
		m.templates, cmd = m.templates.Update(msg)
	}
	return m, cmd
}

func (m *Model) solve() {
	before := m.sess.Get()
	out, err := m.solver.Solve(context.Background(), m.sess, m.bounds)
	if err != nil {
		m.setStatus("", err)
		return
	}
	msg := out.Status.Message()
	if out.BestScore >= 0 {
		msg = fmt.Sprintf("%s Score %d across %d candidate(s).", msg, out.BestScore, out.Candidates)
	}
	m.setStatus(msg, m.save(&out))
	m.refresh(m.sink.last, before)
}

func (m *Model) step(move func() bool, done, empty string) {
	before := m.sess.Get()
	if !move() {
		m.setStatus(empty, nil)
		return
	}
	m.setStatus(done, m.save(nil))
	m.refresh(m.sess.Get(), before)
}

func (m Model) updateConfirmReset(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			before := m.sess.Get()
			m.sess.ResetToDefault()
			m.setStatus("Reset to default timetable.", m.save(nil))
			m.refresh(m.sess.Get(), before)
			m.state = StateTimetable
		case "n", "N", "esc":
			m.state = StateTimetable
		}
	}
	return m, nil
}

func (m *Model) openClockForm() tea.Cmd {
	m.clockForm = &ClockFormModel{}
	if now, ok := m.sess.Clock(); ok {
		m.clockForm.Time = utils.FormatMinutes(now)
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Current time (HH:MM)").
				Value(&m.clockForm.Time).
				Validate(func(s string) error {
					_, err := utils.ParseTimeToMinutes(s)
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula())
	m.state = StateClockForm
	return m.form.Init()
}

func (m Model) updateClockForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateTimetable
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		minutes, err := utils.ParseTimeToMinutes(m.clockForm.Time)
		if err == nil {
			m.sess.SetClock(minutes)
			err = m.save(nil)
		}
		m.setStatus(fmt.Sprintf("Clock set to %s.", utils.FormatMinutes(minutes)), err)
		m.state = StateTimetable
	case huh.StateAborted:
		m.state = StateTimetable
	}
	return m, cmd
}
