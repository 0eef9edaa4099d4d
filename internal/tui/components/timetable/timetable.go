package timetable

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/replan/internal/models"
	"github.com/julianstephens/replan/internal/render"
)

type Model struct {
	viewport viewport.Model
	tt       models.Timetable
	baseline models.Timetable
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetTimetable shows tt, highlighting changes against baseline when it is non-nil.
func (m *Model) SetTimetable(tt, baseline models.Timetable) {
	m.tt = tt.Clone()
	m.baseline = nil
	if baseline != nil {
		m.baseline = baseline.Clone()
	}
	m.Render()
}

// Timetable returns the timetable currently shown.
func (m Model) Timetable() models.Timetable {
	return m.tt.Clone()
}

func (m *Model) Render() {
	m.viewport.SetContent(render.Table(m.tt, m.baseline))
}
