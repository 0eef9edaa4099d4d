package templates

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/replan/internal/models"
	"github.com/julianstephens/replan/internal/utils"
)

type LoadTemplateMsg struct {
	Name string
}

type DeleteTemplateMsg struct {
	Name string
}

type Item struct {
	Name      string
	Timetable models.Timetable
}

func (i Item) Title() string { return i.Name }

func (i Item) Description() string {
	if len(i.Timetable) == 0 {
		return "empty"
	}
	first, last := i.Timetable[0], i.Timetable[len(i.Timetable)-1]
	return fmt.Sprintf("%d activities | %s-%s", len(i.Timetable), utils.FormatMinutes(first.Start), utils.FormatMinutes(last.End()))
}

func (i Item) FilterValue() string { return i.Name }

type KeyMap struct {
	Load   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Load: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "load"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(templates map[string]models.Timetable, width, height int) Model {
	l := list.New(items(templates), list.NewDefaultDelegate(), width, height)
	l.Title = "Templates"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Load, keys.Delete}
	}
	return Model{list: l, keys: keys}
}

func items(templates map[string]models.Timetable) []list.Item {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]list.Item, len(names))
	for i, name := range names {
		out[i] = Item{Name: name, Timetable: templates[name]}
	}
	return out
}

func (m *Model) SetTemplates(templates map[string]models.Timetable) {
	m.list.SetItems(items(templates))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Load):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return LoadTemplateMsg{Name: i.Name} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteTemplateMsg{Name: i.Name} }
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No templates yet.\n  Save one with 'replan template save <name>'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
