package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/replan/internal/models"
	"github.com/julianstephens/replan/internal/search"
	"github.com/julianstephens/replan/internal/solver"
	"github.com/julianstephens/replan/internal/state"
	"github.com/julianstephens/replan/internal/tui/components/templates"
	"github.com/julianstephens/replan/internal/tui/components/timetable"
	"github.com/julianstephens/replan/internal/validation"
)

type SessionState int

const (
	StateTimetable SessionState = iota
	StateTemplates
	StateConfirmReset
	StateClockForm
)

var tabTitles = []string{"Timetable", "Templates"}

// PersistFunc saves the session after a change. out is non-nil after a solve.
type PersistFunc func(sess *state.Session, out *solver.Outcome) error

// scheduleSink receives the solver's committed timetable. It is shared by
// pointer so that copies of the bubbletea model see the same value.
type scheduleSink struct {
	last models.Timetable
}

func (s *scheduleSink) RenderSchedule(tt models.Timetable) {
	s.last = tt
}

type ClockFormModel struct {
	Time string
}

type Model struct {
	sess      *state.Session
	solver    *solver.Solver
	sink      *scheduleSink
	bounds    models.DayBounds
	validator *validation.Validator
	persist   PersistFunc

	state     SessionState
	keys      KeyMap
	help      help.Model
	timetable timetable.Model
	templates templates.Model
	form      *huh.Form
	clockForm *ClockFormModel
	status    string
	statusErr bool
	warning   string
	quitting  bool
	width     int
	height    int
}

// NewModel builds the viewer over sess. persist may be nil.
func NewModel(sess *state.Session, searcher *search.Searcher, bounds models.DayBounds, persist PersistFunc) Model {
	if persist == nil {
		persist = func(*state.Session, *solver.Outcome) error { return nil }
	}
	sink := &scheduleSink{}
	m := Model{
		sess:      sess,
		solver:    solver.New(solver.WithSearcher(searcher), solver.WithRenderer(sink)),
		sink:      sink,
		bounds:    bounds,
		validator: validation.New(bounds),
		persist:   persist,
		state:     StateTimetable,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		timetable: timetable.New(0, 0),
		templates: templates.New(sess.Templates(), 0, 0),
	}
	m.refresh(sess.Get(), nil)
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == StateTimetable {
		keys = append(keys, m.keys.Solve, m.keys.Undo, m.keys.Redo)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}
	var actions []key.Binding
	if m.state == StateTimetable {
		actions = []key.Binding{m.keys.Solve, m.keys.Undo, m.keys.Redo, m.keys.Reset, m.keys.Clock, m.keys.ClearClock}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh redraws the components and re-runs validation on current.
func (m *Model) refresh(current, baseline models.Timetable) {
	m.timetable.SetTimetable(current, baseline)
	m.templates.SetTemplates(m.sess.Templates())

	res := m.validator.Validate(current)
	if res.Valid {
		m.warning = ""
	} else {
		m.warning = fmt.Sprintf("⚠ %d violation(s)", len(res.Violations))
	}
}

func (m *Model) setStatus(msg string, err error) {
	if err != nil {
		m.status = err.Error()
		m.statusErr = true
		return
	}
	m.status = msg
	m.statusErr = false
}

func (m *Model) save(out *solver.Outcome) error {
	return m.persist(m.sess, out)
}
