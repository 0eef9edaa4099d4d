// Package state owns the canonical timetable of a session together with its
// undo/redo history, named templates and per-date template overrides.
//
// Every read returns a copy and every write stores a copy, so callers never
// hold a reference into the session. A Session is not safe for concurrent use.
package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/julianstephens/replan/internal/models"
)

// ErrMalformedTemplates is returned by ImportTemplates when the text is not a
// valid template mapping.
var ErrMalformedTemplates = errors.New("malformed template data")

// Session is an explicitly owned timetable state.
type Session struct {
	defaultTT    models.Timetable
	current      models.Timetable
	undo         []models.Timetable
	redo         []models.Timetable
	historyLimit int
	templates    map[string]models.Timetable
	overrides    map[string]string
	clock        *int
}

// Option configures a Session.
type Option func(*Session)

// WithHistoryLimit caps the undo stack; the oldest snapshots are dropped first.
// Zero or a negative value keeps the history unbounded.
func WithHistoryLimit(n int) Option {
	return func(s *Session) {
		s.historyLimit = n
	}
}

// NewSession creates an empty session.
func NewSession(opts ...Option) *Session {
	s := &Session{
		defaultTT: models.Timetable{},
		current:   models.Timetable{},
		templates: make(map[string]models.Timetable),
		overrides: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetDefault seeds both the default and the current timetable. History is left alone.
func (s *Session) SetDefault(tt models.Timetable) {
	s.defaultTT = tt.Clone()
	s.current = tt.Clone()
}

// Default returns a copy of the default timetable.
func (s *Session) Default() models.Timetable {
	return s.defaultTT.Clone()
}

// Get returns a copy of the current timetable.
func (s *Session) Get() models.Timetable {
	return s.current.Clone()
}

// Set replaces the current timetable, recording the previous one for undo.
func (s *Session) Set(tt models.Timetable) {
	s.pushUndo(s.current)
	s.redo = nil
	s.current = tt.Clone()
}

// Undo restores the previous timetable. It reports false when there is nothing to undo.
func (s *Session) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	s.redo = append(s.redo, s.current)
	s.current = s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	return true
}

// Redo re-applies the last undone change. It reports false when there is nothing to redo.
func (s *Session) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}
	s.pushUndo(s.current)
	s.current = s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	return true
}

// CanUndo reports whether Undo would change anything.
func (s *Session) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether Redo would change anything.
func (s *Session) CanRedo() bool { return len(s.redo) > 0 }

// HistoryDepth returns the sizes of the undo and redo stacks.
func (s *Session) HistoryDepth() (undo, redo int) {
	return len(s.undo), len(s.redo)
}

// ResetToDefault behaves like Set(Default()).
func (s *Session) ResetToDefault() {
	s.Set(s.defaultTT)
}

func (s *Session) pushUndo(tt models.Timetable) {
	s.undo = append(s.undo, tt.Clone())
	if s.historyLimit > 0 && len(s.undo) > s.historyLimit {
		s.undo = append([]models.Timetable(nil), s.undo[len(s.undo)-s.historyLimit:]...)
	}
}

// SaveTemplate stores a start-ordered copy of tt under name, replacing any
// previous template. Records that would not survive ImportTemplates are
// rejected and the store is left unchanged.
func (s *Session) SaveTemplate(name string, tt models.Timetable) error {
	for _, a := range tt {
		if err := a.Check(); err != nil {
			return err
		}
	}
	saved := tt.Clone()
	saved.SortByStart()
	s.templates[name] = saved
	return nil
}

// LoadTemplate makes the named template current, recording history. It
// reports false, leaving the session untouched, when the name is unknown.
func (s *Session) LoadTemplate(name string) bool {
	tt, ok := s.templates[name]
	if !ok {
		return false
	}
	loaded := tt.Clone()
	loaded.SortByStart()
	s.Set(loaded)
	return true
}

// DeleteTemplate removes a template. It reports false when the name is unknown.
func (s *Session) DeleteTemplate(name string) bool {
	if _, ok := s.templates[name]; !ok {
		return false
	}
	delete(s.templates, name)
	return true
}

// TemplateNames returns the stored template names, sorted.
func (s *Session) TemplateNames() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Templates returns a copy of the whole template store.
func (s *Session) Templates() map[string]models.Timetable {
	return cloneTemplates(s.templates)
}

// ExportTemplates serializes the template store as an indented JSON object
// mapping names to activity arrays.
func (s *Session) ExportTemplates() (string, error) {
	data, err := json.MarshalIndent(s.templates, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to export templates: %w", err)
	}
	return string(data), nil
}

// ImportTemplates merges templates from text produced by ExportTemplates,
// overwriting templates with the same name. Malformed input leaves the store
// unchanged and returns an error wrapping ErrMalformedTemplates.
func (s *Session) ImportTemplates(text string) error {
	parsed, err := ParseTemplates(text)
	if err != nil {
		return err
	}
	for name, tt := range parsed {
		s.templates[name] = tt
	}
	return nil
}

// ParseTemplates decodes exported template text without touching any session.
func ParseTemplates(text string) (map[string]models.Timetable, error) {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object of template names", ErrMalformedTemplates)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTemplates, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after template object", ErrMalformedTemplates)
	}

	parsed := make(map[string]models.Timetable, len(raw))
	for name, body := range raw {
		if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
			return nil, fmt.Errorf("%w: template %q is null", ErrMalformedTemplates, name)
		}
		var tt models.Timetable
		if err := json.Unmarshal(body, &tt); err != nil {
			return nil, fmt.Errorf("%w: template %q: %v", ErrMalformedTemplates, name, err)
		}
		if tt == nil {
			tt = models.Timetable{}
		}
		tt.SortByStart()
		parsed[name] = tt
	}
	return parsed, nil
}

// SetDayOverride selects the template that seeds the timetable of date.
func (s *Session) SetDayOverride(date, templateName string) {
	s.overrides[date] = templateName
}

// ClearDayOverride removes the override for date.
func (s *Session) ClearDayOverride(date string) {
	delete(s.overrides, date)
}

// TemplateForDate returns the template name chosen for date, if any.
func (s *Session) TemplateForDate(date string) (string, bool) {
	name, ok := s.overrides[date]
	return name, ok
}

// DayOverrides returns a copy of the date to template mapping.
func (s *Session) DayOverrides() map[string]string {
	out := make(map[string]string, len(s.overrides))
	for k, v := range s.overrides {
		out[k] = v
	}
	return out
}

// SetClock records the current time in minutes since midnight.
func (s *Session) SetClock(minutes int) {
	s.clock = &minutes
}

// ClearClock unsets the clock.
func (s *Session) ClearClock() {
	s.clock = nil
}

// Clock returns the recorded time and whether it is set.
func (s *Session) Clock() (int, bool) {
	if s.clock == nil {
		return 0, false
	}
	return *s.clock, true
}

// Record returns a persistable deep copy of the session.
func (s *Session) Record() models.SessionRecord {
	rec := models.SessionRecord{
		Default:   s.defaultTT.Clone(),
		Current:   s.current.Clone(),
		Undo:      cloneStack(s.undo),
		Redo:      cloneStack(s.redo),
		Templates: cloneTemplates(s.templates),
		Overrides: s.DayOverrides(),
	}
	if s.clock != nil {
		c := *s.clock
		rec.Clock = &c
	}
	return rec
}

// FromRecord rebuilds a session from a persisted record.
func FromRecord(rec models.SessionRecord, opts ...Option) *Session {
	s := NewSession(opts...)
	s.defaultTT = rec.Default.Clone()
	s.current = rec.Current.Clone()
	s.undo = cloneStack(rec.Undo)
	s.redo = cloneStack(rec.Redo)
	s.templates = cloneTemplates(rec.Templates)
	for k, v := range rec.Overrides {
		s.overrides[k] = v
	}
	if rec.Clock != nil {
		s.SetClock(*rec.Clock)
	}
	if s.historyLimit > 0 && len(s.undo) > s.historyLimit {
		s.undo = s.undo[len(s.undo)-s.historyLimit:]
	}
	return s
}

func cloneStack(stack []models.Timetable) []models.Timetable {
	if len(stack) == 0 {
		return nil
	}
	out := make([]models.Timetable, len(stack))
	for i, tt := range stack {
		out[i] = tt.Clone()
	}
	return out
}

func cloneTemplates(in map[string]models.Timetable) map[string]models.Timetable {
	out := make(map[string]models.Timetable, len(in))
	for name, tt := range in {
		out[name] = tt.Clone()
	}
	return out
}
