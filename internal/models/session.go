package models

import "time"

// SessionRecord is the persisted form of a timetable session.
type SessionRecord struct {
	Default   Timetable            `json:"default"`
	Current   Timetable            `json:"current"`
	Undo      []Timetable          `json:"undo"`
	Redo      []Timetable          `json:"redo"`
	Templates map[string]Timetable `json:"templates"`
	Overrides map[string]string    `json:"overrides"` // YYYY-MM-DD -> template name
	Clock     *int                 `json:"clock,omitempty"`
}

// SolveRecord is the audit entry written after every solver run.
type SolveRecord struct {
	ID          string    `json:"id"`
	RanAt       time.Time `json:"ran_at"`
	Status      string    `json:"status"`
	Score       int       `json:"score"`
	Candidates  int       `json:"candidates"`
	Evaluations int       `json:"evaluations"`
	Truncated   bool      `json:"truncated"`
	Clock       *int      `json:"clock,omitempty"`
}
