package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Activity is a named interval of the day, in minutes since midnight.
type Activity struct {
	Name        string `json:"name"`
	Start       int    `json:"start"`
	Duration    int    `json:"duration"`
	MinDuration int    `json:"minDuration"`
	MaxDuration int    `json:"maxDuration"`
	Flexible    bool   `json:"flexible"`
	Locked      bool   `json:"locked"`
	Priority    int    `json:"priority"`
}

// End returns the first minute after the activity.
func (a Activity) End() int {
	return a.Start + a.Duration
}

// SameSlot reports whether a and b occupy the same interval.
func (a Activity) SameSlot(b Activity) bool {
	return a.Start == b.Start && a.Duration == b.Duration
}

// activityWire mirrors Activity with pointer fields so that missing keys can
// be told apart from zero values.
type activityWire struct {
	Name        *string `json:"name"`
	Start       *int    `json:"start"`
	Duration    *int    `json:"duration"`
	MinDuration *int    `json:"minDuration"`
	MaxDuration *int    `json:"maxDuration"`
	Flexible    *bool   `json:"flexible"`
	Locked      *bool   `json:"locked"`
	Priority    *int    `json:"priority"`
}

// UnmarshalJSON decodes a single activity record. Unknown fields are
// rejected and every field except priority is required; a missing priority
// defaults to 0.
func (a *Activity) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("activity must be an object, got null")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var w activityWire
	if err := dec.Decode(&w); err != nil {
		return fmt.Errorf("invalid activity: %w", err)
	}

	missing := func(field string) error {
		return fmt.Errorf("invalid activity: missing field %q", field)
	}
	switch {
	case w.Name == nil:
		return missing("name")
	case w.Start == nil:
		return missing("start")
	case w.Duration == nil:
		return missing("duration")
	case w.MinDuration == nil:
		return missing("minDuration")
	case w.MaxDuration == nil:
		return missing("maxDuration")
	case w.Flexible == nil:
		return missing("flexible")
	case w.Locked == nil:
		return missing("locked")
	}

	decoded := Activity{
		Name:        *w.Name,
		Start:       *w.Start,
		Duration:    *w.Duration,
		MinDuration: *w.MinDuration,
		MaxDuration: *w.MaxDuration,
		Flexible:    *w.Flexible,
		Locked:      *w.Locked,
	}
	if w.Priority != nil {
		decoded.Priority = *w.Priority
	}

	if err := decoded.Check(); err != nil {
		return err
	}

	*a = decoded
	return nil
}

// Check verifies the shape of a record independently of any day bounds.
func (a Activity) Check() error {
	if a.Start < 0 {
		return fmt.Errorf("activity %q: start must not be negative", a.Name)
	}
	if a.Duration < 0 || a.MinDuration < 0 || a.MaxDuration < 0 {
		return fmt.Errorf("activity %q: durations must not be negative", a.Name)
	}
	if a.MinDuration > a.MaxDuration {
		return fmt.Errorf("activity %q: minDuration (%d) exceeds maxDuration (%d)", a.Name, a.MinDuration, a.MaxDuration)
	}
	if a.Priority < 0 {
		return fmt.Errorf("activity %q: priority must not be negative", a.Name)
	}
	return nil
}
