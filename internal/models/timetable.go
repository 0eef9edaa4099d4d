package models

import (
	"fmt"
	"sort"
)

// Timetable is the ordered list of activities for one day.
type Timetable []Activity

// Clone returns an independent copy. A nil timetable clones to an empty one.
func (t Timetable) Clone() Timetable {
	out := make(Timetable, len(t))
	copy(out, t)
	return out
}

// SortByStart orders activities by start time, keeping the relative order of
// activities that start together.
func (t Timetable) SortByStart() {
	sort.SliceStable(t, func(i, j int) bool {
		return t[i].Start < t[j].Start
	})
}

// SlotsEqual reports whether both timetables place every activity at the same
// start with the same duration.
func (t Timetable) SlotsEqual(other Timetable) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if !t[i].SameSlot(other[i]) {
			return false
		}
	}
	return true
}

// Equal compares every field of every activity.
func (t Timetable) Equal(other Timetable) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i] != other[i] {
			return false
		}
	}
	return true
}

// IndexOf returns the position of the first activity with the given name, or -1.
func (t Timetable) IndexOf(name string) int {
	for i, a := range t {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// DayBounds delimits the schedulable part of the day in minutes since midnight.
type DayBounds struct {
	Start int `json:"dayStart"`
	End   int `json:"dayEnd"`
}

// Validate checks that the bounds describe a non-empty window inside one day.
func (b DayBounds) Validate() error {
	if b.Start < 0 || b.End > 24*60 {
		return fmt.Errorf("day bounds must lie within 00:00-24:00, got %d-%d", b.Start, b.End)
	}
	if b.Start >= b.End {
		return fmt.Errorf("day start (%d) must be before day end (%d)", b.Start, b.End)
	}
	return nil
}
