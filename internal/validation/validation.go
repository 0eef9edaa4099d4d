package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/replan/internal/models"
	"github.com/julianstephens/replan/internal/utils"
)

// ViolationType tags a constraint violation
type ViolationType string

const (
	ViolationDuration    ViolationType = "duration"
	ViolationDayBoundary ViolationType = "dayBoundary"
	ViolationLocked      ViolationType = "lockedViolation"
	ViolationOverlap     ViolationType = "overlap"
)

// Violation describes one broken constraint. Other is only set for overlaps.
type Violation struct {
	Type        ViolationType
	Index       int
	Activity    models.Activity
	OtherIndex  int
	Other       models.Activity
	Description string
}

// Result contains every violation found in a timetable
type Result struct {
	Valid      bool
	Violations []Violation
}

// Count returns the number of violations of the given type.
func (r Result) Count(vt ViolationType) int {
	n := 0
	for _, v := range r.Violations {
		if v.Type == vt {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all violations
func (r Result) FormatReport() string {
	if r.Valid {
		return "No violations detected."
	}

	var sb strings.Builder
	sb.WriteString("Violations detected:\n")
	for _, v := range r.Violations {
		fmt.Fprintf(&sb, "- [%s] %s\n", v.Type, v.Description)
	}
	return sb.String()
}

// DurationValid reports whether the duration lies within the activity's bounds.
func DurationValid(a models.Activity) bool {
	return a.Duration >= a.MinDuration && a.Duration <= a.MaxDuration
}

// WithinDayBoundary reports whether the activity fits inside the day window.
func WithinDayBoundary(a models.Activity, bounds models.DayBounds) bool {
	return a.Start >= bounds.Start && a.End() <= bounds.End
}

// RangesOverlap is the half-open interval test for [start1, end1) and [start2, end2).
func RangesOverlap(start1, end1, start2, end2 int) bool {
	return start1 < end2 && start2 < end1
}

// Overlaps reports whether two distinct activities share any minute.
// An activity never overlaps itself.
func Overlaps(a, b *models.Activity) bool {
	if a == b {
		return false
	}
	return RangesOverlap(a.Start, a.End(), b.Start, b.End())
}

// OverlapPair identifies two overlapping positions of a timetable, I < J.
type OverlapPair struct {
	I, J int
}

// FindOverlaps returns every overlapping pair. O(n²), timetables are small.
func FindOverlaps(tt models.Timetable) []OverlapPair {
	var pairs []OverlapPair
	for i := 0; i < len(tt); i++ {
		for j := i + 1; j < len(tt); j++ {
			if Overlaps(&tt[i], &tt[j]) {
				pairs = append(pairs, OverlapPair{I: i, J: j})
			}
		}
	}
	return pairs
}

// IsOrderValid reports whether activities are sorted by non-decreasing start.
func IsOrderValid(tt models.Timetable) bool {
	for i := 1; i < len(tt); i++ {
		if tt[i].Start < tt[i-1].Start {
			return false
		}
	}
	return true
}

// Validator checks timetables against one day window. It never mutates its input.
type Validator struct {
	bounds models.DayBounds
}

// New creates a new Validator
func New(bounds models.DayBounds) *Validator {
	return &Validator{bounds: bounds}
}

// Bounds returns the day window the validator checks against.
func (v *Validator) Bounds() models.DayBounds {
	return v.bounds
}

// Validate checks duration bounds, day containment and pairwise overlap.
func (v *Validator) Validate(tt models.Timetable) Result {
	return v.validate(nil, tt)
}

// ValidateAgainst runs Validate and additionally reports a lockedViolation for
// every activity locked in baseline whose slot or lock differs in tt.
func (v *Validator) ValidateAgainst(baseline, tt models.Timetable) Result {
	return v.validate(baseline, tt)
}

func (v *Validator) validate(baseline, tt models.Timetable) Result {
	violations := []Violation{}

	for i, a := range tt {
		if !DurationValid(a) {
			violations = append(violations, Violation{
				Type:     ViolationDuration,
				Index:    i,
				Activity: a,
				Description: fmt.Sprintf("%q lasts %s, allowed %s to %s", a.Name,
					utils.FormatDuration(a.Duration), utils.FormatDuration(a.MinDuration), utils.FormatDuration(a.MaxDuration)),
			})
		}
		if !WithinDayBoundary(a, v.bounds) {
			violations = append(violations, Violation{
				Type:     ViolationDayBoundary,
				Index:    i,
				Activity: a,
				Description: fmt.Sprintf("%q runs %s-%s, outside the day %s-%s", a.Name,
					utils.FormatMinutes(a.Start), utils.FormatMinutes(a.End()),
					utils.FormatMinutes(v.bounds.Start), utils.FormatMinutes(v.bounds.End)),
			})
		}
	}

	for i, before := range baseline {
		if !before.Locked {
			continue
		}
		if i >= len(tt) {
			violations = append(violations, Violation{
				Type:        ViolationLocked,
				Index:       i,
				Activity:    before,
				Description: fmt.Sprintf("locked activity %q was removed", before.Name),
			})
			continue
		}
		if after := tt[i]; !after.SameSlot(before) || !after.Locked {
			violations = append(violations, Violation{
				Type:     ViolationLocked,
				Index:    i,
				Activity: after,
				Description: fmt.Sprintf("locked activity %q changed from %s+%d to %s+%d", before.Name,
					utils.FormatMinutes(before.Start), before.Duration, utils.FormatMinutes(after.Start), after.Duration),
			})
		}
	}

	for _, p := range FindOverlaps(tt) {
		a, b := tt[p.I], tt[p.J]
		violations = append(violations, Violation{
			Type:       ViolationOverlap,
			Index:      p.I,
			Activity:   a,
			OtherIndex: p.J,
			Other:      b,
			Description: fmt.Sprintf("%q (%s-%s) overlaps %q (%s-%s)",
				a.Name, utils.FormatMinutes(a.Start), utils.FormatMinutes(a.End()),
				b.Name, utils.FormatMinutes(b.Start), utils.FormatMinutes(b.End())),
		})
	}

	return Result{Valid: len(violations) == 0, Violations: violations}
}

// IsValid is the allocation-free form of ValidateAgainst(...).Valid used on
// the search hot path. baseline may be nil.
func (v *Validator) IsValid(baseline, tt models.Timetable) bool {
	for i := range tt {
		if !DurationValid(tt[i]) || !WithinDayBoundary(tt[i], v.bounds) {
			return false
		}
	}
	for i := range baseline {
		if !baseline[i].Locked {
			continue
		}
		if i >= len(tt) || !tt[i].Locked || !tt[i].SameSlot(baseline[i]) {
			return false
		}
	}
	for i := 0; i < len(tt); i++ {
		for j := i + 1; j < len(tt); j++ {
			if Overlaps(&tt[i], &tt[j]) {
				return false
			}
		}
	}
	return true
}
