package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/replan/internal/models"
)

var workday = models.DayBounds{Start: 480, End: 1000}

func act(name string, start, duration int) models.Activity {
	return models.Activity{
		Name:        name,
		Start:       start,
		Duration:    duration,
		MinDuration: 0,
		MaxDuration: 600,
		Flexible:    true,
	}
}

func TestDurationValid(t *testing.T) {
	a := models.Activity{Duration: 30, MinDuration: 30, MaxDuration: 60}
	if !DurationValid(a) {
		t.Error("duration equal to the minimum should be valid")
	}
	a.Duration = 60
	if !DurationValid(a) {
		t.Error("duration equal to the maximum should be valid")
	}
	a.Duration = 61
	if DurationValid(a) {
		t.Error("duration above the maximum should be invalid")
	}
	a.Duration = 29
	if DurationValid(a) {
		t.Error("duration below the minimum should be invalid")
	}
}

func TestWithinDayBoundary(t *testing.T) {
	if !WithinDayBoundary(act("A", 480, 520), workday) {
		t.Error("activity filling the whole day should fit")
	}
	if WithinDayBoundary(act("A", 470, 30), workday) {
		t.Error("activity starting before the day should not fit")
	}
	if WithinDayBoundary(act("A", 990, 20), workday) {
		t.Error("activity ending after the day should not fit")
	}
}

func TestOverlaps_Symmetric(t *testing.T) {
	pairs := []struct {
		a, b models.Activity
		want bool
	}{
		{act("A", 0, 60), act("B", 50, 60), true},
		{act("A", 0, 60), act("B", 60, 60), false},
		{act("A", 0, 120), act("B", 30, 30), true},
		{act("A", 100, 10), act("B", 0, 50), false},
	}

	for _, p := range pairs {
		a, b := p.a, p.b
		if got := Overlaps(&a, &b); got != p.want {
			t.Errorf("Overlaps(%+v, %+v) = %v, want %v", a, b, got, p.want)
		}
		if Overlaps(&a, &b) != Overlaps(&b, &a) {
			t.Errorf("Overlaps is not symmetric for %+v and %+v", a, b)
		}
	}
}

func TestOverlaps_NeverWithItself(t *testing.T) {
	a := act("A", 0, 60)
	if Overlaps(&a, &a) {
		t.Error("an activity must never overlap itself")
	}

	result := New(models.DayBounds{Start: 0, End: 1440}).Validate(models.Timetable{a})
	if result.Count(ViolationOverlap) != 0 {
		t.Error("a single activity must not produce an overlap violation")
	}
}

func TestValidate_DayBoundaryScenario(t *testing.T) {
	tt := models.Timetable{{
		Name:        "Assembly",
		Start:       990,
		Duration:    20,
		MinDuration: 20,
		MaxDuration: 20,
		Flexible:    false,
	}}

	result := New(workday).Validate(tt)

	if result.Valid {
		t.Fatal("expected the timetable to be invalid")
	}
	if len(result.Violations) != 1 {
		t.Fatalf("expected exactly one violation, got %d: %+v", len(result.Violations), result.Violations)
	}
	if result.Violations[0].Type != ViolationDayBoundary {
		t.Errorf("violation type = %s, want %s", result.Violations[0].Type, ViolationDayBoundary)
	}
}

func TestValidate_OverlapCarriesBothActivities(t *testing.T) {
	tt := models.Timetable{act("A", 500, 60), act("B", 550, 30)}

	result := New(workday).Validate(tt)

	if result.Count(ViolationOverlap) != 1 {
		t.Fatalf("expected one overlap, got %+v", result.Violations)
	}
	v := result.Violations[0]
	if v.Activity.Name != "A" || v.Other.Name != "B" || v.Index != 0 || v.OtherIndex != 1 {
		t.Errorf("overlap violation = %+v, want A(0) and B(1)", v)
	}
}

func TestValidate_LockedActivitiesAreNotViolationsByThemselves(t *testing.T) {
	a := act("Done", 480, 30)
	a.Locked = true
	tt := models.Timetable{a, act("Next", 510, 30)}

	result := New(workday).ValidateAgainst(tt, tt)
	if !result.Valid {
		t.Errorf("unchanged locked activity reported as violation: %s", result.FormatReport())
	}
}

func TestValidateAgainst_LockedChange(t *testing.T) {
	locked := act("Done", 480, 30)
	locked.Locked = true
	baseline := models.Timetable{locked, act("Next", 540, 30)}

	moved := baseline.Clone()
	moved[0].Start = 485

	result := New(workday).ValidateAgainst(baseline, moved)
	if result.Count(ViolationLocked) != 1 {
		t.Errorf("expected one locked violation, got %+v", result.Violations)
	}

	unlocked := baseline.Clone()
	unlocked[0].Locked = false
	result = New(workday).ValidateAgainst(baseline, unlocked)
	if result.Count(ViolationLocked) != 1 {
		t.Errorf("unlocking a locked activity should be a violation, got %+v", result.Violations)
	}

	removed := baseline[1:].Clone()
	if r := New(workday).ValidateAgainst(baseline, removed); r.Count(ViolationLocked) == 0 {
		t.Error("replacing a locked activity should be a violation")
	}
}

func TestIsValidMatchesValidate(t *testing.T) {
	locked := act("Done", 480, 30)
	locked.Locked = true
	baseline := models.Timetable{locked, act("B", 520, 30)}

	cases := []models.Timetable{
		baseline,
		{locked, act("B", 500, 30)},
		{locked, act("B", 990, 30)},
		{act("Done", 480, 30), act("B", 520, 30)},
	}

	v := New(workday)
	for i, tt := range cases {
		if got, want := v.IsValid(baseline, tt), v.ValidateAgainst(baseline, tt).Valid; got != want {
			t.Errorf("case %d: IsValid = %v, ValidateAgainst.Valid = %v", i, got, want)
		}
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	tt := models.Timetable{act("A", 500, 60), act("B", 550, 30)}
	before := tt.Clone()
	New(workday).Validate(tt)
	if !tt.Equal(before) {
		t.Error("Validate mutated its input")
	}
}

func TestIsOrderValid(t *testing.T) {
	if !IsOrderValid(models.Timetable{act("A", 0, 10), act("B", 0, 10), act("C", 20, 10)}) {
		t.Error("non-decreasing starts should be valid")
	}
	if IsOrderValid(models.Timetable{act("A", 20, 10), act("B", 0, 10)}) {
		t.Error("decreasing starts should be invalid")
	}
	if !IsOrderValid(nil) {
		t.Error("empty timetable should be ordered")
	}
}

func TestFormatReport(t *testing.T) {
	ok := Result{Valid: true}
	if ok.FormatReport() != "No violations detected." {
		t.Errorf("unexpected report for valid result: %q", ok.FormatReport())
	}

	result := New(workday).Validate(models.Timetable{act("Late", 990, 20)})
	report := result.FormatReport()
	if !strings.Contains(report, "[dayBoundary]") || !strings.Contains(report, `"Late"`) {
		t.Errorf("report missing details: %q", report)
	}
}
