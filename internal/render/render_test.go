package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/julianstephens/replan/internal/models"
)

func sample() models.Timetable {
	return models.Timetable{
		{Name: "Breakfast", Start: 480, Duration: 30, MinDuration: 15, MaxDuration: 45, Locked: true},
		{Name: "Deep work", Start: 540, Duration: 90, MinDuration: 60, MaxDuration: 120, Flexible: true, Priority: 2},
	}
}

func TestTable(t *testing.T) {
	out := Table(sample(), nil)
	for _, want := range []string{"Activity", "Breakfast", "08:00-08:30", "Deep work", "09:00-10:30", "1h 30m", "1h-2h", "locked", "flexible"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "moved") {
		t.Errorf("table without baseline shows changes:\n%s", out)
	}
}

func TestTableEmpty(t *testing.T) {
	if out := Table(nil, nil); !strings.Contains(out, "No activities.") {
		t.Errorf("Table(nil) = %q", out)
	}
}

func TestTableHighlightsChanges(t *testing.T) {
	base := sample()
	moved := sample()
	moved[1].Start = 550
	moved[1].Duration = 80

	out := Table(moved, base)
	if !strings.Contains(out, "moved 10m, resized 10m") {
		t.Errorf("change column missing:\n%s", out)
	}
}

func TestWriterRenderSchedule(t *testing.T) {
	var buf bytes.Buffer
	base := sample()
	w := NewWriter(&buf, base)
	base[1].Start = 0 // the writer keeps its own copy

	moved := sample()
	moved[1].Start = 545
	w.RenderSchedule(moved)

	out := buf.String()
	if !strings.Contains(out, "Deep work") || !strings.Contains(out, "moved 5m") {
		t.Errorf("RenderSchedule output:\n%s", out)
	}
}

func TestFlags(t *testing.T) {
	tests := []struct {
		a    models.Activity
		want string
	}{
		{models.Activity{}, ""},
		{models.Activity{Flexible: true}, "flexible"},
		{models.Activity{Locked: true}, "locked"},
		{models.Activity{Flexible: true, Locked: true}, "flexible,locked"},
	}
	for _, tc := range tests {
		if got := flags(tc.a); got != tc.want {
			t.Errorf("flags(%+v) = %q, want %q", tc.a, got, tc.want)
		}
	}
}
