package state

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/julianstephens/replan/internal/models"
)

func tt(starts ...int) models.Timetable {
	out := models.Timetable{}
	for i, s := range starts {
		out = append(out, models.Activity{
			Name:        string(rune('A' + i)),
			Start:       s,
			Duration:    30,
			MinDuration: 15,
			MaxDuration: 60,
			Flexible:    true,
		})
	}
	return out
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewSession()
	s.SetDefault(tt(480))

	got := s.Get()
	got[0].Start = 999

	if s.Get()[0].Start != 480 {
		t.Errorf("mutating Get() result changed session state")
	}
}

func TestSetStoresCopy(t *testing.T) {
	s := NewSession()
	in := tt(480)
	s.Set(in)
	in[0].Start = 999

	if s.Get()[0].Start != 480 {
		t.Errorf("mutating Set() argument changed session state")
	}
}

func TestUndoRedo(t *testing.T) {
	s := NewSession()
	a, b, c := tt(480), tt(500), tt(520)
	s.SetDefault(a)
	s.Set(b)
	s.Set(c)

	if !s.Undo() {
		t.Fatal("Undo() = false, want true")
	}
	if !s.Get().Equal(b) {
		t.Errorf("after one undo current = %v, want %v", s.Get(), b)
	}
	if !s.Undo() {
		t.Fatal("second Undo() = false, want true")
	}
	if !s.Get().Equal(a) {
		t.Errorf("after two undos current = %v, want %v", s.Get(), a)
	}
	if s.Undo() {
		t.Error("Undo() on empty stack = true, want false")
	}
	if !s.Get().Equal(a) {
		t.Errorf("no-op undo changed current")
	}

	if !s.Redo() || !s.Redo() {
		t.Fatal("Redo() = false, want true")
	}
	if !s.Get().Equal(c) {
		t.Errorf("after two redos current = %v, want %v", s.Get(), c)
	}
	if s.Redo() {
		t.Error("Redo() on empty stack = true, want false")
	}
}

func TestUndoThenSetClearsRedo(t *testing.T) {
	s := NewSession()
	s.SetDefault(tt(480))
	s.Set(tt(500))
	s.Undo()
	if !s.CanRedo() {
		t.Fatal("CanRedo() = false after undo")
	}
	s.Set(tt(510))
	if s.CanRedo() {
		t.Error("Set() did not clear redo stack")
	}
	if s.Redo() {
		t.Error("Redo() after Set() = true, want false")
	}
}

func TestSetUndoRestoresPrevious(t *testing.T) {
	s := NewSession()
	s.SetDefault(tt(480, 520))
	before := s.Get()
	s.Set(tt(600))
	s.Undo()
	if !s.Get().Equal(before) {
		t.Errorf("Set then Undo = %v, want %v", s.Get(), before)
	}
}

func TestHistoryLimit(t *testing.T) {
	s := NewSession(WithHistoryLimit(2))
	s.SetDefault(tt(480))
	s.Set(tt(490))
	s.Set(tt(500))
	s.Set(tt(510))

	undo, _ := s.HistoryDepth()
	if undo != 2 {
		t.Fatalf("undo depth = %d, want 2", undo)
	}
	s.Undo()
	s.Undo()
	if s.Get()[0].Start != 490 {
		t.Errorf("oldest retained snapshot start = %d, want 490", s.Get()[0].Start)
	}
}

func TestResetToDefault(t *testing.T) {
	s := NewSession()
	s.SetDefault(tt(480))
	s.Set(tt(600))
	s.ResetToDefault()

	if !s.Get().Equal(tt(480)) {
		t.Errorf("ResetToDefault current = %v", s.Get())
	}
	s.Undo()
	if s.Get()[0].Start != 600 {
		t.Errorf("reset was not recorded in history")
	}
}

func TestTemplates(t *testing.T) {
	s := NewSession()
	s.SetDefault(tt(480))

	if s.LoadTemplate("missing") {
		t.Error("LoadTemplate(missing) = true, want false")
	}
	if s.CanUndo() {
		t.Error("failed LoadTemplate recorded history")
	}

	s.SaveTemplate("work", tt(540, 600))
	s.SaveTemplate("gym", tt(420))
	if got, want := s.TemplateNames(), []string{"gym", "work"}; !reflect.DeepEqual(got, want) {
		t.Errorf("TemplateNames() = %v, want %v", got, want)
	}

	if !s.LoadTemplate("work") {
		t.Fatal("LoadTemplate(work) = false")
	}
	if !s.Get().Equal(tt(540, 600)) {
		t.Errorf("loaded template = %v", s.Get())
	}
	if !s.Undo() || !s.Get().Equal(tt(480)) {
		t.Error("LoadTemplate did not record history")
	}

	if !s.DeleteTemplate("gym") {
		t.Error("DeleteTemplate(gym) = false")
	}
	if s.DeleteTemplate("gym") {
		t.Error("second DeleteTemplate(gym) = true")
	}
}

func TestTemplateExportImportRoundTrip(t *testing.T) {
	src := NewSession()
	src.SaveTemplate("work", tt(540, 600))
	src.SaveTemplate("empty", models.Timetable{})

	text, err := src.ExportTemplates()
	if err != nil {
		t.Fatalf("ExportTemplates() error = %v", err)
	}

	dst := NewSession()
	dst.SaveTemplate("work", tt(100))
	dst.SaveTemplate("keep", tt(200))
	if err := dst.ImportTemplates(text); err != nil {
		t.Fatalf("ImportTemplates() error = %v", err)
	}

	got := dst.Templates()
	if !got["work"].Equal(tt(540, 600)) {
		t.Errorf("imported work = %v, want overwrite", got["work"])
	}
	if !got["keep"].Equal(tt(200)) {
		t.Errorf("unrelated template lost during merge")
	}
	if e, ok := got["empty"]; !ok || len(e) != 0 {
		t.Errorf("empty template = %v, %v", e, ok)
	}
}

func TestImportMalformedLeavesStoreUnchanged(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", "garbage"},
		{"array", `[]`},
		{"null", `null`},
		{"template not array", `{"a": 5}`},
		{"null template", `{"a": null}`},
		{"bad activity", `{"a": [{"name": "x"}]}`},
		{"unknown field", `{"a": [{"name":"x","start":0,"duration":10,"minDuration":5,"maxDuration":20,"flexible":true,"locked":false,"color":"red"}]}`},
		{"second template bad", `{"ok": [], "bad": [1]}`},
		{"trailing data", `{} {}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSession()
			s.SaveTemplate("existing", tt(480))
			before := s.Templates()

			err := s.ImportTemplates(tc.text)
			if !errors.Is(err, ErrMalformedTemplates) {
				t.Fatalf("ImportTemplates() error = %v, want ErrMalformedTemplates", err)
			}
			if !reflect.DeepEqual(s.Templates(), before) {
				t.Errorf("store modified by malformed import: %v", s.Templates())
			}
		})
	}
}

func TestSaveTemplateRejectsInvalidRecord(t *testing.T) {
	s := NewSession()
	bad := tt(480)
	bad[0].MinDuration, bad[0].MaxDuration = 50, 30

	if err := s.SaveTemplate("bad", bad); err == nil {
		t.Fatal("SaveTemplate() accepted minDuration > maxDuration")
	}
	if len(s.TemplateNames()) != 0 {
		t.Errorf("rejected template stored: %v", s.TemplateNames())
	}

	// Everything SaveTemplate accepts survives an export/import cycle.
	if err := s.SaveTemplate("good", tt(480, 540)); err != nil {
		t.Fatalf("SaveTemplate() error = %v", err)
	}
	text, err := s.ExportTemplates()
	if err != nil {
		t.Fatal(err)
	}
	if err := NewSession().ImportTemplates(text); err != nil {
		t.Errorf("ImportTemplates(ExportTemplates()) error = %v", err)
	}
}

func TestTemplatesAreStartOrdered(t *testing.T) {
	unsorted := models.Timetable{tt(0, 700)[1], tt(500)[0]}
	sorted := models.Timetable{unsorted[1], unsorted[0]}

	s := NewSession()
	if err := s.SaveTemplate("saved", unsorted); err != nil {
		t.Fatal(err)
	}
	if got := s.Templates()["saved"]; !got.Equal(sorted) {
		t.Errorf("saved template = %v, want %v", got, sorted)
	}

	text := `{"imported": [
		{"name":"Late","start":700,"duration":60,"minDuration":30,"maxDuration":90,"flexible":true,"locked":false},
		{"name":"Early","start":500,"duration":60,"minDuration":30,"maxDuration":90,"flexible":true,"locked":false}
	]}`
	if err := s.ImportTemplates(text); err != nil {
		t.Fatal(err)
	}
	if !s.LoadTemplate("imported") {
		t.Fatal("LoadTemplate(imported) = false")
	}
	got := s.Get()
	if len(got) != 2 || got[0].Name != "Early" || got[1].Name != "Late" {
		t.Errorf("loaded template = %v, want Early before Late", got)
	}
}

func TestExportFormat(t *testing.T) {
	s := NewSession()
	s.SaveTemplate("a", tt(480))
	text, err := s.ExportTemplates()
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"a"`, `"name"`, `"minDuration"`, `"maxDuration"`, `"priority"`} {
		if !strings.Contains(text, field) {
			t.Errorf("export missing %s:\n%s", field, text)
		}
	}
}

func TestClock(t *testing.T) {
	s := NewSession()
	if _, ok := s.Clock(); ok {
		t.Error("fresh session clock is set")
	}
	s.SetClock(700)
	if m, ok := s.Clock(); !ok || m != 700 {
		t.Errorf("Clock() = %d, %v, want 700, true", m, ok)
	}
	s.ClearClock()
	if _, ok := s.Clock(); ok {
		t.Error("ClearClock did not unset clock")
	}
}

func TestDayOverrides(t *testing.T) {
	s := NewSession()
	s.SetDayOverride("2024-05-01", "holiday")

	if name, ok := s.TemplateForDate("2024-05-01"); !ok || name != "holiday" {
		t.Errorf("TemplateForDate = %q, %v", name, ok)
	}
	if _, ok := s.TemplateForDate("2024-05-02"); ok {
		t.Error("TemplateForDate returned override for unset date")
	}

	m := s.DayOverrides()
	m["2024-05-01"] = "changed"
	if name, _ := s.TemplateForDate("2024-05-01"); name != "holiday" {
		t.Error("DayOverrides returned a live map")
	}

	s.ClearDayOverride("2024-05-01")
	if _, ok := s.TemplateForDate("2024-05-01"); ok {
		t.Error("ClearDayOverride did not remove the override")
	}
}

func TestRecordRoundTrip(t *testing.T) {
	s := NewSession()
	s.SetDefault(tt(480))
	s.Set(tt(500))
	s.Set(tt(520))
	s.Undo()
	s.SaveTemplate("work", tt(540))
	s.SetDayOverride("2024-05-01", "work")
	s.SetClock(610)

	rec := s.Record()
	restored := FromRecord(rec)

	if !restored.Get().Equal(s.Get()) {
		t.Errorf("current = %v, want %v", restored.Get(), s.Get())
	}
	if !restored.Default().Equal(s.Default()) {
		t.Errorf("default mismatch")
	}
	if !reflect.DeepEqual(restored.Record(), rec) {
		t.Errorf("record round trip mismatch:\n got %+v\nwant %+v", restored.Record(), rec)
	}
	if !restored.Redo() || !restored.Get().Equal(tt(520)) {
		t.Error("redo stack not restored")
	}

	rec.Current[0].Start = 1
	if s.Get()[0].Start == 1 {
		t.Error("Record() shares memory with session")
	}
}
