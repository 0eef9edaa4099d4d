package storage

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/replan/internal/models"
	"github.com/julianstephens/replan/internal/state"
)

type providerCase struct {
	name string
	file string
}

var providers = []providerCase{
	{"sqlite", "replan.db"},
	{"json", "replan.json"},
}

func setupStore(t *testing.T, file string) Provider {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), file))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func activity(name string, start, duration int) models.Activity {
	return models.Activity{
		Name:        name,
		Start:       start,
		Duration:    duration,
		MinDuration: 15,
		MaxDuration: 90,
		Flexible:    true,
		Priority:    1,
	}
}

func TestNewSelectsProvider(t *testing.T) {
	if _, ok := New("/tmp/x.json").(*JSONStore); !ok {
		t.Error("New(.json) did not return a JSONStore")
	}
	if _, ok := New("/tmp/x.JSON").(*JSONStore); !ok {
		t.Error("New(.JSON) did not return a JSONStore")
	}
	if _, ok := New("/tmp/x.db").(*SQLiteStore); !ok {
		t.Error("New(.db) did not return a SQLiteStore")
	}
}

func TestLoadUninitialized(t *testing.T) {
	for _, pc := range providers {
		t.Run(pc.name, func(t *testing.T) {
			store := New(filepath.Join(t.TempDir(), pc.file))
			if err := store.Load(); !errors.Is(err, ErrNotInitialized) {
				t.Errorf("Load() error = %v, want ErrNotInitialized", err)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	for _, pc := range providers {
		t.Run(pc.name, func(t *testing.T) {
			store := setupStore(t, pc.file)

			settings, err := store.GetSettings()
			if err != nil {
				t.Fatalf("GetSettings() error = %v", err)
			}
			if settings != DefaultSettings() {
				t.Errorf("settings = %+v, want %+v", settings, DefaultSettings())
			}

			settings.DayStart = "09:00"
			settings.Timezone = "UTC"
			if err := store.SaveSettings(settings); err != nil {
				t.Fatalf("SaveSettings() error = %v", err)
			}
			got, err := store.GetSettings()
			if err != nil {
				t.Fatal(err)
			}
			if got != settings {
				t.Errorf("settings = %+v, want %+v", got, settings)
			}
		})
	}
}

func TestEmptySession(t *testing.T) {
	for _, pc := range providers {
		t.Run(pc.name, func(t *testing.T) {
			store := setupStore(t, pc.file)
			rec, err := store.GetSession()
			if err != nil {
				t.Fatalf("GetSession() error = %v", err)
			}
			if len(rec.Current) != 0 || len(rec.Templates) != 0 || rec.Clock != nil {
				t.Errorf("fresh session not empty: %+v", rec)
			}
			// A fresh record must rebuild into a usable session.
			if got := state.FromRecord(rec).Get(); got == nil || len(got) != 0 {
				t.Errorf("FromRecord(empty).Get() = %v", got)
			}
		})
	}
}

func TestSessionRoundTrip(t *testing.T) {
	for _, pc := range providers {
		t.Run(pc.name, func(t *testing.T) {
			store := setupStore(t, pc.file)

			sess := state.NewSession()
			sess.SetDefault(models.Timetable{activity("Standup", 540, 15), activity("Deep work", 600, 90)})
			sess.Set(models.Timetable{activity("Standup", 545, 15)})
			sess.Set(models.Timetable{activity("Standup", 550, 15)})
			sess.Undo()
			sess.SaveTemplate("monday", models.Timetable{activity("Planning", 480, 30)})
			sess.SaveTemplate("empty", models.Timetable{})
			sess.SetDayOverride("2024-05-06", "monday")
			sess.SetClock(615)

			rec := sess.Record()
			if err := store.SaveSession(rec); err != nil {
				t.Fatalf("SaveSession() error = %v", err)
			}

			got, err := store.GetSession()
			if err != nil {
				t.Fatalf("GetSession() error = %v", err)
			}
			if !reflect.DeepEqual(got, rec) {
				t.Errorf("session round trip mismatch:\n got %+v\nwant %+v", got, rec)
			}

			// A second save drops what the session no longer holds.
			sess.DeleteTemplate("empty")
			sess.ClearDayOverride("2024-05-06")
			sess.ClearClock()
			if err := store.SaveSession(sess.Record()); err != nil {
				t.Fatal(err)
			}
			got, err = store.GetSession()
			if err != nil {
				t.Fatal(err)
			}
			if _, ok := got.Templates["empty"]; ok {
				t.Error("deleted template still stored")
			}
			if len(got.Overrides) != 0 || got.Clock != nil {
				t.Errorf("overrides = %v, clock = %v", got.Overrides, got.Clock)
			}
		})
	}
}

func TestSessionPersistsAcrossReopen(t *testing.T) {
	for _, pc := range providers {
		t.Run(pc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), pc.file)
			store := New(path)
			if err := store.Init(); err != nil {
				t.Fatal(err)
			}
			sess := state.NewSession()
			sess.SetDefault(models.Timetable{activity("Lunch", 720, 45)})
			if err := store.SaveSession(sess.Record()); err != nil {
				t.Fatal(err)
			}
			store.Close()

			reopened := New(path)
			if err := reopened.Load(); err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			defer reopened.Close()
			rec, err := reopened.GetSession()
			if err != nil {
				t.Fatal(err)
			}
			if !rec.Current.Equal(sess.Get()) {
				t.Errorf("current = %v, want %v", rec.Current, sess.Get())
			}
		})
	}
}

func TestSolveRecords(t *testing.T) {
	for _, pc := range providers {
		t.Run(pc.name, func(t *testing.T) {
			store := setupStore(t, pc.file)
			base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
			clock := 600

			for i, status := range []string{"solved", "no_solution", "nothing_to_adjust"} {
				rec := models.SolveRecord{
					ID:          status,
					RanAt:       base.Add(time.Duration(i) * time.Minute),
					Status:      status,
					Score:       i * 10,
					Candidates:  i,
					Evaluations: i * 7,
					Truncated:   i == 1,
				}
				if i == 2 {
					rec.Clock = &clock
				}
				if err := store.AddSolveRecord(rec); err != nil {
					t.Fatalf("AddSolveRecord() error = %v", err)
				}
			}

			all, err := store.GetSolveRecords(0)
			if err != nil {
				t.Fatalf("GetSolveRecords() error = %v", err)
			}
			if len(all) != 3 {
				t.Fatalf("got %d records, want 3", len(all))
			}
			if all[0].ID != "nothing_to_adjust" || all[2].ID != "solved" {
				t.Errorf("records not newest first: %v, %v", all[0].ID, all[2].ID)
			}
			if all[0].Clock == nil || *all[0].Clock != 600 {
				t.Errorf("clock = %v, want 600", all[0].Clock)
			}
			if !all[1].Truncated || all[1].Evaluations != 7 {
				t.Errorf("record = %+v", all[1])
			}
			if !all[2].RanAt.Equal(base) {
				t.Errorf("RanAt = %v, want %v", all[2].RanAt, base)
			}

			limited, err := store.GetSolveRecords(2)
			if err != nil {
				t.Fatal(err)
			}
			if len(limited) != 2 {
				t.Errorf("limit 2 returned %d records", len(limited))
			}
		})
	}
}

func TestJSONInitTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replan.json")
	if err := NewJSONStore(path).Init(); err != nil {
		t.Fatal(err)
	}
	if err := NewJSONStore(path).Init(); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second Init() error = %v, want ErrAlreadyInitialized", err)
	}
}

func TestSQLiteInitIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replan.db")
	first := NewSQLiteStore(path)
	if err := first.Init(); err != nil {
		t.Fatal(err)
	}
	if err := first.SaveSettings(models.Settings{DayStart: "06:00", DayEnd: "20:00", Timezone: "UTC"}); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second := NewSQLiteStore(path)
	if err := second.Init(); err != nil {
		t.Fatalf("re-Init() error = %v", err)
	}
	defer second.Close()
	settings, err := second.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.DayStart != "06:00" {
		t.Errorf("re-Init overwrote settings: %+v", settings)
	}
}

func TestUseBeforeLoad(t *testing.T) {
	for _, pc := range providers {
		t.Run(pc.name, func(t *testing.T) {
			store := New(filepath.Join(t.TempDir(), pc.file))
			if _, err := store.GetSession(); !errors.Is(err, ErrNotLoaded) {
				t.Errorf("GetSession() error = %v, want ErrNotLoaded", err)
			}
		})
	}
}
