package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/replan/internal/constants"
	"github.com/julianstephens/replan/internal/logger"
	"github.com/julianstephens/replan/internal/migration"
	"github.com/julianstephens/replan/internal/models"
	"github.com/julianstephens/replan/migrations"
)

const (
	slotDefault = "default"
	slotCurrent = "current"
	stackUndo   = "undo"
	stackRedo   = "redo"

	// Fixed-width so that ran_at sorts lexically.
	runTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Fill in defaults for a fresh database or one missing keys
	settings, err := s.GetSettings()
	if err != nil || settings.DayStart == "" || settings.DayEnd == "" || settings.Timezone == "" {
		models.ApplyDefaultSettings(&settings)
		if err := s.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return ErrNotInitialized
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// migrationFS returns the embedded migrations unless REPLAN_MIGRATIONS_PATH
// points at a directory on disk.
func migrationFS() (fs.FS, error) {
	if dir := os.Getenv(constants.EnvMigrationsPath); dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir), nil
		}
	}
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return sub, nil
}

func (s *SQLiteStore) runner() (*migration.Runner, error) {
	mfs, err := migrationFS()
	if err != nil {
		return nil, err
	}
	return migration.NewRunner(s.db, mfs), nil
}

func (s *SQLiteStore) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.Apply(func(msg string) {
		logger.Info(msg)
	})
	return err
}

// SchemaVersion reports the applied and the newest known schema versions.
func (s *SQLiteStore) SchemaVersion() (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, ErrNotLoaded
	}
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.CurrentVersion(); err != nil {
		return 0, 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	if latest, err = runner.LatestVersion(); err != nil {
		return 0, 0, fmt.Errorf("failed to get latest schema version: %w", err)
	}
	return current, latest, nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, or nil before Init/Load.
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) GetSettings() (models.Settings, error) {
	if s.db == nil {
		return models.Settings{}, ErrNotLoaded
	}
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}
	if len(data) == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}
	return models.MapToSettings(data)
}

func (s *SQLiteStore) SaveSettings(settings models.Settings) error {
	if s.db == nil {
		return ErrNotLoaded
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetSession() (models.SessionRecord, error) {
	if s.db == nil {
		return models.SessionRecord{}, ErrNotLoaded
	}
	rec := emptySession()

	rows, err := s.db.Query("SELECT slot, activities FROM timetables")
	if err != nil {
		return rec, err
	}
	for rows.Next() {
		var slot, data string
		if err := rows.Scan(&slot, &data); err != nil {
			rows.Close()
			return rec, err
		}
		tt, err := decodeTimetable(data)
		if err != nil {
			rows.Close()
			return rec, fmt.Errorf("timetable %s: %w", slot, err)
		}
		switch slot {
		case slotDefault:
			rec.Default = tt
		case slotCurrent:
			rec.Current = tt
		}
	}
	rows.Close()

	if rec.Undo, err = s.getStack(stackUndo); err != nil {
		return rec, err
	}
	if rec.Redo, err = s.getStack(stackRedo); err != nil {
		return rec, err
	}

	rows, err = s.db.Query("SELECT name, activities FROM templates")
	if err != nil {
		return rec, err
	}
	for rows.Next() {
		var name, data string
		if err := rows.Scan(&name, &data); err != nil {
			rows.Close()
			return rec, err
		}
		tt, err := decodeTimetable(data)
		if err != nil {
			rows.Close()
			return rec, fmt.Errorf("template %q: %w", name, err)
		}
		rec.Templates[name] = tt
	}
	rows.Close()

	rows, err = s.db.Query("SELECT date, template_name FROM day_overrides")
	if err != nil {
		return rec, err
	}
	for rows.Next() {
		var date, name string
		if err := rows.Scan(&date, &name); err != nil {
			rows.Close()
			return rec, err
		}
		rec.Overrides[date] = name
	}
	rows.Close()

	var minutes int
	err = s.db.QueryRow("SELECT minutes FROM clock WHERE id = 1").Scan(&minutes)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return rec, err
	default:
		rec.Clock = &minutes
	}

	return rec, nil
}

func (s *SQLiteStore) getStack(stack string) ([]models.Timetable, error) {
	rows, err := s.db.Query("SELECT activities FROM history WHERE stack = ? ORDER BY position", stack)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Timetable
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		tt, err := decodeTimetable(data)
		if err != nil {
			return nil, fmt.Errorf("%s history: %w", stack, err)
		}
		out = append(out, tt)
	}
	return out, rows.Err()
}

// SaveSession replaces the stored session in one transaction. Templates keep
// their updated_at timestamp unless their contents changed.
func (s *SQLiteStore) SaveSession(rec models.SessionRecord) error {
	if s.db == nil {
		return ErrNotLoaded
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for slot, tt := range map[string]models.Timetable{slotDefault: rec.Default, slotCurrent: rec.Current} {
		data, err := encodeTimetable(tt)
		if err != nil {
			return err
		}
		if _, err := tx.Exec("INSERT OR REPLACE INTO timetables (slot, activities) VALUES (?, ?)", slot, data); err != nil {
			return fmt.Errorf("failed to save %s timetable: %w", slot, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM history"); err != nil {
		return err
	}
	for stack, entries := range map[string][]models.Timetable{stackUndo: rec.Undo, stackRedo: rec.Redo} {
		for i, tt := range entries {
			data, err := encodeTimetable(tt)
			if err != nil {
				return err
			}
			if _, err := tx.Exec("INSERT INTO history (stack, position, activities) VALUES (?, ?, ?)", stack, i, data); err != nil {
				return fmt.Errorf("failed to save %s history: %w", stack, err)
			}
		}
	}

	if err := saveTemplates(tx, rec.Templates); err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM day_overrides"); err != nil {
		return err
	}
	for date, name := range rec.Overrides {
		if _, err := tx.Exec("INSERT INTO day_overrides (date, template_name) VALUES (?, ?)", date, name); err != nil {
			return fmt.Errorf("failed to save override for %s: %w", date, err)
		}
	}

	if rec.Clock == nil {
		_, err = tx.Exec("DELETE FROM clock")
	} else {
		_, err = tx.Exec("INSERT OR REPLACE INTO clock (id, minutes) VALUES (1, ?)", *rec.Clock)
	}
	if err != nil {
		return fmt.Errorf("failed to save clock: %w", err)
	}

	return tx.Commit()
}

func saveTemplates(tx *sql.Tx, templates map[string]models.Timetable) error {
	existing := make(map[string]string)
	rows, err := tx.Query("SELECT name, activities FROM templates")
	if err != nil {
		return err
	}
	for rows.Next() {
		var name, data string
		if err := rows.Scan(&name, &data); err != nil {
			rows.Close()
			return err
		}
		existing[name] = data
	}
	rows.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for name, tt := range templates {
		data, err := encodeTimetable(tt)
		if err != nil {
			return err
		}
		if prev, ok := existing[name]; ok && prev == data {
			delete(existing, name)
			continue
		}
		delete(existing, name)
		if _, err := tx.Exec("INSERT OR REPLACE INTO templates (name, activities, updated_at) VALUES (?, ?, ?)", name, data, now); err != nil {
			return fmt.Errorf("failed to save template %q: %w", name, err)
		}
	}
	for name := range existing {
		if _, err := tx.Exec("DELETE FROM templates WHERE name = ?", name); err != nil {
			return fmt.Errorf("failed to delete template %q: %w", name, err)
		}
	}
	return nil
}

func (s *SQLiteStore) AddSolveRecord(rec models.SolveRecord) error {
	if s.db == nil {
		return ErrNotLoaded
	}
	var clock sql.NullInt64
	if rec.Clock != nil {
		clock = sql.NullInt64{Int64: int64(*rec.Clock), Valid: true}
	}
	_, err := s.db.Exec(`
		INSERT INTO solve_runs (id, ran_at, status, score, candidates, evaluations, truncated, clock)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RanAt.UTC().Format(runTimeLayout), rec.Status, rec.Score,
		rec.Candidates, rec.Evaluations, rec.Truncated, clock,
	)
	if err != nil {
		return fmt.Errorf("failed to record solve run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetSolveRecords(limit int) ([]models.SolveRecord, error) {
	if s.db == nil {
		return nil, ErrNotLoaded
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT id, ran_at, status, score, candidates, evaluations, truncated, clock
		FROM solve_runs ORDER BY ran_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.SolveRecord
	for rows.Next() {
		var r models.SolveRecord
		var ranAt string
		var clock sql.NullInt64
		if err := rows.Scan(&r.ID, &ranAt, &r.Status, &r.Score, &r.Candidates, &r.Evaluations, &r.Truncated, &clock); err != nil {
			return nil, err
		}
		if r.RanAt, err = time.Parse(runTimeLayout, ranAt); err != nil {
			return nil, fmt.Errorf("invalid ran_at for run %s: %w", r.ID, err)
		}
		if clock.Valid {
			c := int(clock.Int64)
			r.Clock = &c
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func encodeTimetable(tt models.Timetable) (string, error) {
	if tt == nil {
		tt = models.Timetable{}
	}
	data, err := json.Marshal(tt)
	if err != nil {
		return "", fmt.Errorf("failed to encode timetable: %w", err)
	}
	return string(data), nil
}

func decodeTimetable(data string) (models.Timetable, error) {
	var tt models.Timetable
	if err := json.Unmarshal([]byte(data), &tt); err != nil {
		return nil, err
	}
	if tt == nil {
		tt = models.Timetable{}
	}
	return tt, nil
}
