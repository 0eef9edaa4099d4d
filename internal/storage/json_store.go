package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/julianstephens/replan/internal/models"
)

const jsonStoreVersion = 1

type document struct {
	Version  int                  `json:"version"`
	Settings models.Settings      `json:"settings"`
	Session  models.SessionRecord `json:"session"`
	Runs     []models.SolveRecord `json:"runs"`
}

// JSONStore keeps the whole database in one JSON file, rewritten on every save.
type JSONStore struct {
	path string
	doc  *document
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("%w at %s", ErrAlreadyInitialized, s.path)
	}

	s.doc = &document{
		Version:  jsonStoreVersion,
		Settings: DefaultSettings(),
		Session:  emptySession(),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > jsonStoreVersion {
		return fmt.Errorf("storage version (%d) is newer than supported version (%d) - please upgrade the application", doc.Version, jsonStoreVersion)
	}

	if doc.Session.Default == nil {
		doc.Session.Default = models.Timetable{}
	}
	if doc.Session.Current == nil {
		doc.Session.Current = models.Timetable{}
	}
	if doc.Session.Templates == nil {
		doc.Session.Templates = make(map[string]models.Timetable)
	}
	if doc.Session.Overrides == nil {
		doc.Session.Overrides = make(map[string]string)
	}
	models.ApplyDefaultSettings(&doc.Settings)

	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes to a temporary file and renames it over the store.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	if s.doc == nil {
		return models.Settings{}, ErrNotLoaded
	}
	return s.doc.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	s.doc.Settings = settings
	return s.save()
}

func (s *JSONStore) GetSession() (models.SessionRecord, error) {
	if s.doc == nil {
		return models.SessionRecord{}, ErrNotLoaded
	}
	// Round-trip through JSON for a deep copy.
	data, err := json.Marshal(s.doc.Session)
	if err != nil {
		return models.SessionRecord{}, err
	}
	rec := emptySession()
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.SessionRecord{}, err
	}
	return rec, nil
}

func (s *JSONStore) SaveSession(rec models.SessionRecord) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	s.doc.Session = rec
	return s.save()
}

func (s *JSONStore) AddSolveRecord(rec models.SolveRecord) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	s.doc.Runs = append(s.doc.Runs, rec)
	return s.save()
}

func (s *JSONStore) GetSolveRecords(limit int) ([]models.SolveRecord, error) {
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	records := make([]models.SolveRecord, len(s.doc.Runs))
	copy(records, s.doc.Runs)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RanAt.After(records[j].RanAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
