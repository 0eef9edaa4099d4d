package storage

import "github.com/julianstephens/replan/internal/models"

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Session (timetables, history, templates, overrides, clock)
	GetSession() (models.SessionRecord, error)
	SaveSession(models.SessionRecord) error

	// Solve audit log, newest first. limit <= 0 returns every record.
	AddSolveRecord(models.SolveRecord) error
	GetSolveRecords(limit int) ([]models.SolveRecord, error)

	// Utils
	GetConfigPath() string
}
