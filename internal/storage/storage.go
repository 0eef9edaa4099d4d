// Package storage persists replan sessions, settings and solve history in a
// SQLite database or, for paths ending in .json, a single JSON document.
package storage

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/julianstephens/replan/internal/constants"
	"github.com/julianstephens/replan/internal/models"
)

var (
	// ErrNotInitialized is returned by Load when no store exists at the path.
	ErrNotInitialized = errors.New("storage not initialized, run '" + constants.AppName + " init' first")
	// ErrNotLoaded is returned when a store is used before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrAlreadyInitialized is returned by Init when a store already exists.
	ErrAlreadyInitialized = errors.New("storage already initialized")
)

// New returns the provider matching the file extension of path.
func New(path string) Provider {
	if IsJSONPath(path) {
		return NewJSONStore(path)
	}
	return NewSQLiteStore(path)
}

// IsJSONPath reports whether path selects the JSON document store.
func IsJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// DefaultSettings returns the settings written by Init.
func DefaultSettings() models.Settings {
	var s models.Settings
	models.ApplyDefaultSettings(&s)
	return s
}

func emptySession() models.SessionRecord {
	return models.SessionRecord{
		Default:   models.Timetable{},
		Current:   models.Timetable{},
		Templates: map[string]models.Timetable{},
		Overrides: map[string]string{},
	}
}
