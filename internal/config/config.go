// Package config loads application configuration from an optional YAML or
// JSON file with REPLAN_ environment overrides layered on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/julianstephens/replan/internal/constants"
	"github.com/julianstephens/replan/internal/search"
	"github.com/julianstephens/replan/internal/utils"
)

type Config struct {
	Database     string       `json:"database"`
	Debug        bool         `json:"debug"`
	LogDir       string       `json:"log_dir"`
	HistoryLimit int          `json:"history_limit"` // 0 keeps the full undo history
	Search       SearchConfig `json:"search"`
}

type SearchConfig struct {
	MaxShift       int `json:"max_shift"`
	Step           int `json:"step"`
	MaxCandidates  int `json:"max_candidates"`
	MaxEvaluations int `json:"max_evaluations"`
}

// Default returns the configuration used when no file or override is present.
func Default() Config {
	return Config{
		Database: constants.DefaultConfigPath,
		LogDir:   constants.DefaultLogDir,
		Search: SearchConfig{
			MaxShift:       constants.SearchMaxShift,
			Step:           constants.SearchStep,
			MaxCandidates:  constants.DefaultMaxCandidates,
			MaxEvaluations: constants.DefaultMaxEvaluations,
		},
	}
}

// Load reads path on top of the defaults and applies environment overrides.
// An empty path, or a missing file when optional is true, loads defaults and
// environment only.
func Load(path string, optional bool) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		expanded, err := utils.ExpandPath(path)
		if err != nil {
			return nil, err
		}
		if err := loadFile(k, expanded); err != nil {
			if !(optional && errors.Is(err, os.ErrNotExist)) {
				return nil, err
			}
		}
	}

	// REPLAN_SEARCH__MAX_CANDIDATES -> search.max_candidates
	prefix := strings.ToLower(constants.EnvPrefix)
	if err := k.Load(env.Provider(constants.EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), prefix)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	var parser koanf.Parser
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return nil
}

// Validate rejects values the solver cannot work with.
func (c Config) Validate() error {
	if c.Database == "" {
		return errors.New("database path must not be empty")
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative, got %d", c.HistoryLimit)
	}
	return c.Search.Validate()
}

func (s SearchConfig) Validate() error {
	if s.Step <= 0 {
		return fmt.Errorf("search.step must be positive, got %d", s.Step)
	}
	if s.MaxShift < 0 {
		return fmt.Errorf("search.max_shift must not be negative, got %d", s.MaxShift)
	}
	if s.MaxCandidates < 0 || s.MaxEvaluations < 0 {
		return errors.New("search caps must not be negative")
	}
	return nil
}

// Searcher builds the candidate searcher described by the search section.
func (s SearchConfig) Searcher() *search.Searcher {
	return search.New(search.Config{
		MaxShift:       s.MaxShift,
		Step:           s.Step,
		MaxCandidates:  s.MaxCandidates,
		MaxEvaluations: s.MaxEvaluations,
	})
}
