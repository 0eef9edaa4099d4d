package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/replan/internal/constants"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `database: /tmp/replan-test.db
debug: true
history_limit: 20
search:
  max_candidates: 100
  step: 10
`)

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"database", cfg.Database, "/tmp/replan-test.db"},
		{"debug", cfg.Debug, true},
		{"history_limit", cfg.HistoryLimit, 20},
		{"search.max_candidates", cfg.Search.MaxCandidates, 100},
		{"search.step", cfg.Search.Step, 10},
		{"search.max_shift default", cfg.Search.MaxShift, constants.SearchMaxShift},
		{"search.max_evaluations default", cfg.Search.MaxEvaluations, constants.DefaultMaxEvaluations},
		{"log_dir default", cfg.LogDir, constants.DefaultLogDir},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"database": "/tmp/replan.json", "search": {"max_shift": 30}}`)

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Database != "/tmp/replan.json" || cfg.Search.MaxShift != 30 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", "history_limit: 5\n")
	t.Setenv("REPLAN_HISTORY_LIMIT", "7")
	t.Setenv("REPLAN_SEARCH__MAX_CANDIDATES", "42")
	t.Setenv("REPLAN_DEBUG", "true")

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.HistoryLimit != 7 {
		t.Errorf("history_limit = %d, want 7", cfg.HistoryLimit)
	}
	if cfg.Search.MaxCandidates != 42 {
		t.Errorf("search.max_candidates = %d, want 42", cfg.Search.MaxCandidates)
	}
	if !cfg.Debug {
		t.Error("debug override not applied")
	}
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := Load(missing, true)
	if err != nil {
		t.Fatalf("optional missing file: %v", err)
	}
	if *cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}

	if _, err := Load(missing, false); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("required missing file error = %v, want ErrNotExist", err)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "config.toml", "debug = true\n")
	if _, err := Load(path, false); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty database", func(c *Config) { c.Database = "" }, true},
		{"negative history", func(c *Config) { c.HistoryLimit = -1 }, true},
		{"zero step", func(c *Config) { c.Search.Step = 0 }, true},
		{"negative shift", func(c *Config) { c.Search.MaxShift = -5 }, true},
		{"negative cap", func(c *Config) { c.Search.MaxEvaluations = -1 }, true},
		{"caps disabled", func(c *Config) { c.Search.MaxCandidates = 0; c.Search.MaxEvaluations = 0 }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestSearcherUsesConfig(t *testing.T) {
	sc := SearchConfig{MaxShift: 20, Step: 10, MaxCandidates: 3, MaxEvaluations: 9}
	got := sc.Searcher().Config()
	if got.MaxShift != 20 || got.Step != 10 || got.MaxCandidates != 3 || got.MaxEvaluations != 9 {
		t.Errorf("Searcher().Config() = %+v", got)
	}
}
