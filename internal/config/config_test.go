package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if !cfg.Analysis.RetainImplicit {
		t.Error("RetainImplicit default = false, want true")
	}
	if cfg.Report.Format != "json" {
		t.Errorf("Report.Format = %q, want json", cfg.Report.Format)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".vestige"), 0755); err != nil {
		t.Fatal(err)
	}
	content := `{
  "version": 1,
  "workers": 4,
  "analysis": {
    "entryPoints": ["usr:app.main"],
    "ignoredUsrs": ["usr:generated.*"]
  },
  "report": {"format": "human", "limit": 25}
}`
	if err := os.WriteFile(filepath.Join(dir, ".vestige", "config.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if len(cfg.Analysis.EntryPoints) != 1 || cfg.Analysis.EntryPoints[0] != "usr:app.main" {
		t.Errorf("EntryPoints = %v", cfg.Analysis.EntryPoints)
	}
	if cfg.Report.Limit != 25 {
		t.Errorf("Report.Limit = %d, want 25", cfg.Report.Limit)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Workers = 8
	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Workers != 8 {
		t.Errorf("Workers = %d, want 8", loaded.Workers)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad version", func(c *Config) { c.Version = 2 }, true},
		{"negative workers", func(c *Config) { c.Workers = -1 }, true},
		{"bad glob", func(c *Config) { c.Analysis.EntryPoints = []string{"[unclosed"} }, true},
		{"bad report format", func(c *Config) { c.Report.Format = "xml" }, true},
		{"csv format", func(c *Config) { c.Report.Format = "csv" }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		patterns []string
		usr      string
		want     bool
	}{
		{[]string{"usr:app.*"}, "usr:app.main", true},
		{[]string{"usr:app.*"}, "usr:lib.helper", false},
		{[]string{"*main*"}, "usr:app.main", true},
		{[]string{}, "usr:anything", false},
		{[]string{"[bad"}, "usr:anything", false},
	}

	for _, tc := range tests {
		if got := MatchesAny(tc.patterns, tc.usr); got != tc.want {
			t.Errorf("MatchesAny(%v, %q) = %v, want %v", tc.patterns, tc.usr, got, tc.want)
		}
	}
}
