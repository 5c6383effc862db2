package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir changes the working directory for the duration of the test.
// Equivalent to t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	// No config file anywhere near a temp working directory.
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != filepath.Join("downloads", "compositions") {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Provider.Name != "ishares" || cfg.Provider.Country != "us" {
		t.Errorf("Provider = %+v", cfg.Provider)
	}
	if cfg.Provider.TimeoutSec != 30 || cfg.Provider.RateLimit != 2 {
		t.Errorf("Provider limits = %+v", cfg.Provider)
	}
	if cfg.Charts.Width != 800 || cfg.Charts.Height != 400 || cfg.Charts.Style != "bar" {
		t.Errorf("Charts = %+v", cfg.Charts)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
data_dir: /var/lib/etfcompo
provider:
  name: ishares
  country: de
  rate_limit: 5
charts:
  style: donut
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.DataDir != "/var/lib/etfcompo" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Provider.Country != "de" || cfg.Provider.RateLimit != 5 {
		t.Errorf("Provider = %+v", cfg.Provider)
	}
	if cfg.Charts.Style != "donut" {
		t.Errorf("Charts.Style = %q", cfg.Charts.Style)
	}
	// Unset keys keep their defaults.
	if cfg.Provider.TimeoutSec != 30 {
		t.Errorf("TimeoutSec = %d, want default 30", cfg.Provider.TimeoutSec)
	}
	if cfg.Charts.Width != 800 {
		t.Errorf("Charts.Width = %d, want default 800", cfg.Charts.Width)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ETFCOMPO_PROVIDER_COUNTRY", "gb")
	t.Setenv("ETFCOMPO_DATA_DIR", "/tmp/snapshots")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider.Country != "gb" {
		t.Errorf("Provider.Country = %q, want gb from env", cfg.Provider.Country)
	}
	if cfg.DataDir != "/tmp/snapshots" {
		t.Errorf("DataDir = %q, want /tmp/snapshots from env", cfg.DataDir)
	}
}
