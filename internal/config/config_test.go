package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MinRowCount != 50 {
		t.Errorf("min_row_count = %d, want 50", c.MinRowCount)
	}
	if c.ServerAddr != ":8080" || c.MaxUploadMB != 100 || c.SessionTTLMin != 60 {
		t.Errorf("unexpected server defaults: %+v", c)
	}
	if c.LogLevel != "info" || c.LogFormat != "console" {
		t.Errorf("unexpected log defaults: %s/%s", c.LogLevel, c.LogFormat)
	}
	if c.MaxRows != 0 {
		t.Errorf("max_rows = %d, want 0", c.MaxRows)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("min_row_count: 10\nserver_addr: \":9000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SALESLOOM_MIN_ROW_COUNT", "20")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MinRowCount != 20 {
		t.Errorf("env should win: min_row_count = %d", c.MinRowCount)
	}
	if c.ServerAddr != ":9000" {
		t.Errorf("file should win over default: server_addr = %q", c.ServerAddr)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := Defaults()
	c.MinRowCount = 5
	c.DecimalSeparator = ","
	if err := Save(c, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.MinRowCount != 5 || got.DecimalSeparator != "," {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
