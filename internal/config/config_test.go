package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadExpandsEnvMath(t *testing.T) {
	os.Setenv("SFSS_BASE_PORT", "8000")
	t.Cleanup(func() { os.Unsetenv("SFSS_BASE_PORT") })

	dir := t.TempDir()
	path := filepath.Join(dir, "kernel.json")
	body := `{"apps": 5, "sfss_port": ${SFSS_BASE_PORT+888}, "log_level": "INFO"}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load[Kernel](path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Apps != 5 {
		t.Errorf("Apps = %d, want 5", cfg.Apps)
	}
	if cfg.SfssPort != 8888 {
		t.Errorf("SfssPort = %d, want 8888", cfg.SfssPort)
	}
	if cfg.LogLevel != "INFO" {
		t.Errorf("LogLevel = %q, want INFO", cfg.LogLevel)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load[SFSS]("/nonexistent/path.json"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
