package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hammamikhairi/meditime/internal/logger"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(WithSearchPaths(t.TempDir()), WithoutDotenv())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if filepath.Base(cfg.Path) != ".meditime" || !filepath.IsAbs(cfg.Path) {
		t.Fatalf("expected ~/.meditime expanded, got %q", cfg.Path)
	}
	if cfg.LogFile != filepath.Join(cfg.Path, "meditime.log") {
		t.Fatalf("unexpected log file %q", cfg.LogFile)
	}
	if cfg.LogLevel != logger.LevelNormal {
		t.Fatalf("expected normal level, got %s", cfg.LogLevel)
	}
	if cfg.Horizon != 24*time.Hour || cfg.Housekeeping != 15*time.Second {
		t.Fatalf("unexpected schedule settings %v / %v", cfg.Horizon, cfg.Housekeeping)
	}
	if !cfg.Notify.Desktop || !cfg.Notify.Sound || !cfg.Notify.Bell {
		t.Fatalf("expected all notify settings on, got %+v", cfg.Notify)
	}
	if cfg.File != "" {
		t.Fatalf("expected no config file, got %q", cfg.File)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`path: ` + filepath.Join(dir, "store") + `
log:
  level: verbose
  file: stderr
schedule:
  horizon: 48h
  housekeeping: 0s
notify:
  desktop: false
`)
	if err := os.WriteFile(filepath.Join(dir, ".meditime.yaml"), data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MEDITIME_NOTIFY_SOUND", "false")

	cfg, err := Load(WithSearchPaths(dir), WithoutDotenv())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Path != filepath.Join(dir, "store") {
		t.Fatalf("unexpected path %q", cfg.Path)
	}
	if cfg.LogLevel != logger.LevelVerbose || cfg.LogFile != LogToStderr {
		t.Fatalf("unexpected log settings %s %q", cfg.LogLevel, cfg.LogFile)
	}
	if cfg.Horizon != 48*time.Hour || cfg.Housekeeping != 0 {
		t.Fatalf("unexpected schedule settings %v / %v", cfg.Horizon, cfg.Housekeeping)
	}
	if cfg.Notify.Desktop || cfg.Notify.Sound || !cfg.Notify.Bell {
		t.Fatalf("unexpected notify settings %+v", cfg.Notify)
	}
	if cfg.File == "" {
		t.Fatal("expected config file to be reported")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"zero horizon":          "schedule:\n  horizon: 0s\n",
		"negative housekeeping": "schedule:\n  housekeeping: -1s\n",
		"broken yaml":           "schedule: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "custom.yaml")
			if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := Load(WithFile(file), WithoutDotenv()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
