package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/syncmcp/internal/errors"
)

// isolate points the default config directory at an empty temp dir and
// runs the test from another one so no real config.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	t.Chdir(t.TempDir())
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInit(t *testing.T) {
	isolate(t)
	Init()

	if viper.GetInt("version") != 1 {
		t.Errorf("expected version default 1, got %d", viper.GetInt("version"))
	}
	if viper.GetInt("backup.retention") != DefaultBackupRetention {
		t.Errorf("expected backup.retention default %d, got %d", DefaultBackupRetention, viper.GetInt("backup.retention"))
	}
	if !viper.GetBool("history.enabled") {
		t.Error("expected history.enabled default true")
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	isolate(t)
	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}

	want := Default()
	if cfg.Version != want.Version || cfg.Backup != want.Backup || cfg.History != want.History || cfg.Watch != want.Watch {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `version: 1
backup:
  retention: 3
  enabled: false
history:
  enabled: false
watch:
  debounce: 1s
tools:
  codex:
    path: /srv/codex/config.toml
`)

	Init()
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Backup.Retention != 3 {
		t.Errorf("Backup.Retention = %d, want 3", cfg.Backup.Retention)
	}
	if cfg.Backup.Enabled {
		t.Error("Backup.Enabled = true, want false")
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Watch.Debounce = %v, want 1s", cfg.Watch.Debounce)
	}
	if got := cfg.ToolPaths()["codex"]; got != "/srv/codex/config.toml" {
		t.Errorf("ToolPaths()[codex] = %q", got)
	}
}

func TestLoad_DefaultLocation(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "backup:\n  retention: 9\n")

	Init()
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Backup.Retention != 9 {
		t.Errorf("Backup.Retention = %d, want 9 from %s", cfg.Backup.Retention, dir)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("SYNC_MCP_BACKUP_RETENTION", "12")

	Init()
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Backup.Retention != 12 {
		t.Errorf("Backup.Retention = %d, want 12 from environment", cfg.Backup.Retention)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	isolate(t)
	Init()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"unsupported version", "version: 2\n", ErrUnsupportedVersion},
		{"zero retention", "backup:\n  retention: 0\n", ErrInvalidRetention},
		{"unknown tool", "tools:\n  emacs:\n    path: /tmp/x\n", ErrInvalidTool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			path := writeConfig(t, t.TempDir(), tt.content)

			Init()
			_, err := Load(path)
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "backup: [unclosed\n")

	Init()
	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for malformed YAML")
	}
}

func TestInit_ClearsPreviousState(t *testing.T) {
	dirB := isolate(t)
	fileA := writeConfig(t, t.TempDir(), "backup:\n  retention: 2\n")

	Init()
	if _, err := Load(fileA); err != nil {
		t.Fatalf("first Load failed: %v", err)
	}

	writeConfig(t, dirB, "backup:\n  retention: 7\n")

	// Re-initializing must forget fileA.
	Init()
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if cfg.Backup.Retention != 7 {
		t.Errorf("Backup.Retention = %d, want 7 (still using %s?)", cfg.Backup.Retention, viper.ConfigFileUsed())
	}
}

func TestConfig_Directories(t *testing.T) {
	cfg := Default()
	if cfg.BackupDir() == "" || cfg.HistoryPath() == "" {
		t.Fatal("default directories should resolve")
	}

	custom := t.TempDir()
	cfg.Backup.Dir = custom
	cfg.History.Path = filepath.Join(custom, "h.db")
	if cfg.BackupDir() != custom {
		t.Errorf("BackupDir() = %q, want %q", cfg.BackupDir(), custom)
	}
	if cfg.HistoryPath() != filepath.Join(custom, "h.db") {
		t.Errorf("HistoryPath() = %q", cfg.HistoryPath())
	}
}
