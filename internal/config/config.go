// Package config provides configuration management for sync-mcp using Viper.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/syncmcp/internal/errors"
	"github.com/thoreinstein/syncmcp/internal/paths"
)

// EnvPrefix is the prefix of environment variables that override config keys,
// e.g. SYNC_MCP_BACKUP_RETENTION.
const EnvPrefix = "SYNC_MCP"

// EnvConfigDir names the environment variable that replaces the default
// config directory.
const EnvConfigDir = EnvPrefix + "_CONFIG_DIR"

// Defaults applied when the config file omits a key.
const (
	DefaultVersion         = 1
	DefaultBackupRetention = 5
	DefaultWatchDebounce   = 300 * time.Millisecond
)

// Config represents the top-level configuration structure.
type Config struct {
	Version int                     `mapstructure:"version" yaml:"version"`
	Backup  BackupConfig            `mapstructure:"backup" yaml:"backup"`
	History HistoryConfig           `mapstructure:"history" yaml:"history"`
	Watch   WatchConfig             `mapstructure:"watch" yaml:"watch"`
	Tools   map[string]ToolOverride `mapstructure:"tools" yaml:"tools,omitempty"`
}

// BackupConfig controls the copies taken before a target file is overwritten.
type BackupConfig struct {
	// Enabled turns backups on. The --no-backup flag overrides it per run.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Retention is the number of backups kept per tool.
	Retention int `mapstructure:"retention" yaml:"retention"`

	// Dir replaces the default backup root.
	Dir string `mapstructure:"dir" yaml:"dir,omitempty"`
}

// HistoryConfig controls the sync journal.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Path replaces the default journal database location.
	Path string `mapstructure:"path" yaml:"path,omitempty"`
}

// WatchConfig controls sync --watch.
type WatchConfig struct {
	// Debounce is how long the source must stay quiet before a re-sync.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// ToolOverride contains configuration overrides for a specific tool.
type ToolOverride struct {
	// Path replaces the tool's default config file location.
	Path string `mapstructure:"path" yaml:"path"`
}

// Init resets Viper and registers search paths, environment binding and
// defaults. Call this once at application startup before Load.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(configDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("version", DefaultVersion)
	viper.SetDefault("backup.enabled", true)
	viper.SetDefault("backup.retention", DefaultBackupRetention)
	viper.SetDefault("backup.dir", "")
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.path", "")
	viper.SetDefault("watch.debounce", DefaultWatchDebounce)
}

// configDir returns the directory searched for config.yaml.
func configDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return paths.AppConfigDir()
}

// Load reads and validates the configuration file.
// If path is provided, it reads from that specific file and a missing file
// is an error. If path is empty, it searches the default locations and
// falls back to defaults when no file is found.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Implicit load without a file uses defaults
		case errors.As(err, &notFound), os.IsNotExist(err):
			return nil, errors.Wrapf(errors.ErrNotFound, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], "validating config")
	}

	return &cfg, nil
}

// Default returns a configuration holding only default values.
func Default() *Config {
	return &Config{
		Version: DefaultVersion,
		Backup: BackupConfig{
			Enabled:   true,
			Retention: DefaultBackupRetention,
		},
		History: HistoryConfig{Enabled: true},
		Watch:   WatchConfig{Debounce: DefaultWatchDebounce},
	}
}

// ToolPaths returns the configured path override per tool id.
func (c *Config) ToolPaths() map[string]string {
	out := make(map[string]string, len(c.Tools))
	for id, o := range c.Tools {
		if o.Path != "" {
			out[id] = o.Path
		}
	}
	return out
}

// BackupDir returns the backup root: the configured directory or
// <DataHome>/sync-mcp/backups.
func (c *Config) BackupDir() string {
	if c.Backup.Dir != "" {
		if dir, err := paths.Expand(c.Backup.Dir); err == nil {
			return dir
		}
	}
	return paths.BackupDir()
}

// HistoryPath returns the journal database path: the configured path or
// <StateHome>/sync-mcp/history.db.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		if p, err := paths.Expand(c.History.Path); err == nil {
			return p
		}
	}
	return paths.HistoryFile()
}
