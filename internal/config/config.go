// Package config loads taskman settings from defaults, a TOML file, the
// environment and command line flags, in that order.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Sakshi-Pise24/task-manager/pkg/kv"
	"github.com/Sakshi-Pise24/task-manager/pkg/task"
)

const (
	DefaultKey                 = "tasks"
	DefaultTimeoutSeconds      = 5
	DefaultNotificationSeconds = 5
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "text"

	// LogStderr as log.file sends logs to stderr instead of a file.
	LogStderr = "-"
)

type Config struct {
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	UI      UIConfig      `toml:"ui"`

	// File is the config file that was read, empty if none was.
	File string `toml:"-"`
}

type StorageConfig struct {
	Backend        string `toml:"backend"`
	Path           string `toml:"path"`
	Key            string `toml:"key"`
	RedisAddr      string `toml:"redis_addr"`
	RedisPassword  string `toml:"redis_password"`
	RedisDB        int    `toml:"redis_db"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

type UIConfig struct {
	DefaultCategory     string `toml:"default_category"`
	DefaultPriority     string `toml:"default_priority"`
	DefaultSort         string `toml:"default_sort"`
	NotificationSeconds int    `toml:"notification_seconds"`
}

// KV returns the options for kv.Open.
func (s StorageConfig) KV() kv.Options {
	return kv.Options{
		Backend:       s.Backend,
		Path:          s.Path,
		RedisAddr:     s.RedisAddr,
		RedisPassword: s.RedisPassword,
		RedisDB:       s.RedisDB,
	}
}

// Load builds the configuration:
// 1. Defaults
// 2. Config file (-config, TASKMAN_CONFIG or <user config dir>/taskman/config.toml)
// 3. TASKMAN_* environment variables
// 4. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	if fs == nil {
		fs = flag.NewFlagSet("taskman", flag.ContinueOnError)
	}
	cfg := &Config{}
	setDefaults(cfg)

	path, explicit := configPath(args)
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
			cfg.File = path
		}
	}

	loadFromEnv(cfg)

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	finalize(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot use.
func (c *Config) Validate() error {
	if !contains(kv.Backends, c.Storage.Backend) {
		return fmt.Errorf("storage.backend: unknown backend %q (want one of %s)", c.Storage.Backend, strings.Join(kv.Backends, ", "))
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key: must not be empty")
	}
	if c.Storage.Backend == kv.BackendRedis && c.Storage.RedisAddr == "" {
		return fmt.Errorf("storage.redis_addr: required for the redis backend")
	}
	if c.Storage.TimeoutSeconds <= 0 {
		return fmt.Errorf("storage.timeout_seconds: must be positive, got %d", c.Storage.TimeoutSeconds)
	}
	if !contains([]string{"debug", "info", "warn", "warning", "error"}, c.Log.Level) {
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	if !contains([]string{"text", "json", "logfmt"}, c.Log.Format) {
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	if _, err := task.ParseCategory(c.UI.DefaultCategory); err != nil {
		return fmt.Errorf("ui.default_category: %w", err)
	}
	if _, err := task.ParsePriority(c.UI.DefaultPriority); err != nil {
		return fmt.Errorf("ui.default_priority: %w", err)
	}
	if _, err := task.ParseSortMode(c.UI.DefaultSort); err != nil {
		return fmt.Errorf("ui.default_sort: %w", err)
	}
	if c.UI.NotificationSeconds <= 0 {
		return fmt.Errorf("ui.notification_seconds: must be positive, got %d", c.UI.NotificationSeconds)
	}
	return nil
}

func setDefaults(cfg *Config) {
	cfg.Storage = StorageConfig{
		Backend:        kv.BackendFile,
		Key:            DefaultKey,
		TimeoutSeconds: DefaultTimeoutSeconds,
	}
	cfg.Log = LogConfig{
		Level:  DefaultLogLevel,
		Format: DefaultLogFormat,
	}
	cfg.UI = UIConfig{
		DefaultCategory:     string(task.Personal),
		DefaultPriority:     string(task.Medium),
		DefaultSort:         string(task.SortDate),
		NotificationSeconds: DefaultNotificationSeconds,
	}
}

// configPath finds the config file before flags are parsed, since the file
// has to be applied underneath them. explicit is set when the user named it.
func configPath(args []string) (path string, explicit bool) {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "config" {
			continue
		}
		if hasValue {
			return expandPath(value), true
		}
		if i+1 < len(args) {
			return expandPath(args[i+1]), true
		}
	}
	if v := os.Getenv("TASKMAN_CONFIG"); v != "" {
		return expandPath(v), true
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "taskman", "config.toml"), false
	}
	return "", false
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TASKMAN_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("TASKMAN_FILE"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("TASKMAN_KEY"); v != "" {
		cfg.Storage.Key = v
	}
	if v := os.Getenv("TASKMAN_REDIS_ADDR"); v != "" {
		cfg.Storage.RedisAddr = v
	}
	if v := os.Getenv("TASKMAN_REDIS_PASSWORD"); v != "" {
		cfg.Storage.RedisPassword = v
	}
	if v := os.Getenv("TASKMAN_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Storage.RedisDB = i
		}
	}
	if v := os.Getenv("TASKMAN_TIMEOUT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Storage.TimeoutSeconds = i
		}
	}

	if v := os.Getenv("TASKMAN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TASKMAN_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TASKMAN_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	if v := os.Getenv("TASKMAN_CATEGORY"); v != "" {
		cfg.UI.DefaultCategory = v
	}
	if v := os.Getenv("TASKMAN_PRIORITY"); v != "" {
		cfg.UI.DefaultPriority = v
	}
	if v := os.Getenv("TASKMAN_SORT"); v != "" {
		cfg.UI.DefaultSort = v
	}
	if v := os.Getenv("TASKMAN_NOTIFICATION_SECONDS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.UI.NotificationSeconds = i
		}
	}
}

func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	// already applied by configPath, registered so it parses
	var ignored string
	fs.StringVar(&ignored, "config", "", "Path to config file")

	fs.StringVar(&cfg.Storage.Path, "file", cfg.Storage.Path, "Path to task file (file backend) or database (sqlite backend)")
	fs.StringVar(&cfg.Storage.Backend, "backend", cfg.Storage.Backend, "Storage backend: "+strings.Join(kv.Backends, ", "))
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level: debug, info, warn, error")
	return fs.Parse(args)
}

// finalize fills in paths that depend on the chosen backend.
func finalize(cfg *Config) {
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	cfg.Storage.Path = expandPath(cfg.Storage.Path)

	switch cfg.Storage.Backend {
	case kv.BackendFile:
		// -file tasks.json names the blob itself: its directory holds the
		// store and its base name is the key.
		if ext := filepath.Ext(cfg.Storage.Path); ext == ".json" {
			cfg.Storage.Key = strings.TrimSuffix(filepath.Base(cfg.Storage.Path), ext)
			cfg.Storage.Path = filepath.Dir(cfg.Storage.Path)
		}
		if cfg.Storage.Path == "" {
			cfg.Storage.Path = DataDir()
		}
	case kv.BackendSQLite:
		if cfg.Storage.Path == "" {
			cfg.Storage.Path = filepath.Join(DataDir(), "taskman.db")
		}
	}

	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(DataDir(), "taskman.log")
	} else if cfg.Log.File != LogStderr {
		cfg.Log.File = expandPath(cfg.Log.File)
	}
}

// DataDir is where tasks and logs live unless configured otherwise:
// $XDG_DATA_HOME/taskman, falling back to ~/.local/share/taskman.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskman")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskman"
	}
	return filepath.Join(home, ".local", "share", "taskman")
}

func expandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
