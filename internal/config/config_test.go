package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

// isolate points the user config and data dirs at a temp dir so a real
// config on the machine running the tests cannot leak in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{
		"TASKMAN_CONFIG", "TASKMAN_BACKEND", "TASKMAN_FILE", "TASKMAN_KEY",
		"TASKMAN_REDIS_ADDR", "TASKMAN_REDIS_PASSWORD", "TASKMAN_REDIS_DB", "TASKMAN_TIMEOUT",
		"TASKMAN_LOG_LEVEL", "TASKMAN_LOG_FORMAT", "TASKMAN_LOG_FILE",
		"TASKMAN_CATEGORY", "TASKMAN_PRIORITY", "TASKMAN_SORT", "TASKMAN_NOTIFICATION_SECONDS",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	return Load(flag.NewFlagSet("test", flag.ContinueOnError), args)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	is := is.New(t)
	dir := isolate(t)

	cfg, err := load(t)
	is.NoErr(err)
	is.Equal(cfg.File, "")
	is.Equal(cfg.Storage.Backend, "file")
	is.Equal(cfg.Storage.Key, DefaultKey)
	is.Equal(cfg.Storage.Path, filepath.Join(dir, "data", "taskman"))
	is.Equal(cfg.Storage.TimeoutSeconds, DefaultTimeoutSeconds)
	is.Equal(cfg.Log.Level, "info")
	is.Equal(cfg.Log.Format, "text")
	is.Equal(cfg.Log.File, filepath.Join(dir, "data", "taskman", "taskman.log"))
	is.Equal(cfg.UI.DefaultCategory, "personal")
	is.Equal(cfg.UI.DefaultPriority, "medium")
	is.Equal(cfg.UI.DefaultSort, "date")
	is.Equal(cfg.UI.NotificationSeconds, DefaultNotificationSeconds)
}

func TestPrecedence(t *testing.T) {
	is := is.New(t)
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config", "taskman", "config.toml"), `
[storage]
backend = "sqlite"
path = "/from/file.db"

[log]
level = "debug"
format = "json"

[ui]
default_priority = "high"
notification_seconds = 9
`)

	t.Run("file over defaults", func(t *testing.T) {
		is := is.New(t)
		cfg, err := load(t)
		is.NoErr(err)
		is.Equal(cfg.File, filepath.Join(dir, "config", "taskman", "config.toml"))
		is.Equal(cfg.Storage.Backend, "sqlite")
		is.Equal(cfg.Storage.Path, "/from/file.db")
		is.Equal(cfg.Log.Level, "debug")
		is.Equal(cfg.Log.Format, "json")
		is.Equal(cfg.UI.DefaultPriority, "high")
		is.Equal(cfg.UI.DefaultCategory, "personal") // untouched keys keep defaults
		is.Equal(cfg.UI.NotificationSeconds, 9)
	})

	t.Run("env over file", func(t *testing.T) {
		is := is.New(t)
		t.Setenv("TASKMAN_LOG_LEVEL", "warn")
		t.Setenv("TASKMAN_NOTIFICATION_SECONDS", "3")
		t.Setenv("TASKMAN_TIMEOUT", "not a number")
		cfg, err := load(t)
		is.NoErr(err)
		is.Equal(cfg.Log.Level, "warn")
		is.Equal(cfg.UI.NotificationSeconds, 3)
		is.Equal(cfg.Storage.TimeoutSeconds, DefaultTimeoutSeconds) // bad ints are ignored
	})

	t.Run("flags over env", func(t *testing.T) {
		is := is.New(t)
		t.Setenv("TASKMAN_LOG_LEVEL", "warn")
		t.Setenv("TASKMAN_BACKEND", "redis")
		cfg, err := load(t, "-log-level", "error", "-backend", "memory")
		is.NoErr(err)
		is.Equal(cfg.Log.Level, "error")
		is.Equal(cfg.Storage.Backend, "memory")
	})
}

func TestExplicitConfigFile(t *testing.T) {
	is := is.New(t)
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	writeFile(t, path, "[storage]\nkey = \"work\"\n")

	cfg, err := load(t, "-config", path)
	is.NoErr(err)
	is.Equal(cfg.File, path)
	is.Equal(cfg.Storage.Key, "work")

	cfg, err = load(t, "--config="+path)
	is.NoErr(err)
	is.Equal(cfg.Storage.Key, "work")

	_, err = load(t, "-config", filepath.Join(dir, "missing.toml"))
	is.True(err != nil) // a named file must exist

	writeFile(t, path, "[storage\n")
	_, err = load(t, "-config", path)
	is.True(err != nil)
}

func TestFileFlag(t *testing.T) {
	is := is.New(t)
	isolate(t)

	cfg, err := load(t, "-file", "/tmp/lists/home.json")
	is.NoErr(err)
	is.Equal(cfg.Storage.Path, "/tmp/lists")
	is.Equal(cfg.Storage.Key, "home")

	cfg, err = load(t, "-file", "/tmp/lists")
	is.NoErr(err)
	is.Equal(cfg.Storage.Path, "/tmp/lists")
	is.Equal(cfg.Storage.Key, DefaultKey)

	cfg, err = load(t, "-backend", "sqlite")
	is.NoErr(err)
	is.Equal(filepath.Base(cfg.Storage.Path), "taskman.db")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"unknown backend", []string{"-backend", "etcd"}, nil},
		{"unknown level", []string{"-log-level", "loud"}, nil},
		{"unknown format", nil, map[string]string{"TASKMAN_LOG_FORMAT": "xml"}},
		{"unknown category", nil, map[string]string{"TASKMAN_CATEGORY": "chores"}},
		{"unknown priority", nil, map[string]string{"TASKMAN_PRIORITY": "urgent"}},
		{"unknown sort", nil, map[string]string{"TASKMAN_SORT": "alphabetical"}},
		{"zero notification", nil, map[string]string{"TASKMAN_NOTIFICATION_SECONDS": "0"}},
		{"redis without address", []string{"-backend", "redis"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := load(t, tt.args...)
			is.True(err != nil)
		})
	}
}

func TestKVOptions(t *testing.T) {
	is := is.New(t)
	s := StorageConfig{Backend: "redis", RedisAddr: "localhost:6379", RedisDB: 2, Path: "x"}
	opts := s.KV()
	is.Equal(opts.Backend, "redis")
	is.Equal(opts.RedisAddr, "localhost:6379")
	is.Equal(opts.RedisDB, 2)
	is.Equal(opts.Path, "x")
}
